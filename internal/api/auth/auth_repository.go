package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/types"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo defines the contract for credential and token persistence.
type AuthRepo interface {
	CreateUser(ctx context.Context, name, email, passwordHash string, dietaryPreferences, allergies, healthGoals []string) (uuid.UUID, error)
	GetUserByEmail(ctx context.Context, email string) (*types.UserProfile, error)
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	// GetRefreshToken returns the owning user and expiry for an
	// unrevoked token. Returns types.ErrUnauthenticated for unknown,
	// expired or revoked tokens.
	GetRefreshToken(ctx context.Context, token string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, token string) error
	InvalidateAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresAuthRepo(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresAuthRepo) CreateUser(ctx context.Context, name, email, passwordHash string, dietaryPreferences, allergies, healthGoals []string) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pgpool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, dietary_preferences, allergies, health_goals)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		name, email, passwordHash, dietaryPreferences, allergies, healthGoals).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return uuid.Nil, fmt.Errorf("email already registered: %w", types.ErrConflict)
		}
		return uuid.Nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.UserProfile, error) {
	var user types.UserProfile
	err := r.pgpool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, dietary_preferences, allergies, health_goals,
		       is_active, created_at, updated_at
		FROM users WHERE email = $1`,
		email).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.DietaryPreferences, &user.Allergies, &user.HealthGoals,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", email, types.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	return &user, nil
}

func (r *PostgresAuthRepo) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	_, err := r.pgpool.Exec(ctx,
		`INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1, $2, $3)`,
		userID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("store refresh token: db insert failed: %w", err)
	}
	return nil
}

func (r *PostgresAuthRepo) GetRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	var userID uuid.UUID
	var expiresAt time.Time
	var revokedAt *time.Time

	err := r.pgpool.QueryRow(ctx,
		`SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token = $1`,
		token).Scan(&userID, &expiresAt, &revokedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("unknown refresh token: %w", types.ErrUnauthenticated)
		}
		return uuid.Nil, fmt.Errorf("get refresh token: query failed: %w", err)
	}
	if time.Now().After(expiresAt) || revokedAt != nil {
		return uuid.Nil, fmt.Errorf("refresh token expired or revoked: %w", types.ErrUnauthenticated)
	}
	return userID, nil
}

func (r *PostgresAuthRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	tag, err := r.pgpool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = $1 WHERE token = $2 AND revoked_at IS NULL`,
		time.Now(), token)
	if err != nil {
		return fmt.Errorf("revoke refresh token: db update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Already revoked or unknown, not an error for logout.
		r.logger.Debug("No refresh token revoked", slog.String("token_prefix", tokenPrefix(token)))
	}
	return nil
}

func (r *PostgresAuthRepo) InvalidateAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pgpool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = $1 WHERE user_id = $2 AND revoked_at IS NULL`,
		time.Now(), userID)
	if err != nil {
		return fmt.Errorf("invalidate all tokens: db update failed: %w", err)
	}
	return nil
}

func tokenPrefix(token string) string {
	if len(token) > 8 {
		return token[:8]
	}
	return token
}
