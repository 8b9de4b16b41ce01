package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/types"
)

var _ UserRepo = (*PostgresUserRepo)(nil)

// UserRepo defines the contract for user profile persistence.
type UserRepo interface {
	// GetUserByID retrieves a user's full profile by their unique ID.
	// Returns types.ErrNotFound if the user doesn't exist or is inactive.
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)

	// UpdateProfile updates mutable fields on a user's profile.
	// It takes the userID and a struct containing only the fields to be updated (use pointers).
	// Returns types.ErrNotFound if the user doesn't exist.
	UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) error

	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error

	// DeactivateUser marks a user as inactive (soft delete) and
	// revokes their refresh tokens.
	DeactivateUser(ctx context.Context, userID uuid.UUID) error
}

type PostgresUserRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresUserRepo(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresUserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	var user types.UserProfile
	query := `
		SELECT id, name, email, dietary_preferences, allergies, health_goals,
		       is_active, created_at, updated_at
		FROM users WHERE id = $1 AND is_active = TRUE
	`
	err := r.pgpool.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.DietaryPreferences,
		&user.Allergies,
		&user.HealthGoals,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

func (r *PostgresUserRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) error {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "UpdateProfile", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "users"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "UpdateProfile"), slog.String("userID", userID.String()))
	l.DebugContext(ctx, "Updating user profile")

	var setClauses []string
	var args []interface{}
	argID := 1

	if params.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argID))
		args = append(args, *params.Name)
		argID++
		span.SetAttributes(attribute.Bool("update.name", true))
	}
	if params.DietaryPreferences != nil {
		setClauses = append(setClauses, fmt.Sprintf("dietary_preferences = $%d", argID))
		args = append(args, *params.DietaryPreferences)
		argID++
		span.SetAttributes(attribute.Bool("update.dietary_preferences", true))
	}
	if params.Allergies != nil {
		setClauses = append(setClauses, fmt.Sprintf("allergies = $%d", argID))
		args = append(args, *params.Allergies)
		argID++
		span.SetAttributes(attribute.Bool("update.allergies", true))
	}
	if params.HealthGoals != nil {
		setClauses = append(setClauses, fmt.Sprintf("health_goals = $%d", argID))
		args = append(args, *params.HealthGoals)
		argID++
		span.SetAttributes(attribute.Bool("update.health_goals", true))
	}

	if len(setClauses) == 0 {
		l.WarnContext(ctx, "UpdateProfile called with no fields to update")
		span.SetStatus(codes.Ok, "No update fields provided")
		return nil
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argID))
	args = append(args, time.Now())
	argID++

	args = append(args, userID)

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d AND is_active = TRUE",
		strings.Join(setClauses, ", "),
		argID,
	)

	l.DebugContext(ctx, "Executing dynamic update query", slog.String("query", query), slog.Int("arg_count", len(args)))

	tag, err := r.pgpool.Exec(ctx, query, args...)
	if err != nil {
		l.ErrorContext(ctx, "Failed to execute update profile query", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("database error updating profile: %w", err)
	}

	if tag.RowsAffected() == 0 {
		l.WarnContext(ctx, "User not found or no update occurred")
		span.SetStatus(codes.Error, "User not found or no change")
		return fmt.Errorf("user not found for update: %w", types.ErrNotFound)
	}

	l.InfoContext(ctx, "User profile updated successfully")
	span.SetStatus(codes.Ok, "Profile updated")
	return nil
}

func (r *PostgresUserRepo) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	l := r.logger.With(slog.String("method", "ChangePassword"), slog.String("userID", userID.String()))

	var hashedPassword string
	err := r.pgpool.QueryRow(ctx,
		"SELECT password_hash FROM users WHERE id = $1 AND is_active = TRUE",
		userID).Scan(&hashedPassword)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
		}
		return fmt.Errorf("failed to query user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(oldPassword)); err != nil {
		return fmt.Errorf("invalid old password: %w", types.ErrUnauthenticated)
	}

	newHashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	_, err = r.pgpool.Exec(ctx,
		"UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3",
		string(newHashedPassword), time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// Existing refresh tokens are no longer trusted after a password change.
	_, err = r.pgpool.Exec(ctx,
		"UPDATE refresh_tokens SET revoked_at = $1 WHERE user_id = $2 AND revoked_at IS NULL",
		time.Now(), userID)
	if err != nil {
		l.WarnContext(ctx, "Failed to revoke refresh tokens after password change", slog.Any("error", err))
	}

	return nil
}

func (r *PostgresUserRepo) DeactivateUser(ctx context.Context, userID uuid.UUID) error {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "DeactivateUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "users"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "DeactivateUser"), slog.String("userID", userID.String()))
	l.DebugContext(ctx, "Deactivating user")

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB transaction failed")
		return fmt.Errorf("database error beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		"UPDATE users SET is_active = FALSE, updated_at = $1 WHERE id = $2 AND is_active = TRUE",
		time.Now(), userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			l.ErrorContext(ctx, "Database error deactivating user", slog.String("pg_code", pgErr.Code))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("database error deactivating user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "User not found")
		return fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
	}

	_, err = tx.Exec(ctx,
		"UPDATE refresh_tokens SET revoked_at = $1 WHERE user_id = $2 AND revoked_at IS NULL",
		time.Now(), userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to invalidate refresh tokens", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("database error invalidating refresh tokens: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		l.ErrorContext(ctx, "Failed to commit transaction", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB transaction commit failed")
		return fmt.Errorf("database error committing transaction: %w", err)
	}

	l.InfoContext(ctx, "User deactivated successfully")
	span.SetStatus(codes.Ok, "User deactivated")
	return nil
}
