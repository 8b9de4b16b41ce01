package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-recipe-ai-suggestions/config"
	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the business logic contract for authentication.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (uuid.UUID, error)
	Login(ctx context.Context, email, password string) (*TokenResponse, error)
	RefreshSession(ctx context.Context, refreshToken string) (*TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	jwtCfg config.JWTConfig
}

func NewAuthService(repo AuthRepo, jwtCfg config.JWTConfig, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		jwtCfg: jwtCfg,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, req RegisterRequest) (uuid.UUID, error) {
	l := s.logger.With(slog.String("method", "Register"), slog.String("email", req.Email))
	l.DebugContext(ctx, "Registering user")

	minPassword := s.jwtCfg.MinPassword
	if minPassword <= 0 {
		minPassword = 8
	}
	if len(req.Password) < minPassword {
		return uuid.Nil, fmt.Errorf("password must be at least %d characters: %w", minPassword, types.ErrBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		l.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.repo.CreateUser(ctx, req.Name, req.Email, string(hash),
		req.DietaryPreferences, req.Allergies, req.HealthGoals)
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			l.WarnContext(ctx, "Email already registered")
			return uuid.Nil, err
		}
		l.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}

	l.InfoContext(ctx, "User registered", slog.String("userID", userID.String()))
	return userID, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	l := s.logger.With(slog.String("method", "Login"), slog.String("email", email))
	l.DebugContext(ctx, "Attempting login")

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			l.WarnContext(ctx, "Login for unknown email")
			return nil, fmt.Errorf("invalid credentials: %w", types.ErrUnauthenticated)
		}
		l.ErrorContext(ctx, "Failed to load user", slog.Any("error", err))
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		l.WarnContext(ctx, "Login for inactive user")
		return nil, fmt.Errorf("account disabled: %w", types.ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		l.WarnContext(ctx, "Password mismatch")
		return nil, fmt.Errorf("invalid credentials: %w", types.ErrUnauthenticated)
	}

	tokens, err := s.issueTokens(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	l.InfoContext(ctx, "Login successful", slog.String("userID", user.ID.String()))
	return tokens, nil
}

func (s *AuthServiceImpl) RefreshSession(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	l := s.logger.With(slog.String("method", "RefreshSession"))
	l.DebugContext(ctx, "Refreshing session")

	userID, err := s.repo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, types.ErrUnauthenticated) {
			l.WarnContext(ctx, "Invalid refresh token presented")
			return nil, err
		}
		l.ErrorContext(ctx, "Failed to look up refresh token", slog.Any("error", err))
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	// Rotate: the presented token is single use.
	if err := s.repo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		l.ErrorContext(ctx, "Failed to revoke refresh token", slog.Any("error", err))
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	tokens, err := s.issueTokens(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	l.InfoContext(ctx, "Session refreshed", slog.String("userID", userID.String()))
	return tokens, nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	l := s.logger.With(slog.String("method", "Logout"))

	if err := s.repo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		l.ErrorContext(ctx, "Failed to revoke refresh token", slog.Any("error", err))
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	l.InfoContext(ctx, "Logged out")
	return nil
}

func (s *AuthServiceImpl) issueTokens(ctx context.Context, userID uuid.UUID, email string) (*TokenResponse, error) {
	accessTTL := s.jwtCfg.AccessTTL
	if accessTTL <= 0 {
		accessTTL = 24 * time.Hour
	}
	refreshTTL := s.jwtCfg.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}

	now := time.Now()
	claims := types.Claims{
		UserID: userID.String(),
		Email:  email,
		Scope:  "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.jwtCfg.Issuer,
			Audience:  jwt.ClaimStrings{s.jwtCfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTTL)),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtCfg.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken := uuid.NewString()
	if err := s.repo.StoreRefreshToken(ctx, userID, refreshToken, now.Add(refreshTTL)); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}, nil
}
