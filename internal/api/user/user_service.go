package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/types"
)

// Ensure implementation satisfies the interface
var _ UserService = (*UserServiceImpl)(nil)

// UserService defines the business logic contract for user operations.
type UserService interface {
	GetUserProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
	UpdateUserProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) error
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
	DeactivateUser(ctx context.Context, userID uuid.UUID) error
}

// UserServiceImpl provides the implementation for UserService.
type UserServiceImpl struct {
	logger *slog.Logger
	repo   UserRepo
}

// NewUserService creates a new user service instance.
func NewUserService(repo UserRepo, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// GetUserProfile retrieves a user's profile by ID.
func (s *UserServiceImpl) GetUserProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	l := s.logger.With(slog.String("method", "GetUserProfile"), slog.String("userID", userID.String()))
	l.DebugContext(ctx, "Fetching user profile")

	profile, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch user profile", slog.Any("error", err))
		return nil, fmt.Errorf("error fetching user profile: %w", err)
	}

	l.DebugContext(ctx, "User profile fetched successfully")
	return profile, nil
}

// UpdateUserProfile updates a user's profile.
func (s *UserServiceImpl) UpdateUserProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) error {
	l := s.logger.With(slog.String("method", "UpdateUserProfile"), slog.String("userID", userID.String()))
	l.DebugContext(ctx, "Updating user profile")

	err := s.repo.UpdateProfile(ctx, userID, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to update user profile", slog.Any("error", err))
		return fmt.Errorf("error updating user profile: %w", err)
	}

	l.InfoContext(ctx, "User profile updated successfully")
	return nil
}

// ChangePassword verifies the old password and stores a new hash.
func (s *UserServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	l := s.logger.With(slog.String("method", "ChangePassword"), slog.String("userID", userID.String()))
	l.DebugContext(ctx, "Changing user password")

	if err := s.repo.ChangePassword(ctx, userID, oldPassword, newPassword); err != nil {
		l.ErrorContext(ctx, "Failed to change password", slog.Any("error", err))
		return fmt.Errorf("error changing password: %w", err)
	}

	l.InfoContext(ctx, "Password changed successfully")
	return nil
}

// DeactivateUser soft-deletes the account.
func (s *UserServiceImpl) DeactivateUser(ctx context.Context, userID uuid.UUID) error {
	l := s.logger.With(slog.String("method", "DeactivateUser"), slog.String("userID", userID.String()))
	l.DebugContext(ctx, "Deactivating user")

	if err := s.repo.DeactivateUser(ctx, userID); err != nil {
		l.ErrorContext(ctx, "Failed to deactivate user", slog.Any("error", err))
		return fmt.Errorf("error deactivating user: %w", err)
	}

	l.InfoContext(ctx, "User deactivated successfully")
	return nil
}
