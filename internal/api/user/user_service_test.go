package user

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/types"
)

// MockUserRepo is a mock implementation of the UserRepo interface
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserProfile), args.Error(1)
}

func (m *MockUserRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) error {
	args := m.Called(ctx, userID, params)
	return args.Error(0)
}

func (m *MockUserRepo) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	args := m.Called(ctx, userID, oldPassword, newPassword)
	return args.Error(0)
}

func (m *MockUserRepo) DeactivateUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func setupUserServiceTest() (*MockUserRepo, *UserServiceImpl) {
	mockRepo := new(MockUserRepo)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	service := NewUserService(mockRepo, logger)
	return mockRepo, service
}

func TestGetUserProfile(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockRepo, service := setupUserServiceTest()
		expected := &types.UserProfile{
			ID:                 userID,
			Name:               "Test User",
			Email:              "test@example.com",
			DietaryPreferences: []string{"vegetarian"},
			Allergies:          []string{"peanuts"},
			IsActive:           true,
		}

		mockRepo.On("GetUserByID", ctx, userID).Return(expected, nil)

		profile, err := service.GetUserProfile(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, expected, profile)
		mockRepo.AssertExpectations(t)
	})

	t.Run("not found propagates sentinel", func(t *testing.T) {
		mockRepo, service := setupUserServiceTest()

		mockRepo.On("GetUserByID", ctx, userID).Return(nil, types.ErrNotFound)

		_, err := service.GetUserProfile(ctx, userID)

		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestUpdateUserProfile(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	name := "New Name"
	prefs := []string{"vegan"}

	t.Run("success", func(t *testing.T) {
		mockRepo, service := setupUserServiceTest()
		params := types.UpdateProfileParams{Name: &name, DietaryPreferences: &prefs}

		mockRepo.On("UpdateProfile", ctx, userID, params).Return(nil)

		err := service.UpdateUserProfile(ctx, userID, params)

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("repo error wrapped", func(t *testing.T) {
		mockRepo, service := setupUserServiceTest()
		repoErr := errors.New("db down")

		mockRepo.On("UpdateProfile", ctx, userID, mock.Anything).Return(repoErr)

		err := service.UpdateUserProfile(ctx, userID, types.UpdateProfileParams{Name: &name})

		require.Error(t, err)
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("wrong old password propagates sentinel", func(t *testing.T) {
		mockRepo, service := setupUserServiceTest()

		mockRepo.On("ChangePassword", ctx, userID, "wrong", "newpass123").Return(types.ErrUnauthenticated)

		err := service.ChangePassword(ctx, userID, "wrong", "newpass123")

		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
	})
}

func TestDeactivateUser(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	mockRepo, service := setupUserServiceTest()
	mockRepo.On("DeactivateUser", ctx, userID).Return(nil)

	err := service.DeactivateUser(ctx, userID)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
