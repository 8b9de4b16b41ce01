package analytics

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/types"
)

// MockAnalyticsRepo is a mock implementation of the AnalyticsRepo interface
type MockAnalyticsRepo struct {
	mock.Mock
}

func (m *MockAnalyticsRepo) GetMoodTrends(ctx context.Context, userID uuid.UUID, days int) ([]types.MoodTrendPoint, error) {
	args := m.Called(ctx, userID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.MoodTrendPoint), args.Error(1)
}

func (m *MockAnalyticsRepo) GetIngredientStats(ctx context.Context, userID uuid.UUID, limit int) ([]types.IngredientUsage, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.IngredientUsage), args.Error(1)
}

func (m *MockAnalyticsRepo) GetRecipeCounts(ctx context.Context, userID uuid.UUID) (int, int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockAnalyticsRepo) GetMostUsedCuisine(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockAnalyticsRepo) GetAvgCookingTime(ctx context.Context, userID uuid.UUID) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockAnalyticsRepo) GetRecentRecipes(ctx context.Context, userID uuid.UUID, limit int) ([]types.RecipeHistoryItem, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.RecipeHistoryItem), args.Error(1)
}

func setupAnalyticsServiceTest() (*MockAnalyticsRepo, *AnalyticsServiceImpl) {
	mockRepo := new(MockAnalyticsRepo)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	service := NewAnalyticsService(mockRepo, logger)
	return mockRepo, service
}

func TestGetMoodTrends(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("clamps window to defaults", func(t *testing.T) {
		mockRepo, service := setupAnalyticsServiceTest()
		points := []types.MoodTrendPoint{{Date: "2026-08-01", Mood: types.MoodHappy, Count: 3}}

		mockRepo.On("GetMoodTrends", mock.Anything, userID, defaultTrendDays).Return(points, nil)

		got, err := service.GetMoodTrends(ctx, userID, 0)

		require.NoError(t, err)
		assert.Equal(t, points, got)
		mockRepo.AssertExpectations(t)
	})

	t.Run("caps oversized window", func(t *testing.T) {
		mockRepo, service := setupAnalyticsServiceTest()

		mockRepo.On("GetMoodTrends", mock.Anything, userID, maxTrendDays).Return([]types.MoodTrendPoint{}, nil)

		_, err := service.GetMoodTrends(ctx, userID, 5000)

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("nil result becomes empty slice", func(t *testing.T) {
		mockRepo, service := setupAnalyticsServiceTest()

		mockRepo.On("GetMoodTrends", mock.Anything, userID, 7).Return(nil, nil)

		got, err := service.GetMoodTrends(ctx, userID, 7)

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestGetDashboard(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("assembles all aggregates", func(t *testing.T) {
		mockRepo, service := setupAnalyticsServiceTest()

		top := []types.IngredientUsage{{Ingredient: "tomato", Count: 4, LastUsed: time.Now()}}
		recent := []types.RecipeHistoryItem{{ID: uuid.New(), UserID: userID}}

		mockRepo.On("GetRecipeCounts", mock.Anything, userID).Return(12, 3, nil)
		mockRepo.On("GetMostUsedCuisine", mock.Anything, userID).Return("italian", nil)
		mockRepo.On("GetAvgCookingTime", mock.Anything, userID).Return(42.5, nil)
		mockRepo.On("GetIngredientStats", mock.Anything, userID, topIngredientsLimit).Return(top, nil)
		mockRepo.On("GetRecentRecipes", mock.Anything, userID, recentRecipesLimit).Return(recent, nil)

		stats, err := service.GetDashboard(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, 12, stats.TotalRecipes)
		assert.Equal(t, 3, stats.TotalFavorites)
		assert.Equal(t, "italian", stats.MostUsedCuisine)
		assert.Equal(t, 42.5, stats.AvgCookingTime)
		assert.Equal(t, top, stats.TopIngredients)
		assert.Equal(t, recent, stats.RecentRecipes)
		mockRepo.AssertExpectations(t)
	})

	t.Run("any aggregate failure fails the dashboard", func(t *testing.T) {
		mockRepo, service := setupAnalyticsServiceTest()
		repoErr := errors.New("db down")

		mockRepo.On("GetRecipeCounts", mock.Anything, userID).Return(0, 0, repoErr)
		mockRepo.On("GetMostUsedCuisine", mock.Anything, userID).Return("", nil).Maybe()
		mockRepo.On("GetAvgCookingTime", mock.Anything, userID).Return(0.0, nil).Maybe()
		mockRepo.On("GetIngredientStats", mock.Anything, userID, topIngredientsLimit).Return([]types.IngredientUsage{}, nil).Maybe()
		mockRepo.On("GetRecentRecipes", mock.Anything, userID, recentRecipesLimit).Return([]types.RecipeHistoryItem{}, nil).Maybe()

		_, err := service.GetDashboard(ctx, userID)

		require.Error(t, err)
		assert.ErrorIs(t, err, repoErr)
	})

	t.Run("empty account yields zeroed summary", func(t *testing.T) {
		mockRepo, service := setupAnalyticsServiceTest()

		mockRepo.On("GetRecipeCounts", mock.Anything, userID).Return(0, 0, nil)
		mockRepo.On("GetMostUsedCuisine", mock.Anything, userID).Return("", nil)
		mockRepo.On("GetAvgCookingTime", mock.Anything, userID).Return(0.0, nil)
		mockRepo.On("GetIngredientStats", mock.Anything, userID, topIngredientsLimit).Return(nil, nil)
		mockRepo.On("GetRecentRecipes", mock.Anything, userID, recentRecipesLimit).Return(nil, nil)

		stats, err := service.GetDashboard(ctx, userID)

		require.NoError(t, err)
		assert.Zero(t, stats.TotalRecipes)
		assert.NotNil(t, stats.TopIngredients)
		assert.NotNil(t, stats.RecentRecipes)
	})
}
