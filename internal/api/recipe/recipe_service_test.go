package recipe

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
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-recipe-ai-suggestions/config"
	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/types"
)

// MockRecipeRepo is a mock implementation of RecipeRepo.
type MockRecipeRepo struct {
	mock.Mock
}

func (m *MockRecipeRepo) SaveHistory(ctx context.Context, userID uuid.UUID, recipe *types.RecipeDetail, mood types.Mood, ingredientsUsed []string, inputMethod string) (uuid.UUID, error) {
	args := m.Called(ctx, userID, recipe, mood, ingredientsUsed, inputMethod)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockRecipeRepo) GetHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]types.RecipeHistoryItem, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.RecipeHistoryItem), args.Error(1)
}

func (m *MockRecipeRepo) GetHistoryItem(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeHistoryItem, error) {
	args := m.Called(ctx, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeHistoryItem), args.Error(1)
}

func (m *MockRecipeRepo) DeleteHistoryItem(ctx context.Context, userID, recipeID uuid.UUID) error {
	args := m.Called(ctx, userID, recipeID)
	return args.Error(0)
}

func (m *MockRecipeRepo) ToggleFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, recipeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecipeRepo) GetFavorites(ctx context.Context, userID uuid.UUID) ([]types.RecipeHistoryItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.RecipeHistoryItem), args.Error(1)
}

func (m *MockRecipeRepo) SaveMoodLog(ctx context.Context, userID uuid.UUID, mood types.Mood, notes *string) error {
	args := m.Called(ctx, userID, mood, notes)
	return args.Error(0)
}

// MockAIClient is a mock implementation of generativeAI.Client.
type MockAIClient struct {
	mock.Mock
}

func (m *MockAIClient) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	args := m.Called(ctx, prompt, config)
	return args.String(0), args.Error(1)
}

func (m *MockAIClient) GenerateContentWithParts(ctx context.Context, parts []*genai.Part, config *genai.GenerateContentConfig) (string, error) {
	args := m.Called(ctx, parts, config)
	return args.String(0), args.Error(1)
}

func (m *MockAIClient) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func setupRecipeServiceTest(t *testing.T, initialized bool) (*MockRecipeRepo, *MockAIClient, *RecipeServiceImpl) {
	t.Helper()
	mockRepo := new(MockRecipeRepo)
	mockAI := new(MockAIClient)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.AIConfig{
		MaxRetries:        3,
		GenerationTimeout: 5 * time.Second,
		RetryBackoff:      time.Millisecond,
	}
	service := NewRecipeService(mockRepo, mockAI, cfg, nil, logger)
	if initialized {
		mockAI.On("Ping", mock.Anything).Return(nil).Once()
		service.Initialize(context.Background())
		require.True(t, service.Initialized())
	}
	return mockRepo, mockAI, service
}

func TestGenerateRecipe(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	req := types.GenerateRecipeRequest{
		Ingredients: []string{"chicken", "rice"},
		Mood:        types.MoodHappy,
	}

	t.Run("success on first attempt", func(t *testing.T) {
		mockRepo, mockAI, service := setupRecipeServiceTest(t, true)

		response := `{"title": "Lemon Chicken Rice", "ingredients": ["chicken", "rice"], "instructions": ["Cook it."]}`
		mockAI.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(response, nil).Once()
		mockRepo.On("SaveHistory", mock.Anything, userID, mock.Anything, types.MoodHappy, req.Ingredients, types.InputMethodManual).Return(uuid.New(), nil).Once()
		mockRepo.On("SaveMoodLog", mock.Anything, userID, types.MoodHappy, (*string)(nil)).Return(nil).Once()

		recipe, err := service.GenerateRecipe(ctx, userID, req, 3)

		require.NoError(t, err)
		assert.Equal(t, "Lemon Chicken Rice", recipe.Title)
		mockAI.AssertExpectations(t)
		mockRepo.AssertExpectations(t)
	})

	t.Run("retries then succeeds", func(t *testing.T) {
		mockRepo, mockAI, service := setupRecipeServiceTest(t, true)

		response := `{"title": "Second Try Stew", "ingredients": ["chicken"], "instructions": ["Stew it."]}`
		mockAI.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("model overloaded")).Once()
		mockAI.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(response, nil).Once()
		mockRepo.On("SaveHistory", mock.Anything, userID, mock.Anything, types.MoodHappy, req.Ingredients, types.InputMethodManual).Return(uuid.New(), nil).Once()
		mockRepo.On("SaveMoodLog", mock.Anything, userID, types.MoodHappy, (*string)(nil)).Return(nil).Once()

		recipe, err := service.GenerateRecipe(ctx, userID, req, 3)

		require.NoError(t, err)
		assert.Equal(t, "Second Try Stew", recipe.Title)
		mockAI.AssertNumberOfCalls(t, "GenerateContent", 2)
	})

	t.Run("fallback after retry budget exhausted", func(t *testing.T) {
		mockRepo, mockAI, service := setupRecipeServiceTest(t, true)

		mockAI.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("model overloaded")).Times(3)
		mockRepo.On("SaveHistory", mock.Anything, userID, mock.Anything, types.MoodHappy, req.Ingredients, types.InputMethodManual).Return(uuid.New(), nil).Once()
		mockRepo.On("SaveMoodLog", mock.Anything, userID, types.MoodHappy, (*string)(nil)).Return(nil).Once()

		recipe, err := service.GenerateRecipe(ctx, userID, req, 3)

		require.NoError(t, err)
		assert.Equal(t, "Cheerful Chicken Dish", recipe.Title)
		mockAI.AssertNumberOfCalls(t, "GenerateContent", 3)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unparsable responses count as failed attempts", func(t *testing.T) {
		mockRepo, mockAI, service := setupRecipeServiceTest(t, true)

		mockAI.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return("I am not JSON at all", nil).Times(3)
		mockRepo.On("SaveHistory", mock.Anything, userID, mock.Anything, types.MoodHappy, req.Ingredients, types.InputMethodManual).Return(uuid.New(), nil).Once()
		mockRepo.On("SaveMoodLog", mock.Anything, userID, types.MoodHappy, (*string)(nil)).Return(nil).Once()

		recipe, err := service.GenerateRecipe(ctx, userID, req, 3)

		require.NoError(t, err)
		assert.Equal(t, "Cheerful Chicken Dish", recipe.Title)
		mockAI.AssertNumberOfCalls(t, "GenerateContent", 3)
	})

	t.Run("uninitialized service skips the model entirely", func(t *testing.T) {
		mockRepo, mockAI, service := setupRecipeServiceTest(t, false)

		mockRepo.On("SaveHistory", mock.Anything, userID, mock.Anything, types.MoodHappy, req.Ingredients, types.InputMethodManual).Return(uuid.New(), nil).Once()
		mockRepo.On("SaveMoodLog", mock.Anything, userID, types.MoodHappy, (*string)(nil)).Return(nil).Once()

		recipe, err := service.GenerateRecipe(ctx, userID, req, 3)

		require.NoError(t, err)
		assert.Equal(t, "Cheerful Chicken Dish", recipe.Title)
		mockAI.AssertNotCalled(t, "GenerateContent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty ingredient list is rejected", func(t *testing.T) {
		mockRepo, mockAI, service := setupRecipeServiceTest(t, true)

		recipe, err := service.GenerateRecipe(ctx, userID, types.GenerateRecipeRequest{Mood: types.MoodHappy}, 3)

		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrBadRequest)
		assert.Nil(t, recipe)
		mockAI.AssertNotCalled(t, "GenerateContent", mock.Anything, mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "SaveHistory", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("persistence failures do not fail generation", func(t *testing.T) {
		mockRepo, mockAI, service := setupRecipeServiceTest(t, true)

		response := `{"title": "Sturdy Soup", "ingredients": ["chicken"], "instructions": ["Simmer."]}`
		mockAI.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(response, nil).Once()
		mockRepo.On("SaveHistory", mock.Anything, userID, mock.Anything, types.MoodHappy, req.Ingredients, types.InputMethodManual).Return(uuid.Nil, errors.New("db down")).Once()
		mockRepo.On("SaveMoodLog", mock.Anything, userID, types.MoodHappy, (*string)(nil)).Return(errors.New("db down")).Once()

		recipe, err := service.GenerateRecipe(ctx, userID, req, 3)

		require.NoError(t, err)
		assert.Equal(t, "Sturdy Soup", recipe.Title)
		mockRepo.AssertExpectations(t)
	})

	t.Run("identical request is served from cache", func(t *testing.T) {
		mockRepo, mockAI, service := setupRecipeServiceTest(t, true)

		response := `{"title": "Cached Curry", "ingredients": ["chicken"], "instructions": ["Cook."]}`
		mockAI.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(response, nil).Once()
		mockRepo.On("SaveHistory", mock.Anything, userID, mock.Anything, types.MoodHappy, req.Ingredients, types.InputMethodManual).Return(uuid.New(), nil).Twice()
		mockRepo.On("SaveMoodLog", mock.Anything, userID, types.MoodHappy, (*string)(nil)).Return(nil).Twice()

		first, err := service.GenerateRecipe(ctx, userID, req, 3)
		require.NoError(t, err)
		second, err := service.GenerateRecipe(ctx, userID, req, 3)
		require.NoError(t, err)

		assert.Equal(t, first.Title, second.Title)
		mockAI.AssertNumberOfCalls(t, "GenerateContent", 1)
		mockRepo.AssertExpectations(t)
	})
}

func TestGetHistory(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockRepo, _, service := setupRecipeServiceTest(t, false)
		expected := []types.RecipeHistoryItem{{ID: uuid.New(), UserID: userID}}
		mockRepo.On("GetHistory", ctx, userID, 20, 0).Return(expected, nil).Once()

		items, err := service.GetHistory(ctx, userID, 20, 0)

		require.NoError(t, err)
		assert.Equal(t, expected, items)
		mockRepo.AssertExpectations(t)
	})

	t.Run("repository error is wrapped", func(t *testing.T) {
		mockRepo, _, service := setupRecipeServiceTest(t, false)
		repoErr := errors.New("db error")
		mockRepo.On("GetHistory", ctx, userID, 20, 0).Return(nil, repoErr).Once()

		items, err := service.GetHistory(ctx, userID, 20, 0)

		require.Error(t, err)
		assert.ErrorIs(t, err, repoErr)
		assert.Nil(t, items)
	})
}

func TestGetHistoryItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	recipeID := uuid.New()

	t.Run("not found propagates", func(t *testing.T) {
		mockRepo, _, service := setupRecipeServiceTest(t, false)
		mockRepo.On("GetHistoryItem", ctx, userID, recipeID).Return(nil, types.ErrNotFound).Once()

		item, err := service.GetHistoryItem(ctx, userID, recipeID)

		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.Nil(t, item)
	})
}

func TestToggleFavorite(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	recipeID := uuid.New()

	t.Run("reports the new state", func(t *testing.T) {
		mockRepo, _, service := setupRecipeServiceTest(t, false)
		mockRepo.On("ToggleFavorite", ctx, userID, recipeID).Return(true, nil).Once()

		isFavorite, err := service.ToggleFavorite(ctx, userID, recipeID)

		require.NoError(t, err)
		assert.True(t, isFavorite)
		mockRepo.AssertExpectations(t)
	})
}

func TestDeleteHistoryItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	recipeID := uuid.New()

	t.Run("not found propagates", func(t *testing.T) {
		mockRepo, _, service := setupRecipeServiceTest(t, false)
		mockRepo.On("DeleteHistoryItem", ctx, userID, recipeID).Return(types.ErrNotFound).Once()

		err := service.DeleteHistoryItem(ctx, userID, recipeID)

		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}
