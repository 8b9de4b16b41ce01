package recipe

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/types"
)

func setupRecipeRepoTest(t *testing.T) (pgxmock.PgxPoolIface, *PostgresRecipeRepo) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	repo := &PostgresRecipeRepo{
		logger: slog.New(slog.NewTextHandler(os.Stdout, nil)),
		pgpool: mockPool,
	}
	return mockPool, repo
}

func historyRow(t *testing.T, id, userID uuid.UUID, createdAt time.Time) []any {
	t.Helper()
	nutrition, err := json.Marshal(types.NutritionInfo{Calories: 400, Protein: 20})
	require.NoError(t, err)
	return []any{
		id, userID,
		"Tomato Soup", "Warming soup.",
		[]string{"4 tomatoes", "1 onion"}, []string{"Chop.", "Simmer."},
		10, 25, 35, 2, "easy", "home-style",
		nutrition, []string{"soup"},
		types.MoodSad, []string{"tomato", "onion"}, types.InputMethodManual,
		false, (*int)(nil), (*string)(nil), createdAt,
	}
}

var historyColumnNames = []string{
	"id", "user_id", "title", "description", "ingredients", "instructions",
	"prep_time", "cook_time", "total_time", "servings", "difficulty", "cuisine_type",
	"nutrition_info", "tags", "mood", "ingredients_used", "input_method", "is_favorite",
	"rating", "notes", "created_at",
}

func TestSaveHistory(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	recipeID := uuid.New()
	recipe := &types.RecipeDetail{
		Title:        "Tomato Soup",
		Description:  "Warming soup.",
		Ingredients:  []string{"4 tomatoes", "1 onion"},
		Instructions: []string{"Chop.", "Simmer."},
		PrepTime:     10, CookTime: 25, TotalTime: 35, Servings: 2,
		Difficulty:  "easy",
		CuisineType: "home-style",
		Nutrition:   types.NutritionInfo{Calories: 400},
		Tags:        []string{"soup"},
	}

	t.Run("returns the inserted id", func(t *testing.T) {
		mockPool, repo := setupRecipeRepoTest(t)
		nutrition, err := json.Marshal(recipe.Nutrition)
		require.NoError(t, err)

		mockPool.ExpectQuery("INSERT INTO recipe_history").
			WithArgs(userID, recipe.Title, recipe.Description, recipe.Ingredients, recipe.Instructions,
				recipe.PrepTime, recipe.CookTime, recipe.TotalTime, recipe.Servings,
				recipe.Difficulty, recipe.CuisineType, nutrition, recipe.Tags,
				types.MoodSad, []string{"tomato", "onion"}, types.InputMethodManual).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(recipeID))

		id, err := repo.SaveHistory(ctx, userID, recipe, types.MoodSad, []string{"tomato", "onion"}, types.InputMethodManual)

		require.NoError(t, err)
		assert.Equal(t, recipeID, id)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestGetHistoryItem_Repo(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	recipeID := uuid.New()
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("scans the full row", func(t *testing.T) {
		mockPool, repo := setupRecipeRepoTest(t)
		mockPool.ExpectQuery("SELECT (.+) FROM recipe_history").
			WithArgs(recipeID, userID).
			WillReturnRows(pgxmock.NewRows(historyColumnNames).
				AddRow(historyRow(t, recipeID, userID, createdAt)...))

		item, err := repo.GetHistoryItem(ctx, userID, recipeID)

		require.NoError(t, err)
		assert.Equal(t, recipeID, item.ID)
		assert.Equal(t, "Tomato Soup", item.Recipe.Title)
		assert.Equal(t, float64(400), item.Recipe.Nutrition.Calories)
		assert.Equal(t, types.MoodSad, item.Mood)
		assert.Equal(t, createdAt, item.CreatedAt)
		assert.Equal(t, createdAt, item.Recipe.GeneratedAt)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		mockPool, repo := setupRecipeRepoTest(t)
		mockPool.ExpectQuery("SELECT (.+) FROM recipe_history").
			WithArgs(recipeID, userID).
			WillReturnError(pgx.ErrNoRows)

		item, err := repo.GetHistoryItem(ctx, userID, recipeID)

		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.Nil(t, item)
	})
}

func TestGetHistory_Repo(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	createdAt := time.Now()

	t.Run("returns all pages rows", func(t *testing.T) {
		mockPool, repo := setupRecipeRepoTest(t)
		rows := pgxmock.NewRows(historyColumnNames).
			AddRow(historyRow(t, uuid.New(), userID, createdAt)...).
			AddRow(historyRow(t, uuid.New(), userID, createdAt.Add(-time.Hour))...)
		mockPool.ExpectQuery("SELECT (.+) FROM recipe_history").
			WithArgs(userID, 20, 0).
			WillReturnRows(rows)

		items, err := repo.GetHistory(ctx, userID, 20, 0)

		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("non positive limit defaults to ten", func(t *testing.T) {
		mockPool, repo := setupRecipeRepoTest(t)
		mockPool.ExpectQuery("SELECT (.+) FROM recipe_history").
			WithArgs(userID, 10, 0).
			WillReturnRows(pgxmock.NewRows(historyColumnNames))

		items, err := repo.GetHistory(ctx, userID, 0, 0)

		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestDeleteHistoryItem_Repo(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	recipeID := uuid.New()

	t.Run("deletes the row", func(t *testing.T) {
		mockPool, repo := setupRecipeRepoTest(t)
		mockPool.ExpectExec("DELETE FROM recipe_history").
			WithArgs(recipeID, userID).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		err := repo.DeleteHistoryItem(ctx, userID, recipeID)

		require.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("zero rows maps to not found", func(t *testing.T) {
		mockPool, repo := setupRecipeRepoTest(t)
		mockPool.ExpectExec("DELETE FROM recipe_history").
			WithArgs(recipeID, userID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.DeleteHistoryItem(ctx, userID, recipeID)

		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestToggleFavorite_Repo(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	recipeID := uuid.New()

	t.Run("returns the new state", func(t *testing.T) {
		mockPool, repo := setupRecipeRepoTest(t)
		mockPool.ExpectQuery("UPDATE recipe_history").
			WithArgs(recipeID, userID).
			WillReturnRows(pgxmock.NewRows([]string{"is_favorite"}).AddRow(true))

		isFavorite, err := repo.ToggleFavorite(ctx, userID, recipeID)

		require.NoError(t, err)
		assert.True(t, isFavorite)
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		mockPool, repo := setupRecipeRepoTest(t)
		mockPool.ExpectQuery("UPDATE recipe_history").
			WithArgs(recipeID, userID).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.ToggleFavorite(ctx, userID, recipeID)

		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestSaveMoodLog(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	mockPool, repo := setupRecipeRepoTest(t)
	mockPool.ExpectExec("INSERT INTO mood_logs").
		WithArgs(userID, types.MoodHappy, (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.SaveMoodLog(ctx, userID, types.MoodHappy, nil)

	require.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
