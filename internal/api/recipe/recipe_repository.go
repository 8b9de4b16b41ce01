package recipe

import (
	"context"
	"encoding/json"
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

var _ RecipeRepo = (*PostgresRecipeRepo)(nil)

// pgxQuerier is the slice of the pgx pool API the repository uses, so a
// mock pool can stand in during tests.
type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// RecipeRepo defines the contract for recipe persistence.
type RecipeRepo interface {
	// SaveHistory stores a generation result and returns its ID.
	SaveHistory(ctx context.Context, userID uuid.UUID, recipe *types.RecipeDetail, mood types.Mood, ingredientsUsed []string, inputMethod string) (uuid.UUID, error)
	GetHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]types.RecipeHistoryItem, error)
	GetHistoryItem(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeHistoryItem, error)
	DeleteHistoryItem(ctx context.Context, userID, recipeID uuid.UUID) error
	// ToggleFavorite flips the favorite flag and reports the resulting state.
	ToggleFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
	GetFavorites(ctx context.Context, userID uuid.UUID) ([]types.RecipeHistoryItem, error)
	SaveMoodLog(ctx context.Context, userID uuid.UUID, mood types.Mood, notes *string) error
}

type PostgresRecipeRepo struct {
	logger *slog.Logger
	pgpool pgxQuerier
}

func NewPostgresRecipeRepo(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresRecipeRepo {
	return &PostgresRecipeRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

const historyColumns = `id, user_id, title, description, ingredients, instructions,
       prep_time, cook_time, total_time, servings, difficulty, cuisine_type,
       nutrition_info, tags, mood, ingredients_used, input_method, is_favorite,
       rating, notes, created_at`

func (r *PostgresRecipeRepo) SaveHistory(ctx context.Context, userID uuid.UUID, recipe *types.RecipeDetail, mood types.Mood, ingredientsUsed []string, inputMethod string) (uuid.UUID, error) {
	nutrition, err := json.Marshal(recipe.Nutrition)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal nutrition info: %w", err)
	}

	var id uuid.UUID
	err = r.pgpool.QueryRow(ctx, `
		INSERT INTO recipe_history
		    (user_id, title, description, ingredients, instructions,
		     prep_time, cook_time, total_time, servings, difficulty, cuisine_type,
		     nutrition_info, tags, mood, ingredients_used, input_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id`,
		userID, recipe.Title, recipe.Description, recipe.Ingredients, recipe.Instructions,
		recipe.PrepTime, recipe.CookTime, recipe.TotalTime, recipe.Servings,
		recipe.Difficulty, recipe.CuisineType, nutrition, recipe.Tags,
		mood, ingredientsUsed, inputMethod).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert recipe history: %w", err)
	}
	return id, nil
}

func (r *PostgresRecipeRepo) GetHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]types.RecipeHistoryItem, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.pgpool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM recipe_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, historyColumns),
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe history: %w", err)
	}
	defer rows.Close()

	return scanHistoryRows(rows)
}

func (r *PostgresRecipeRepo) GetHistoryItem(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeHistoryItem, error) {
	row := r.pgpool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM recipe_history
		WHERE id = $1 AND user_id = $2`, historyColumns),
		recipeID, userID)

	item, err := scanHistoryRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("recipe %s: %w", recipeID, types.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query recipe history item: %w", err)
	}
	return item, nil
}

func (r *PostgresRecipeRepo) DeleteHistoryItem(ctx context.Context, userID, recipeID uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx,
		"DELETE FROM recipe_history WHERE id = $1 AND user_id = $2",
		recipeID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete recipe history item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("recipe %s: %w", recipeID, types.ErrNotFound)
	}
	return nil
}

func (r *PostgresRecipeRepo) ToggleFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var isFavorite bool
	err := r.pgpool.QueryRow(ctx, `
		UPDATE recipe_history
		SET is_favorite = NOT is_favorite
		WHERE id = $1 AND user_id = $2
		RETURNING is_favorite`,
		recipeID, userID).Scan(&isFavorite)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, fmt.Errorf("recipe %s: %w", recipeID, types.ErrNotFound)
		}
		return false, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	return isFavorite, nil
}

func (r *PostgresRecipeRepo) GetFavorites(ctx context.Context, userID uuid.UUID) ([]types.RecipeHistoryItem, error) {
	rows, err := r.pgpool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM recipe_history
		WHERE user_id = $1 AND is_favorite = TRUE
		ORDER BY created_at DESC`, historyColumns),
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	return scanHistoryRows(rows)
}

func (r *PostgresRecipeRepo) SaveMoodLog(ctx context.Context, userID uuid.UUID, mood types.Mood, notes *string) error {
	_, err := r.pgpool.Exec(ctx,
		"INSERT INTO mood_logs (user_id, mood, notes) VALUES ($1, $2, $3)",
		userID, mood, notes)
	if err != nil {
		return fmt.Errorf("failed to insert mood log: %w", err)
	}
	return nil
}

func scanHistoryRows(rows pgx.Rows) ([]types.RecipeHistoryItem, error) {
	var items []types.RecipeHistoryItem
	for rows.Next() {
		item, err := scanHistoryRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe history row: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipe history rows: %w", err)
	}
	return items, nil
}

func scanHistoryRow(row pgx.Row) (*types.RecipeHistoryItem, error) {
	var item types.RecipeHistoryItem
	var nutrition []byte
	var createdAt time.Time

	err := row.Scan(&item.ID, &item.UserID,
		&item.Recipe.Title, &item.Recipe.Description,
		&item.Recipe.Ingredients, &item.Recipe.Instructions,
		&item.Recipe.PrepTime, &item.Recipe.CookTime, &item.Recipe.TotalTime,
		&item.Recipe.Servings, &item.Recipe.Difficulty, &item.Recipe.CuisineType,
		&nutrition, &item.Recipe.Tags,
		&item.Mood, &item.IngredientsUsed, &item.InputMethod,
		&item.IsFavorite, &item.Rating, &item.Notes, &createdAt)
	if err != nil {
		return nil, err
	}
	if len(nutrition) > 0 {
		if err := json.Unmarshal(nutrition, &item.Recipe.Nutrition); err != nil {
			return nil, fmt.Errorf("failed to unmarshal nutrition info: %w", err)
		}
	}
	item.CreatedAt = createdAt
	item.Recipe.GeneratedAt = createdAt
	return &item, nil
}
