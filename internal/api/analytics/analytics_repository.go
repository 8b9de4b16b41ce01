package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/types"
)

var _ AnalyticsRepo = (*PostgresAnalyticsRepo)(nil)

// AnalyticsRepo defines the contract for aggregate queries over a
// user's recipe and mood history.
type AnalyticsRepo interface {
	GetMoodTrends(ctx context.Context, userID uuid.UUID, days int) ([]types.MoodTrendPoint, error)
	GetIngredientStats(ctx context.Context, userID uuid.UUID, limit int) ([]types.IngredientUsage, error)
	GetRecipeCounts(ctx context.Context, userID uuid.UUID) (total, favorites int, err error)
	GetMostUsedCuisine(ctx context.Context, userID uuid.UUID) (string, error)
	GetAvgCookingTime(ctx context.Context, userID uuid.UUID) (float64, error)
	GetRecentRecipes(ctx context.Context, userID uuid.UUID, limit int) ([]types.RecipeHistoryItem, error)
}

type PostgresAnalyticsRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresAnalyticsRepo(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresAnalyticsRepo {
	return &PostgresAnalyticsRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresAnalyticsRepo) GetMoodTrends(ctx context.Context, userID uuid.UUID, days int) ([]types.MoodTrendPoint, error) {
	l := r.logger.With(slog.String("method", "GetMoodTrends"), slog.String("userID", userID.String()))
	l.DebugContext(ctx, "Querying mood trends", slog.Int("days", days))

	query := `
		SELECT to_char(created_at::date, 'YYYY-MM-DD') AS day, mood, COUNT(*)
		FROM mood_logs
		WHERE user_id = $1 AND created_at >= NOW() - ($2 || ' days')::interval
		GROUP BY day, mood
		ORDER BY day, mood`

	rows, err := r.pgpool.Query(ctx, query, userID, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query mood trends: %w", err)
	}
	defer rows.Close()

	var points []types.MoodTrendPoint
	for rows.Next() {
		var p types.MoodTrendPoint
		if err := rows.Scan(&p.Date, &p.Mood, &p.Count); err != nil {
			return nil, fmt.Errorf("failed to scan mood trend row: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading mood trend rows: %w", err)
	}

	l.DebugContext(ctx, "Fetched mood trends", slog.Int("count", len(points)))
	return points, nil
}

func (r *PostgresAnalyticsRepo) GetIngredientStats(ctx context.Context, userID uuid.UUID, limit int) ([]types.IngredientUsage, error) {
	l := r.logger.With(slog.String("method", "GetIngredientStats"), slog.String("userID", userID.String()))
	l.DebugContext(ctx, "Querying ingredient stats", slog.Int("limit", limit))

	query := `
		SELECT ingredient, COUNT(*) AS uses, MAX(created_at) AS last_used
		FROM recipe_history, unnest(ingredients_used) AS ingredient
		WHERE user_id = $1
		GROUP BY ingredient
		ORDER BY uses DESC, last_used DESC
		LIMIT $2`

	rows, err := r.pgpool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredient stats: %w", err)
	}
	defer rows.Close()

	var stats []types.IngredientUsage
	for rows.Next() {
		var s types.IngredientUsage
		if err := rows.Scan(&s.Ingredient, &s.Count, &s.LastUsed); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient stat row: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading ingredient stat rows: %w", err)
	}

	l.DebugContext(ctx, "Fetched ingredient stats", slog.Int("count", len(stats)))
	return stats, nil
}

func (r *PostgresAnalyticsRepo) GetRecipeCounts(ctx context.Context, userID uuid.UUID) (int, int, error) {
	var total, favorites int
	err := r.pgpool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_favorite)
		FROM recipe_history WHERE user_id = $1`,
		userID).Scan(&total, &favorites)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query recipe counts: %w", err)
	}
	return total, favorites, nil
}

func (r *PostgresAnalyticsRepo) GetMostUsedCuisine(ctx context.Context, userID uuid.UUID) (string, error) {
	var cuisine string
	err := r.pgpool.QueryRow(ctx, `
		SELECT cuisine_type FROM recipe_history
		WHERE user_id = $1
		GROUP BY cuisine_type
		ORDER BY COUNT(*) DESC, cuisine_type
		LIMIT 1`,
		userID).Scan(&cuisine)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to query most used cuisine: %w", err)
	}
	return cuisine, nil
}

func (r *PostgresAnalyticsRepo) GetAvgCookingTime(ctx context.Context, userID uuid.UUID) (float64, error) {
	var avg *float64
	err := r.pgpool.QueryRow(ctx, `
		SELECT AVG(total_time) FROM recipe_history WHERE user_id = $1`,
		userID).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("failed to query average cooking time: %w", err)
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func (r *PostgresAnalyticsRepo) GetRecentRecipes(ctx context.Context, userID uuid.UUID, limit int) ([]types.RecipeHistoryItem, error) {
	query := `
		SELECT id, user_id, title, description, ingredients, instructions,
		       prep_time, cook_time, total_time, servings, difficulty, cuisine_type,
		       nutrition_info, tags, mood, ingredients_used, input_method,
		       is_favorite, rating, notes, created_at
		FROM recipe_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pgpool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent recipes: %w", err)
	}
	defer rows.Close()

	var items []types.RecipeHistoryItem
	for rows.Next() {
		var item types.RecipeHistoryItem
		var nutrition []byte
		err := rows.Scan(
			&item.ID, &item.UserID, &item.Recipe.Title, &item.Recipe.Description,
			&item.Recipe.Ingredients, &item.Recipe.Instructions,
			&item.Recipe.PrepTime, &item.Recipe.CookTime, &item.Recipe.TotalTime,
			&item.Recipe.Servings, &item.Recipe.Difficulty, &item.Recipe.CuisineType,
			&nutrition, &item.Recipe.Tags,
			&item.Mood, &item.IngredientsUsed, &item.InputMethod,
			&item.IsFavorite, &item.Rating, &item.Notes, &item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recent recipe row: %w", err)
		}
		if len(nutrition) > 0 {
			if err := json.Unmarshal(nutrition, &item.Recipe.Nutrition); err != nil {
				return nil, fmt.Errorf("failed to unmarshal nutrition info: %w", err)
			}
		}
		item.Recipe.GeneratedAt = item.CreatedAt
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading recent recipe rows: %w", err)
	}
	return items, nil
}
