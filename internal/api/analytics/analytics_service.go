package analytics

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/types"
)

const (
	defaultTrendDays     = 30
	maxTrendDays         = 365
	topIngredientsLimit  = 10
	recentRecipesLimit   = 5
	ingredientStatsLimit = 20
)

var _ AnalyticsService = (*AnalyticsServiceImpl)(nil)

// AnalyticsService defines the business logic contract for usage reports.
type AnalyticsService interface {
	GetMoodTrends(ctx context.Context, userID uuid.UUID, days int) ([]types.MoodTrendPoint, error)
	GetIngredientStats(ctx context.Context, userID uuid.UUID) ([]types.IngredientUsage, error)
	GetDashboard(ctx context.Context, userID uuid.UUID) (*types.DashboardStats, error)
}

type AnalyticsServiceImpl struct {
	logger *slog.Logger
	repo   AnalyticsRepo
}

func NewAnalyticsService(repo AnalyticsRepo, logger *slog.Logger) *AnalyticsServiceImpl {
	return &AnalyticsServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *AnalyticsServiceImpl) GetMoodTrends(ctx context.Context, userID uuid.UUID, days int) ([]types.MoodTrendPoint, error) {
	l := s.logger.With(slog.String("method", "GetMoodTrends"), slog.String("userID", userID.String()))

	if days <= 0 {
		days = defaultTrendDays
	}
	if days > maxTrendDays {
		days = maxTrendDays
	}

	points, err := s.repo.GetMoodTrends(ctx, userID, days)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch mood trends", slog.Any("error", err))
		return nil, fmt.Errorf("error fetching mood trends: %w", err)
	}
	if points == nil {
		points = []types.MoodTrendPoint{}
	}
	return points, nil
}

func (s *AnalyticsServiceImpl) GetIngredientStats(ctx context.Context, userID uuid.UUID) ([]types.IngredientUsage, error) {
	l := s.logger.With(slog.String("method", "GetIngredientStats"), slog.String("userID", userID.String()))

	stats, err := s.repo.GetIngredientStats(ctx, userID, ingredientStatsLimit)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch ingredient stats", slog.Any("error", err))
		return nil, fmt.Errorf("error fetching ingredient stats: %w", err)
	}
	if stats == nil {
		stats = []types.IngredientUsage{}
	}
	return stats, nil
}

// GetDashboard assembles the summary from independent aggregate
// queries, run concurrently.
func (s *AnalyticsServiceImpl) GetDashboard(ctx context.Context, userID uuid.UUID) (*types.DashboardStats, error) {
	ctx, span := otel.Tracer("AnalyticsService").Start(ctx, "GetDashboard", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GetDashboard"), slog.String("userID", userID.String()))
	l.DebugContext(ctx, "Assembling dashboard stats")

	var stats types.DashboardStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, favorites, err := s.repo.GetRecipeCounts(gctx, userID)
		if err != nil {
			return fmt.Errorf("recipe counts: %w", err)
		}
		stats.TotalRecipes = total
		stats.TotalFavorites = favorites
		return nil
	})
	g.Go(func() error {
		cuisine, err := s.repo.GetMostUsedCuisine(gctx, userID)
		if err != nil {
			return fmt.Errorf("most used cuisine: %w", err)
		}
		stats.MostUsedCuisine = cuisine
		return nil
	})
	g.Go(func() error {
		avg, err := s.repo.GetAvgCookingTime(gctx, userID)
		if err != nil {
			return fmt.Errorf("avg cooking time: %w", err)
		}
		stats.AvgCookingTime = avg
		return nil
	})
	g.Go(func() error {
		top, err := s.repo.GetIngredientStats(gctx, userID, topIngredientsLimit)
		if err != nil {
			return fmt.Errorf("top ingredients: %w", err)
		}
		stats.TopIngredients = top
		return nil
	})
	g.Go(func() error {
		recent, err := s.repo.GetRecentRecipes(gctx, userID, recentRecipesLimit)
		if err != nil {
			return fmt.Errorf("recent recipes: %w", err)
		}
		stats.RecentRecipes = recent
		return nil
	})

	if err := g.Wait(); err != nil {
		l.ErrorContext(ctx, "Failed to assemble dashboard", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Dashboard assembly failed")
		return nil, fmt.Errorf("error assembling dashboard: %w", err)
	}

	if stats.TopIngredients == nil {
		stats.TopIngredients = []types.IngredientUsage{}
	}
	if stats.RecentRecipes == nil {
		stats.RecentRecipes = []types.RecipeHistoryItem{}
	}

	span.SetStatus(codes.Ok, "Dashboard assembled")
	return &stats, nil
}
