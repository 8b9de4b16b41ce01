package recipe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-recipe-ai-suggestions/app/observability/metrics"
	"github.com/FACorreiaa/go-recipe-ai-suggestions/config"
	generativeAI "github.com/FACorreiaa/go-recipe-ai-suggestions/internal/api/generative_ai"
	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/types"
)

var _ RecipeService = (*RecipeServiceImpl)(nil)

// RecipeService defines the business logic contract for recipe operations.
type RecipeService interface {
	GenerateRecipe(ctx context.Context, userID uuid.UUID, req types.GenerateRecipeRequest, maxRetries int) (*types.RecipeDetail, error)
	GetHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]types.RecipeHistoryItem, error)
	GetHistoryItem(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeHistoryItem, error)
	DeleteHistoryItem(ctx context.Context, userID, recipeID uuid.UUID) error
	ToggleFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
	GetFavorites(ctx context.Context, userID uuid.UUID) ([]types.RecipeHistoryItem, error)
	Initialized() bool
}

// RecipeServiceImpl provides the implementation for RecipeService.
//
// The initialized flag is written exactly once by Initialize before the
// server starts accepting requests, and only read afterwards. While the
// flag is false every generation request short-circuits to the fallback
// synthesizer.
type RecipeServiceImpl struct {
	logger      *slog.Logger
	repo        RecipeRepo
	aiClient    generativeAI.Client
	cache       *cache.Cache
	cfg         config.AIConfig
	metrics     *metrics.AppMetrics
	initialized bool
}

// NewRecipeService creates a new recipe service instance. The metrics
// argument may be nil.
func NewRecipeService(repo RecipeRepo, aiClient generativeAI.Client, cfg config.AIConfig, m *metrics.AppMetrics, logger *slog.Logger) *RecipeServiceImpl {
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}
	return &RecipeServiceImpl{
		logger:   logger,
		repo:     repo,
		aiClient: aiClient,
		cache:    cache.New(cacheTTL, 1*time.Hour),
		cfg:      cfg,
		metrics:  m,
	}
}

// Initialize probes the model once at startup. When the probe fails the
// service stays in degraded mode for the process lifetime and serves
// fallback recipes only.
func (s *RecipeServiceImpl) Initialize(ctx context.Context) {
	l := s.logger.With(slog.String("method", "Initialize"))
	if err := s.aiClient.Ping(ctx); err != nil {
		l.WarnContext(ctx, "Recipe AI unavailable, running in fallback-only mode", slog.Any("error", err))
		return
	}
	s.initialized = true
	l.InfoContext(ctx, "Recipe AI service initialized")
}

func (s *RecipeServiceImpl) Initialized() bool {
	return s.initialized
}

func recipeGenerationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.7),
		TopP:            genai.Ptr[float32](0.8),
		TopK:            genai.Ptr[float32](40),
		MaxOutputTokens: 2048,
	}
}

func generateCacheKey(req types.GenerateRecipeRequest) string {
	return fmt.Sprintf("recipe:%s:%s:%s:%s:%s",
		req.Mood, req.CuisinePreference,
		strings.Join(req.Ingredients, ","),
		strings.Join(req.DietaryPreferences, ","),
		strings.Join(req.Allergies, ","))
}

// GenerateRecipe turns a set of ingredients and a mood into a full recipe.
// It fails only on an empty ingredient list; model errors, timeouts and
// unparsable responses all degrade to the deterministic fallback after the
// retry budget is spent.
func (s *RecipeServiceImpl) GenerateRecipe(ctx context.Context, userID uuid.UUID, req types.GenerateRecipeRequest, maxRetries int) (*types.RecipeDetail, error) {
	ctx, span := otel.Tracer("RecipeService").Start(ctx, "GenerateRecipe", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("recipe.mood", string(req.Mood)),
		attribute.Int("recipe.ingredient_count", len(req.Ingredients)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GenerateRecipe"), slog.String("userID", userID.String()))

	if len(req.Ingredients) == 0 {
		err := fmt.Errorf("at least one ingredient is required: %w", types.ErrBadRequest)
		span.RecordError(err)
		span.SetStatus(codes.Error, "No ingredients provided")
		return nil, err
	}

	if maxRetries <= 0 {
		maxRetries = s.cfg.MaxRetries
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}

	if !s.initialized {
		l.WarnContext(ctx, "Recipe AI not initialized, serving fallback recipe")
		recipe := synthesizeFallbackRecipe(req.Ingredients, req.Mood)
		s.recordFallback(ctx)
		s.persistGeneration(ctx, userID, recipe, req)
		span.SetStatus(codes.Ok, "Fallback recipe served")
		return recipe, nil
	}

	cacheKey := generateCacheKey(req)
	if cached, found := s.cache.Get(cacheKey); found {
		if recipe, ok := cached.(*types.RecipeDetail); ok {
			l.DebugContext(ctx, "Returning cached recipe", slog.String("title", recipe.Title))
			s.persistGeneration(ctx, userID, recipe, req)
			span.SetStatus(codes.Ok, "Cached recipe served")
			return recipe, nil
		}
	}

	prompt := buildRecipePrompt(req)
	genConfig := recipeGenerationConfig()
	start := time.Now()

	var recipe *types.RecipeDetail
	for attempt := 1; attempt <= maxRetries; attempt++ {
		l.DebugContext(ctx, "Recipe generation attempt",
			slog.Int("attempt", attempt), slog.Int("max_retries", maxRetries))

		genCtx, cancel := context.WithTimeout(ctx, s.generationTimeout())
		response, err := s.aiClient.GenerateContent(genCtx, prompt, genConfig)
		cancel()

		switch {
		case err != nil:
			l.WarnContext(ctx, "Recipe generation attempt failed",
				slog.Int("attempt", attempt), slog.Any("error", err))
		case strings.TrimSpace(response) == "":
			l.WarnContext(ctx, "Empty response from model", slog.Int("attempt", attempt))
		default:
			parsed, perr := parseRecipeResponse(response)
			if perr != nil {
				l.WarnContext(ctx, "Failed to parse recipe response",
					slog.Int("attempt", attempt), slog.Any("error", perr))
			} else {
				recipe = parsed
			}
		}
		if recipe != nil {
			break
		}

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				l.WarnContext(ctx, "Context cancelled during retry wait, serving fallback")
				recipe = synthesizeFallbackRecipe(req.Ingredients, req.Mood)
			case <-time.After(s.retryBackoff()):
			}
		}
		if recipe != nil {
			break
		}
	}

	if recipe == nil {
		l.WarnContext(ctx, "All generation attempts exhausted, serving fallback recipe",
			slog.Int("attempts", maxRetries))
		recipe = synthesizeFallbackRecipe(req.Ingredients, req.Mood)
		s.recordFallback(ctx)
	} else {
		s.cache.Set(cacheKey, recipe, cache.DefaultExpiration)
		if s.metrics != nil {
			s.metrics.RecipeGenerationsTotal.Add(ctx, 1)
			s.metrics.RecipeGenerationDurationSeconds.Record(ctx, time.Since(start).Seconds())
		}
	}

	s.persistGeneration(ctx, userID, recipe, req)

	l.InfoContext(ctx, "Recipe generated", slog.String("title", recipe.Title),
		slog.Duration("duration", time.Since(start)))
	span.SetStatus(codes.Ok, "Recipe generated")
	return recipe, nil
}

func (s *RecipeServiceImpl) generationTimeout() time.Duration {
	if s.cfg.GenerationTimeout > 0 {
		return s.cfg.GenerationTimeout
	}
	return 120 * time.Second
}

func (s *RecipeServiceImpl) retryBackoff() time.Duration {
	if s.cfg.RetryBackoff > 0 {
		return s.cfg.RetryBackoff
	}
	return 1 * time.Second
}

func (s *RecipeServiceImpl) recordFallback(ctx context.Context) {
	if s.metrics != nil {
		s.metrics.RecipeFallbacksTotal.Add(ctx, 1)
	}
}

// persistGeneration saves the history entry and mood log. Failures are
// logged and swallowed, a persistence problem never fails the generation.
func (s *RecipeServiceImpl) persistGeneration(ctx context.Context, userID uuid.UUID, recipe *types.RecipeDetail, req types.GenerateRecipeRequest) {
	l := s.logger.With(slog.String("method", "persistGeneration"), slog.String("userID", userID.String()))

	if _, err := s.repo.SaveHistory(ctx, userID, recipe, req.Mood, req.Ingredients, types.InputMethodManual); err != nil {
		l.WarnContext(ctx, "Failed to save recipe history", slog.Any("error", err))
	}
	if err := s.repo.SaveMoodLog(ctx, userID, req.Mood, nil); err != nil {
		l.WarnContext(ctx, "Failed to save mood log", slog.Any("error", err))
	}
}

// GetHistory retrieves a page of the user's generated recipes.
func (s *RecipeServiceImpl) GetHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]types.RecipeHistoryItem, error) {
	l := s.logger.With(slog.String("method", "GetHistory"), slog.String("userID", userID.String()))
	l.DebugContext(ctx, "Fetching recipe history", slog.Int("limit", limit), slog.Int("offset", offset))

	items, err := s.repo.GetHistory(ctx, userID, limit, offset)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch recipe history", slog.Any("error", err))
		return nil, fmt.Errorf("error fetching recipe history: %w", err)
	}
	return items, nil
}

// GetHistoryItem retrieves one history entry owned by the user.
func (s *RecipeServiceImpl) GetHistoryItem(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeHistoryItem, error) {
	l := s.logger.With(slog.String("method", "GetHistoryItem"), slog.String("recipeID", recipeID.String()))
	l.DebugContext(ctx, "Fetching recipe history item")

	item, err := s.repo.GetHistoryItem(ctx, userID, recipeID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch recipe history item", slog.Any("error", err))
		return nil, fmt.Errorf("error fetching recipe history item: %w", err)
	}
	return item, nil
}

// DeleteHistoryItem removes one history entry owned by the user.
func (s *RecipeServiceImpl) DeleteHistoryItem(ctx context.Context, userID, recipeID uuid.UUID) error {
	l := s.logger.With(slog.String("method", "DeleteHistoryItem"), slog.String("recipeID", recipeID.String()))
	l.DebugContext(ctx, "Deleting recipe history item")

	if err := s.repo.DeleteHistoryItem(ctx, userID, recipeID); err != nil {
		l.ErrorContext(ctx, "Failed to delete recipe history item", slog.Any("error", err))
		return fmt.Errorf("error deleting recipe history item: %w", err)
	}
	l.InfoContext(ctx, "Recipe history item deleted")
	return nil
}

// ToggleFavorite flips the favorite state of a history entry.
func (s *RecipeServiceImpl) ToggleFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	l := s.logger.With(slog.String("method", "ToggleFavorite"), slog.String("recipeID", recipeID.String()))
	l.DebugContext(ctx, "Toggling favorite")

	isFavorite, err := s.repo.ToggleFavorite(ctx, userID, recipeID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to toggle favorite", slog.Any("error", err))
		return false, fmt.Errorf("error toggling favorite: %w", err)
	}
	return isFavorite, nil
}

// GetFavorites retrieves the user's favorite recipes.
func (s *RecipeServiceImpl) GetFavorites(ctx context.Context, userID uuid.UUID) ([]types.RecipeHistoryItem, error) {
	l := s.logger.With(slog.String("method", "GetFavorites"), slog.String("userID", userID.String()))
	l.DebugContext(ctx, "Fetching favorite recipes")

	items, err := s.repo.GetFavorites(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch favorite recipes", slog.Any("error", err))
		return nil, fmt.Errorf("error fetching favorite recipes: %w", err)
	}
	return items, nil
}
