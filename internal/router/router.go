package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/api"
	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/api/analytics"
	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/api/auth"
	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/api/ingredient"
	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/api/recipe"
	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/api/user"
)

// Config contains dependencies needed for the router setup
type Config struct {
	AuthHandler            *auth.AuthHandler
	RecipeHandler          recipe.Handler
	IngredientHandler      ingredient.Handler
	UserHandler            user.Handler
	AnalyticsHandler       analytics.Handler
	AuthenticateMiddleware func(http.Handler) http.Handler
	// ServiceStatus reports per-service AI readiness for /health.
	ServiceStatus func() map[string]bool
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected
// to be applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		services := map[string]bool{}
		if cfg.ServiceStatus != nil {
			services = cfg.ServiceStatus()
		}
		api.WriteJSONResponse(w, req, http.StatusOK, map[string]interface{}{
			"status":   "ok",
			"services": services,
		})
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Public auth routes
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.Post("/auth/refresh", cfg.AuthHandler.RefreshSession)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Post("/auth/logout", cfg.AuthHandler.Logout)

			r.Route("/recipes", func(r chi.Router) {
				r.Post("/generate", cfg.RecipeHandler.GenerateRecipe)
				r.Get("/history", cfg.RecipeHandler.GetHistory)
				r.Get("/history/{recipeID}", cfg.RecipeHandler.GetHistoryItem)
				r.Delete("/history/{recipeID}", cfg.RecipeHandler.DeleteHistoryItem)
				r.Post("/{recipeID}/favorite", cfg.RecipeHandler.ToggleFavorite)
				r.Get("/favorites", cfg.RecipeHandler.GetFavorites)
			})

			r.Route("/ingredients", func(r chi.Router) {
				r.Post("/extract-from-audio", cfg.IngredientHandler.ExtractFromAudio)
				r.Post("/extract-from-text", cfg.IngredientHandler.ExtractFromText)
			})

			r.Route("/users/me", func(r chi.Router) {
				r.Get("/", cfg.UserHandler.GetUserProfile)
				r.Put("/", cfg.UserHandler.UpdateUserProfile)
				r.Delete("/", cfg.UserHandler.DeactivateUser)
				r.Put("/password", cfg.UserHandler.ChangePassword)
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/mood-trends", cfg.AnalyticsHandler.GetMoodTrends)
				r.Get("/ingredient-stats", cfg.AnalyticsHandler.GetIngredientStats)
				r.Get("/dashboard", cfg.AnalyticsHandler.GetDashboard)
			})
		})
	})

	return r
}
