package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	database "github.com/FACorreiaa/go-recipe-ai-suggestions/app/db"
	appLogger "github.com/FACorreiaa/go-recipe-ai-suggestions/app/logger"
	"github.com/FACorreiaa/go-recipe-ai-suggestions/app/observability/metrics"
	"github.com/FACorreiaa/go-recipe-ai-suggestions/app/tracer"
	"github.com/FACorreiaa/go-recipe-ai-suggestions/config"
	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/api/analytics"
	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/api/auth"
	generativeAI "github.com/FACorreiaa/go-recipe-ai-suggestions/internal/api/generative_ai"
	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/api/ingredient"
	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/api/recipe"
	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/api/user"
	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/router"
)

func main() {
	// --- Initial Loading ---
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability ---
	tracer.InitTracingAndMetrics()
	metrics.InitAppMetrics()
	appMetrics := metrics.Get()

	// --- Database Setup ---
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	// Run migrations before opening the main pool
	err = database.RunMigrations(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	// --- AI Client ---
	// A missing API key is not fatal. Recipe generation degrades to
	// fallback recipes and text extraction to keyword matching.
	aiClient, err := generativeAI.NewAIClient(ctx, cfg.AI.Model)
	if err != nil {
		logger.Warn("AI client unavailable, serving in degraded mode", slog.Any("error", err))
	}

	// --- Dependency Injection ---
	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, cfg.JWT, logger)
	authHandler := auth.NewAuthHandler(authService, logger)

	userRepo := user.NewPostgresUserRepo(pool, logger)
	userService := user.NewUserService(userRepo, logger)
	userHandler := user.NewHandlerImpl(userService, logger)

	recipeRepo := recipe.NewPostgresRecipeRepo(pool, logger)
	recipeService := recipe.NewRecipeService(recipeRepo, aiClient, cfg.AI, appMetrics, logger)
	recipeHandler := recipe.NewHandlerImpl(recipeService, userService, logger)

	ingredientService := ingredient.NewIngredientService(aiClient, cfg.AI, appMetrics, logger)
	ingredientHandler := ingredient.NewHandlerImpl(ingredientService, cfg.AI.MaxAudioUploadSize, logger)

	analyticsRepo := analytics.NewPostgresAnalyticsRepo(pool, logger)
	analyticsService := analytics.NewAnalyticsService(analyticsRepo, logger)
	analyticsHandler := analytics.NewHandlerImpl(analyticsService, logger)

	// Probe the model before serving so the health endpoint reflects
	// reality from the first request on. Without a client the services
	// stay in fallback mode.
	if aiClient != nil {
		recipeService.Initialize(ctx)
		ingredientService.Initialize(ctx)
	}

	// --- Router Setup ---
	routerConfig := &router.Config{
		AuthHandler:            authHandler,
		RecipeHandler:          recipeHandler,
		IngredientHandler:      ingredientHandler,
		UserHandler:            userHandler,
		AnalyticsHandler:       analyticsHandler,
		AuthenticateMiddleware: auth.Authenticate(logger, cfg.JWT),
		ServiceStatus: func() map[string]bool {
			return map[string]bool{
				"recipe_generation":     recipeService.Initialized(),
				"ingredient_extraction": ingredientService.Initialized(),
			}
		},
	}
	mainRouter := router.SetupRouter(routerConfig)

	mux := chi.NewMux()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(appLogger.StructuredLogger(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Timeout(60 * time.Second))
	mux.Use(middleware.Compress(5, "application/json"))
	mux.Mount("/", mainRouter)

	// --- HTTP Server Setup ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		// Colored logs for development
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		// JSON logs for production or other environments
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
