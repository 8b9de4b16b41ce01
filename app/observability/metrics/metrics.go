package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// Fields are public so they can be accessed from other packages.
type AppMetrics struct {
	RecipeGenerationsTotal          metric.Int64Counter
	RecipeGenerationDurationSeconds metric.Float64Histogram
	RecipeFallbacksTotal            metric.Int64Counter
	IngredientExtractionsTotal      metric.Int64Counter
	AIRequestErrorsTotal            metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("RecipeAI")
		var err error
		m := &AppMetrics{}

		m.RecipeGenerationsTotal, err = meter.Int64Counter(
			"recipe_generations_total",
			metric.WithDescription("Total number of recipes generated from the model"),
			metric.WithUnit("{recipe}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create recipe_generations_total: %v", err)
		}

		m.RecipeGenerationDurationSeconds, err = meter.Float64Histogram(
			"recipe_generation_duration_seconds",
			metric.WithDescription("Duration of recipe generation in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create recipe_generation_duration_seconds: %v", err)
		}

		m.RecipeFallbacksTotal, err = meter.Int64Counter(
			"recipe_fallbacks_total",
			metric.WithDescription("Total number of fallback recipes served"),
			metric.WithUnit("{recipe}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create recipe_fallbacks_total: %v", err)
		}

		m.IngredientExtractionsTotal, err = meter.Int64Counter(
			"ingredient_extractions_total",
			metric.WithDescription("Total number of ingredient extraction requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ingredient_extractions_total: %v", err)
		}

		m.AIRequestErrorsTotal, err = meter.Int64Counter(
			"ai_request_errors_total",
			metric.WithDescription("Total number of failed model requests"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ai_request_errors_total: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
