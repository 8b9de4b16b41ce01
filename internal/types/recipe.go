package types

import (
	"time"

	"github.com/google/uuid"
)

// Mood drives both the prompt wording and the fallback recipe shape.
type Mood string

const (
	MoodHappy     Mood = "happy"
	MoodSad       Mood = "sad"
	MoodEnergetic Mood = "energetic"
	MoodTired     Mood = "tired"
	MoodStressed  Mood = "stressed"
	MoodCalm      Mood = "calm"
	MoodExcited   Mood = "excited"
	MoodBored     Mood = "bored"
)

// Valid reports whether m is one of the known moods.
func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodSad, MoodEnergetic, MoodTired,
		MoodStressed, MoodCalm, MoodExcited, MoodBored:
		return true
	}
	return false
}

type Cuisine string

const (
	CuisineItalian       Cuisine = "italian"
	CuisineChinese       Cuisine = "chinese"
	CuisineIndian        Cuisine = "indian"
	CuisineMexican       Cuisine = "mexican"
	CuisineAmerican      Cuisine = "american"
	CuisineJapanese      Cuisine = "japanese"
	CuisineFrench        Cuisine = "french"
	CuisineThai          Cuisine = "thai"
	CuisineMediterranean Cuisine = "mediterranean"
	CuisineAny           Cuisine = "any"
)

// NutritionInfo carries per-serving estimates. All values are advisory,
// the model is free to guess them.
type NutritionInfo struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
}

// RecipeDetail is a fully materialized recipe, either parsed from a model
// response or synthesized locally.
type RecipeDetail struct {
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Ingredients  []string      `json:"ingredients"`
	Instructions []string      `json:"instructions"`
	PrepTime     int           `json:"prep_time"`
	CookTime     int           `json:"cook_time"`
	TotalTime    int           `json:"total_time"`
	Servings     int           `json:"servings"`
	Difficulty   string        `json:"difficulty"`
	CuisineType  string        `json:"cuisine_type"`
	Nutrition    NutritionInfo `json:"nutrition_info"`
	Tags         []string      `json:"tags"`
	GeneratedAt  time.Time     `json:"generated_at"`
}

// GenerateRecipeRequest is the request body for recipe generation.
type GenerateRecipeRequest struct {
	Ingredients        []string `json:"ingredients"`
	Mood               Mood     `json:"mood"`
	DietaryPreferences []string `json:"dietary_preferences,omitempty"`
	Allergies          []string `json:"allergies,omitempty"`
	HealthGoals        []string `json:"health_goals,omitempty"`
	CuisinePreference  Cuisine  `json:"cuisine_preference,omitempty"`
	MaxPrepTime        *int     `json:"max_prep_time,omitempty"`
	Servings           int      `json:"servings,omitempty"`
}

// Input methods recorded on recipe history entries.
const (
	InputMethodManual = "manual"
	InputMethodVoice  = "voice"
	InputMethodText   = "text"
)

// RecipeHistoryItem is a persisted generation result.
type RecipeHistoryItem struct {
	ID              uuid.UUID    `json:"id"`
	UserID          uuid.UUID    `json:"user_id"`
	Recipe          RecipeDetail `json:"recipe"`
	Mood            Mood         `json:"mood"`
	IngredientsUsed []string     `json:"ingredients_used"`
	InputMethod     string       `json:"input_method"`
	IsFavorite      bool         `json:"is_favorite"`
	Rating          *int         `json:"rating,omitempty"`
	Notes           *string      `json:"notes,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
}

// MoodLog records the mood a user generated with, for trend analytics.
type MoodLog struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Mood      Mood      `json:"mood"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
