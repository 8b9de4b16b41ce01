package types

import "time"

// MoodTrendPoint is one day/mood bucket in the mood trend report.
type MoodTrendPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Mood  Mood   `json:"mood"`
	Count int    `json:"count"`
}

// IngredientUsage aggregates how often an ingredient appeared in
// generated recipes.
type IngredientUsage struct {
	Ingredient string    `json:"ingredient"`
	Count      int       `json:"count"`
	LastUsed   time.Time `json:"last_used"`
}

// DashboardStats is the combined analytics summary for a user.
type DashboardStats struct {
	TotalRecipes    int                 `json:"total_recipes"`
	TotalFavorites  int                 `json:"total_favorites"`
	MostUsedCuisine string              `json:"most_used_cuisine"`
	AvgCookingTime  float64             `json:"avg_cooking_time"`
	TopIngredients  []IngredientUsage   `json:"top_ingredients"`
	RecentRecipes   []RecipeHistoryItem `json:"recent_recipes"`
}
