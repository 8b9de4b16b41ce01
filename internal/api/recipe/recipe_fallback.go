package recipe

import (
	"fmt"
	"strings"
	"time"

	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/types"
)

// moodAdjective names the fallback recipe after the requested mood.
var moodAdjective = map[types.Mood]string{
	types.MoodHappy:     "Cheerful",
	types.MoodSad:       "Comforting",
	types.MoodEnergetic: "Power-Packed",
	types.MoodTired:     "Easy",
	types.MoodStressed:  "Soothing",
	types.MoodCalm:      "Gentle",
	types.MoodExcited:   "Adventure",
	types.MoodBored:     "Creative",
}

var fallbackInstructions = []string{
	"Prepare all available ingredients.",
	"Heat oil in a pan over medium heat.",
	"Add main ingredients and cook until done.",
	"Season with salt and pepper to taste.",
	"Serve hot and enjoy!",
}

var fallbackNutrition = types.NutritionInfo{
	Calories: 250,
	Protein:  12,
	Carbs:    25,
	Fat:      10,
	Fiber:    4,
	Sugar:    6,
	Sodium:   400,
}

// synthesizeFallbackRecipe builds a deterministic recipe from the request
// alone. It is used whenever the model cannot produce one, and must never
// fail: same ingredients and mood always yield the same recipe apart from
// the timestamp.
func synthesizeFallbackRecipe(ingredients []string, mood types.Mood) *types.RecipeDetail {
	adjective, ok := moodAdjective[mood]
	if !ok {
		adjective = "Simple"
	}

	title := fmt.Sprintf("%s %s Dish", adjective, titleCase(ingredients[0]))

	descCount := len(ingredients)
	if descCount > 3 {
		descCount = 3
	}
	description := fmt.Sprintf("A simple %s recipe using %s.", mood, strings.Join(ingredients[:descCount], ", "))

	recipeIngredients := make([]string, 0, len(ingredients)+1)
	for _, ing := range ingredients {
		recipeIngredients = append(recipeIngredients, ing+" (as needed)")
	}
	recipeIngredients = append(recipeIngredients, "Salt and pepper to taste")

	return &types.RecipeDetail{
		Title:        title,
		Description:  description,
		Ingredients:  recipeIngredients,
		Instructions: append([]string(nil), fallbackInstructions...),
		PrepTime:     10,
		CookTime:     20,
		TotalTime:    30,
		Servings:     2,
		Difficulty:   "easy",
		CuisineType:  "home-style",
		Nutrition:    fallbackNutrition,
		Tags:         []string{string(mood), "simple", "homemade"},
		GeneratedAt:  time.Now(),
	}
}

// titleCase uppercases the first letter of each word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
