package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/types"
)

func TestSynthesizeFallbackRecipe(t *testing.T) {
	t.Run("builds a complete recipe from the request", func(t *testing.T) {
		recipe := synthesizeFallbackRecipe([]string{"egg", "spinach"}, types.MoodHappy)

		assert.Equal(t, "Cheerful Egg Dish", recipe.Title)
		assert.Equal(t, "A simple happy recipe using egg, spinach.", recipe.Description)
		assert.Equal(t, []string{"egg (as needed)", "spinach (as needed)", "Salt and pepper to taste"}, recipe.Ingredients)
		assert.Len(t, recipe.Instructions, 5)
		assert.Equal(t, 10, recipe.PrepTime)
		assert.Equal(t, 20, recipe.CookTime)
		assert.Equal(t, 30, recipe.TotalTime)
		assert.Equal(t, "easy", recipe.Difficulty)
		assert.Equal(t, "home-style", recipe.CuisineType)
		assert.Equal(t, fallbackNutrition, recipe.Nutrition)
		assert.Equal(t, []string{"happy", "simple", "homemade"}, recipe.Tags)
		assert.False(t, recipe.GeneratedAt.IsZero())
	})

	t.Run("deterministic for the same inputs", func(t *testing.T) {
		a := synthesizeFallbackRecipe([]string{"chicken", "rice"}, types.MoodTired)
		b := synthesizeFallbackRecipe([]string{"chicken", "rice"}, types.MoodTired)

		a.GeneratedAt = b.GeneratedAt
		assert.Equal(t, a, b)
	})

	t.Run("mood adjectives", func(t *testing.T) {
		cases := map[types.Mood]string{
			types.MoodSad:       "Comforting Tofu Dish",
			types.MoodEnergetic: "Power-Packed Tofu Dish",
			types.MoodStressed:  "Soothing Tofu Dish",
			types.Mood("weird"): "Simple Tofu Dish",
		}
		for mood, want := range cases {
			recipe := synthesizeFallbackRecipe([]string{"tofu"}, mood)
			assert.Equal(t, want, recipe.Title)
		}
	})

	t.Run("description caps at three ingredients", func(t *testing.T) {
		recipe := synthesizeFallbackRecipe([]string{"a", "b", "c", "d", "e"}, types.MoodCalm)
		assert.Equal(t, "A simple calm recipe using a, b, c.", recipe.Description)
		assert.Len(t, recipe.Ingredients, 6)
	})

	t.Run("multi word ingredient is title cased", func(t *testing.T) {
		recipe := synthesizeFallbackRecipe([]string{"sweet potato"}, types.MoodBored)
		assert.Equal(t, "Creative Sweet Potato Dish", recipe.Title)
	})
}
