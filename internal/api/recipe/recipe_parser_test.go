package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRecipeJSON = `{
	"title": "Tomato Pasta",
	"description": "Quick weeknight pasta.",
	"ingredients": ["200g pasta", "2 tomatoes", "1 clove garlic"],
	"instructions": ["Boil the pasta.", "Make the sauce.", "Combine and serve."],
	"prep_time": 10,
	"cook_time": 15,
	"total_time": 25,
	"servings": 2,
	"difficulty": "easy",
	"cuisine_type": "italian",
	"nutrition_info": {"calories": 520, "protein": 18, "carbs": 90, "fat": 9, "fiber": 6, "sugar": 8, "sodium": 320},
	"tags": ["pasta", "quick"]
}`

func TestParseRecipeResponse_StrictJSON(t *testing.T) {
	recipe, err := parseRecipeResponse(validRecipeJSON)
	require.NoError(t, err)

	assert.Equal(t, "Tomato Pasta", recipe.Title)
	assert.Equal(t, "Quick weeknight pasta.", recipe.Description)
	assert.Len(t, recipe.Ingredients, 3)
	assert.Len(t, recipe.Instructions, 3)
	assert.Equal(t, 10, recipe.PrepTime)
	assert.Equal(t, 15, recipe.CookTime)
	assert.Equal(t, 25, recipe.TotalTime)
	assert.Equal(t, 2, recipe.Servings)
	assert.Equal(t, "easy", recipe.Difficulty)
	assert.Equal(t, "italian", recipe.CuisineType)
	assert.Equal(t, float64(520), recipe.Nutrition.Calories)
	assert.Equal(t, []string{"pasta", "quick"}, recipe.Tags)
	assert.False(t, recipe.GeneratedAt.IsZero())
}

func TestParseRecipeResponse_MarkdownFence(t *testing.T) {
	t.Run("json fence with surrounding prose", func(t *testing.T) {
		response := "Here is your recipe:\n```json\n" + validRecipeJSON + "\n```\nEnjoy!"
		recipe, err := parseRecipeResponse(response)
		require.NoError(t, err)
		assert.Equal(t, "Tomato Pasta", recipe.Title)
	})

	t.Run("bare fence", func(t *testing.T) {
		response := "```\n" + validRecipeJSON + "\n```"
		recipe, err := parseRecipeResponse(response)
		require.NoError(t, err)
		assert.Equal(t, "Tomato Pasta", recipe.Title)
	})
}

func TestParseRecipeResponse_RepairsTrailingCommas(t *testing.T) {
	response := `{
		"title": "Garlic Rice",
		"ingredients": ["1 cup rice", "3 cloves garlic",],
		"instructions": ["Fry the garlic.", "Add rice and water.", "Simmer.",],
	}`
	recipe, err := parseRecipeResponse(response)
	require.NoError(t, err)

	assert.Equal(t, "Garlic Rice", recipe.Title)
	assert.Equal(t, []string{"1 cup rice", "3 cloves garlic"}, recipe.Ingredients)
	assert.Len(t, recipe.Instructions, 3)
}

func TestParseRecipeResponse_RepairsMissingCommas(t *testing.T) {
	response := `{
		"title": "Omelette",
		"ingredients": ["3 eggs"
		"1 tbsp butter"],
		"instructions": ["Whisk the eggs."
		"Cook in butter."]
	}`
	recipe, err := parseRecipeResponse(response)
	require.NoError(t, err)

	assert.Equal(t, []string{"3 eggs", "1 tbsp butter"}, recipe.Ingredients)
	assert.Equal(t, []string{"Whisk the eggs.", "Cook in butter."}, recipe.Instructions)
}

func TestParseRecipeResponse_RegexExtraction(t *testing.T) {
	// Badly broken output that no JSON repair can rescue. The individual
	// fields are still recoverable.
	response := `The model says {{ "title": "Rescue Soup", and also
		"ingredients": ["1 onion", "2 carrots"] plus
		"instructions": ["Chop everything.", "Boil for 20 minutes."] done`

	recipe, err := parseRecipeResponse(response)
	require.NoError(t, err)

	assert.Equal(t, "Rescue Soup", recipe.Title)
	assert.Equal(t, []string{"1 onion", "2 carrots"}, recipe.Ingredients)
	assert.Equal(t, []string{"Chop everything.", "Boil for 20 minutes."}, recipe.Instructions)

	// Fields the text never mentioned come back with defaults.
	assert.Equal(t, defaultDescription, recipe.Description)
	assert.Equal(t, defaultPrepTime, recipe.PrepTime)
	assert.Equal(t, defaultServings, recipe.Servings)
	assert.Equal(t, defaultDifficulty, recipe.Difficulty)
	assert.Equal(t, defaultCuisine, recipe.CuisineType)
	assert.Equal(t, defaultNutrition, recipe.Nutrition)
}

func TestParseRecipeResponse_DefaultsForMissingFields(t *testing.T) {
	response := `{"ingredients": ["bread"], "instructions": ["Toast it."]}`
	recipe, err := parseRecipeResponse(response)
	require.NoError(t, err)

	assert.Equal(t, defaultTitle, recipe.Title)
	assert.Equal(t, defaultCookTime, recipe.CookTime)
	assert.Equal(t, defaultTotalTime, recipe.TotalTime)
	assert.NotNil(t, recipe.Tags)
	assert.Empty(t, recipe.Tags)
}

func TestParseRecipeResponse_ExplicitZeroKept(t *testing.T) {
	// An explicit zero is not the same as an omitted field.
	response := `{"ingredients": ["water"], "instructions": ["Chill."], "cook_time": 0}`
	recipe, err := parseRecipeResponse(response)
	require.NoError(t, err)
	assert.Equal(t, 0, recipe.CookTime)
}

func TestParseRecipeResponse_Unparsable(t *testing.T) {
	cases := map[string]string{
		"plain prose":          "Sorry, I cannot help with that request.",
		"empty string":         "",
		"no ingredients":       `{"title": "Empty", "ingredients": [], "instructions": ["Do nothing."]}`,
		"no instructions":      `{"title": "Empty", "ingredients": ["air"], "instructions": []}`,
		"ingredients only":     `"ingredients": ["flour"]`,
		"unrecoverable tokens": "{]{]",
	}
	for name, response := range cases {
		t.Run(name, func(t *testing.T) {
			recipe, err := parseRecipeResponse(response)
			require.Error(t, err)
			assert.ErrorIs(t, err, errUnparsableResponse)
			assert.Nil(t, recipe)
		})
	}
}

func TestCleanJSONResponse(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, cleanJSONResponse("```json\n{\"a\": 1}\n```"))
	assert.Equal(t, `{"a": 1}`, cleanJSONResponse("noise before {\"a\": 1} noise after"))
	assert.Equal(t, "no braces here", cleanJSONResponse("no braces here"))
}
