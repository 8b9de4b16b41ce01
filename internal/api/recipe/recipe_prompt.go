package recipe

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/types"
)

// moodContext maps each mood to the style of dish the prompt asks for.
var moodContext = map[types.Mood]string{
	types.MoodHappy:     "energizing and colorful dishes that bring joy",
	types.MoodSad:       "comforting and warming foods that provide emotional comfort",
	types.MoodEnergetic: "protein-rich and nutritious meals that sustain energy",
	types.MoodTired:     "easy-to-make, nourishing dishes that require minimal effort",
	types.MoodStressed:  "calming and simple recipes with soothing flavors",
	types.MoodCalm:      "light and refreshing meals that maintain tranquility",
	types.MoodExcited:   "bold and adventurous dishes with exciting flavors",
	types.MoodBored:     "creative and unique recipes to spark culinary interest",
}

const recipeJSONSchema = `{
    "title": "Recipe Name",
    "description": "Brief description of the dish",
    "ingredients": ["ingredient 1 with quantity", "ingredient 2 with quantity"],
    "instructions": ["step 1", "step 2", "step 3"],
    "prep_time": 15,
    "cook_time": 30,
    "total_time": 45,
    "servings": 2,
    "difficulty": "easy",
    "cuisine_type": "cuisine name",
    "nutrition_info": {
        "calories": 350,
        "protein": 25,
        "carbs": 40,
        "fat": 12,
        "fiber": 5,
        "sugar": 8,
        "sodium": 500
    },
    "tags": ["tag1", "tag2"]
}`

// buildRecipePrompt assembles the generation prompt from the request and
// any profile-level dietary context. It is a pure function of its inputs.
func buildRecipePrompt(req types.GenerateRecipeRequest) string {
	moodDesc, ok := moodContext[req.Mood]
	if !ok {
		moodDesc = "satisfying dishes"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a detailed recipe using ONLY these available ingredients: %s.\n\n",
		strings.Join(req.Ingredients, ", "))
	fmt.Fprintf(&b, "The person is feeling %s, so suggest %s.\n\n", req.Mood, moodDesc)

	if len(req.DietaryPreferences) > 0 {
		fmt.Fprintf(&b, "Dietary preferences: %s.\n", strings.Join(req.DietaryPreferences, ", "))
	}
	if len(req.Allergies) > 0 {
		fmt.Fprintf(&b, "IMPORTANT - Avoid these allergens completely: %s.\n", strings.Join(req.Allergies, ", "))
	}
	if len(req.HealthGoals) > 0 {
		fmt.Fprintf(&b, "Health goals to consider: %s.\n", strings.Join(req.HealthGoals, ", "))
	}
	if req.CuisinePreference != "" && req.CuisinePreference != types.CuisineAny {
		fmt.Fprintf(&b, "Preferred cuisine style: %s.\n", req.CuisinePreference)
	}
	if req.MaxPrepTime != nil {
		fmt.Fprintf(&b, "Maximum preparation time: %d minutes.\n", *req.MaxPrepTime)
	}

	servings := req.Servings
	if servings <= 0 {
		servings = 2
	}
	fmt.Fprintf(&b, "Number of servings: %d.\n\n", servings)

	b.WriteString("CRITICAL RULES:\n")
	b.WriteString("1. Use ONLY the ingredients listed above, plus basic pantry staples (salt, pepper, oil, water, basic spices)\n")
	b.WriteString("2. The recipe must be real and cookable\n")
	b.WriteString("3. Include ALL the listed ingredients in the recipe\n")
	b.WriteString("4. Respond with valid JSON only, no explanatory text\n\n")

	b.WriteString("Respond with a JSON object in exactly this format:\n")
	b.WriteString(recipeJSONSchema)

	return b.String()
}
