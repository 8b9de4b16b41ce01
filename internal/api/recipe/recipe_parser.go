package recipe

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/types"
)

// errUnparsableResponse signals that every recovery tier failed and the
// attempt should be counted as a generation failure.
var errUnparsableResponse = errors.New("could not parse recipe from model response")

// Materialization defaults for fields the model omitted.
const (
	defaultTitle       = "Generated Recipe"
	defaultDescription = "A delicious recipe"
	defaultPrepTime    = 15
	defaultCookTime    = 30
	defaultTotalTime   = 45
	defaultServings    = 2
	defaultDifficulty  = "medium"
	defaultCuisine     = "fusion"
)

var defaultNutrition = types.NutritionInfo{
	Calories: 300,
	Protein:  15,
	Carbs:    30,
	Fat:      10,
	Fiber:    5,
	Sugar:    5,
	Sodium:   400,
}

var (
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
	missingCommaRe  = regexp.MustCompile(`"\s*\n\s*"`)

	titleFieldRe       = regexp.MustCompile(`"title"\s*:\s*"([^"]*)"`)
	descriptionFieldRe = regexp.MustCompile(`"description"\s*:\s*"([^"]*)"`)
	ingredientsArrayRe = regexp.MustCompile(`(?s)"ingredients"\s*:\s*\[(.*?)\]`)
	instructionsArrRe  = regexp.MustCompile(`(?s)"instructions"\s*:\s*\[(.*?)\]`)
	quotedStringRe     = regexp.MustCompile(`"([^"]+)"`)
)

// rawRecipe mirrors the expected JSON payload with pointer fields so that
// omitted keys can be distinguished from explicit zero values.
type rawRecipe struct {
	Title        *string              `json:"title"`
	Description  *string              `json:"description"`
	Ingredients  []string             `json:"ingredients"`
	Instructions []string             `json:"instructions"`
	PrepTime     *int                 `json:"prep_time"`
	CookTime     *int                 `json:"cook_time"`
	TotalTime    *int                 `json:"total_time"`
	Servings     *int                 `json:"servings"`
	Difficulty   *string              `json:"difficulty"`
	CuisineType  *string              `json:"cuisine_type"`
	Nutrition    *types.NutritionInfo `json:"nutrition_info"`
	Tags         []string             `json:"tags"`
}

// parseRecipeResponse walks the recovery ladder over a raw model response.
// Tiers, cheapest first: strict parse, comma repairs, brace re-trim, and
// finally field-by-field regex extraction. The first tier that yields a
// recipe with at least one ingredient and one instruction wins.
func parseRecipeResponse(response string) (*types.RecipeDetail, error) {
	cleaned := cleanJSONResponse(response)

	if recipe, err := decodeRecipe(cleaned); err == nil {
		return recipe, nil
	}

	repaired := repairJSON(cleaned)
	if recipe, err := decodeRecipe(repaired); err == nil {
		return recipe, nil
	}

	if retrimmed := sliceBraces(repaired); retrimmed != repaired {
		if recipe, err := decodeRecipe(retrimmed); err == nil {
			return recipe, nil
		}
	}

	if recipe, err := extractRecipeFields(response); err == nil {
		return recipe, nil
	}

	return nil, errUnparsableResponse
}

// cleanJSONResponse strips markdown code fences and surrounding prose,
// keeping the text between the first '{' and the last '}'.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	if strings.HasSuffix(response, "```") {
		response = strings.TrimSuffix(response, "```")
	}
	response = strings.TrimSpace(response)

	return sliceBraces(response)
}

// sliceBraces returns the substring between the first '{' and last '}'
// inclusive, or the input unchanged when no brace pair exists.
func sliceBraces(s string) string {
	firstBrace := strings.Index(s, "{")
	if firstBrace == -1 {
		return s
	}
	lastBrace := strings.LastIndex(s, "}")
	if lastBrace == -1 || lastBrace <= firstBrace {
		return s
	}
	return strings.TrimSpace(s[firstBrace : lastBrace+1])
}

// repairJSON fixes the two malformations the model most often produces:
// trailing commas before a closing brace/bracket and a missing comma
// between consecutive quoted strings split across lines.
func repairJSON(s string) string {
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = missingCommaRe.ReplaceAllString(s, "\",\n\"")
	return s
}

// decodeRecipe parses one candidate JSON document and materializes
// defaults for missing fields. A result with no ingredients or no
// instructions is rejected so the caller escalates to the next tier.
func decodeRecipe(candidate string) (*types.RecipeDetail, error) {
	var raw rawRecipe
	if err := json.Unmarshal([]byte(candidate), &raw); err != nil {
		return nil, err
	}
	return materializeRecipe(raw)
}

func materializeRecipe(raw rawRecipe) (*types.RecipeDetail, error) {
	if len(raw.Ingredients) == 0 {
		return nil, errors.New("recipe has no ingredients")
	}
	if len(raw.Instructions) == 0 {
		return nil, errors.New("recipe has no instructions")
	}

	recipe := &types.RecipeDetail{
		Title:        defaultTitle,
		Description:  defaultDescription,
		Ingredients:  raw.Ingredients,
		Instructions: raw.Instructions,
		PrepTime:     defaultPrepTime,
		CookTime:     defaultCookTime,
		TotalTime:    defaultTotalTime,
		Servings:     defaultServings,
		Difficulty:   defaultDifficulty,
		CuisineType:  defaultCuisine,
		Nutrition:    defaultNutrition,
		Tags:         raw.Tags,
		GeneratedAt:  time.Now(),
	}
	if raw.Title != nil && *raw.Title != "" {
		recipe.Title = *raw.Title
	}
	if raw.Description != nil && *raw.Description != "" {
		recipe.Description = *raw.Description
	}
	if raw.PrepTime != nil {
		recipe.PrepTime = *raw.PrepTime
	}
	if raw.CookTime != nil {
		recipe.CookTime = *raw.CookTime
	}
	if raw.TotalTime != nil {
		recipe.TotalTime = *raw.TotalTime
	}
	if raw.Servings != nil {
		recipe.Servings = *raw.Servings
	}
	if raw.Difficulty != nil && *raw.Difficulty != "" {
		recipe.Difficulty = *raw.Difficulty
	}
	if raw.CuisineType != nil && *raw.CuisineType != "" {
		recipe.CuisineType = *raw.CuisineType
	}
	if raw.Nutrition != nil {
		recipe.Nutrition = *raw.Nutrition
	}
	if recipe.Tags == nil {
		recipe.Tags = []string{}
	}
	return recipe, nil
}

// extractRecipeFields is the last-resort tier: independent regex pulls of
// the individual fields from text that is not valid JSON at all.
func extractRecipeFields(response string) (*types.RecipeDetail, error) {
	raw := rawRecipe{}

	if m := titleFieldRe.FindStringSubmatch(response); m != nil {
		raw.Title = &m[1]
	}
	if m := descriptionFieldRe.FindStringSubmatch(response); m != nil {
		raw.Description = &m[1]
	}
	if m := ingredientsArrayRe.FindStringSubmatch(response); m != nil {
		raw.Ingredients = extractQuotedStrings(m[1])
	}
	if m := instructionsArrRe.FindStringSubmatch(response); m != nil {
		raw.Instructions = extractQuotedStrings(m[1])
	}

	return materializeRecipe(raw)
}

func extractQuotedStrings(arrayBody string) []string {
	matches := quotedStringRe.FindAllStringSubmatch(arrayBody, -1)
	items := make([]string, 0, len(matches))
	for _, m := range matches {
		if s := strings.TrimSpace(m[1]); s != "" {
			items = append(items, s)
		}
	}
	return items
}
