package ingredient

import "strings"

// ingredientKeywords is the static reference list used when the model is
// unavailable. Entries are canonical singular names, ordered by food group
// so matches come out in a stable order.
var ingredientKeywords = []string{
	// Vegetables
	"tomato", "onion", "garlic", "carrot", "potato", "sweet potato",
	"bell pepper", "broccoli", "spinach", "lettuce", "cucumber", "celery",
	"mushroom", "zucchini", "eggplant", "cabbage", "cauliflower", "pea",
	"corn", "ginger", "chili", "green bean", "asparagus",

	// Fruits
	"apple", "banana", "orange", "lemon", "lime", "avocado", "mango",
	"pineapple", "strawberry", "grape", "watermelon", "berry", "blueberry",

	// Proteins
	"chicken", "chicken breast", "beef", "steak", "pork", "bacon", "ham",
	"fish", "salmon", "tuna", "cod", "shrimp", "prawn", "egg", "tofu",
	"bean", "lentil", "chickpea", "paneer",

	// Dairy
	"milk", "cheese", "cheddar", "mozzarella", "yogurt", "butter", "cream",
	"heavy cream", "sour cream", "cottage cheese",

	// Grains & Pasta
	"rice", "basmati rice", "pasta", "spaghetti", "noodle", "bread",
	"flour", "wheat flour", "oat", "quinoa", "couscous",

	// Herbs & Spices
	"basil", "cilantro", "coriander", "parsley", "mint", "rosemary",
	"thyme", "oregano", "cumin", "turmeric", "paprika", "cinnamon",

	// Condiments & Oils
	"olive oil", "vegetable oil", "coconut oil", "salt", "pepper",
	"soy sauce", "vinegar", "honey", "sugar", "ketchup", "mustard",

	// Nuts & Seeds
	"almond", "cashew", "peanut", "walnut", "sesame seed", "chia seed",
}

// pluralForms returns the spellings under which a keyword may appear in
// free text.
func pluralForms(keyword string) []string {
	forms := []string{keyword, keyword + "s", keyword + "es"}
	if strings.HasSuffix(keyword, "y") {
		forms = append(forms, strings.TrimSuffix(keyword, "y")+"ies")
	}
	return forms
}

// matchKeyword reports whether any token (or two-token phrase) of the
// normalized text matches the keyword in singular or plural form.
func matchKeyword(tokens []string, keyword string) bool {
	forms := pluralForms(keyword)
	parts := strings.Fields(keyword)

	if len(parts) == 1 {
		for _, tok := range tokens {
			for _, f := range forms {
				if tok == f {
					return true
				}
			}
		}
		return false
	}

	// Multi-word keywords match as consecutive tokens, with the plural
	// applied to the final word.
	for i := 0; i+len(parts) <= len(tokens); i++ {
		phrase := strings.Join(tokens[i:i+len(parts)], " ")
		for _, f := range forms {
			if phrase == f {
				return true
			}
		}
	}
	return false
}

// tokenizeText lowercases the input and splits it into punctuation-free
// word tokens.
func tokenizeText(text string) []string {
	lowered := strings.ToLower(strings.ReplaceAll(text, ",", " "))
	fields := strings.Fields(lowered)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
