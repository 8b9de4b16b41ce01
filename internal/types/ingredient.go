package types

// IngredientExtraction is the response shape for both voice and text
// ingredient extraction endpoints.
type IngredientExtraction struct {
	Ingredients          []string          `json:"ingredients"`
	ValidatedIngredients []string          `json:"validated_ingredients"`
	Suggestions          map[string]string `json:"suggestions,omitempty"`
	Source               string            `json:"source"`
	Confidence           float64           `json:"confidence"`
	ProcessingTime       float64           `json:"processing_time"`
}

// ExtractTextRequest is the request body for text-based extraction.
type ExtractTextRequest struct {
	Text string `json:"text"`
}
