package ingredient

import "fmt"

// audioExtractionPrompt asks the model to transcribe the recording and
// return a bare comma-separated ingredient list.
const audioExtractionPrompt = `You are listening to an audio recording where someone is listing food ingredients they have available.

TASK:
1. Carefully transcribe EXACTLY what you hear
2. Extract ALL food ingredients mentioned
3. Normalize ingredient names to singular form (e.g., "tomatoes" -> "tomato")
4. Remove quantities, measurements, and filler words
5. Keep the ingredient names simple and standard

EXAMPLES:
Audio: "I have three tomatoes, two onions, and some garlic"
Output: tomato, onion, garlic

Audio: "chicken breast, milk, curry leaves, coriander, and basil"
Output: chicken, milk, curry leaves, coriander, basil

Audio: "I've got rice, beans, bell peppers"
Output: rice, beans, bell pepper

IMPORTANT:
- Return ONLY a comma-separated list of ingredients
- Use lowercase
- No numbers, no extra text
- Include ALL ingredients you hear, even herbs and spices

Now, listen to the audio and extract the ingredients:`

func buildTextExtractionPrompt(text string) string {
	return fmt.Sprintf(`Extract all food ingredients from this text: %q

Rules:
1. Extract only actual food ingredients
2. Normalize names (plural to singular, remove quantities)
3. Return comma-separated list in lowercase
4. Ignore quantities, measurements, and cooking actions

Return ONLY the ingredient list.`, text)
}
