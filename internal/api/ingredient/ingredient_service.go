package ingredient

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-recipe-ai-suggestions/app/observability/metrics"
	"github.com/FACorreiaa/go-recipe-ai-suggestions/config"
	generativeAI "github.com/FACorreiaa/go-recipe-ai-suggestions/internal/api/generative_ai"
	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/types"
)

// wordsDropped are tokens the normalizer always discards.
var wordsDropped = map[string]struct{}{
	"and": {}, "the": {}, "some": {}, "a": {}, "an": {},
	"of": {}, "with": {}, "have": {}, "got": {},
}

var _ IngredientService = (*IngredientServiceImpl)(nil)

// IngredientService defines the contract for ingredient extraction.
type IngredientService interface {
	// ExtractFromAudio transcribes an audio clip and returns the
	// ingredients heard. It hard-fails when the model is unavailable.
	ExtractFromAudio(ctx context.Context, data []byte, mimeType string) ([]string, error)
	// ExtractFromText extracts ingredients from free text. It never
	// fails, falling back to keyword matching when the model cannot help.
	ExtractFromText(ctx context.Context, text string) []string
	// ValidateIngredients maps free-form names onto the reference list,
	// returning the validated list and a rename suggestion map.
	ValidateIngredients(ingredients []string) ([]string, map[string]string)
	Initialized() bool
}

// IngredientServiceImpl provides the implementation for IngredientService.
// The initialized flag is written once by Initialize before serving.
type IngredientServiceImpl struct {
	logger      *slog.Logger
	aiClient    generativeAI.Client
	cfg         config.AIConfig
	metrics     *metrics.AppMetrics
	initialized bool
}

// NewIngredientService creates a new ingredient service instance. The
// metrics argument may be nil.
func NewIngredientService(aiClient generativeAI.Client, cfg config.AIConfig, m *metrics.AppMetrics, logger *slog.Logger) *IngredientServiceImpl {
	return &IngredientServiceImpl{
		logger:   logger,
		aiClient: aiClient,
		cfg:      cfg,
		metrics:  m,
	}
}

// Initialize probes the model once at startup. On failure the service
// degrades: text extraction uses keyword matching, audio extraction
// refuses requests.
func (s *IngredientServiceImpl) Initialize(ctx context.Context) {
	l := s.logger.With(slog.String("method", "Initialize"))
	if err := s.aiClient.Ping(ctx); err != nil {
		l.WarnContext(ctx, "Ingredient AI unavailable, voice extraction disabled", slog.Any("error", err))
		return
	}
	s.initialized = true
	l.InfoContext(ctx, "Ingredient AI service initialized")
}

func (s *IngredientServiceImpl) Initialized() bool {
	return s.initialized
}

func (s *IngredientServiceImpl) maxIngredients() int {
	if s.cfg.MaxIngredients > 0 {
		return s.cfg.MaxIngredients
	}
	return 10
}

func (s *IngredientServiceImpl) audioTimeout() time.Duration {
	if s.cfg.AudioTimeout > 0 {
		return s.cfg.AudioTimeout
	}
	return 60 * time.Second
}

func (s *IngredientServiceImpl) ExtractFromAudio(ctx context.Context, data []byte, mimeType string) ([]string, error) {
	ctx, span := otel.Tracer("IngredientService").Start(ctx, "ExtractFromAudio", trace.WithAttributes(
		attribute.String("audio.mime_type", mimeType),
		attribute.Int("audio.size_bytes", len(data)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "ExtractFromAudio"), slog.String("mimeType", mimeType))

	if !s.initialized {
		err := fmt.Errorf("voice ingredient extraction: %w", types.ErrServiceUnavailable)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service not initialized")
		return nil, err
	}

	l.DebugContext(ctx, "Transcribing audio", slog.Int("size_bytes", len(data)))

	parts := []*genai.Part{
		{Text: audioExtractionPrompt},
		{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
	}
	genConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.2),
		TopP:            genai.Ptr[float32](0.8),
		TopK:            genai.Ptr[float32](40),
		MaxOutputTokens: 1000,
	}

	genCtx, cancel := context.WithTimeout(ctx, s.audioTimeout())
	defer cancel()
	response, err := s.aiClient.GenerateContentWithParts(genCtx, parts, genConfig)
	if err != nil {
		l.ErrorContext(ctx, "Audio transcription failed", slog.Any("error", err))
		if s.metrics != nil {
			s.metrics.AIRequestErrorsTotal.Add(ctx, 1)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Transcription failed")
		return nil, fmt.Errorf("failed to process audio: %w", err)
	}
	if strings.TrimSpace(response) == "" {
		err := fmt.Errorf("empty response from model")
		span.RecordError(err)
		span.SetStatus(codes.Error, "Empty transcription")
		return nil, err
	}

	ingredients := parseIngredientList(response, s.maxIngredients())
	if len(ingredients) == 0 {
		err := fmt.Errorf("no ingredients extracted from audio")
		span.RecordError(err)
		span.SetStatus(codes.Error, "No ingredients extracted")
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IngredientExtractionsTotal.Add(ctx, 1)
	}
	l.InfoContext(ctx, "Ingredients extracted from audio", slog.Int("count", len(ingredients)))
	span.SetStatus(codes.Ok, "Ingredients extracted")
	return ingredients, nil
}

func (s *IngredientServiceImpl) ExtractFromText(ctx context.Context, text string) []string {
	l := s.logger.With(slog.String("method", "ExtractFromText"))

	if !s.initialized {
		l.DebugContext(ctx, "Model unavailable, using keyword extraction")
		return extractByKeyword(text, s.maxIngredients())
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.3),
		MaxOutputTokens: 300,
	}
	genCtx, cancel := context.WithTimeout(ctx, s.audioTimeout())
	defer cancel()

	response, err := s.aiClient.GenerateContent(genCtx, buildTextExtractionPrompt(text), genConfig)
	if err != nil {
		l.WarnContext(ctx, "Text extraction via model failed, using keyword extraction", slog.Any("error", err))
		if s.metrics != nil {
			s.metrics.AIRequestErrorsTotal.Add(ctx, 1)
		}
		return extractByKeyword(text, s.maxIngredients())
	}

	ingredients := parseIngredientList(response, s.maxIngredients())
	if len(ingredients) == 0 {
		l.DebugContext(ctx, "Model returned no ingredients, using keyword extraction")
		return extractByKeyword(text, s.maxIngredients())
	}

	if s.metrics != nil {
		s.metrics.IngredientExtractionsTotal.Add(ctx, 1)
	}
	l.InfoContext(ctx, "Ingredients extracted from text", slog.Int("count", len(ingredients)))
	return ingredients
}

func (s *IngredientServiceImpl) ValidateIngredients(ingredients []string) ([]string, map[string]string) {
	validated := make([]string, 0, len(ingredients))
	suggestions := make(map[string]string)

	for _, ing := range ingredients {
		lowered := strings.ToLower(strings.TrimSpace(ing))
		if lowered == "" {
			continue
		}

		match := ""
		for _, keyword := range ingredientKeywords {
			if keyword == lowered {
				match = keyword
				break
			}
			if match == "" && (strings.Contains(keyword, lowered) || strings.Contains(lowered, keyword)) {
				match = keyword
			}
		}

		switch {
		case match == "":
			validated = append(validated, lowered)
		case match == lowered:
			validated = append(validated, match)
		default:
			validated = append(validated, match)
			suggestions[ing] = match
		}
	}
	return validated, suggestions
}

// parseIngredientList normalizes a raw model reply into a clean ingredient
// list: lowercase, fence/bullet stripped, split on commas (then newlines,
// then whitespace), short tokens and filler words dropped, deduplicated in
// order and capped at max.
func parseIngredientList(response string, max int) []string {
	cleaned := strings.ToLower(strings.TrimSpace(response))
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.ReplaceAll(cleaned, "*", "")
	cleaned = strings.TrimSpace(cleaned)

	var rawItems []string
	switch {
	case strings.Contains(cleaned, ","):
		rawItems = strings.Split(cleaned, ",")
	case strings.Contains(cleaned, "\n"):
		rawItems = strings.Split(cleaned, "\n")
	default:
		rawItems = strings.Fields(cleaned)
	}

	seen := make(map[string]struct{})
	var result []string
	for _, item := range rawItems {
		item = strings.Trim(strings.TrimSpace(item), "-•. ")
		if len(item) < 2 {
			continue
		}
		if _, skip := wordsDropped[item]; skip {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		result = append(result, item)
		if len(result) == max {
			break
		}
	}
	return result
}

// extractByKeyword scans the text against the static reference list. When
// nothing matches as a phrase, it retries word by word.
func extractByKeyword(text string, max int) []string {
	tokens := tokenizeText(text)

	var found []string
	for _, keyword := range ingredientKeywords {
		if matchKeyword(tokens, keyword) {
			found = append(found, keyword)
			if len(found) == max {
				return found
			}
		}
	}
	if len(found) > 0 {
		return found
	}

	// Last resort: exact single-token matches only.
	keywordSet := make(map[string]struct{}, len(ingredientKeywords))
	for _, k := range ingredientKeywords {
		keywordSet[k] = struct{}{}
	}
	for _, tok := range tokens {
		if _, ok := keywordSet[tok]; ok {
			found = append(found, tok)
			if len(found) == max {
				break
			}
		}
	}
	return found
}
