package ingredient

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/api"
	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/types"
)

const minAudioSize = 1024 // uploads under 1KB are too short to transcribe

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	ExtractFromAudio(w http.ResponseWriter, r *http.Request)
	ExtractFromText(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	ingredientService IngredientService
	maxUploadSize     int64
	logger            *slog.Logger
}

// NewHandlerImpl creates a new ingredient HandlerImpl instance.
func NewHandlerImpl(ingredientService IngredientService, maxUploadSize int64, logger *slog.Logger) *HandlerImpl {
	if maxUploadSize <= 0 {
		maxUploadSize = 10 << 20
	}
	return &HandlerImpl{
		ingredientService: ingredientService,
		maxUploadSize:     maxUploadSize,
		logger:            logger,
	}
}

// ExtractFromAudio godoc
// @Summary      Extract Ingredients From Audio
// @Description  Transcribes an uploaded audio clip and extracts the ingredients heard.
// @Tags         Ingredients
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Audio file"
// @Success      200 {object} types.IngredientExtraction
// @Failure      400 {object} types.Response "Invalid Upload"
// @Failure      503 {object} types.Response "Voice Extraction Unavailable"
// @Security     BearerAuth
// @Router       /ingredients/extract-from-audio [post]
func (h *HandlerImpl) ExtractFromAudio(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ExtractFromAudio"))
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		l.WarnContext(ctx, "Failed to parse multipart form", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid or oversized upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Missing audio file")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "audio/") {
		api.ErrorResponse(w, r, http.StatusBadRequest, "File must be an audio recording")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		l.ErrorContext(ctx, "Failed to read audio upload", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Could not read audio file")
		return
	}
	if len(data) < minAudioSize {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Audio file too short")
		return
	}

	ingredients, err := h.ingredientService.ExtractFromAudio(ctx, data, mimeType)
	if err != nil {
		l.ErrorContext(ctx, "Audio extraction failed", slog.Any("error", err))
		if errors.Is(err, types.ErrServiceUnavailable) {
			api.ErrorResponse(w, r, http.StatusServiceUnavailable, "Voice ingredient extraction is not available")
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to process audio")
		}
		return
	}

	validated, suggestions := h.ingredientService.ValidateIngredients(ingredients)
	api.WriteJSONResponse(w, r, http.StatusOK, types.IngredientExtraction{
		Ingredients:          ingredients,
		ValidatedIngredients: validated,
		Suggestions:          suggestions,
		Source:               "voice",
		Confidence:           0.9,
		ProcessingTime:       time.Since(start).Seconds(),
	})
}

// ExtractFromText godoc
// @Summary      Extract Ingredients From Text
// @Description  Extracts ingredients from free text. Always succeeds, falling back to keyword matching.
// @Tags         Ingredients
// @Accept       json
// @Produce      json
// @Param        request body types.ExtractTextRequest true "Text to analyze"
// @Success      200 {object} types.IngredientExtraction
// @Failure      400 {object} types.Response "Invalid Input"
// @Security     BearerAuth
// @Router       /ingredients/extract-from-text [post]
func (h *HandlerImpl) ExtractFromText(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ExtractFromText"))
	start := time.Now()

	var req types.ExtractTextRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(strings.TrimSpace(req.Text)) < 3 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Text must be at least 3 characters")
		return
	}

	ingredients := h.ingredientService.ExtractFromText(ctx, req.Text)
	if ingredients == nil {
		ingredients = []string{}
	}

	validated, suggestions := h.ingredientService.ValidateIngredients(ingredients)
	confidence := 0.8
	if !h.ingredientService.Initialized() {
		confidence = 0.6
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.IngredientExtraction{
		Ingredients:          ingredients,
		ValidatedIngredients: validated,
		Suggestions:          suggestions,
		Source:               "text",
		Confidence:           confidence,
		ProcessingTime:       time.Since(start).Seconds(),
	})
}
