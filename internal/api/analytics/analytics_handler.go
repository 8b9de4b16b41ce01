package analytics

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/api"
	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/api/auth"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetMoodTrends(w http.ResponseWriter, r *http.Request)
	GetIngredientStats(w http.ResponseWriter, r *http.Request)
	GetDashboard(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	analyticsService AnalyticsService
	logger           *slog.Logger
}

func NewHandlerImpl(analyticsService AnalyticsService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// GetMoodTrends godoc
// @Summary      Mood Trends
// @Description  Returns daily mood counts over the requested window.
// @Tags         Analytics
// @Produce      json
// @Param        days query int false "Window size in days (default 30)"
// @Success      200 {array} types.MoodTrendPoint
// @Failure      401 {object} types.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /analytics/mood-trends [get]
func (h *HandlerImpl) GetMoodTrends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetMoodTrends"))

	userID, ok := h.authenticatedUserID(w, r, l)
	if !ok {
		return
	}

	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "days must be an integer")
			return
		}
		days = n
	}

	points, err := h.analyticsService.GetMoodTrends(ctx, userID, days)
	if err != nil {
		l.ErrorContext(ctx, "Failed to get mood trends", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve mood trends")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, points)
}

// GetIngredientStats godoc
// @Summary      Ingredient Stats
// @Description  Returns the user's most used ingredients.
// @Tags         Analytics
// @Produce      json
// @Success      200 {array} types.IngredientUsage
// @Failure      401 {object} types.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /analytics/ingredient-stats [get]
func (h *HandlerImpl) GetIngredientStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetIngredientStats"))

	userID, ok := h.authenticatedUserID(w, r, l)
	if !ok {
		return
	}

	stats, err := h.analyticsService.GetIngredientStats(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to get ingredient stats", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve ingredient stats")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, stats)
}

// GetDashboard godoc
// @Summary      Dashboard
// @Description  Returns the combined usage summary for the authenticated user.
// @Tags         Analytics
// @Produce      json
// @Success      200 {object} types.DashboardStats
// @Failure      401 {object} types.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /analytics/dashboard [get]
func (h *HandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetDashboard"))

	userID, ok := h.authenticatedUserID(w, r, l)
	if !ok {
		return
	}

	stats, err := h.analyticsService.GetDashboard(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to get dashboard", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve dashboard")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, stats)
}

func (h *HandlerImpl) authenticatedUserID(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
	ctx := r.Context()
	userIDStr, ok := auth.GetUserIDFromContext(ctx)
	if !ok || userIDStr == "" {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		l.ErrorContext(ctx, "Invalid user ID format", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return uuid.Nil, false
	}
	return userID, true
}
