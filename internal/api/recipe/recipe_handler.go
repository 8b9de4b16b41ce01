package recipe

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/api"
	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/api/auth"
	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/api/user"
	"github.com/FACorreiaa/go-recipe-ai-suggestions/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GenerateRecipe(w http.ResponseWriter, r *http.Request)
	GetHistory(w http.ResponseWriter, r *http.Request)
	GetHistoryItem(w http.ResponseWriter, r *http.Request)
	DeleteHistoryItem(w http.ResponseWriter, r *http.Request)
	ToggleFavorite(w http.ResponseWriter, r *http.Request)
	GetFavorites(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	recipeService RecipeService
	userService   user.UserService
	logger        *slog.Logger
}

// NewHandlerImpl creates a new recipe HandlerImpl instance.
func NewHandlerImpl(recipeService RecipeService, userService user.UserService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		recipeService: recipeService,
		userService:   userService,
		logger:        logger,
	}
}

// GenerateRecipe godoc
// @Summary      Generate Recipe
// @Description  Generates a mood-based recipe from the provided ingredients.
// @Tags         Recipes
// @Accept       json
// @Produce      json
// @Param        request body types.GenerateRecipeRequest true "Generation Parameters"
// @Success      200 {object} types.RecipeDetail "Generated Recipe"
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      401 {object} types.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /recipes/generate [post]
func (h *HandlerImpl) GenerateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GenerateRecipe"))

	userID, ok := authenticatedUserID(w, r, l)
	if !ok {
		return
	}

	var req types.GenerateRecipeRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Ingredients) == 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "At least one ingredient is required")
		return
	}
	if !req.Mood.Valid() {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Unknown mood")
		return
	}

	// Fill dietary context from the stored profile when the request
	// doesn't carry its own.
	if profile, err := h.userService.GetUserProfile(ctx, userID); err == nil {
		if len(req.DietaryPreferences) == 0 {
			req.DietaryPreferences = profile.DietaryPreferences
		}
		if len(req.Allergies) == 0 {
			req.Allergies = profile.Allergies
		}
		if len(req.HealthGoals) == 0 {
			req.HealthGoals = profile.HealthGoals
		}
	} else {
		l.WarnContext(ctx, "Could not load user profile for personalization", slog.Any("error", err))
	}

	recipe, err := h.recipeService.GenerateRecipe(ctx, userID, req, 0)
	if err != nil {
		l.ErrorContext(ctx, "Failed to generate recipe", slog.Any("error", err))
		if errors.Is(err, types.ErrBadRequest) {
			api.ErrorResponse(w, r, http.StatusBadRequest, "At least one ingredient is required")
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to generate recipe")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, recipe)
}

// GetHistory godoc
// @Summary      Recipe History
// @Description  Lists the authenticated user's generated recipes, newest first.
// @Tags         Recipes
// @Produce      json
// @Param        limit query int false "Page size (default 10)"
// @Param        skip query int false "Offset"
// @Success      200 {array} types.RecipeHistoryItem
// @Security     BearerAuth
// @Router       /recipes/history [get]
func (h *HandlerImpl) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetHistory"))

	userID, ok := authenticatedUserID(w, r, l)
	if !ok {
		return
	}

	limit := queryInt(r, "limit", 10)
	skip := queryInt(r, "skip", 0)

	items, err := h.recipeService.GetHistory(ctx, userID, limit, skip)
	if err != nil {
		l.ErrorContext(ctx, "Failed to get recipe history", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve recipe history")
		return
	}
	if items == nil {
		items = []types.RecipeHistoryItem{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, items)
}

// GetHistoryItem godoc
// @Summary      Recipe History Item
// @Description  Retrieves one generated recipe by ID.
// @Tags         Recipes
// @Produce      json
// @Param        recipeID path string true "Recipe ID"
// @Success      200 {object} types.RecipeHistoryItem
// @Failure      404 {object} types.Response "Not Found"
// @Security     BearerAuth
// @Router       /recipes/history/{recipeID} [get]
func (h *HandlerImpl) GetHistoryItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetHistoryItem"))

	userID, ok := authenticatedUserID(w, r, l)
	if !ok {
		return
	}
	recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid recipe ID format")
		return
	}

	item, err := h.recipeService.GetHistoryItem(ctx, userID, recipeID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Recipe not found")
			return
		}
		l.ErrorContext(ctx, "Failed to get recipe history item", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve recipe")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, item)
}

// DeleteHistoryItem godoc
// @Summary      Delete Recipe
// @Description  Removes one generated recipe from the user's history.
// @Tags         Recipes
// @Produce      json
// @Param        recipeID path string true "Recipe ID"
// @Success      200 {object} types.Response
// @Failure      404 {object} types.Response "Not Found"
// @Security     BearerAuth
// @Router       /recipes/history/{recipeID} [delete]
func (h *HandlerImpl) DeleteHistoryItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeleteHistoryItem"))

	userID, ok := authenticatedUserID(w, r, l)
	if !ok {
		return
	}
	recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid recipe ID format")
		return
	}

	if err := h.recipeService.DeleteHistoryItem(ctx, userID, recipeID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Recipe not found")
			return
		}
		l.ErrorContext(ctx, "Failed to delete recipe", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete recipe")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "Recipe deleted successfully",
	})
}

// ToggleFavorite godoc
// @Summary      Toggle Favorite
// @Description  Flips the favorite flag on a generated recipe.
// @Tags         Recipes
// @Produce      json
// @Param        recipeID path string true "Recipe ID"
// @Success      200 {object} types.Response
// @Failure      404 {object} types.Response "Not Found"
// @Security     BearerAuth
// @Router       /recipes/{recipeID}/favorite [post]
func (h *HandlerImpl) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ToggleFavorite"))

	userID, ok := authenticatedUserID(w, r, l)
	if !ok {
		return
	}
	recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid recipe ID format")
		return
	}

	isFavorite, err := h.recipeService.ToggleFavorite(ctx, userID, recipeID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Recipe not found")
			return
		}
		l.ErrorContext(ctx, "Failed to toggle favorite", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to toggle favorite")
		return
	}

	message := "Recipe removed from favorites"
	if isFavorite {
		message = "Recipe added to favorites"
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: message,
	})
}

// GetFavorites godoc
// @Summary      Favorite Recipes
// @Description  Lists the authenticated user's favorite recipes.
// @Tags         Recipes
// @Produce      json
// @Success      200 {array} types.RecipeHistoryItem
// @Security     BearerAuth
// @Router       /recipes/favorites [get]
func (h *HandlerImpl) GetFavorites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetFavorites"))

	userID, ok := authenticatedUserID(w, r, l)
	if !ok {
		return
	}

	items, err := h.recipeService.GetFavorites(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to get favorites", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve favorites")
		return
	}
	if items == nil {
		items = []types.RecipeHistoryItem{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, items)
}

// authenticatedUserID pulls the user ID placed in context by the
// Authenticate middleware, writing the error response itself on failure.
func authenticatedUserID(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
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

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
