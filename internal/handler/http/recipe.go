package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mkarpenko/recipebox/internal/logger"
	"github.com/mkarpenko/recipebox/internal/utils"
	"github.com/mkarpenko/recipebox/models"
)

// listRecipes handles GET /recipe/recipes/: it returns the caller's recipes
// as summary projections (no description), newest first.
func (h *Handler) listRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user ID in request context")
		writeAPIError(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
		return
	}

	recipes, err := h.services.RecipeService.ListRecipes(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	summaries := make([]models.RecipeSummary, 0, len(recipes))
	for _, recipe := range recipes {
		summaries = append(summaries, models.NewRecipeSummary(recipe))
	}

	utils.WriteJSON(w, summaries, http.StatusOK)
}

// createRecipe handles POST /recipe/recipes/: it creates a recipe owned by
// the caller and returns the full projection with status 201.
func (h *Handler) createRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user ID in request context")
		writeAPIError(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
		return
	}

	var request models.RecipeWriteRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Warn().Err(err).Msg("invalid JSON was passed")
		writeAPIError(w, detailInvalidJSON, http.StatusBadRequest)
		return
	}

	createdRecipe, err := h.services.RecipeService.CreateRecipe(ctx, userID, request)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.NewRecipeDetail(createdRecipe), http.StatusCreated)
}

// getRecipe handles GET /recipe/recipes/{recipeID}/.
func (h *Handler) getRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user ID in request context")
		writeAPIError(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
		return
	}

	recipeID, err := pathID(r, "recipeID")
	if err != nil {
		writeAPIError(w, detailNotFound, http.StatusNotFound)
		return
	}

	recipe, err := h.services.RecipeService.GetRecipe(ctx, userID, recipeID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.NewRecipeDetail(recipe), http.StatusOK)
}

// updateRecipe handles PATCH and PUT /recipe/recipes/{recipeID}/: it applies
// the supplied fields to a recipe owned by the caller and returns the full
// updated projection. A tags list in the payload replaces the recipe's tag
// set entirely; an empty list clears it.
func (h *Handler) updateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user ID in request context")
		writeAPIError(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
		return
	}

	recipeID, err := pathID(r, "recipeID")
	if err != nil {
		writeAPIError(w, detailNotFound, http.StatusNotFound)
		return
	}

	var request models.RecipeWriteRequest
	if err = json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Warn().Err(err).Msg("invalid JSON was passed")
		writeAPIError(w, detailInvalidJSON, http.StatusBadRequest)
		return
	}

	updatedRecipe, err := h.services.RecipeService.UpdateRecipe(ctx, userID, recipeID, request)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.NewRecipeDetail(updatedRecipe), http.StatusOK)
}

// deleteRecipe handles DELETE /recipe/recipes/{recipeID}/: it removes a
// recipe owned by the caller and returns 204 with no body.
func (h *Handler) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user ID in request context")
		writeAPIError(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
		return
	}

	recipeID, err := pathID(r, "recipeID")
	if err != nil {
		writeAPIError(w, detailNotFound, http.StatusNotFound)
		return
	}

	if err = h.services.RecipeService.DeleteRecipe(ctx, userID, recipeID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pathID parses a positive integer URL parameter. A non-numeric value means
// the path does not address an existing entity, so callers respond 404.
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
