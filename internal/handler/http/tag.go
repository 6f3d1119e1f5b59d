package http

import (
	"encoding/json"
	"net/http"

	"github.com/mkarpenko/recipebox/internal/logger"
	"github.com/mkarpenko/recipebox/internal/utils"
	"github.com/mkarpenko/recipebox/models"
)

// listTags handles GET /recipe/tags/: it returns the caller's tags ordered
// by name descending.
func (h *Handler) listTags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user ID in request context")
		writeAPIError(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
		return
	}

	tags, err := h.services.TagService.ListTags(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if tags == nil {
		tags = []models.Tag{}
	}

	utils.WriteJSON(w, tags, http.StatusOK)
}

// renameTag handles PATCH /recipe/tags/{tagID}/.
func (h *Handler) renameTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user ID in request context")
		writeAPIError(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
		return
	}

	tagID, err := pathID(r, "tagID")
	if err != nil {
		writeAPIError(w, detailNotFound, http.StatusNotFound)
		return
	}

	var request models.TagRenameRequest
	if err = json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Warn().Err(err).Msg("invalid JSON was passed")
		writeAPIError(w, detailInvalidJSON, http.StatusBadRequest)
		return
	}

	renamedTag, err := h.services.TagService.RenameTag(ctx, userID, tagID, request)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.WriteJSON(w, renamedTag, http.StatusOK)
}

// deleteTag handles DELETE /recipe/tags/{tagID}/: it removes a tag owned by
// the caller and returns 204 with no body. Recipes that carried the tag are
// left in place.
func (h *Handler) deleteTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user ID in request context")
		writeAPIError(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
		return
	}

	tagID, err := pathID(r, "tagID")
	if err != nil {
		writeAPIError(w, detailNotFound, http.StatusNotFound)
		return
	}

	if err = h.services.TagService.DeleteTag(ctx, userID, tagID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
