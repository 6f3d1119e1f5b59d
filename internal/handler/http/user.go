package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mkarpenko/recipebox/internal/logger"
	"github.com/mkarpenko/recipebox/internal/service"
	"github.com/mkarpenko/recipebox/internal/store"
	"github.com/mkarpenko/recipebox/internal/utils"
	"github.com/mkarpenko/recipebox/models"
)

// register handles POST /user/create/: it creates a new account and returns
// its public representation with status 201.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Warn().Err(err).Msg("invalid JSON was passed")
		writeAPIError(w, detailInvalidJSON, http.StatusBadRequest)
		return
	}

	registeredUser, err := h.services.AuthService.Register(ctx, request)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.WriteJSON(w, registeredUser, http.StatusCreated)
}

// token handles POST /user/token/: it verifies the supplied credentials and
// returns a fresh signed token. Every credential failure — unknown email,
// wrong password, disabled account — collapses into the same 400 response,
// so the endpoint does not leak which part was wrong.
func (h *Handler) token(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Warn().Err(err).Msg("invalid JSON was passed")
		writeAPIError(w, detailInvalidJSON, http.StatusBadRequest)
		return
	}

	authenticatedUser, err := h.services.AuthService.Authenticate(ctx, request)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided),
			errors.Is(err, service.ErrWrongPassword),
			errors.Is(err, service.ErrUserIsDisabled),
			errors.Is(err, store.ErrNoUserWasFound):
			log.Warn().Err(err).Msg("authentication rejected")
			writeAPIError(w, detailBadCredentials, http.StatusBadRequest)
		default:
			writeServiceError(w, r, err)
		}
		return
	}

	token, err := h.services.AuthService.CreateToken(ctx, authenticatedUser)
	if err != nil {
		log.Err(err).Msg("creation of token failed")
		writeAPIError(w, detailInternalError, http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, models.TokenResponse{Token: token.SignedString}, http.StatusOK)
}

// profile handles GET /user/me/.
func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user ID in request context")
		writeAPIError(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
		return
	}

	foundUser, err := h.services.AuthService.Profile(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.WriteJSON(w, foundUser, http.StatusOK)
}

// updateProfile handles PATCH and PUT /user/me/: it applies the supplied
// name and/or password to the authenticated account and returns the updated
// public representation.
func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user ID in request context")
		writeAPIError(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
		return
	}

	var request models.ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Warn().Err(err).Msg("invalid JSON was passed")
		writeAPIError(w, detailInvalidJSON, http.StatusBadRequest)
		return
	}

	updatedUser, err := h.services.AuthService.UpdateProfile(ctx, userID, request)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.WriteJSON(w, updatedUser, http.StatusOK)
}
