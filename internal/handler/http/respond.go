package http

import (
	"errors"
	"net/http"

	"github.com/mkarpenko/recipebox/internal/logger"
	"github.com/mkarpenko/recipebox/internal/service"
	"github.com/mkarpenko/recipebox/internal/store"
	"github.com/mkarpenko/recipebox/internal/utils"
	"github.com/mkarpenko/recipebox/models"
)

const (
	detailNotFound       = "not found"
	detailInvalidJSON    = "invalid JSON was passed"
	detailInternalError  = "internal server error"
	detailBadCredentials = "unable to authenticate with provided credentials"
)

// writeAPIError renders the structured error body {"detail": "..."} with the
// given status code.
func writeAPIError(w http.ResponseWriter, detail string, statusCode int) {
	utils.WriteJSON(w, models.APIError{Detail: detail}, statusCode)
}

// writeServiceError maps a service-layer error onto the API error contract:
//
//   - *service.ValidationError renders its field messages with status 400.
//   - "Not found" storage sentinels (including a user lookup miss) render
//     {"detail": "not found"} with status 404.
//   - Anything else is treated as an internal failure and rendered as a
//     generic 500, with the original error logged.
//
// Handlers with endpoint-specific mappings (e.g. the token endpoint's 400 on
// bad credentials) handle those cases before falling back to this one.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		log.Warn().Err(err).Msg("request payload failed validation")
		utils.WriteJSON(w, validation.Fields, http.StatusBadRequest)
	case errors.Is(err, store.ErrRecipeNotFound),
		errors.Is(err, store.ErrTagNotFound),
		errors.Is(err, store.ErrNoUserWasFound):
		log.Warn().Err(err).Msg("requested entity was not found")
		writeAPIError(w, detailNotFound, http.StatusNotFound)
	default:
		log.Err(err).Msg("unexpected error occurred during request handling")
		writeAPIError(w, detailInternalError, http.StatusInternalServerError)
	}
}
