package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"marketplace-project/backend/logging"
	"marketplace-project/backend/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps the error taxonomy to HTTP statuses. Unknown errors become
// a generic 500 so repository internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var (
		validationErr    *models.ValidationError
		authorizationErr *models.AuthorizationError
		stateErr         *models.StateError
		conflictErr      *models.ConflictError
		securityErr      *models.SecurityError
		externalErr      *models.ExternalError
		notFoundErr      *models.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.As(err, &authorizationErr):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.As(err, &stateErr):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.As(err, &conflictErr):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.As(err, &securityErr):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.As(err, &externalErr):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		logging.Logger.Errorf("Event ID: UNHANDLED_ERROR, Description: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// decodeAndValidate decodes the JSON body into dst and runs its validate tags.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return models.NewValidationError("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return models.NewValidationError(err.Error())
	}
	return nil
}
