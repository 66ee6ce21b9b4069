package handler

import (
	"encoding/json"
	"net/http"

	"havenrp-web/pkg/errors"
	"havenrp-web/pkg/logger"
)

// successResponse is the envelope every data-bearing response uses
type successResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// failureResponse is the envelope every error response uses
type failureResponse struct {
	Success bool                   `json:"success"`
	Type    errors.ErrorType       `json:"type,omitempty"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(successResponse{Success: true, Data: data})
}

// respondError maps an error to its HTTP status and the failure envelope.
// Unknown error shapes become an opaque 500 so internals never leak.
func respondError(w http.ResponseWriter, log *logger.Logger, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.NewInternalError("Internal server error", err)
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		log.WithError(err).Error("Request failed")
	} else {
		log.WithError(err).Debug("Request rejected")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	_ = json.NewEncoder(w).Encode(failureResponse{
		Success: false,
		Type:    appErr.Type,
		Message: appErr.Message,
		Details: appErr.Details,
	})
}
