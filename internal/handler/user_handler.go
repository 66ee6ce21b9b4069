package handler

import (
	"net/http"

	"havenrp-web/internal/middleware"
	"havenrp-web/pkg/errors"
	"havenrp-web/pkg/logger"
)

// UserHandler handles session identity requests
type UserHandler struct {
	logger *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(logger *logger.Logger) *UserHandler {
	return &UserHandler{logger: logger}
}

// GetProfile handles GET /api/user/profile. The profile comes straight from
// the validated credential; nothing is stored server-side.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, errors.NewAuthenticationError("User not authenticated"))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}
