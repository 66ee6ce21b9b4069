package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"havenrp-web/internal/domain"
	"havenrp-web/internal/service"
	"havenrp-web/pkg/errors"
	"havenrp-web/pkg/logger"
)

// DiscordHandler exposes the guild directory used by the nomination picker
// and the admin gate
type DiscordHandler struct {
	directory *service.DirectoryService
	logger    *logger.Logger
}

// NewDiscordHandler creates a new discord directory handler
func NewDiscordHandler(directory *service.DirectoryService, logger *logger.Logger) *DiscordHandler {
	return &DiscordHandler{
		directory: directory,
		logger:    logger,
	}
}

// memberResponse is a DiscordMember with the resolved display name attached
type memberResponse struct {
	domain.DiscordMember
	DisplayName string `json:"display_name"`
}

// ListUsers handles GET /api/discord/users
func (h *DiscordHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	members, err := h.directory.ListMembers(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	users := make([]memberResponse, 0, len(members))
	for _, m := range members {
		users = append(users, memberResponse{DiscordMember: m, DisplayName: m.DisplayName()})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// ListRoles handles GET /api/discord/roles
func (h *DiscordHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.directory.ListGuildRoles(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"roles": roles})
}

// GetMemberRoles handles GET /api/discord/roles/{id}
func (h *DiscordHandler) GetMemberRoles(w http.ResponseWriter, r *http.Request) {
	discordID := chi.URLParam(r, "id")
	if discordID == "" {
		respondError(w, h.logger, errors.NewValidationError("Discord id is required", nil))
		return
	}

	roles, err := h.directory.GetMemberRoles(r.Context(), discordID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, roles)
}
