package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"havenrp-web/internal/service"
	"havenrp-web/pkg/errors"
	"havenrp-web/pkg/logger"
)

// FivemHandler exposes read-only views into the game server's data. Every
// route is auth-gated; the upstream API enforces ownership.
type FivemHandler struct {
	fivem  service.FivemAPI
	logger *logger.Logger
}

// NewFivemHandler creates a new fivem handler
func NewFivemHandler(fivem service.FivemAPI, logger *logger.Logger) *FivemHandler {
	return &FivemHandler{
		fivem:  fivem,
		logger: logger,
	}
}

// ListCharacters handles GET /api/fivem/user/{discordId}/characters
func (h *FivemHandler) ListCharacters(w http.ResponseWriter, r *http.Request) {
	discordID := chi.URLParam(r, "discordId")
	if discordID == "" {
		respondError(w, h.logger, errors.NewValidationError("Discord id is required", nil))
		return
	}

	characters, err := h.fivem.ListCharacters(r.Context(), discordID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"characters": characters})
}

// GetCharacter handles GET /api/fivem/character/{citizenid}
func (h *FivemHandler) GetCharacter(w http.ResponseWriter, r *http.Request) {
	citizenID, ok := h.citizenID(w, r)
	if !ok {
		return
	}

	character, err := h.fivem.GetCharacter(r.Context(), citizenID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"character": character})
}

// ListVehicles handles GET /api/fivem/character/{citizenid}/vehicles
func (h *FivemHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	citizenID, ok := h.citizenID(w, r)
	if !ok {
		return
	}

	vehicles, err := h.fivem.ListVehicles(r.Context(), citizenID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"vehicles": vehicles})
}

// GetVehicleInventory handles GET /api/fivem/character/{citizenid}/vehicles/{plate}/inventory
func (h *FivemHandler) GetVehicleInventory(w http.ResponseWriter, r *http.Request) {
	citizenID, ok := h.citizenID(w, r)
	if !ok {
		return
	}
	plate := chi.URLParam(r, "plate")
	if plate == "" {
		respondError(w, h.logger, errors.NewValidationError("Plate is required", nil))
		return
	}

	inventory, err := h.fivem.GetVehicleInventory(r.Context(), citizenID, plate)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, inventory)
}

func (h *FivemHandler) citizenID(w http.ResponseWriter, r *http.Request) (string, bool) {
	citizenID := chi.URLParam(r, "citizenid")
	if citizenID == "" {
		respondError(w, h.logger, errors.NewValidationError("Citizen id is required", nil))
		return "", false
	}
	return citizenID, true
}
