package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"havenrp-web/internal/domain"
	"havenrp-web/internal/middleware"
	"havenrp-web/internal/service"
	"havenrp-web/pkg/errors"
	"havenrp-web/pkg/logger"
)

// CouncilHandler exposes the campaign surface: public reads, member
// participation and the admin lifecycle operations.
type CouncilHandler struct {
	council *service.CouncilService
	admin   *service.CouncilAdminService
	logger  *logger.Logger
}

// NewCouncilHandler creates a new council handler
func NewCouncilHandler(council *service.CouncilService, admin *service.CouncilAdminService, logger *logger.Logger) *CouncilHandler {
	return &CouncilHandler{
		council: council,
		admin:   admin,
		logger:  logger,
	}
}

type participationRequest struct {
	NomineeDiscordID string `json:"nominee_discord_id"`
}

type phaseRequest struct {
	Status domain.CampaignPhase `json:"status"`
}

// ListCampaigns handles GET /api/council/campaigns
func (h *CouncilHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	filter := domain.CampaignFilter{
		Status:        domain.CampaignPhase(r.URL.Query().Get("status")),
		IncludeClosed: r.URL.Query().Get("include_closed") == "true",
	}

	if filter.Status != "" && !filter.Status.Valid() {
		respondError(w, h.logger, errors.NewValidationError("unknown status filter", nil))
		return
	}

	campaigns, err := h.council.ListCampaigns(r.Context(), filter)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"campaigns": campaigns})
}

// GetCampaign handles GET /api/council/campaigns/{id}. Anonymous callers
// get a view-only projection; authenticated callers additionally get their
// own participation records and the offered action.
func (h *CouncilHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := h.campaignID(w, r)
	if !ok {
		return
	}

	user, _ := middleware.UserFromContext(r.Context())
	token, _ := middleware.TokenFromContext(r.Context())

	view, err := h.council.GetCampaignView(r.Context(), campaignID, user, token)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"campaign": view})
}

// GetNominees handles GET /api/council/campaigns/{id}/nominees
func (h *CouncilHandler) GetNominees(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := h.campaignID(w, r)
	if !ok {
		return
	}

	nominees, err := h.council.GetNominees(r.Context(), campaignID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"nominees": nominees})
}

// GetMyNomination handles GET /api/council/campaigns/{id}/my-nomination.
// A member who has not nominated gets a null payload, not an error.
func (h *CouncilHandler) GetMyNomination(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := h.campaignID(w, r)
	if !ok {
		return
	}
	token, ok := h.requireToken(w, r)
	if !ok {
		return
	}

	nomination, err := h.council.GetMyNomination(r.Context(), campaignID, token)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"nomination": nomination})
}

// GetMyVote handles GET /api/council/campaigns/{id}/my-vote
func (h *CouncilHandler) GetMyVote(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := h.campaignID(w, r)
	if !ok {
		return
	}
	token, ok := h.requireToken(w, r)
	if !ok {
		return
	}

	vote, err := h.council.GetMyVote(r.Context(), campaignID, token)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"vote": vote})
}

// Nominate handles POST /api/council/campaigns/{id}/nominate
func (h *CouncilHandler) Nominate(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := h.campaignID(w, r)
	if !ok {
		return
	}
	token, ok := h.requireToken(w, r)
	if !ok {
		return
	}

	var req participationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, errors.NewValidationError("Invalid request body", nil))
		return
	}
	if req.NomineeDiscordID == "" {
		respondError(w, h.logger, errors.NewValidationError("nominee_discord_id is required", nil))
		return
	}

	nomination, err := h.council.Nominate(r.Context(), campaignID, req.NomineeDiscordID, token)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{"nomination": nomination})
}

// Vote handles POST /api/council/campaigns/{id}/vote
func (h *CouncilHandler) Vote(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := h.campaignID(w, r)
	if !ok {
		return
	}
	token, ok := h.requireToken(w, r)
	if !ok {
		return
	}

	var req participationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, errors.NewValidationError("Invalid request body", nil))
		return
	}
	if req.NomineeDiscordID == "" {
		respondError(w, h.logger, errors.NewValidationError("nominee_discord_id is required", nil))
		return
	}

	vote, err := h.council.Vote(r.Context(), campaignID, req.NomineeDiscordID, token)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{"vote": vote})
}

// CreateCampaign handles POST /api/council/campaigns (admin)
func (h *CouncilHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	token, ok := h.requireToken(w, r)
	if !ok {
		return
	}

	var req domain.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, errors.NewValidationError("Invalid request body", nil))
		return
	}

	campaign, err := h.admin.CreateCampaign(r.Context(), &req, token)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{"campaign": campaign})
}

// UpdateCampaign handles PATCH /api/council/campaigns/{id} (admin)
func (h *CouncilHandler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := h.campaignID(w, r)
	if !ok {
		return
	}
	token, ok := h.requireToken(w, r)
	if !ok {
		return
	}

	var req domain.UpdateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, errors.NewValidationError("Invalid request body", nil))
		return
	}

	campaign, err := h.admin.UpdateCampaign(r.Context(), campaignID, &req, token)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"campaign": campaign})
}

// SetPhase handles POST /api/council/campaigns/{id}/phase (admin)
func (h *CouncilHandler) SetPhase(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := h.campaignID(w, r)
	if !ok {
		return
	}
	token, ok := h.requireToken(w, r)
	if !ok {
		return
	}

	var req phaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, errors.NewValidationError("Invalid request body", nil))
		return
	}

	campaign, err := h.admin.SetPhase(r.Context(), campaignID, req.Status, token)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"campaign": campaign})
}

// DeleteCampaign handles DELETE /api/council/campaigns/{id} (admin)
func (h *CouncilHandler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := h.campaignID(w, r)
	if !ok {
		return
	}
	token, ok := h.requireToken(w, r)
	if !ok {
		return
	}

	if err := h.admin.DeleteCampaign(r.Context(), campaignID, token); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"deleted": true})
}

func (h *CouncilHandler) campaignID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, h.logger, errors.NewValidationError("Invalid campaign id", nil))
		return 0, false
	}
	return id, true
}

func (h *CouncilHandler) requireToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	token, ok := middleware.TokenFromContext(r.Context())
	if !ok || token == "" {
		respondError(w, h.logger, errors.NewAuthenticationError("Authentication required"))
		return "", false
	}
	return token, true
}
