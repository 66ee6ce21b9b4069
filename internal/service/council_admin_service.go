package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"havenrp-web/internal/domain"
	"havenrp-web/pkg/errors"
)

// CouncilAdminService exposes the privileged campaign operations. Callers
// are assumed to have passed the council-admin gate already; the remote
// service independently re-validates every call, so the checks here are a
// fail-fast convenience, not a security boundary.
type CouncilAdminService struct {
	client CouncilAPI
	cache  *CacheService
	logger *zap.Logger
}

// NewCouncilAdminService creates a new council admin service
func NewCouncilAdminService(client CouncilAPI, cache *CacheService, logger *zap.Logger) *CouncilAdminService {
	return &CouncilAdminService{
		client: client,
		cache:  cache,
		logger: logger,
	}
}

// CreateCampaign validates the payload, applies the documented defaults and
// creates the campaign. New campaigns start in draft on the remote side.
func (s *CouncilAdminService) CreateCampaign(ctx context.Context, req *domain.CreateCampaignRequest, token string) (*domain.Campaign, error) {
	if err := req.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error(), nil)
	}
	req.ApplyDefaults()

	campaign, err := s.client.CreateCampaign(ctx, req, token)
	if err != nil {
		return nil, err
	}

	s.invalidateCampaign(ctx, campaign.ID)
	s.logger.Info("Campaign created",
		zap.Int64("campaign_id", campaign.ID),
		zap.String("title", campaign.Title))
	return campaign, nil
}

// UpdateCampaign patches campaign fields. Phase changes must go through
// SetPhase so the transition table is enforced.
func (s *CouncilAdminService) UpdateCampaign(ctx context.Context, campaignID int64, req *domain.UpdateCampaignRequest, token string) (*domain.Campaign, error) {
	if req.Status != nil {
		return nil, errors.NewValidationError("use the phase endpoint to change campaign status", nil)
	}

	campaign, err := s.client.UpdateCampaign(ctx, campaignID, req, token)
	if err != nil {
		return nil, err
	}

	s.invalidateCampaign(ctx, campaignID)
	return campaign, nil
}

// SetPhase requests a phase transition. The transition table is checked
// locally first so an impossible request fails before the network call;
// the remote service remains the sole arbiter and re-validates against the
// phase it actually holds.
func (s *CouncilAdminService) SetPhase(ctx context.Context, campaignID int64, next domain.CampaignPhase, token string) (*domain.Campaign, error) {
	if !next.Valid() {
		return nil, errors.NewValidationError(fmt.Sprintf("unknown campaign phase %q", next), nil)
	}

	// Read the current phase fresh: a cached copy could be up to 30s stale
	// and would make the local transition check meaningless.
	current, err := s.client.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	if !current.Status.CanTransition(next) {
		return nil, errors.NewConflictError(
			fmt.Sprintf("campaign cannot move from %s to %s", current.Status, next))
	}

	campaign, err := s.client.UpdateCampaign(ctx, campaignID, &domain.UpdateCampaignRequest{Status: &next}, token)
	if err != nil {
		return nil, err
	}

	s.invalidateCampaign(ctx, campaignID)
	s.logger.Info("Campaign phase changed",
		zap.Int64("campaign_id", campaignID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(next)))
	return campaign, nil
}

// DeleteCampaign removes a campaign. The remote service cascades the
// delete to every nomination and vote; there is no undo.
func (s *CouncilAdminService) DeleteCampaign(ctx context.Context, campaignID int64, token string) error {
	if err := s.client.DeleteCampaign(ctx, campaignID, token); err != nil {
		return err
	}

	s.invalidateCampaign(ctx, campaignID)
	s.logger.Info("Campaign deleted", zap.Int64("campaign_id", campaignID))
	return nil
}

func (s *CouncilAdminService) invalidateCampaign(ctx context.Context, campaignID int64) {
	s.cache.Invalidate(ctx,
		s.cache.Keys().KeyCampaigns("all"),
		s.cache.Keys().KeyCampaignByID(campaignID),
		s.cache.Keys().KeyCampaignNominees(campaignID),
	)
}
