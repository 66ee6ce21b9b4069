package service

import (
	"context"

	"go.uber.org/zap"

	"havenrp-web/internal/domain"
	"havenrp-web/pkg/errors"
	"havenrp-web/pkg/redis"
)

// CouncilService is the view-side projection over the remote campaign
// service. The remote owns the phase machine and every uniqueness rule;
// this layer fetches, caches with a short staleness window, ranks for
// presentation and offers only the action the current phase allows.
type CouncilService struct {
	client CouncilAPI
	cache  *CacheService
	logger *zap.Logger
}

// NewCouncilService creates a new council view service
func NewCouncilService(client CouncilAPI, cache *CacheService, logger *zap.Logger) *CouncilService {
	return &CouncilService{
		client: client,
		cache:  cache,
		logger: logger,
	}
}

// ListCampaigns returns campaigns matching the filter. The unfiltered list
// is fetched and cached once (30s window); filtering is applied locally so
// every filter variant shares one cached copy.
func (s *CouncilService) ListCampaigns(ctx context.Context, filter domain.CampaignFilter) ([]domain.Campaign, error) {
	key := s.cache.Keys().KeyCampaigns("all")

	var campaigns []domain.Campaign
	if !s.cache.GetJSON(ctx, key, &campaigns) {
		fetched, err := s.client.ListCampaigns(ctx, domain.CampaignFilter{IncludeClosed: true})
		if err != nil {
			return nil, err
		}
		campaigns = fetched
		s.cache.SetJSONAsync(key, campaigns, redis.TTLCampaigns)
	}

	return filterCampaigns(campaigns, filter), nil
}

// GetCampaign returns one campaign through the 30s read cache
func (s *CouncilService) GetCampaign(ctx context.Context, campaignID int64) (*domain.Campaign, error) {
	key := s.cache.Keys().KeyCampaignByID(campaignID)

	var campaign domain.Campaign
	if s.cache.GetJSON(ctx, key, &campaign) {
		return &campaign, nil
	}

	fetched, err := s.client.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSONAsync(key, fetched, redis.TTLCampaigns)
	return fetched, nil
}

// GetNominees returns the ranked nominee list for a campaign
func (s *CouncilService) GetNominees(ctx context.Context, campaignID int64) ([]domain.RankedNominee, error) {
	campaign, err := s.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	nominees, err := s.rawNominees(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	return domain.RankNominees(nominees, campaign.Status), nil
}

// GetCampaignView assembles everything one campaign page needs: the
// campaign, its ranked nominees and, for an authenticated caller, their own
// participation state plus the single action the phase currently allows.
func (s *CouncilService) GetCampaignView(ctx context.Context, campaignID int64, user *domain.UserProfile, token string) (*domain.CampaignView, error) {
	campaign, err := s.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	nominees, err := s.rawNominees(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	view := &domain.CampaignView{
		Campaign:      *campaign,
		Nominees:      domain.RankNominees(nominees, campaign.Status),
		AllowedAction: domain.ActionNone,
	}

	if campaign.Status == domain.PhaseClosed && len(view.Nominees) > 0 {
		winner := view.Nominees[0]
		view.Winner = &winner
	}

	// Anonymous callers get a view-only projection
	if user == nil || token == "" {
		return view, nil
	}

	// The caller's own records are never cached: a 404 here is "has not
	// participated yet" and the answer changes the offered action.
	myNomination, err := s.client.GetMyNomination(ctx, campaignID, token)
	if err != nil {
		return nil, err
	}
	myVote, err := s.client.GetMyVote(ctx, campaignID, token)
	if err != nil {
		return nil, err
	}

	view.MyNomination = myNomination
	view.MyVote = myVote
	view.AllowedAction = campaign.AllowedAction(myNomination != nil, myVote != nil)

	return view, nil
}

// GetMyNomination returns the caller's nomination, or nil when absent
func (s *CouncilService) GetMyNomination(ctx context.Context, campaignID int64, token string) (*domain.Nomination, error) {
	return s.client.GetMyNomination(ctx, campaignID, token)
}

// GetMyVote returns the caller's vote, or nil when absent
func (s *CouncilService) GetMyVote(ctx context.Context, campaignID int64, token string) (*domain.Vote, error) {
	return s.client.GetMyVote(ctx, campaignID, token)
}

// Nominate submits a nomination for the caller. Local state is never
// touched before the remote confirms; on any outcome the nominee cache is
// dropped so the next read reflects what the server actually accepted. A
// conflict is an expected answer (limit reached, self-nomination
// disallowed, phase moved on), not a failure to retry.
func (s *CouncilService) Nominate(ctx context.Context, campaignID int64, nomineeDiscordID, token string) (*domain.Nomination, error) {
	nomination, err := s.client.Nominate(ctx, campaignID, nomineeDiscordID, token)
	s.invalidateAfterWrite(ctx, campaignID, err)
	if err != nil {
		return nil, err
	}
	return nomination, nil
}

// Vote submits the caller's single vote, with the same reconcile-on-result
// posture as Nominate
func (s *CouncilService) Vote(ctx context.Context, campaignID int64, nomineeDiscordID, token string) (*domain.Vote, error) {
	vote, err := s.client.Vote(ctx, campaignID, nomineeDiscordID, token)
	s.invalidateAfterWrite(ctx, campaignID, err)
	if err != nil {
		return nil, err
	}
	return vote, nil
}

func (s *CouncilService) rawNominees(ctx context.Context, campaignID int64) ([]domain.Nominee, error) {
	key := s.cache.Keys().KeyCampaignNominees(campaignID)

	var nominees []domain.Nominee
	if s.cache.GetJSON(ctx, key, &nominees) {
		return nominees, nil
	}

	fetched, err := s.client.ListNominees(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSONAsync(key, fetched, redis.TTLNominees)
	return fetched, nil
}

// invalidateAfterWrite drops the nominee cache after a mutation attempt.
// Conflicts invalidate too: the local picture was stale enough to allow a
// rejected action, so it must be re-fetched and reconciled.
func (s *CouncilService) invalidateAfterWrite(ctx context.Context, campaignID int64, err error) {
	if err != nil && !errors.IsConflict(err) {
		return
	}
	s.cache.Invalidate(ctx,
		s.cache.Keys().KeyCampaignNominees(campaignID),
		s.cache.Keys().KeyCampaignByID(campaignID),
	)
	if err != nil {
		s.logger.Info("Campaign write conflicted, caches dropped for reconcile",
			zap.Int64("campaign_id", campaignID))
	}
}

func filterCampaigns(campaigns []domain.Campaign, filter domain.CampaignFilter) []domain.Campaign {
	result := make([]domain.Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if !filter.IncludeClosed && filter.Status == "" && c.Status == domain.PhaseClosed {
			continue
		}
		result = append(result, c)
	}
	return result
}
