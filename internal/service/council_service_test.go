package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"havenrp-web/internal/domain"
	"havenrp-web/pkg/errors"
	"havenrp-web/pkg/redis"
)

// fakeCouncilAPI is an in-memory stand-in for the remote campaign service
type fakeCouncilAPI struct {
	campaigns map[int64]*domain.Campaign
	nominees  map[int64][]domain.Nominee

	myNomination *domain.Nomination
	myVote       *domain.Vote

	nominateResult *domain.Nomination
	nominateErr    error
	voteResult     *domain.Vote
	voteErr        error

	listCalls     int
	nomineeCalls  int
	updateCalls   int
	lastCreateReq *domain.CreateCampaignRequest
	lastUpdateReq *domain.UpdateCampaignRequest
	created       *domain.Campaign
	deleted       []int64
}

func (f *fakeCouncilAPI) ListCampaigns(ctx context.Context, filter domain.CampaignFilter) ([]domain.Campaign, error) {
	f.listCalls++
	result := make([]domain.Campaign, 0, len(f.campaigns))
	for _, c := range f.campaigns {
		result = append(result, *c)
	}
	return result, nil
}

func (f *fakeCouncilAPI) GetCampaign(ctx context.Context, campaignID int64) (*domain.Campaign, error) {
	if c, ok := f.campaigns[campaignID]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, errors.NewNotFoundError("Campaign not found")
}

func (f *fakeCouncilAPI) ListNominees(ctx context.Context, campaignID int64) ([]domain.Nominee, error) {
	f.nomineeCalls++
	return f.nominees[campaignID], nil
}

func (f *fakeCouncilAPI) GetMyNomination(ctx context.Context, campaignID int64, token string) (*domain.Nomination, error) {
	return f.myNomination, nil
}

func (f *fakeCouncilAPI) GetMyVote(ctx context.Context, campaignID int64, token string) (*domain.Vote, error) {
	return f.myVote, nil
}

func (f *fakeCouncilAPI) CreateCampaign(ctx context.Context, req *domain.CreateCampaignRequest, token string) (*domain.Campaign, error) {
	f.lastCreateReq = req
	return f.created, nil
}

func (f *fakeCouncilAPI) UpdateCampaign(ctx context.Context, campaignID int64, req *domain.UpdateCampaignRequest, token string) (*domain.Campaign, error) {
	f.updateCalls++
	f.lastUpdateReq = req
	c, ok := f.campaigns[campaignID]
	if !ok {
		return nil, errors.NewNotFoundError("Campaign not found")
	}
	if req.Status != nil {
		c.Status = *req.Status
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCouncilAPI) DeleteCampaign(ctx context.Context, campaignID int64, token string) error {
	f.deleted = append(f.deleted, campaignID)
	return nil
}

func (f *fakeCouncilAPI) Nominate(ctx context.Context, campaignID int64, nomineeDiscordID, token string) (*domain.Nomination, error) {
	return f.nominateResult, f.nominateErr
}

func (f *fakeCouncilAPI) Vote(ctx context.Context, campaignID int64, nomineeDiscordID, token string) (*domain.Vote, error) {
	return f.voteResult, f.voteErr
}

func newTestCache(t *testing.T) (*miniredis.Miniredis, *redis.Client, *CacheService) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := redis.NewClient("redis://"+mr.Addr(), "development", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return mr, client, NewCacheService(client, zap.NewNop())
}

func votingCampaign(id int64, phase domain.CampaignPhase) *domain.Campaign {
	return &domain.Campaign{
		ID:                    id,
		Title:                 "Mayor Election",
		Status:                phase,
		AllowSelfNomination:   false,
		MaxNominationsPerUser: 1,
		CreatedAt:             time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestGetCampaignViewAnonymous(t *testing.T) {
	fake := &fakeCouncilAPI{
		campaigns: map[int64]*domain.Campaign{1: votingCampaign(1, domain.PhaseNominationsOpen)},
	}
	svc := NewCouncilService(fake, nil, zap.NewNop())

	view, err := svc.GetCampaignView(context.Background(), 1, nil, "")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionNone, view.AllowedAction)
	assert.Nil(t, view.MyNomination)
	assert.Nil(t, view.MyVote)
	assert.Nil(t, view.Winner)
}

func TestGetCampaignViewOffersNominate(t *testing.T) {
	fake := &fakeCouncilAPI{
		campaigns: map[int64]*domain.Campaign{1: votingCampaign(1, domain.PhaseNominationsOpen)},
	}
	svc := NewCouncilService(fake, nil, zap.NewNop())

	user := &domain.UserProfile{DiscordID: "123"}
	view, err := svc.GetCampaignView(context.Background(), 1, user, "token")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionNominate, view.AllowedAction)
}

func TestGetCampaignViewExistingNominationDisablesAction(t *testing.T) {
	fake := &fakeCouncilAPI{
		campaigns:    map[int64]*domain.Campaign{1: votingCampaign(1, domain.PhaseNominationsOpen)},
		myNomination: &domain.Nomination{ID: 9, CampaignID: 1, NomineeDiscordID: "456"},
	}
	svc := NewCouncilService(fake, nil, zap.NewNop())

	view, err := svc.GetCampaignView(context.Background(), 1, &domain.UserProfile{DiscordID: "123"}, "token")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionNone, view.AllowedAction)
	require.NotNil(t, view.MyNomination)
}

func TestGetCampaignViewOffersVote(t *testing.T) {
	fake := &fakeCouncilAPI{
		campaigns: map[int64]*domain.Campaign{1: votingCampaign(1, domain.PhaseVotingOpen)},
	}
	svc := NewCouncilService(fake, nil, zap.NewNop())

	view, err := svc.GetCampaignView(context.Background(), 1, &domain.UserProfile{DiscordID: "123"}, "token")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionVote, view.AllowedAction)
}

func TestGetCampaignViewClosedFlagsWinner(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	fake := &fakeCouncilAPI{
		campaigns: map[int64]*domain.Campaign{1: votingCampaign(1, domain.PhaseClosed)},
		nominees: map[int64][]domain.Nominee{1: {
			{NomineeDiscordID: "second", VoteCount: 2, FirstNominatedAt: base},
			{NomineeDiscordID: "first", VoteCount: 7, FirstNominatedAt: base},
		}},
	}
	svc := NewCouncilService(fake, nil, zap.NewNop())

	view, err := svc.GetCampaignView(context.Background(), 1, &domain.UserProfile{DiscordID: "123"}, "token")
	require.NoError(t, err)
	require.NotNil(t, view.Winner)
	assert.Equal(t, "first", view.Winner.NomineeDiscordID)
	assert.True(t, view.Nominees[0].IsWinner)
	assert.Equal(t, domain.ActionNone, view.AllowedAction)
}

func TestListCampaignsFiltersLocally(t *testing.T) {
	fake := &fakeCouncilAPI{
		campaigns: map[int64]*domain.Campaign{
			1: votingCampaign(1, domain.PhaseVotingOpen),
			2: votingCampaign(2, domain.PhaseClosed),
		},
	}
	svc := NewCouncilService(fake, nil, zap.NewNop())

	open, err := svc.ListCampaigns(context.Background(), domain.CampaignFilter{})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, domain.PhaseVotingOpen, open[0].Status)

	all, err := svc.ListCampaigns(context.Background(), domain.CampaignFilter{IncludeClosed: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	closed, err := svc.ListCampaigns(context.Background(), domain.CampaignFilter{Status: domain.PhaseClosed})
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, int64(2), closed[0].ID)
}

func TestListCampaignsUsesCache(t *testing.T) {
	mr, _, cache := newTestCache(t)
	fake := &fakeCouncilAPI{
		campaigns: map[int64]*domain.Campaign{1: votingCampaign(1, domain.PhaseVotingOpen)},
	}
	svc := NewCouncilService(fake, cache, zap.NewNop())

	_, err := svc.ListCampaigns(context.Background(), domain.CampaignFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, fake.listCalls)

	// The cache write is asynchronous; wait for it to land
	key := cache.Keys().KeyCampaigns("all")
	require.Eventually(t, func() bool { return mr.Exists(key) }, time.Second, 5*time.Millisecond)

	_, err = svc.ListCampaigns(context.Background(), domain.CampaignFilter{IncludeClosed: true})
	require.NoError(t, err)
	assert.Equal(t, 1, fake.listCalls, "second read should be served from cache")
}

func TestNominateInvalidatesNomineeCache(t *testing.T) {
	mr, client, cache := newTestCache(t)
	fake := &fakeCouncilAPI{
		campaigns:      map[int64]*domain.Campaign{1: votingCampaign(1, domain.PhaseNominationsOpen)},
		nominateResult: &domain.Nomination{ID: 4, CampaignID: 1, NomineeDiscordID: "456"},
	}
	svc := NewCouncilService(fake, cache, zap.NewNop())

	key := cache.Keys().KeyCampaignNominees(1)
	require.NoError(t, client.Set(context.Background(), key, `[]`, time.Minute))

	_, err := svc.Nominate(context.Background(), 1, "456", "token")
	require.NoError(t, err)
	assert.False(t, mr.Exists(key), "nominee cache must be dropped after a successful nomination")
}

func TestVoteConflictStillInvalidates(t *testing.T) {
	mr, client, cache := newTestCache(t)
	fake := &fakeCouncilAPI{
		campaigns: map[int64]*domain.Campaign{1: votingCampaign(1, domain.PhaseVotingOpen)},
		voteErr:   errors.NewConflictError("You have already voted in this campaign"),
	}
	svc := NewCouncilService(fake, cache, zap.NewNop())

	key := cache.Keys().KeyCampaignNominees(1)
	require.NoError(t, client.Set(context.Background(), key, `[]`, time.Minute))

	_, err := svc.Vote(context.Background(), 1, "456", "token")
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
	assert.False(t, mr.Exists(key), "a conflict means the local picture was stale; re-fetch")
}

func TestVoteNetworkErrorKeepsCache(t *testing.T) {
	mr, client, cache := newTestCache(t)
	fake := &fakeCouncilAPI{
		campaigns: map[int64]*domain.Campaign{1: votingCampaign(1, domain.PhaseVotingOpen)},
		voteErr:   errors.NewExternalError("campaign service unreachable", nil),
	}
	svc := NewCouncilService(fake, cache, zap.NewNop())

	key := cache.Keys().KeyCampaignNominees(1)
	require.NoError(t, client.Set(context.Background(), key, `[]`, time.Minute))

	_, err := svc.Vote(context.Background(), 1, "456", "token")
	require.Error(t, err)
	assert.True(t, mr.Exists(key), "nothing was written remotely, nothing to reconcile")
}

func TestGetNomineesRanked(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	fake := &fakeCouncilAPI{
		campaigns: map[int64]*domain.Campaign{1: votingCampaign(1, domain.PhaseVotingOpen)},
		nominees: map[int64][]domain.Nominee{1: {
			{NomineeDiscordID: "b", VoteCount: 1, FirstNominatedAt: base},
			{NomineeDiscordID: "a", VoteCount: 3, FirstNominatedAt: base},
		}},
	}
	svc := NewCouncilService(fake, nil, zap.NewNop())

	ranked, err := svc.GetNominees(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "a", ranked[0].NomineeDiscordID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.False(t, ranked[0].IsWinner)
}
