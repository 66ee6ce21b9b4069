package domain

import (
	"fmt"
	"sort"
	"time"
)

// CampaignPhase represents the lifecycle phase of a council campaign.
// The phase machine is owned by the remote campaign service; this side only
// observes it and requests transitions.
type CampaignPhase string

const (
	PhaseDraft           CampaignPhase = "draft"
	PhaseNominationsOpen CampaignPhase = "nominations_open"
	PhaseVotingOpen      CampaignPhase = "voting_open"
	PhaseClosed          CampaignPhase = "closed"
)

// Valid reports whether p is a known campaign phase
func (p CampaignPhase) Valid() bool {
	switch p {
	case PhaseDraft, PhaseNominationsOpen, PhaseVotingOpen, PhaseClosed:
		return true
	}
	return false
}

// Terminal reports whether no further transitions leave p
func (p CampaignPhase) Terminal() bool {
	return p == PhaseClosed
}

// CanTransition reports whether the phase machine permits moving from p to
// next. Forward: draft -> nominations_open -> voting_open -> closed. The
// only backward edge is the pause path from either open phase to draft.
func (p CampaignPhase) CanTransition(next CampaignPhase) bool {
	switch p {
	case PhaseDraft:
		return next == PhaseNominationsOpen
	case PhaseNominationsOpen:
		return next == PhaseVotingOpen || next == PhaseDraft
	case PhaseVotingOpen:
		return next == PhaseClosed || next == PhaseDraft
	}
	return false
}

// NextPhase returns the forward transition from p, or "" if p has none
func (p CampaignPhase) NextPhase() CampaignPhase {
	switch p {
	case PhaseDraft:
		return PhaseNominationsOpen
	case PhaseNominationsOpen:
		return PhaseVotingOpen
	case PhaseVotingOpen:
		return PhaseClosed
	}
	return ""
}

// Campaign represents a council nomination/voting exercise
type Campaign struct {
	ID                    int64         `json:"id"`
	Title                 string        `json:"title"`
	Description           string        `json:"description,omitempty"`
	Status                CampaignPhase `json:"status"`
	AllowSelfNomination   bool          `json:"allow_self_nomination"`
	MaxNominationsPerUser int           `json:"max_nominations_per_user"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             *time.Time    `json:"updated_at,omitempty"`
}

// Nominee is the per-campaign aggregate of all nominations one candidate has
// received. It exists only while at least one nomination does.
type Nominee struct {
	CampaignID       int64     `json:"campaign_id"`
	NomineeDiscordID string    `json:"nominee_discord_id"`
	NomineeUsername  string    `json:"nominee_username"`
	NominationCount  int       `json:"nomination_count"`
	VoteCount        int       `json:"vote_count"`
	FirstNominatedAt time.Time `json:"first_nominated_at"`
}

// Nomination is a single write-once nomination by the authenticated caller
type Nomination struct {
	ID               int64     `json:"id"`
	CampaignID       int64     `json:"campaign_id"`
	NomineeDiscordID string    `json:"nominee_discord_id"`
	NomineeUsername  string    `json:"nominee_username"`
	IsSelfNomination bool      `json:"is_self_nomination"`
	CreatedAt        time.Time `json:"created_at"`
}

// Vote is the caller's single write-once vote in a campaign
type Vote struct {
	ID               int64     `json:"id"`
	CampaignID       int64     `json:"campaign_id"`
	NomineeDiscordID string    `json:"nominee_discord_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// CampaignFilter narrows a campaign listing
type CampaignFilter struct {
	Status        CampaignPhase
	IncludeClosed bool
}

// CreateCampaignRequest is the payload for creating a campaign
type CreateCampaignRequest struct {
	Title                 string `json:"title"`
	Description           string `json:"description,omitempty"`
	AllowSelfNomination   *bool  `json:"allow_self_nomination,omitempty"`
	MaxNominationsPerUser *int   `json:"max_nominations_per_user,omitempty"`
}

// Validate checks the payload before it is sent to the remote service
func (r *CreateCampaignRequest) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if r.MaxNominationsPerUser != nil && *r.MaxNominationsPerUser < 1 {
		return fmt.Errorf("max_nominations_per_user must be at least 1")
	}
	return nil
}

// ApplyDefaults fills in the documented defaults for omitted fields:
// self-nomination allowed, one nomination per user.
func (r *CreateCampaignRequest) ApplyDefaults() {
	if r.AllowSelfNomination == nil {
		allow := true
		r.AllowSelfNomination = &allow
	}
	if r.MaxNominationsPerUser == nil {
		max := 1
		r.MaxNominationsPerUser = &max
	}
}

// UpdateCampaignRequest is the PATCH payload for editing a campaign; nil
// fields are left untouched
type UpdateCampaignRequest struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Status      *CampaignPhase `json:"status,omitempty"`
}

// CampaignAction is the single affordance a phase offers an authenticated
// caller
type CampaignAction string

const (
	ActionNone     CampaignAction = "none"
	ActionNominate CampaignAction = "nominate"
	ActionVote     CampaignAction = "vote"
)

// AllowedAction returns the action the campaign's current phase offers a
// caller with the given participation state. Draft and closed campaigns are
// view-only; an existing nomination or vote disables the corresponding
// action.
func (c *Campaign) AllowedAction(hasNomination, hasVote bool) CampaignAction {
	switch c.Status {
	case PhaseNominationsOpen:
		if !hasNomination {
			return ActionNominate
		}
	case PhaseVotingOpen:
		if !hasVote {
			return ActionVote
		}
	}
	return ActionNone
}

// RankedNominee is a nominee with its presentation rank attached
type RankedNominee struct {
	Nominee
	Rank     int  `json:"rank"`
	IsWinner bool `json:"is_winner"`
}

// RankNominees sorts nominees by vote count descending, ties broken by
// earliest first nomination, and assigns ranks. When the campaign is closed
// the top-ranked nominee is flagged as the winner; equal vote counts are not
// broken further, the first after sort wins.
func RankNominees(nominees []Nominee, phase CampaignPhase) []RankedNominee {
	sorted := make([]Nominee, len(nominees))
	copy(sorted, nominees)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].VoteCount != sorted[j].VoteCount {
			return sorted[i].VoteCount > sorted[j].VoteCount
		}
		return sorted[i].FirstNominatedAt.Before(sorted[j].FirstNominatedAt)
	})

	ranked := make([]RankedNominee, len(sorted))
	for i, n := range sorted {
		ranked[i] = RankedNominee{
			Nominee:  n,
			Rank:     i + 1,
			IsWinner: phase == PhaseClosed && i == 0,
		}
	}
	return ranked
}

// CampaignView is the assembled projection a page renders for one campaign:
// the campaign itself, the ranked nominees and the caller's participation
// state with the single action the phase currently allows
type CampaignView struct {
	Campaign      Campaign        `json:"campaign"`
	Nominees      []RankedNominee `json:"nominees"`
	MyNomination  *Nomination     `json:"my_nomination,omitempty"`
	MyVote        *Vote           `json:"my_vote,omitempty"`
	AllowedAction CampaignAction  `json:"allowed_action"`
	Winner        *RankedNominee  `json:"winner,omitempty"`
}
