package service

import (
	"context"

	"havenrp-web/internal/domain"
)

// AuthService defines the interface for session credential validation
type AuthService interface {
	// ValidateToken validates a session credential (Supabase session JWT or
	// Discord OAuth access token) and resolves the member behind it
	ValidateToken(ctx context.Context, token string) (*domain.UserProfile, error)
}

// CouncilAPI is the remote campaign service surface the view and admin
// controllers consume. The remote service owns all campaign state; every
// method is a network call.
type CouncilAPI interface {
	ListCampaigns(ctx context.Context, filter domain.CampaignFilter) ([]domain.Campaign, error)
	GetCampaign(ctx context.Context, campaignID int64) (*domain.Campaign, error)
	ListNominees(ctx context.Context, campaignID int64) ([]domain.Nominee, error)
	GetMyNomination(ctx context.Context, campaignID int64, token string) (*domain.Nomination, error)
	GetMyVote(ctx context.Context, campaignID int64, token string) (*domain.Vote, error)
	CreateCampaign(ctx context.Context, req *domain.CreateCampaignRequest, token string) (*domain.Campaign, error)
	UpdateCampaign(ctx context.Context, campaignID int64, req *domain.UpdateCampaignRequest, token string) (*domain.Campaign, error)
	DeleteCampaign(ctx context.Context, campaignID int64, token string) error
	Nominate(ctx context.Context, campaignID int64, nomineeDiscordID, token string) (*domain.Nomination, error)
	Vote(ctx context.Context, campaignID int64, nomineeDiscordID, token string) (*domain.Vote, error)
}

// DirectoryAPI is the Discord guild directory surface
type DirectoryAPI interface {
	GetMemberRoles(ctx context.Context, discordID string) (*domain.MemberRoles, error)
	ListGuildRoles(ctx context.Context) ([]domain.DiscordRole, error)
	ListMembers(ctx context.Context) ([]domain.DiscordMember, error)
}

// StorefrontAPI is the Tebex Headless storefront surface
type StorefrontAPI interface {
	GetWebstore(ctx context.Context) (*domain.TebexWebstore, error)
	ListCategories(ctx context.Context) ([]domain.TebexCategory, error)
	GetCategory(ctx context.Context, categoryID int64) (*domain.TebexCategory, error)
	GetPackage(ctx context.Context, packageID int64) (*domain.TebexPackage, error)
}

// FivemAPI is the read-only game-server data surface
type FivemAPI interface {
	ListCharacters(ctx context.Context, discordID string) ([]domain.ParsedCharacter, error)
	GetCharacter(ctx context.Context, citizenID string) (*domain.ParsedCharacter, error)
	ListVehicles(ctx context.Context, citizenID string) ([]domain.Vehicle, error)
	GetVehicleInventory(ctx context.Context, citizenID, plate string) (*domain.VehicleInventory, error)
}
