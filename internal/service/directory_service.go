package service

import (
	"context"

	"go.uber.org/zap"

	"havenrp-web/internal/domain"
	"havenrp-web/pkg/redis"
)

// DirectoryService layers caching over the Discord guild directory. Role
// sets gate the council admin surface, so they are looked up often and
// change rarely.
type DirectoryService struct {
	directory DirectoryAPI
	cache     *CacheService
	logger    *zap.Logger
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(directory DirectoryAPI, cache *CacheService, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{
		directory: directory,
		cache:     cache,
		logger:    logger,
	}
}

// GetMemberRoles returns a member's current role set (10m cache)
func (s *DirectoryService) GetMemberRoles(ctx context.Context, discordID string) (*domain.MemberRoles, error) {
	key := s.cache.Keys().KeyMemberRoles(discordID)

	var roles domain.MemberRoles
	if s.cache.GetJSON(ctx, key, &roles) {
		return &roles, nil
	}

	fetched, err := s.directory.GetMemberRoles(ctx, discordID)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSONAsync(key, fetched, redis.TTLMemberRoles)
	return fetched, nil
}

// HasRole reports whether a member currently holds the given role
func (s *DirectoryService) HasRole(ctx context.Context, discordID, roleID string) (bool, error) {
	roles, err := s.GetMemberRoles(ctx, discordID)
	if err != nil {
		return false, err
	}
	return roles.HasRole(roleID), nil
}

// ListGuildRoles returns every guild role (10m cache)
func (s *DirectoryService) ListGuildRoles(ctx context.Context) ([]domain.DiscordRole, error) {
	key := s.cache.Keys().KeyGuildRoles()

	var roles []domain.DiscordRole
	if s.cache.GetJSON(ctx, key, &roles) {
		return roles, nil
	}

	fetched, err := s.directory.ListGuildRoles(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSONAsync(key, fetched, redis.TTLGuildRoles)
	return fetched, nil
}

// ListMembers returns the guild member directory, bots excluded (5m cache)
func (s *DirectoryService) ListMembers(ctx context.Context) ([]domain.DiscordMember, error) {
	key := s.cache.Keys().KeyGuildMembers()

	var members []domain.DiscordMember
	if s.cache.GetJSON(ctx, key, &members) {
		return members, nil
	}

	fetched, err := s.directory.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSONAsync(key, fetched, redis.TTLGuildMembers)
	return fetched, nil
}
