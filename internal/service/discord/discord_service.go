package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"havenrp-web/internal/config"
	"havenrp-web/internal/domain"
	"havenrp-web/pkg/errors"
	"havenrp-web/pkg/logger"
)

// Service reads the Discord guild directory through the game-server API,
// which runs the bot and owns the member/role data.
type Service struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewService creates a new Discord directory service
func NewService(cfg *config.Config, logger *logger.Logger) *Service {
	return &Service{
		baseURL: cfg.HavenAPIURL,
		apiKey:  cfg.HavenAPIKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

type memberRolesResponse struct {
	Success   bool                          `json:"success"`
	Message   string                        `json:"message"`
	DiscordID string                        `json:"discord_id"`
	Roles     map[string]domain.DiscordRole `json:"roles"`
}

type guildRolesResponse struct {
	Roles json.RawMessage `json:"roles"`
}

type membersResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Count   int                    `json:"count"`
	Users   []domain.DiscordMember `json:"users"`
}

// GetMemberRoles fetches the role set a guild member currently holds
func (s *Service) GetMemberRoles(ctx context.Context, discordID string) (*domain.MemberRoles, error) {
	if discordID == "" {
		return nil, errors.NewValidationError("discord id is required", nil)
	}

	var resp memberRolesResponse
	if err := s.get(ctx, "/discord/roles/"+discordID, &resp); err != nil {
		return nil, err
	}

	roles := make([]domain.DiscordRole, 0, len(resp.Roles))
	for _, role := range resp.Roles {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })

	return &domain.MemberRoles{
		DiscordID: resp.DiscordID,
		Roles:     roles,
	}, nil
}

// ListGuildRoles fetches every role in the guild, de-duplicated by id and
// sorted by name. The endpoint has returned both an array and an object map
// over time, so both shapes are accepted.
func (s *Service) ListGuildRoles(ctx context.Context) ([]domain.DiscordRole, error) {
	var resp guildRolesResponse
	if err := s.get(ctx, "/discord/all", &resp); err != nil {
		return nil, err
	}

	var roles []domain.DiscordRole
	if err := json.Unmarshal(resp.Roles, &roles); err != nil {
		var roleMap map[string]domain.DiscordRole
		if mapErr := json.Unmarshal(resp.Roles, &roleMap); mapErr != nil {
			return nil, errors.NewExternalError("failed to parse guild roles", err)
		}
		roles = make([]domain.DiscordRole, 0, len(roleMap))
		for _, role := range roleMap {
			roles = append(roles, role)
		}
	}

	seen := make(map[string]bool, len(roles))
	deduped := roles[:0]
	for _, role := range roles {
		if !seen[role.ID] {
			seen[role.ID] = true
			deduped = append(deduped, role)
		}
	}
	sort.Slice(deduped, func(i, j int) bool { return deduped[i].Name < deduped[j].Name })

	return deduped, nil
}

// ListMembers fetches the guild member directory with bot accounts removed
func (s *Service) ListMembers(ctx context.Context) ([]domain.DiscordMember, error) {
	var resp membersResponse
	if err := s.get(ctx, "/discord/users", &resp); err != nil {
		return nil, err
	}
	return domain.FilterNonBots(resp.Users), nil
}

func (s *Service) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return errors.NewInternalError("failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-Key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.WithError(err).WithField("path", path).Error("Discord directory request failed")
		return errors.NewExternalError("discord directory unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewExternalError("failed to read directory response", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errors.NewNotFoundError("member not found")
	case resp.StatusCode == http.StatusUnauthorized:
		return errors.NewAuthenticationError("directory API key rejected")
	case resp.StatusCode != http.StatusOK:
		return errors.NewExternalError(
			fmt.Sprintf("directory request failed (status %d)", resp.StatusCode),
			fmt.Errorf("directory returned status %d", resp.StatusCode))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.NewExternalError("failed to parse directory response", err)
	}
	return nil
}
