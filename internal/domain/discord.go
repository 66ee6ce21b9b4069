package domain

// DiscordRole is a guild role as reported by the game-server API
type DiscordRole struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color int    `json:"color"`
}

// MemberRoles is the role set one guild member currently holds
type MemberRoles struct {
	DiscordID string        `json:"discord_id"`
	Roles     []DiscordRole `json:"roles"`
}

// HasRole reports whether the member holds the role with the given id
func (m *MemberRoles) HasRole(roleID string) bool {
	for _, r := range m.Roles {
		if r.ID == roleID {
			return true
		}
	}
	return false
}

// DiscordMember is a guild member from the server directory
type DiscordMember struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	Discriminator string  `json:"discriminator"`
	GlobalName    *string `json:"global_name"`
	Nickname      *string `json:"nickname"`
	Avatar        *string `json:"avatar"`
	Bot           bool    `json:"bot"`
}

// DisplayName resolves the member's display name: nickname, then global
// name, then username
func (m *DiscordMember) DisplayName() string {
	if m.Nickname != nil && *m.Nickname != "" {
		return *m.Nickname
	}
	if m.GlobalName != nil && *m.GlobalName != "" {
		return *m.GlobalName
	}
	return m.Username
}

// FilterNonBots drops bot accounts from a member list
func FilterNonBots(members []DiscordMember) []DiscordMember {
	result := make([]DiscordMember, 0, len(members))
	for _, m := range members {
		if !m.Bot {
			result = append(result, m)
		}
	}
	return result
}
