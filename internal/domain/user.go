package domain

// UserProfile represents the authenticated member resolved from a session
// token. DiscordID is the identity every remote collaborator keys on.
type UserProfile struct {
	DiscordID     string `json:"discord_id"`
	Username      string `json:"username"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified"`
}
