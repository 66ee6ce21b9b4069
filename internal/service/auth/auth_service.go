package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"havenrp-web/internal/domain"
	"havenrp-web/internal/service"
	"havenrp-web/pkg/errors"
	"havenrp-web/pkg/logger"
)

const discordAPIBase = "https://discord.com/api/v10"

// Service implements the AuthService interface. Session credentials arrive
// in one of two shapes: a Supabase session JWT (the site signs members in
// with Discord through Supabase) or a raw Discord OAuth access token.
type Service struct {
	jwtSecret  string
	apiBase    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewService creates a new auth service
func NewService(jwtSecret string, logger *logger.Logger) service.AuthService {
	return &Service{
		jwtSecret: jwtSecret,
		apiBase:   discordAPIBase,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// NewServiceWithAPIBase creates an auth service pointed at a non-default
// Discord API base. Used by tests.
func NewServiceWithAPIBase(jwtSecret, apiBase string, logger *logger.Logger) service.AuthService {
	svc := &Service{
		jwtSecret: jwtSecret,
		apiBase:   apiBase,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
	return svc
}

// ValidateToken validates a session credential and resolves the member
// profile behind it
func (s *Service) ValidateToken(ctx context.Context, token string) (*domain.UserProfile, error) {
	if isJWTToken(token) {
		return s.validateSupabaseJWT(token)
	}
	return s.validateDiscordAccessToken(ctx, token)
}

// validateSupabaseJWT verifies a Supabase session JWT with the shared
// secret and extracts the Discord identity from its user metadata
func (s *Service) validateSupabaseJWT(tokenString string) (*domain.UserProfile, error) {
	if s.jwtSecret == "" {
		s.logger.Error("SUPABASE_JWT_SECRET not configured")
		return nil, errors.NewAuthenticationError("JWT validation not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		s.logger.WithError(err).Debug("Failed to parse/validate session JWT")
		return nil, errors.NewAuthenticationError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.NewAuthenticationError("Invalid token claims")
	}

	if exp, ok := claims["exp"].(float64); ok {
		if time.Now().Unix() > int64(exp) {
			return nil, errors.NewAuthenticationError("Token has expired")
		}
	}

	profile := &domain.UserProfile{
		Email:         getStringClaim(claims, "email"),
		EmailVerified: getBoolClaim(claims, "email_verified"),
	}

	if meta, ok := claims["user_metadata"].(map[string]interface{}); ok {
		profile.DiscordID = getStringClaim(meta, "provider_id")
		if profile.DiscordID == "" {
			profile.DiscordID = getStringClaim(meta, "sub")
		}
		profile.Username = getStringClaim(meta, "full_name")
		if profile.Username == "" {
			profile.Username = getStringClaim(meta, "name")
		}
		profile.AvatarURL = getStringClaim(meta, "avatar_url")
		if !profile.EmailVerified {
			profile.EmailVerified = getBoolClaim(meta, "email_verified")
		}
	}

	if profile.DiscordID == "" {
		s.logger.Error("No Discord identity found in session JWT")
		return nil, errors.NewAuthenticationError("Invalid token: no Discord identity")
	}

	s.logger.WithField("discord_id", profile.DiscordID).Debug("Session JWT validated successfully")
	return profile, nil
}

// discordUser is the /users/@me response shape
type discordUser struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	GlobalName *string `json:"global_name"`
	Avatar     *string `json:"avatar"`
	Email      string  `json:"email"`
	Verified   bool    `json:"verified"`
}

// validateDiscordAccessToken resolves a raw Discord OAuth access token by
// asking Discord who it belongs to
func (s *Service) validateDiscordAccessToken(ctx context.Context, token string) (*domain.UserProfile, error) {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	client := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, s.httpClient), source)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiBase+"/users/@me", nil)
	if err != nil {
		return nil, errors.NewInternalError("failed to create validation request", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		s.logger.WithError(err).Error("Failed to call Discord identity endpoint")
		return nil, errors.NewAuthenticationError("Failed to validate token")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, errors.NewAuthenticationError("Invalid or expired Discord token")
	}
	if resp.StatusCode != http.StatusOK {
		s.logger.WithField("status_code", resp.StatusCode).Error("Discord identity endpoint returned error")
		return nil, errors.NewAuthenticationError("Token validation failed")
	}

	var user discordUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, errors.NewInternalError("failed to decode identity response", err)
	}
	if user.ID == "" {
		return nil, errors.NewAuthenticationError("Invalid identity response")
	}

	profile := &domain.UserProfile{
		DiscordID:     user.ID,
		Username:      user.Username,
		Email:         user.Email,
		EmailVerified: user.Verified,
	}
	if user.GlobalName != nil && *user.GlobalName != "" {
		profile.Username = *user.GlobalName
	}
	if user.Avatar != nil && *user.Avatar != "" {
		profile.AvatarURL = fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", user.ID, *user.Avatar)
	}

	s.logger.WithField("discord_id", profile.DiscordID).Debug("Discord access token validated successfully")
	return profile, nil
}

// isJWTToken reports whether the token has the three-segment JWT shape
func isJWTToken(token string) bool {
	return strings.Count(token, ".") == 2
}

func getStringClaim(m map[string]interface{}, key string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return ""
}

func getBoolClaim(m map[string]interface{}, key string) bool {
	if val, ok := m[key].(bool); ok {
		return val
	}
	return false
}
