package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"havenrp-web/pkg/logger"
)

const testSecret = "test-jwt-secret"

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error")
	require.NoError(t, err)
	return log
}

func signSessionToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestIsJWTToken(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected bool
	}{
		{
			name:     "Valid JWT shape",
			token:    "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjMifQ.signature",
			expected: true,
		},
		{
			name:     "Discord access token",
			token:    "mfa1Kw72xtL9vXzN84qGdE6hYcB3aJ5u",
			expected: false,
		},
		{
			name:     "Too few segments",
			token:    "header.payload",
			expected: false,
		},
		{
			name:     "Too many segments",
			token:    "a.b.c.d",
			expected: false,
		},
		{
			name:     "Empty token",
			token:    "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isJWTToken(tt.token))
		})
	}
}

func TestValidateSupabaseJWT(t *testing.T) {
	svc := NewService(testSecret, testLogger(t))

	token := signSessionToken(t, testSecret, jwt.MapClaims{
		"sub":   "supabase-user-id",
		"email": "member@haven-rp.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"user_metadata": map[string]interface{}{
			"provider_id": "123456789012345678",
			"full_name":   "HavenMember",
			"avatar_url":  "https://cdn.discordapp.com/avatars/123/abc.png",
		},
	})

	profile, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678", profile.DiscordID)
	assert.Equal(t, "HavenMember", profile.Username)
	assert.Equal(t, "member@haven-rp.com", profile.Email)
}

func TestValidateSupabaseJWTWrongSecret(t *testing.T) {
	svc := NewService(testSecret, testLogger(t))

	token := signSessionToken(t, "some-other-secret", jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
		"user_metadata": map[string]interface{}{
			"provider_id": "123",
		},
	})

	_, err := svc.ValidateToken(context.Background(), token)
	assert.Error(t, err)
}

func TestValidateSupabaseJWTExpired(t *testing.T) {
	svc := NewService(testSecret, testLogger(t))

	token := signSessionToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
		"user_metadata": map[string]interface{}{
			"provider_id": "123",
		},
	})

	_, err := svc.ValidateToken(context.Background(), token)
	assert.Error(t, err)
}

func TestValidateSupabaseJWTNoDiscordIdentity(t *testing.T) {
	svc := NewService(testSecret, testLogger(t))

	token := signSessionToken(t, testSecret, jwt.MapClaims{
		"sub": "supabase-user-id",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := svc.ValidateToken(context.Background(), token)
	assert.Error(t, err)
}

func TestValidateDiscordAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/@me", r.URL.Path)
		assert.Equal(t, "Bearer discord-access-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"987654321098765432","username":"havenite","global_name":"Havenite","avatar":"deadbeef","verified":true}`))
	}))
	defer server.Close()

	svc := NewServiceWithAPIBase(testSecret, server.URL, testLogger(t))

	profile, err := svc.ValidateToken(context.Background(), "discord-access-token")
	require.NoError(t, err)
	assert.Equal(t, "987654321098765432", profile.DiscordID)
	assert.Equal(t, "Havenite", profile.Username)
	assert.Contains(t, profile.AvatarURL, "987654321098765432/deadbeef")
}

func TestValidateDiscordAccessTokenRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"401: Unauthorized"}`))
	}))
	defer server.Close()

	svc := NewServiceWithAPIBase(testSecret, server.URL, testLogger(t))

	_, err := svc.ValidateToken(context.Background(), "revoked-token")
	assert.Error(t, err)
}
