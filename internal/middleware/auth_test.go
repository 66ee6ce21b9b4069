package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"havenrp-web/internal/domain"
	"havenrp-web/internal/service"
	"havenrp-web/pkg/errors"
	"havenrp-web/pkg/logger"
)

type fakeAuthService struct {
	profile *domain.UserProfile
	err     error
}

func (f *fakeAuthService) ValidateToken(ctx context.Context, token string) (*domain.UserProfile, error) {
	return f.profile, f.err
}

type fakeDirectoryAPI struct {
	roles *domain.MemberRoles
	err   error
}

func (f *fakeDirectoryAPI) GetMemberRoles(ctx context.Context, discordID string) (*domain.MemberRoles, error) {
	return f.roles, f.err
}

func (f *fakeDirectoryAPI) ListGuildRoles(ctx context.Context) ([]domain.DiscordRole, error) {
	return nil, nil
}

func (f *fakeDirectoryAPI) ListMembers(ctx context.Context) ([]domain.DiscordMember, error) {
	return nil, nil
}

func nopLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

// echoHandler records what the middleware put in context
func echoHandler(t *testing.T, gotUser **domain.UserProfile, gotToken *string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := UserFromContext(r.Context()); ok {
			*gotUser = user
		}
		if token, ok := TokenFromContext(r.Context()); ok {
			*gotToken = token
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthValidToken(t *testing.T) {
	auth := &fakeAuthService{profile: &domain.UserProfile{DiscordID: "123", Username: "haven"}}

	var gotUser *domain.UserProfile
	var gotToken string
	handler := Auth(auth, nopLogger())(echoHandler(t, &gotUser, &gotToken))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotUser)
	assert.Equal(t, "123", gotUser.DiscordID)
	assert.Equal(t, "valid-token", gotToken)
}

func TestAuthMissingHeader(t *testing.T) {
	handler := Auth(&fakeAuthService{}, nopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication")
}

func TestAuthMalformedHeader(t *testing.T) {
	handler := Auth(&fakeAuthService{}, nopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectedToken(t *testing.T) {
	auth := &fakeAuthService{err: errors.NewAuthenticationError("Invalid Discord token")}
	handler := Auth(auth, nopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAuthAnonymous(t *testing.T) {
	var gotUser *domain.UserProfile
	var gotToken string
	handler := OptionalAuth(&fakeAuthService{}, nopLogger())(echoHandler(t, &gotUser, &gotToken))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, gotUser)
	assert.Empty(t, gotToken)
}

func TestOptionalAuthBadTokenStillRejected(t *testing.T) {
	auth := &fakeAuthService{err: errors.NewAuthenticationError("Invalid Discord token")}
	handler := OptionalAuth(auth, nopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	handler := RequestID(nopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := r.Context().Value(RequestIDContextKey).(string)
		assert.True(t, ok)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func adminRequest(user *domain.UserProfile) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	if user != nil {
		ctx := context.WithValue(req.Context(), UserContextKey, user)
		req = req.WithContext(ctx)
	}
	return req
}

func TestRequireCouncilAdminAllowed(t *testing.T) {
	directory := service.NewDirectoryService(&fakeDirectoryAPI{
		roles: &domain.MemberRoles{DiscordID: "123", Roles: []domain.DiscordRole{{ID: "admin-role", Name: "Council Admin"}}},
	}, nil, zap.NewNop())

	called := false
	handler := RequireCouncilAdmin(directory, "admin-role", nopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, adminRequest(&domain.UserProfile{DiscordID: "123"}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestRequireCouncilAdminMissingRole(t *testing.T) {
	directory := service.NewDirectoryService(&fakeDirectoryAPI{
		roles: &domain.MemberRoles{DiscordID: "123", Roles: []domain.DiscordRole{{ID: "citizen", Name: "Citizen"}}},
	}, nil, zap.NewNop())

	handler := RequireCouncilAdmin(directory, "admin-role", nopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, adminRequest(&domain.UserProfile{DiscordID: "123"}))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireCouncilAdminUnauthenticated(t *testing.T) {
	directory := service.NewDirectoryService(&fakeDirectoryAPI{}, nil, zap.NewNop())

	handler := RequireCouncilAdmin(directory, "admin-role", nopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, adminRequest(nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireCouncilAdminNoRoleConfigured(t *testing.T) {
	directory := service.NewDirectoryService(&fakeDirectoryAPI{}, nil, zap.NewNop())

	handler := RequireCouncilAdmin(directory, "", nopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, adminRequest(&domain.UserProfile{DiscordID: "123"}))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	config := DefaultCORSConfig()
	config.AllowedOrigins = []string{"https://haven-rp.com"}

	handler := CORS(config, nopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight must not reach the handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://haven-rp.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://haven-rp.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORSDisallowedOrigin(t *testing.T) {
	config := DefaultCORSConfig()
	config.AllowedOrigins = []string{"https://haven-rp.com"}

	handler := CORS(config, nopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
