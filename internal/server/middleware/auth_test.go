package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/brainrot/internal/server/handlers"
)

func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func testJWTConfig() handlers.JWTConfig {
	return handlers.JWTConfig{
		Secret:   []byte("test-secret"),
		TokenTTL: time.Hour,
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	cfg := testJWTConfig()
	token, err := handlers.GenerateAccessToken(cfg, "user123", "testuser")
	require.NoError(t, err)

	var gotUserID, gotUsername string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = handlers.GetUserID(r.Context())
		gotUsername, _ = handlers.GetUsername(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	mw := AuthMiddleware(setupTestLogger(), cfg)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	mw.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user123", gotUserID)
	assert.Equal(t, "testuser", gotUsername)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	mw := AuthMiddleware(setupTestLogger(), testJWTConfig())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler should not be called")
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()
	mw.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidFormat(t *testing.T) {
	mw := AuthMiddleware(setupTestLogger(), testJWTConfig())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler should not be called")
		}))

	tests := []struct {
		name   string
		header string
	}{
		{"no bearer prefix", "sometoken"},
		{"wrong scheme", "Basic dXNlcjpwdw=="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			req.Header.Set("Authorization", tt.header)

			w := httptest.NewRecorder()
			mw.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	mw := AuthMiddleware(setupTestLogger(), testJWTConfig())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler should not be called")
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.valid.token")

	w := httptest.NewRecorder()
	mw.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	expiredCfg := handlers.JWTConfig{Secret: []byte("test-secret"), TokenTTL: -time.Minute}
	token, err := handlers.GenerateAccessToken(expiredCfg, "user123", "testuser")
	require.NoError(t, err)

	mw := AuthMiddleware(setupTestLogger(), testJWTConfig())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler should not be called")
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	mw.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
