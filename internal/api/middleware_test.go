package api

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/pkg/auth"
)

func TestRateLimiterPerClient(t *testing.T) {
	l := NewRateLimiter(1, 2, slog.New(slog.NewTextHandler(io.Discard, nil)))
	now := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))

	now = now.Add(time.Second)
	assert.True(t, l.Allow("10.0.0.1"))
}

func TestRateLimiterDisabled(t *testing.T) {
	l := NewRateLimiter(0, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	for i := 0; i < 100; i++ {
		require.True(t, l.Allow("10.0.0.1"))
	}
}

func TestRateLimiterMiddlewareResponds429(t *testing.T) {
	l := NewRateLimiter(1, 1, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	req := httptest.NewRequest(http.MethodGet, "/api/movies", nil)
	req.RemoteAddr = "192.0.2.1:1234"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestAuthMiddlewareRejectsNonUUIDUser(t *testing.T) {
	h := newTestRouter(t)

	claims := &auth.Claims{UserID: "admin", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	rec := doRequest(t, h, http.MethodGet, "/api/ratings/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	h := newTestRouter(t)

	claims := &auth.Claims{UserID: "0b7f5a8e-2d0c-4c59-8f3e-1c3a2b4d5e6f", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	rec := doRequest(t, h, http.MethodGet, "/api/movies", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimiterSweepsIdleClientsOncePerTTL(t *testing.T) {
	l := NewRateLimiter(10, 10, slog.New(slog.NewTextHandler(io.Discard, nil)))
	start := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)
	now := start
	l.now = func() time.Time { return now }

	require.True(t, l.Allow("10.0.0.1"))

	now = start.Add(time.Minute)
	require.True(t, l.Allow("10.0.0.2"))
	assert.Len(t, l.clients, 2)
	assert.Equal(t, start, l.lastSweep)

	now = start.Add(4 * time.Minute)
	require.True(t, l.Allow("10.0.0.3"))
	assert.Len(t, l.clients, 2)
	assert.NotContains(t, l.clients, "10.0.0.1")
	assert.Contains(t, l.clients, "10.0.0.2")
	assert.Equal(t, now, l.lastSweep)
}
