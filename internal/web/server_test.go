package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/JonMunkholm/familytree/internal/config"
	"github.com/JonMunkholm/familytree/internal/core"
)

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.get("/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	ts.svc.pingErr = errors.New("connection refused")
	rec = ts.get("/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "database unavailable")
}

func TestSecurityHeaders(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.get("/", "")

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "https://unpkg.com")

	ts = newTestServer(t, func(c *config.Config) { c.Security.EnableCSP = false })
	rec = ts.get("/", "")
	assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrTreeNotFound, http.StatusNotFound},
		{fmt.Errorf("census %q: %w", "xx", core.ErrCensusNotFound), http.StatusNotFound},
		{core.ErrInvalidSetting, http.StatusBadRequest},
		{core.ErrInvalidCoordinates, http.StatusBadRequest},
		{core.ErrUserExists, http.StatusConflict},
		{core.ErrInvalidCredentials, http.StatusUnauthorized},
		{core.ErrForbidden, http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestErrorRendering(t *testing.T) {
	ts := newTestServer(t)

	t.Run("json", func(t *testing.T) {
		rec := ts.get("/tree/nope/", "", "Accept", "application/json")
		require.Equal(t, http.StatusNotFound, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "GEN001", resp.Code)
		assert.NotEmpty(t, resp.Action)
	})

	t.Run("htmx", func(t *testing.T) {
		rec := ts.get("/tree/nope/", "", "HX-Request", "true")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "#errors", rec.Header().Get("HX-Retarget"))
		assert.Contains(t, rec.Body.String(), `data-code="GEN001"`)
		assert.NotContains(t, rec.Body.String(), "<html")
	})

	t.Run("page", func(t *testing.T) {
		rec := ts.get("/tree/nope/", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "<title>Error 404</title>")
	})
}

func TestRateLimiter(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	rl := newRateLimiter(2, time.Minute)
	defer rl.stop()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("192.0.2.1"))
	assert.True(t, rl.allow("192.0.2.1"))
	assert.False(t, rl.allow("192.0.2.1"))
	assert.True(t, rl.allow("192.0.2.2"), "limits are per address")

	now = now.Add(time.Minute + time.Second)
	assert.True(t, rl.allow("192.0.2.1"), "window resets")

	now = now.Add(3 * time.Minute)
	rl.prune()
	rl.mu.Lock()
	assert.Empty(t, rl.visitors)
	rl.mu.Unlock()

	rl.stop() // idempotent
}

func TestRateLimitMiddleware(t *testing.T) {
	ts := newTestServer(t, func(c *config.Config) {
		c.Security.RateLimitEnabled = true
		c.Security.RequestsPerMinute = 1
	})

	assert.Equal(t, http.StatusOK, ts.get("/healthz", "").Code)
	rec := ts.get("/healthz", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestHousekeepingMiddleware(t *testing.T) {
	ts := newTestServer(t)
	ts.get("/", "")
	assert.Zero(t, ts.svc.housekeeping, "probability 0 disables housekeeping")

	ts = newTestServer(t, func(c *config.Config) { c.Housekeeping.Probability = 1 })
	ts.get("/", "")
	ts.get("/healthz", "")
	assert.Equal(t, 2, ts.svc.housekeeping)
}

func TestMetricsToken(t *testing.T) {
	ts := newTestServer(t, func(c *config.Config) { c.Security.MetricsToken = "s3cret" })

	rec := ts.get("/metrics", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.get("/metrics", "", "Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.get("/metrics", "", "Authorization", "Bearer s3cret")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNilMetrics(t *testing.T) {
	srv := NewServer(newFakeService(), testConfig(), nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLocalPath(t *testing.T) {
	tests := map[string]string{
		"":                   "/",
		"/tree/demo":         "/tree/demo",
		"//evil.example":     "/",
		"/\\evil.example":    "/",
		"https://evil.test/": "/",
	}
	for in, want := range tests {
		assert.Equal(t, want, localPath(in), in)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "198.51.100.7:5555"
	assert.Equal(t, "198.51.100.7", clientIP(r))

	r.RemoteAddr = "198.51.100.7"
	assert.Equal(t, "198.51.100.7", clientIP(r))
}
