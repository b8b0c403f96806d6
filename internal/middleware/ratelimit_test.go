package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serveFrom(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_AllowsWithinLimit(t *testing.T) {
	handler := RateLimiter(RateLimitConfig{RequestsPerSecond: 100, Burst: 10})(okHandler())

	for range 5 {
		rec := serveFrom(handler, "10.0.0.1:1000")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	handler := RateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 2})(okHandler())

	for range 2 {
		require.Equal(t, http.StatusOK, serveFrom(handler, "10.0.0.1:1000").Code)
	}

	rec := serveFrom(handler, "10.0.0.1:1000")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.InDelta(t, float64(429), body["code"], 0.001)
	assert.Equal(t, "rate limit exceeded", body["message"])
}

func TestRateLimiter_PerClientIsolation(t *testing.T) {
	handler := RateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1})(okHandler())

	require.Equal(t, http.StatusOK, serveFrom(handler, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, serveFrom(handler, "10.0.0.1:5678").Code)
	assert.Equal(t, http.StatusOK, serveFrom(handler, "10.0.0.2:1234").Code)
}

func TestClientLimiters_PrunesIdleClients(t *testing.T) {
	clients := newClientLimiters(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, IdleTTL: time.Minute})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clients.now = func() time.Time { return now }

	clients.get("a")
	clients.get("b")
	assert.Equal(t, 2, clients.size())

	now = now.Add(2 * time.Minute)
	clients.get("c")
	assert.Equal(t, 1, clients.size())
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		want       string
	}{
		{"IPv4 with port", "192.168.1.1:12345", "", "192.168.1.1"},
		{"IPv6 with port", "[::1]:12345", "", "::1"},
		{"no port", "192.168.1.1", "", "192.168.1.1"},
		{"forwarded header ignored", "10.0.0.1:1234", "203.0.113.50", "10.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}
