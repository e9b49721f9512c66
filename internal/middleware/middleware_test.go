package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/studyhall/internal/config"
	"github.com/templui/studyhall/internal/ctxkeys"
	"github.com/templui/studyhall/internal/model"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(okHandler, mark("first"), mark("second"), mark("third"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc", "abc", true},
		{"Bearer   ", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"abc", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			got, ok := bearerToken(r)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	h := RequireAuth(okHandler)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, `Bearer realm="api"`, w.Header().Get("WWW-Authenticate"))
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	r := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	r = r.WithContext(ctxkeys.WithUser(r.Context(), &model.User{ID: "u1"}))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiterWindow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "keys are limited independently")

	now = now.Add(61 * time.Second)
	assert.True(t, rl.Allow("a"))

	now = now.Add(2 * time.Minute)
	rl.cleanup()
	assert.Empty(t, rl.requests)

	rl.Stop()
	rl.Stop()
}

func TestRateLimitWrites(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()

	h := RateLimitWrites(rl, nil)(okHandler)

	send := func(method string, user *model.User, ip string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(method, "/api/sessions", nil)
		r.RemoteAddr = ip + ":5555"
		if user != nil {
			r = r.WithContext(ctxkeys.WithUser(r.Context(), user))
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	ada := &model.User{ID: "ada"}
	grace := &model.User{ID: "grace"}

	assert.Equal(t, http.StatusOK, send(http.MethodPost, ada, "10.0.0.1").Code)

	limited := send(http.MethodPost, ada, "10.0.0.2")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "60", limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, send(http.MethodGet, ada, "10.0.0.1").Code, "reads are not limited")
	assert.Equal(t, http.StatusOK, send(http.MethodPost, grace, "10.0.0.1").Code, "users share an IP but not a budget")
	assert.Equal(t, http.StatusOK, send(http.MethodPost, nil, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, send(http.MethodPost, nil, "10.0.0.1").Code)
}

func TestGetClientIP(t *testing.T) {
	trusted := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}

	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{"remote addr", nil, "192.0.2.1:1234", "192.0.2.1"},
		{"ipv6 remote addr", nil, "[2001:db8::1]:1234", "2001:db8::1"},
		{"untrusted peer ignores forwarded for", map[string]string{"X-Forwarded-For": "203.0.113.7"}, "192.0.2.1:1234", "192.0.2.1"},
		{"untrusted peer ignores real ip", map[string]string{"X-Real-IP": "203.0.113.8"}, "192.0.2.1:1234", "192.0.2.1"},
		{"trusted proxy forwarded for", map[string]string{"X-Forwarded-For": "203.0.113.7"}, "10.0.0.1:80", "203.0.113.7"},
		{"client prepended hop is skipped", map[string]string{"X-Forwarded-For": "198.51.100.9, 203.0.113.7, 10.0.0.2"}, "10.0.0.1:80", "203.0.113.7"},
		{"trusted proxy real ip", map[string]string{"X-Real-IP": " 203.0.113.8 "}, "10.0.0.1:80", "203.0.113.8"},
		{"trusted proxy without headers", nil, "10.0.0.1:80", "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(r, trusted))
		})
	}
}

func TestRateLimitWritesIgnoresSpoofedForwardedFor(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()

	h := RateLimitWrites(rl, nil)(okHandler)

	send := func(forwardedFor string) int {
		r := httptest.NewRequest(http.MethodPost, "/api/sessions", nil)
		r.RemoteAddr = "192.0.2.1:5555"
		r.Header.Set("X-Forwarded-For", forwardedFor)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.2"))
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxkeys.RequestID(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", strings.Repeat("x", 65))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, w.Header().Get("X-Request-ID"))
}

func TestRequestLoggingCapturesStatus(t *testing.T) {
	var captured *responseWriter
	h := RequestLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = w.(*responseWriter)
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/streak", nil))

	require.NotNil(t, captured)
	assert.Equal(t, http.StatusTeapot, captured.statusCode)
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestSecurityHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	SecurityHeaders(okHandler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
}

func TestConfigSanitizes(t *testing.T) {
	var got *config.Config
	h := Config(&config.Config{AppName: "Studyhall", JWTSecret: "secret", DBConnection: "postgres://u:p@db"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = ctxkeys.Config(r.Context())
		}),
	)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, got)
	assert.Equal(t, "Studyhall", got.AppName)
	assert.Empty(t, got.JWTSecret)
	assert.Empty(t, got.DBConnection)
}
