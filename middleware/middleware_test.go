package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nijaru/yt-research/config"
	"github.com/nijaru/yt-research/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetRequestID(r.Context())))
	})
}

func TestRequestID(t *testing.T) {
	h := RequestID()(okHandler())

	t.Run("propagates header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc", rec.Body.String())
	})

	t.Run("generates when missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rec.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, rec.Body.String())
	})
}

func TestRecovery(t *testing.T) {
	h := Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic("boom") }),
		Recovery(logger.Discard()),
		RequestID(),
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS(config.CORSConfig{
		Enabled:        true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		MaxAge:         300,
	})(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/extract", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,POST", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "300", rec.Header().Get("Access-Control-Max-Age"))
	assert.Empty(t, rec.Body.String())
}

func TestTimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	h := Timeout(10 * time.Millisecond)(slow)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Request timeout")
}

func TestLogging_CapturesStatus(t *testing.T) {
	var seen bool
	h := Logging(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetLogger(r.Context()).Data["path"] == "/x"
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.True(t, seen)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestCallerKey(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8", "::1"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		remote string
		user   string
		want   string
	}{
		{"no header", "203.0.113.9:5555", "", "ip:203.0.113.9"},
		{"header from untrusted client", "203.0.113.9:5555", "u-1", "ip:203.0.113.9"},
		{"header from trusted proxy", "10.1.2.3:443", "u-1", "user:u-1"},
		{"header from trusted ipv6 proxy", "[::1]:443", "u-1", "user:u-1"},
		{"trusted proxy without header", "10.1.2.3:443", "", "ip:10.1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.user != "" {
				req.Header.Set(UserIDHeader, tt.user)
			}
			assert.Equal(t, tt.want, CallerKey(req, trusted))
		})
	}
}

func TestParseTrustedProxiesInvalid(t *testing.T) {
	_, err := ParseTrustedProxies([]string{"not-an-ip"})
	assert.Error(t, err)

	_, err = NewRateLimiter(config.RateLimitConfig{TrustedProxies: []string{"10.0.0.0/99"}})
	assert.Error(t, err)
}

func TestRateLimiter_IgnoresRotatedUserHeader(t *testing.T) {
	rl, err := NewRateLimiter(config.RateLimitConfig{RequestsPerMinute: 1, BurstSize: 1, MaxClients: 10})
	require.NoError(t, err)

	for i, user := range []string{"a", "b", "c"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(UserIDHeader, user)
		assert.Equal(t, i == 0, rl.Allow(req), user)
	}
	assert.Equal(t, 1, rl.limiters.Len())
}

func TestRateLimiter_PerCaller(t *testing.T) {
	rl, err := NewRateLimiter(config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 1,
		BurstSize:         2,
		MaxClients:        10,
		TrustedProxies:    []string{"192.0.2.0/24"},
	})
	require.NoError(t, err)
	h := rl.Middleware(okHandler())

	do := func(user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", nil)
		req.Header.Set(UserIDHeader, user)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do("alice").Code)
	assert.Equal(t, http.StatusOK, do("alice").Code)

	limited := do("alice")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.JSONEq(t, `{"error":"Rate limit exceeded"}`, limited.Body.String())
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, do("bob").Code)
}

func TestRateLimiter_EvictsOldCallers(t *testing.T) {
	rl, err := NewRateLimiter(config.RateLimitConfig{
		RequestsPerMinute: 1,
		BurstSize:         1,
		MaxClients:        1,
		TrustedProxies:    []string{"192.0.2.1"},
	})
	require.NoError(t, err)

	a := httptest.NewRequest(http.MethodGet, "/", nil)
	a.Header.Set(UserIDHeader, "a")
	b := httptest.NewRequest(http.MethodGet, "/", nil)
	b.Header.Set(UserIDHeader, "b")

	assert.True(t, rl.Allow(a))
	assert.False(t, rl.Allow(a))
	assert.True(t, rl.Allow(b))
	// a's bucket was evicted, so it starts fresh.
	assert.True(t, rl.Allow(a))
}
