package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/rpc", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiterTracksClientsSeparately(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for _, addr := range []string{"10.0.0.1:1000", "10.0.0.2:1000", "10.0.0.1:2000"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if addr == "10.0.0.1:2000" {
			assert.Equal(t, http.StatusTooManyRequests, rr.Code, "same IP on a new port shares the limiter")
			assert.Equal(t, "1", rr.Header().Get("Retry-After"))
		} else {
			assert.Equal(t, http.StatusOK, rr.Code)
		}
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(10, 10)
	now := time.Unix(1_700_000_000, 0)
	rl.now = func() time.Time { return now }

	rl.allow("10.0.0.1")
	now = now.Add(30 * time.Minute)
	rl.allow("10.0.0.2")
	now = now.Add(45 * time.Minute)

	removed := rl.CleanupLimiters(time.Hour)

	assert.Equal(t, 1, removed)
	assert.Len(t, rl.limiters, 1)
	assert.Contains(t, rl.limiters, "10.0.0.2")
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.7:4312"
	assert.Equal(t, "192.168.1.7", clientIP(req))

	req.RemoteAddr = "192.168.1.8"
	assert.Equal(t, "192.168.1.8", clientIP(req))
}
