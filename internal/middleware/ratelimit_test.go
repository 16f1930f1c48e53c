package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newWriteLimiter(t *testing.T, limit int) (http.Handler, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	handler := RateLimitMiddleware(redisClient, RateLimitConfig{
		RequestsPerWindow: limit,
		Window:            time.Minute,
		KeyPrefix:         "rate_limit:writes",
	}, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	return handler, mr
}

func sendWrite(handler http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/variants", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// Property: one client gets exactly the configured number of writes per window,
// with X-RateLimit-Remaining counting down to zero
func TestProperty_WritesBeyondLimitAreRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("writes past the limit get 429", prop.ForAll(
		func(limit int, extra int) bool {
			handler, mr := newWriteLimiter(t, limit)
			defer mr.Close()

			for i := 0; i < limit; i++ {
				w := sendWrite(handler, fmt.Sprintf("203.0.113.7:%d", 50000+i))
				if w.Code != http.StatusCreated {
					return false
				}
				if w.Header().Get("X-RateLimit-Remaining") != strconv.Itoa(limit-i-1) {
					return false
				}
			}

			for i := 0; i < extra; i++ {
				w := sendWrite(handler, "203.0.113.7:61000")
				if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") == "" {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 15),
		gen.IntRange(1, 5),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRateLimitRejectionUsesStructuredError(t *testing.T) {
	handler, _ := newWriteLimiter(t, 1)

	require.Equal(t, http.StatusCreated, sendWrite(handler, "198.51.100.4:1234").Code)

	w := sendWrite(handler, "198.51.100.4:1235")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"code":"Too Many Requests"`)
}

func TestRateLimitDisabled(t *testing.T) {
	handler := RateLimitMiddleware(nil, RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute}, zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))

	for i := 0; i < 3; i++ {
		w := sendWrite(handler, "198.51.100.9:1000")
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimitFailsOpenWhenRedisIsDown(t *testing.T) {
	handler, mr := newWriteLimiter(t, 1)
	mr.Close()

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusCreated, sendWrite(handler, "198.51.100.5:1000").Code)
	}
}

func TestRateLimitSeparatesClients(t *testing.T) {
	handler, mr := newWriteLimiter(t, 1)

	assert.Equal(t, http.StatusCreated, sendWrite(handler, "10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusTooManyRequests, sendWrite(handler, "10.0.0.1:1001").Code)
	assert.Equal(t, http.StatusCreated, sendWrite(handler, "10.0.0.2:1000").Code)
	assert.True(t, mr.Exists("rate_limit:writes:10.0.0.1"))
	assert.Equal(t, time.Minute, mr.TTL("rate_limit:writes:10.0.0.1"))
}
