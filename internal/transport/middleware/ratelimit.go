package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/lexitrack/pkg/ctxutil"
)

const (
	bucketIdleTTL = 10 * time.Minute
	sweepAbove    = 1024
)

// RateLimiter is a per-client token bucket. Buckets idle for more than
// ten minutes are dropped by Sweep, and automatically once more than
// sweepAbove clients are tracked.
type RateLimiter struct {
	clock        clockwork.Clock
	maxPerMinute int

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// NewRateLimiter allows maxPerMinute requests per client. A nil clock
// uses the real clock.
func NewRateLimiter(maxPerMinute int, clock clockwork.Clock) *RateLimiter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RateLimiter{
		clock:        clock,
		maxPerMinute: maxPerMinute,
		buckets:      make(map[string]*bucket),
	}
}

// Middleware rejects requests over the limit with 429 and Retry-After.
// Requests without a client address in context are keyed by RemoteAddr.
func (rl *RateLimiter) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ok := ctxutil.ClientIPFromCtx(r.Context())
			if !ok {
				key = r.RemoteAddr
			}

			if !rl.allow(key) {
				retryAfter := 60/rl.maxPerMinute + 1
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) allow(key string) bool {
	now := rl.clock.Now()
	limit := float64(rl.maxPerMinute)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		if len(rl.buckets) >= sweepAbove {
			rl.sweepLocked(now)
		}
		b = &bucket{tokens: limit, lastRefill: now}
		rl.buckets[key] = b
	}

	b.tokens += now.Sub(b.lastRefill).Seconds() * limit / 60
	if b.tokens > limit {
		b.tokens = limit
	}
	b.lastRefill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Sweep drops idle buckets and returns how many remain.
func (rl *RateLimiter) Sweep() int {
	now := rl.clock.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.sweepLocked(now)
	return len(rl.buckets)
}

func (rl *RateLimiter) sweepLocked(now time.Time) {
	for key, b := range rl.buckets {
		if now.Sub(b.lastRefill) > bucketIdleTTL {
			delete(rl.buckets, key)
		}
	}
}
