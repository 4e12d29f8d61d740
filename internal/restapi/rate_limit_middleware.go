package restapi

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterIdleTimeout bounds how long a per-key limiter is kept before the
// cleanup loop evicts it, so a facade that sees many distinct API keys
// doesn't grow its limiter map without bound.
const limiterIdleTimeout = 10 * time.Minute

// RateLimitMiddleware enforces a per-API-key token-bucket rate limit using
// golang.org/x/time/rate, the teacher's own rate-limiting dependency.
type RateLimitMiddleware struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*limiterEntry

	shutdown chan struct{}
	once     sync.Once
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimitMiddleware builds a limiter allowing requestsPerWindow
// requests per window, per distinct API key (or remote address when no key
// is present). A background goroutine evicts idle per-key limiters.
func NewRateLimitMiddleware(requestsPerWindow int, window time.Duration) *RateLimitMiddleware {
	if requestsPerWindow <= 0 {
		requestsPerWindow = 1
	}
	rl := &RateLimitMiddleware{
		limit:    rate.Limit(float64(requestsPerWindow) / window.Seconds()),
		burst:    requestsPerWindow,
		limiters: make(map[string]*limiterEntry),
		shutdown: make(chan struct{}),
	}
	go rl.evictIdle()
	return rl
}

// Handler returns the middleware function, applied innermost-out over the
// final handler, matching the teacher's rateLimitAndValidateAPIKey chain.
func (rl *RateLimitMiddleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.limiterFor(clientKey(r)).Allow() {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if key := r.URL.Query().Get("key"); key != "" {
		return key
	}
	return r.RemoteAddr
}

func (rl *RateLimitMiddleware) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (rl *RateLimitMiddleware) evictIdle() {
	ticker := time.NewTicker(limiterIdleTimeout)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-limiterIdleTimeout)
			rl.mu.Lock()
			for key, entry := range rl.limiters {
				if entry.lastSeen.Before(cutoff) {
					delete(rl.limiters, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.shutdown:
			return
		}
	}
}

// Stop ends the eviction loop. Safe to call more than once.
func (rl *RateLimitMiddleware) Stop() {
	rl.once.Do(func() {
		close(rl.shutdown)
	})
}
