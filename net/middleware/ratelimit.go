package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/screener/ctxutil"
	"github.com/ncobase/screener/net/resp"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client address
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	rate     rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing perSecond requests with the
// given burst. Buckets idle for longer than ttl are dropped.
func NewRateLimiter(perSecond float64, burst int, ttl time.Duration) *RateLimiter {
	if burst <= 0 {
		burst = max(1, int(perSecond))
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &RateLimiter{
		limiters: make(map[string]*visitor),
		rate:     rate.Limit(perSecond),
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Allow reports whether a request from key may proceed
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, ok := rl.limiters[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Sweep removes idle buckets and returns how many were dropped
func (rl *RateLimiter) Sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.ttl)
	n := 0
	for key, v := range rl.limiters {
		if v.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
			n++
		}
	}
	return n
}

// Len returns the number of tracked clients
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// RateLimit rejects clients exceeding perSecond requests with 429. A
// non-positive rate disables limiting.
func RateLimit(perSecond float64, burst int) gin.HandlerFunc {
	if perSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	rl := NewRateLimiter(perSecond, burst, 0)
	return rl.Handler()
}

// Handler returns the gin middleware backed by rl
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	var calls int
	var mu sync.Mutex

	return func(c *gin.Context) {
		mu.Lock()
		calls++
		sweep := calls%1024 == 0
		mu.Unlock()
		if sweep {
			rl.Sweep()
		}

		if !rl.Allow(ctxutil.ClientIP(c)) {
			resp.Fail(c.Writer, resp.TooManyRequests("rate limit exceeded"))
			c.Abort()
			return
		}
		c.Next()
	}
}
