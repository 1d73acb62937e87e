package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/servicehub/admin/internal/interfaces/http/dto"
)

// RateLimiter is a fixed-window counter per key, used on the unauthenticated
// auth endpoints. Stale keys are pruned while serving requests.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*window
	limit     int
	window    time.Duration
	lastPrune time.Time
	now       func() time.Time
}

type window struct {
	used    int
	started time.Time
}

// NewRateLimiter allows limit requests per key and window
func NewRateLimiter(limit int, per time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		window:  per,
		now:     time.Now,
	}
}

// Allow consumes one request for key and reports whether it fits the window
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.prune(now)

	w, ok := rl.clients[key]
	if !ok || now.Sub(w.started) >= rl.window {
		rl.clients[key] = &window{used: 1, started: now}
		return true
	}
	if w.used >= rl.limit {
		return false
	}
	w.used++
	return true
}

// Remaining returns the number of requests key may still make in its window
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.clients[key]
	if !ok || rl.now().Sub(w.started) >= rl.window {
		return rl.limit
	}
	return rl.limit - w.used
}

// prune drops expired windows at most once per window. Callers hold mu.
func (rl *RateLimiter) prune(now time.Time) {
	if now.Sub(rl.lastPrune) < rl.window {
		return
	}
	for key, w := range rl.clients {
		if now.Sub(w.started) >= rl.window {
			delete(rl.clients, key)
		}
	}
	rl.lastPrune = now
}

// RateLimit limits requests per client IP and tenant header
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if tenantID := c.GetHeader(TenantHeaderKey); tenantID != "" {
			key = tenantID + ":" + key
		}

		if !limiter.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
				GetRequestID(c),
			))
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))
		c.Next()
	}
}
