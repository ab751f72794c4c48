// Package ratelimiter provides a fixed-window request limiter for
// abuse-prone endpoints such as credential submission.
package ratelimiter

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Limiter counts requests per key in fixed windows and rejects anything
// over the limit. Unlike a client-side pacing limiter it never sleeps;
// on the serving path the only sane reaction to excess load is rejection.
type Limiter struct {
	mu       sync.Mutex
	limit    int
	interval time.Duration
	windows  map[string]*window
}

type window struct {
	count     int
	lastReset time.Time
}

// New creates a Limiter allowing limit requests per key per interval.
func New(limit int, interval time.Duration) *Limiter {
	return &Limiter{
		limit:    limit,
		interval: interval,
		windows:  make(map[string]*window),
	}
}

// Allow reports whether another request for key fits in the current window.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.lastReset) >= l.interval {
		// interval を過ぎたらカウントリセット
		l.windows[key] = &window{count: 1, lastReset: now}
		return true
	}

	w.count++
	return w.count <= l.limit
}

// Middleware returns a Gin middleware that limits requests per client IP.
// Over-limit requests are rejected with 429.
func Middleware(l *Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
