package config

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a per-process sliding-window request counter keyed by
// client IP. It is advisory only: counters are not shared across
// horizontally scaled instances, so it is suitable for single-instance
// deployments and as a first line of defence, not as a correctness
// mechanism. Constructed and injected in SetupRouter rather than held
// as package state.
type RateLimiter struct {
	mu          sync.Mutex
	windows     map[string]*rateWindow
	window      time.Duration
	maxRequests int
	stop        chan struct{}
}

type rateWindow struct {
	count     int
	resetTime time.Time
}

func NewRateLimiter(window time.Duration, maxRequests int) *RateLimiter {
	rl := &RateLimiter{
		windows:     make(map[string]*rateWindow),
		window:      window,
		maxRequests: maxRequests,
		stop:        make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

// Allow records one request for the key and reports whether it is
// within the window limit.
func (rl *RateLimiter) Allow(key string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok || now.After(w.resetTime) {
		rl.windows[key] = &rateWindow{count: 1, resetTime: now.Add(rl.window)}
		return true
	}

	if w.count >= rl.maxRequests {
		return false
	}
	w.count++
	return true
}

// Middleware rejects over-limit clients with 429.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "Too many requests"})
			return
		}
		c.Next()
	}
}

// Stop terminates the background sweeper.
func (rl *RateLimiter) Stop() {
	close(rl.stop)
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for key, w := range rl.windows {
				if now.After(w.resetTime) {
					delete(rl.windows, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}
