package http

import (
	"sync"
	"sync/atomic"
	"time"
)

// rateLimiter throttles mutation requests per client IP over a fixed window.
// The app is single-user, so the limit mostly guards against a stuck HTMX
// retry loop hammering the POST endpoints.
type rateLimiter struct {
	limit  int
	window time.Duration

	mu       sync.Mutex
	visitors map[string]*visitorWindow

	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

// visitorWindow counts requests from one client inside the current window.
type visitorWindow struct {
	lastSeen time.Time
	count    int
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		limit:       limit,
		window:      window,
		visitors:    make(map[string]*visitorWindow),
		stopCleanup: make(chan struct{}),
	}
	go rl.janitor()
	return rl
}

// janitor drops visitors that have been idle for several windows.
func (rl *rateLimiter) janitor() {
	ticker := time.NewTicker(5 * rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.dropIdle()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) dropIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * rl.window)
	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
		}
	}
}

// stop shuts down the janitor goroutine.
func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

// allow reports whether a request from clientIP fits inside the limit. A
// denial bumps the rate-limit counter in metrics.
func (rl *rateLimiter) allow(clientIP string, metrics *securityMetrics) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.visitors[clientIP]
	if !ok || now.Sub(v.lastSeen) > rl.window {
		rl.visitors[clientIP] = &visitorWindow{lastSeen: now, count: 1}
		return true
	}

	v.count++
	v.lastSeen = now
	if v.count > rl.limit {
		if metrics != nil {
			atomic.AddInt64(&metrics.rateLimitHits, 1)
		}
		return false
	}
	return true
}
