package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"clinic-booking/pkg/utils"
)

// RateLimiter is a per-client sliding window limiter kept in memory. Suitable
// for a single instance; use the Redis variant when running more than one.
type RateLimiter struct {
	mu      sync.Mutex
	hits    map[string][]time.Time
	limit   int
	window  time.Duration
	stopped chan struct{}
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		hits:    make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		stopped: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Allow records a hit for the key and reports whether it is within the limit.
func (rl *RateLimiter) Allow(key string) bool {
	now := time.Now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	recent := rl.hits[key][:0]
	for _, t := range rl.hits[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	if len(recent) >= rl.limit {
		rl.hits[key] = recent
		return false
	}
	rl.hits[key] = append(recent, now)
	return true
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-rl.window)
			rl.mu.Lock()
			for key, times := range rl.hits {
				if len(times) == 0 || !times[len(times)-1].After(cutoff) {
					delete(rl.hits, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopped:
			return
		}
	}
}

func (rl *RateLimiter) Stop() {
	close(rl.stopped)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit rejects requests over the limiter's budget with 429.
func RateLimit(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(clientIP(r)) {
				utils.ResponseJSON(w, http.StatusTooManyRequests, false, "Too many requests", nil, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
