package middleware

import (
	"fmt"
	"net/http"
	"time"

	"clinic-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisRateLimiter is a fixed-window limiter shared across instances. The
// window key is INCRed and given a TTL on first hit.
type RedisRateLimiter struct {
	client *redis.Client
	scope  string
	limit  int
	window time.Duration
	log    *zap.Logger
}

// NewRedisRateLimiter builds a limiter with its own key namespace; scope keeps
// budgets for different route groups apart.
func NewRedisRateLimiter(client *redis.Client, scope string, limit int, window time.Duration, log *zap.Logger) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		scope:  scope,
		limit:  limit,
		window: window,
		log:    log.With(zap.String("middleware", "ratelimit")),
	}
}

// RateLimit rejects requests over the shared budget with 429. Redis outages
// fail open so the limiter never takes the API down with it.
func (rl *RedisRateLimiter) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := fmt.Sprintf("ratelimit:%s:%s:%d", rl.scope, clientIP(r), time.Now().Unix()/int64(rl.window.Seconds()))

		count, err := rl.client.Incr(r.Context(), key).Result()
		if err != nil {
			rl.log.Warn("Rate limit check failed, allowing request", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			rl.client.Expire(r.Context(), key, rl.window)
		}
		if count > int64(rl.limit) {
			utils.ResponseJSON(w, http.StatusTooManyRequests, false, "Too many requests", nil, nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
