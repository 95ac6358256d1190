package ratelimit

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"travel-service/internal/shared/apperr"
	"travel-service/internal/shared/httpx"
	"travel-service/internal/shared/logging"
)

// Counter increments a windowed counter and returns the new value.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type redisCounter struct{ r *redis.Client }

func NewRedisCounter(r *redis.Client) Counter { return &redisCounter{r: r} }

func (c *redisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := c.r.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// Limiter caps interactions per user per window. A nil counter or a zero
// limit disables it.
type Limiter struct {
	c      Counter
	limit  int64
	window time.Duration
}

func New(c Counter, limit int64, window time.Duration) *Limiter {
	return &Limiter{c: c, limit: limit, window: window}
}

func (l *Limiter) enabled() bool { return l != nil && l.c != nil && l.limit > 0 }

func (l *Limiter) Allow(ctx context.Context, key string) (bool, int64, error) {
	if !l.enabled() {
		return true, 0, nil
	}
	n, err := l.c.Incr(ctx, "rl:"+key, l.window)
	if err != nil {
		return false, 0, err
	}
	return n <= l.limit, n, nil
}

// Middleware limits authenticated users by id. Limiter backend failures let
// the request through.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.enabled() {
			next.ServeHTTP(w, r)
			return
		}
		id, err := httpx.UserFromCtx(r)
		if err != nil {
			httpx.WriteError(w, http.StatusUnauthorized, err, "missing_user")
			return
		}
		ok, n, err := l.Allow(r.Context(), id.UserID)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("rate limiter unavailable")
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			httpx.WriteError(w, http.StatusTooManyRequests,
				apperr.RateLimited("too many interactions, slow down"), "rate_limited")
			logging.Ctx(r.Context()).Info().Str("user_id", id.UserID).Int64("count", n).Msg("rate limited")
			return
		}
		next.ServeHTTP(w, r)
	})
}
