// Package idem claims short-lived keys in Redis so concurrent writers agree on
// who performs a one-off side effect.
package idem

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "idem:"

// Store claims a key for ttl. PutNX reports true only for the first caller;
// Release drops a claim whose side effect did not happen.
type Store interface {
	PutNX(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type redisStore struct{ r redis.Cmdable }

func New(r redis.Cmdable) Store {
	return &redisStore{r: r}
}

func (s *redisStore) PutNX(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.r.SetNX(ctx, keyPrefix+key, "1", ttl).Result()
}

func (s *redisStore) Release(ctx context.Context, key string) error {
	return s.r.Del(ctx, keyPrefix+key).Err()
}
