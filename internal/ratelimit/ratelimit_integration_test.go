//go:build integration

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-service/internal/shared/redisx"
	"travel-service/internal/testinfra"
)

func TestRedisCounter(t *testing.T) {
	ctx := context.Background()
	rdb, err := redisx.Open(ctx, testinfra.StartRedis(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	l := New(NewRedisCounter(rdb), 2, time.Minute)
	for i, want := range []bool{true, true, false} {
		ok, n, err := l.Allow(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, want, ok, "call %d", i)
		assert.EqualValues(t, i+1, n)
	}

	ttl, err := rdb.TTL(ctx, "rl:u1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
