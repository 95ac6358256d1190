//go:build integration

package idem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-service/internal/shared/redisx"
	"travel-service/internal/testinfra"
)

func TestRedisPutNX(t *testing.T) {
	ctx := context.Background()
	rdb, err := redisx.Open(ctx, testinfra.StartRedis(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	s := New(rdb)
	first, err := s.PutNX(ctx, "notif:a:b:like:p", time.Minute)
	require.NoError(t, err)
	second, err := s.PutNX(ctx, "notif:a:b:like:p", time.Minute)
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
}

func TestRedisReleaseReopensKey(t *testing.T) {
	ctx := context.Background()
	rdb, err := redisx.Open(ctx, testinfra.StartRedis(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	s := New(rdb)
	first, err := s.PutNX(ctx, "notif:a:b:comment:p", time.Minute)
	require.NoError(t, err)
	require.True(t, first)

	require.NoError(t, s.Release(ctx, "notif:a:b:comment:p"))
	again, err := s.PutNX(ctx, "notif:a:b:comment:p", time.Minute)
	require.NoError(t, err)
	assert.True(t, again)

	assert.NoError(t, s.Release(ctx, "never-claimed"))
}
