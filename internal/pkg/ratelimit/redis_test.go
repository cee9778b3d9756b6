package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_FixedWindow(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := NewRedisStore(client)
	rule := Rule{Limit: 5, Window: 10 * time.Second}

	for i := 0; i < 5; i++ {
		res, err := s.Allow(ctx, "award:10.0.0.2", rule)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "call %d", i+1)
	}

	res, err := s.Allow(ctx, "award:10.0.0.2", rule)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.GreaterOrEqual(t, res.RetryAfterSeconds, 1)

	mr.FastForward(10 * time.Second)

	res, err = s.Allow(ctx, "award:10.0.0.2", rule)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}
