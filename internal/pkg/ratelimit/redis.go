package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// The first hit of a window sets its expiry; later hits only count.
var fixedWindowScript = redis.NewScript(`
local c = redis.call('INCR', KEYS[1])
if c == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return {c, redis.call('PTTL', KEYS[1])}
`)

// RedisStore shares counters between server instances.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "ratelimit:",
	}
}

func (s *RedisStore) Allow(ctx context.Context, key string, rule Rule) (Result, error) {
	res, err := fixedWindowScript.Run(ctx, s.client, []string{s.prefix + key}, rule.Window.Milliseconds()).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("fixedWindowScript.Run -> %w", err)
	}

	count, ttl := int(res[0]), time.Duration(res[1])*time.Millisecond
	if count > rule.Limit {
		return Result{Allowed: false, RetryAfterSeconds: retryAfterSeconds(ttl)}, nil
	}

	return Result{Allowed: true, Remaining: rule.Limit - count}, nil
}
