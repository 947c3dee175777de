package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// admitScript runs prune-count-admit as one atomic step on the Redis side, so
// concurrent requests at the limit boundary cannot all observe the same count
// before any of them records.
var admitScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[2]) then
	return 0
end
redis.call('ZADD', KEYS[1], ARGV[3], ARGV[4])
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return 1
`)

// RedisLimiter implements Limiter on a shared Redis instance using a sorted
// set of request timestamps per identity. Use it when running more than one
// instance; the in-process MemoryLimiter cannot see its siblings' counters.
type RedisLimiter struct {
	client *redis.Client
	prefix string
}

// NewRedisLimiter creates a Redis-backed sliding-window limiter.
func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: "ratelimit:"}
}

// Allow evaluates the admit script keyed by identity. The script prunes
// expired entries, tests the count, and records the hit in one call, so
// concurrent instances serialize on Redis rather than in process.
func (l *RedisLimiter) Allow(ctx context.Context, identity string, limit int, window time.Duration) (bool, error) {
	key := l.prefix + identity
	now := time.Now()
	cutoff := now.Add(-window)

	// Member carries a unique suffix so two requests in the same microsecond
	// both count.
	member := strconv.FormatInt(now.UnixMicro(), 10) + ":" + uuid.NewString()

	admitted, err := admitScript.Run(ctx, l.client, []string{key},
		strconv.FormatInt(cutoff.UnixMicro(), 10),
		limit,
		now.UnixMicro(),
		member,
		window.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit admit: %w", err)
	}
	return admitted == 1, nil
}
