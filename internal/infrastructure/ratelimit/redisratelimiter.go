package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter keeps a per-key sliding window in a Redis sorted set,
// scored by request time. Counters live in shared Redis so the limit
// holds across API instances.
type RedisRateLimiter struct {
	client *redis.Client
}

func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{client: client}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string, cfg Config) (bool, error) {
	now := time.Now()

	if ok, err := l.within(ctx, key, time.Minute, cfg.RequestsPerMinute, now); err != nil || !ok {
		return ok, err
	}
	return l.within(ctx, key, time.Hour, cfg.RequestsPerHour, now)
}

// within records the request in the window's sorted set and reports whether
// the window still had room before it. Over-limit requests are recorded too,
// so a client that keeps hammering keeps its window full.
func (l *RedisRateLimiter) within(ctx context.Context, key string, window time.Duration, limit int, now time.Time) (bool, error) {
	if limit <= 0 {
		return true, nil
	}

	setKey := "ratelimit:" + key + ":" + window.String()
	cutoff := strconv.FormatInt(now.Add(-window).UnixNano(), 10)

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, setKey, "0", cutoff)
	seen := pipe.ZCard(ctx, setKey)
	pipe.ZAdd(ctx, setKey, redis.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()})
	pipe.Expire(ctx, setKey, window+time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit window %s: %w", window, err)
	}

	return seen.Val() < int64(limit), nil
}
