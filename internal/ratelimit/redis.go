package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// RedisLimiter counts attempts in Redis so multiple instances enforce one
// shared window. Redis errors fail open: an unreachable counter store must
// not lock users out of login.
type RedisLimiter struct {
	client *redis.Client
}

// NewRedisLimiter creates a Redis-backed limiter.
func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client}
}

// Check records an attempt for key and reports whether it is allowed.
func (l *RedisLimiter) Check(ctx context.Context, key string, maxAttempts int, window time.Duration) Result {
	fullKey := redisKeyPrefix + key

	count, err := l.client.Incr(ctx, fullKey).Result()
	if err != nil {
		return Result{Allowed: true}
	}
	if count == 1 {
		_ = l.client.Expire(ctx, fullKey, window).Err()
	}

	if count > int64(maxAttempts) {
		ttl, err := l.client.TTL(ctx, fullKey).Result()
		if err != nil || ttl <= 0 {
			ttl = window
		}
		retryAfter := int((ttl + time.Second - 1) / time.Second)
		return Result{Allowed: false, RetryAfter: retryAfter}
	}
	return Result{Allowed: true}
}
