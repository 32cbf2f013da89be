package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter counts failed verification steps per client+identity key.
// The counter storage is an external collaborator; this is the contract the
// login flow depends on.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) bool
	RecordFailure(ctx context.Context, key string)
}

type redisLoginLimiter struct {
	redis       *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewRedisLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) LoginLimiter {
	return &redisLoginLimiter{redis: client, maxAttempts: maxAttempts, window: window}
}

func (l *redisLoginLimiter) key(k string) string {
	return "login_att:" + k
}

// Allow fails closed: if the counter store is unreachable we deny, so an
// outage never turns off brute-force protection.
func (l *redisLoginLimiter) Allow(ctx context.Context, key string) bool {
	count, err := l.redis.Get(ctx, l.key(key)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true
		}
		log.Printf("[ratelimit][allow] store unreachable, denying key=%q: %v", key, err)
		return false
	}
	return count < int64(l.maxAttempts)
}

func (l *redisLoginLimiter) RecordFailure(ctx context.Context, key string) {
	count, err := l.redis.Incr(ctx, l.key(key)).Result()
	if err != nil {
		log.Printf("[ratelimit][record] incr failed key=%q: %v", key, err)
		return
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, l.key(key), l.window).Err(); err != nil {
			log.Printf("[ratelimit][record] expire failed key=%q: %v", key, err)
		}
	}
}
