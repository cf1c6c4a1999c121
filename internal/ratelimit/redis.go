package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// RedisStore backs the limiter with Redis so the window counters are
// shared across instances. Atomicity comes from INCR; the window TTL is
// attached when the counter is first created.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a Store backed by the given Redis client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Incr bumps the counter for key, opening a fresh window when none exists.
func (s *RedisStore) Incr(ctx context.Context, key string, windowLen time.Duration) (int64, time.Time, error) {
	rkey := redisKeyPrefix + key

	count, err := s.rdb.Incr(ctx, rkey).Result()
	if err != nil {
		return 0, time.Time{}, err
	}

	if count == 1 {
		if err := s.rdb.PExpire(ctx, rkey, windowLen).Err(); err != nil {
			return 0, time.Time{}, err
		}
		return count, time.Now().Add(windowLen), nil
	}

	ttl, err := s.rdb.PTTL(ctx, rkey).Result()
	if err != nil {
		return 0, time.Time{}, err
	}
	if ttl < 0 {
		// Counter survived without a TTL (e.g. expire failed mid-crash).
		// Reattach the window so the key cannot live forever.
		_ = s.rdb.PExpire(ctx, rkey, windowLen).Err()
		ttl = windowLen
	}

	return count, time.Now().Add(ttl), nil
}

// Sweep is a no-op; Redis expires windows via TTL.
func (s *RedisStore) Sweep(context.Context) error { return nil }
