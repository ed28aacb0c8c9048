package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores rendered responses under a common key prefix so that a
// write to events can drop all of them at once.
//
// Entries are keyed by a generation number. Invalidate bumps the generation
// before deleting, so a response computed before the bump can only land
// under the old generation, which no reader asks for any more.
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = "devevent:cache"
	}
	return &RedisCache{client: client, prefix: prefix}
}

func (rc *RedisCache) genKey() string {
	return rc.prefix + ":gen"
}

func (rc *RedisCache) key(gen int64, k string) string {
	return rc.prefix + ":v" + strconv.FormatInt(gen, 10) + ":" + k
}

// Generation returns the current cache generation; an unset counter is 0.
func (rc *RedisCache) Generation(ctx context.Context) (int64, error) {
	gen, err := rc.client.Get(ctx, rc.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache generation: %w", err)
	}
	return gen, nil
}

// Get reports a miss as (nil, false, nil).
func (rc *RedisCache) Get(ctx context.Context, gen int64, key string) ([]byte, bool, error) {
	b, err := rc.client.Get(ctx, rc.key(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	return b, true, nil
}

func (rc *RedisCache) Set(ctx context.Context, gen int64, key string, value []byte, ttl time.Duration) error {
	if err := rc.client.Set(ctx, rc.key(gen, key), value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Invalidate starts a new generation and removes every stored entry.
func (rc *RedisCache) Invalidate(ctx context.Context) error {
	if err := rc.client.Incr(ctx, rc.genKey()).Err(); err != nil {
		return fmt.Errorf("cache generation bump: %w", err)
	}

	var keys []string
	iter := rc.client.Scan(ctx, 0, rc.prefix+":v*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := rc.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}
