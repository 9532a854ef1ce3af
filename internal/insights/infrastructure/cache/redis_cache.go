package cache

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/cadence/internal/insights/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces dashboard entries in a shared Redis.
const DefaultKeyPrefix = "cadence:dashboard:"

// RedisCache is a SnapshotCache backed by Redis. Keys are namespaced as
// {prefix}{key}.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisCache creates a RedisCache. An empty prefix uses DefaultKeyPrefix.
func NewRedisCache(client redis.UniversalClient, prefix string) *RedisCache {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

// Invalidate deletes every key under the prefix, scanning in batches.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	var keys []string
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Ping checks connectivity.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
