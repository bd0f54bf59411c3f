package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores resolved tenant contexts keyed by slug. Misses are not
// cached: a suspended tenant must become visible the moment it is
// reactivated, so only positive resolutions are stored, with a short TTL.
type Cache interface {
	Get(ctx context.Context, slug string) (*Context, bool, error)
	Set(ctx context.Context, slug string, tc *Context) error
	Invalidate(ctx context.Context, slug string) error
}

// DefaultCacheTTL bounds how stale a cached resolution can be.
const DefaultCacheTTL = 60 * time.Second

// RedisCache caches resolutions in redis so the per-request tenant lookup
// does not hit postgres on every call.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache creates a cache with the given TTL (0 means DefaultCacheTTL).
func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func cacheKey(slug string) string { return "tenant:resolve:" + slug }

func (c *RedisCache) Get(ctx context.Context, slug string) (*Context, bool, error) {
	data, err := c.rdb.Get(ctx, cacheKey(slug)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var tc Context
	if err := json.Unmarshal(data, &tc); err != nil {
		// poisoned entry: drop it and fall through to the directory
		c.rdb.Del(ctx, cacheKey(slug))
		return nil, false, nil
	}
	return &tc, true, nil
}

func (c *RedisCache) Set(ctx context.Context, slug string, tc *Context) error {
	data, err := json.Marshal(tc)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cacheKey(slug), data, c.ttl).Err()
}

// Invalidate removes a cached resolution. Call on any tenant status or plan
// change so resolution reflects it within one request rather than one TTL.
func (c *RedisCache) Invalidate(ctx context.Context, slug string) error {
	return c.rdb.Del(ctx, cacheKey(slug)).Err()
}
