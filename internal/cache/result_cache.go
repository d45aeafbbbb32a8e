package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const resultPrefix = "analytics:result:"

// ResultCache stores serialized analytics results for a short TTL
type ResultCache struct {
	rdb goredis.Cmdable
	ttl time.Duration
}

// NewResultCache creates a result cache with the given TTL
func NewResultCache(rdb goredis.Cmdable, ttl time.Duration) *ResultCache {
	return &ResultCache{rdb: rdb, ttl: ttl}
}

// Get decodes the cached value for key into dest. It reports false on a miss.
func (c *ResultCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.rdb.Get(ctx, resultPrefix+key).Bytes()
	if err != nil {
		if isRedisNil(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read cached result %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached result %s: %w", key, err)
	}
	return true, nil
}

// Set stores value under key
func (c *ResultCache) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode result %s: %w", key, err)
	}

	if err := c.rdb.Set(ctx, resultPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache result %s: %w", key, err)
	}
	return nil
}
