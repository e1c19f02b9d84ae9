// Package cache provides result caches backed by the shared store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/blumlaut/fxfurtrack/internal/preview"
)

const keyPrefix = "preview:cache:"

// Redis is a preview.Cache backed by a shared Redis instance. Values are
// whole serialized results; expiry is delegated to Redis TTLs.
type Redis struct {
	client *redis.Client
}

// NewRedis constructs a Redis cache over an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Get returns the cached result for key, reporting a miss for absent or
// expired entries.
func (c *Redis) Get(ctx context.Context, key string) (preview.Result, bool, error) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return preview.Result{}, false, nil
	}
	if err != nil {
		return preview.Result{}, false, fmt.Errorf("cache get %q: %w", key, err)
	}
	var res preview.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return preview.Result{}, false, fmt.Errorf("cache decode %q: %w", key, err)
	}
	return res, true, nil
}

// Set stores a result under key with the given TTL, overwriting any
// previous entry.
func (c *Redis) Set(ctx context.Context, key string, value preview.Result, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %q: %w", key, err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}
