package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"trove/internal/observability"
)

// GetJSON reads key and unmarshals into dest. Returns (true, nil) on a hit,
// (false, nil) on a miss or when the cache is disabled.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	raw, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		observability.RedisErrorRate.WithLabelValues("get").Inc()
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and stores it under key with ttl.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, b, ttl).Err(); err != nil {
		observability.RedisErrorRate.WithLabelValues("set").Inc()
		return err
	}
	return nil
}

// Aside tries the cache first; on a miss it runs fetch (which must write
// into dest) and stores the result best-effort. Cache read errors fall
// through to fetch instead of failing the call.
func (c *Cache) Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := c.GetJSON(ctx, key, dest)
	if err == nil && found {
		return nil
	}
	if err := fetch(); err != nil {
		return err
	}
	_ = c.SetJSON(ctx, key, dest, ttl)
	return nil
}
