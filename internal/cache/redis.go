// Package cache provides an optional Redis read-through cache. A nil or
// disconnected cache degrades to calling the fetch path every time, so the
// store never depends on Redis being up.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"trove/internal/observability"
)

// Cache wraps a Redis client. The zero-value-equivalent Cache returned when
// Redis is unreachable is safe to use and caches nothing.
type Cache struct {
	client *redis.Client
}

// New connects to Redis at url, which may be a redis:// URL or a bare
// host:port address. An unreachable Redis is logged and tolerated.
func New(url string) *Cache {
	if url == "" {
		return &Cache{}
	}

	var client *redis.Client
	if strings.Contains(url, "://") {
		opts, err := redis.ParseURL(url)
		if err != nil {
			observability.GlobalLogger.Warn("invalid redis url, continuing without cache",
				slog.String("error", err.Error()))
			return &Cache{}
		}
		client = redis.NewClient(opts)
	} else {
		client = redis.NewClient(&redis.Options{Addr: url})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		observability.GlobalLogger.Warn("redis unreachable, continuing without cache",
			slog.String("error", err.Error()))
		return &Cache{}
	}
	return &Cache{client: client}
}

// NewFromClient wraps an existing client. Used by tests with miniredis.
func NewFromClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Enabled reports whether a live Redis connection is behind this cache.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Invalidate removes keys. Best effort.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		observability.RedisErrorRate.WithLabelValues("del").Inc()
	}
}

// Close releases the underlying connection.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// UserKey is the cache key for a user record.
func UserKey(id uint) string {
	return fmt.Sprintf("trove:user:%d", id)
}
