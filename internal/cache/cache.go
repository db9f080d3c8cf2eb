// Package cache provides a Redis-backed cache-aside layer.
//
// The cache is an explicitly constructed handle passed into the layers
// that need it. A handle with no reachable Redis degrades to a no-op:
// every read is a miss and every write is skipped.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ripple/internal/middleware"
	"ripple/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client with cache-aside helpers.
type Cache struct {
	client *redis.Client
}

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrorRate.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrorRate.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// New connects to Redis at the given address (host:port or redis:// URL)
// and returns a cache handle. Connection failures are logged and produce
// a no-op handle rather than an error; the API works without a cache.
func New(addr string) *Cache {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			middleware.Logger.Warn("invalid REDIS_URL, continuing without cache",
				slog.String("addr", addr), slog.String("error", err.Error()))
			return &Cache{}
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	client.AddHook(metricsHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("Redis unreachable, continuing without cache",
			slog.String("error", err.Error()))
		return &Cache{}
	}

	middleware.Logger.Info("Redis connected")
	return &Cache{client: client}
}

// NewWithClient wraps an existing Redis client. Used by tests.
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Client exposes the underlying Redis client (nil when the cache is
// disabled), for consumers like the rate limiter that need raw commands.
func (c *Cache) Client() *redis.Client {
	if c == nil {
		return nil
	}
	return c.client
}

// Aside implements the cache-aside pattern: on a hit, dest is populated
// from the cached JSON; on a miss, fill must populate dest, and the
// result is stored with the given TTL. Cache errors are treated as
// misses, never surfaced to the caller.
func (c *Cache) Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, fill func() error) error {
	prefix := keyPrefix(key)

	if c != nil && c.client != nil {
		data, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			if unmarshalErr := json.Unmarshal(data, dest); unmarshalErr == nil {
				observability.CacheHits.WithLabelValues(prefix, "hit").Inc()
				return nil
			}
			// Corrupt entry; drop it and fall through to fill.
			c.client.Del(ctx, key)
		}
	}
	observability.CacheHits.WithLabelValues(prefix, "miss").Inc()

	if err := fill(); err != nil {
		return err
	}

	if c != nil && c.client != nil {
		if data, err := json.Marshal(dest); err == nil {
			c.client.Set(ctx, key, data, ttl)
		}
	}
	return nil
}

// Invalidate removes the given keys. A disabled cache is a no-op.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	c.client.Del(ctx, keys...)
}

// Close releases the underlying client connection.
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func keyPrefix(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
