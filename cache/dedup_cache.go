// ABOUTME: Advisory Redis cache of recently ingested article keys
// ABOUTME: Cuts repeat store lookups during ingestion; never authoritative
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "news-optimizer:seen:"

// RedisDedupCache remembers article keys that were recently ingested. A miss
// says nothing: callers always fall through to the store. Failures are logged
// and swallowed so a cache outage never blocks ingestion.
type RedisDedupCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisDedupCache connects to Redis at the given URL and verifies the
// connection with a ping.
func NewRedisDedupCache(ctx context.Context, redisURL string, ttl time.Duration, logger *slog.Logger) (*RedisDedupCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return &RedisDedupCache{client: client, ttl: ttl, logger: logger}, nil
}

func (c *RedisDedupCache) Seen(ctx context.Context, articleKey string) bool {
	n, err := c.client.Exists(ctx, keyPrefix+articleKey).Result()
	if err != nil {
		c.logger.Warn("dedup cache lookup failed", "error", err)
		return false
	}
	return n > 0
}

func (c *RedisDedupCache) Mark(ctx context.Context, articleKey string) {
	if err := c.client.Set(ctx, keyPrefix+articleKey, 1, c.ttl).Err(); err != nil {
		c.logger.Warn("dedup cache write failed", "error", err)
	}
}

func (c *RedisDedupCache) Close() error {
	return c.client.Close()
}

// NoopDedupCache is used when caching is disabled; every lookup misses.
type NoopDedupCache struct{}

func (NoopDedupCache) Seen(context.Context, string) bool { return false }
func (NoopDedupCache) Mark(context.Context, string)      {}
