// Package viewcache stores rendered views in Redis keyed by their path, so
// read endpoints can serve a cached body until a mutation declares the path
// stale. Invalidation is fire-and-forget: a failed delete only means the
// entry lives until its TTL runs out.
package viewcache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "view:"

// Cache is a Redis-backed cached-view store.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zerolog.Logger
}

// New constructs a Cache. Entries expire after ttl even without invalidation.
func New(rdb *redis.Client, ttl time.Duration, log *zerolog.Logger) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, log: log}
}

// Get returns the cached body for a path, if present.
func (c *Cache) Get(ctx context.Context, path string) ([]byte, bool) {
	body, err := c.rdb.Get(ctx, keyPrefix+path).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("path", path).Msg("view cache read failed")
		}
		return nil, false
	}
	return body, true
}

// Set stores the rendered body for a path.
func (c *Cache) Set(ctx context.Context, path string, body []byte) {
	if err := c.rdb.Set(ctx, keyPrefix+path, body, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("view cache write failed")
	}
}

// Invalidate marks a path stale so the next read recomputes it.
func (c *Cache) Invalidate(ctx context.Context, path string) {
	if err := c.rdb.Del(ctx, keyPrefix+path).Err(); err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("view cache invalidation failed")
	}
}
