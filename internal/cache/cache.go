// Package cache keeps rendered feed pages and profile views in Redis.
//
// Every method fails open: with no client, or when Redis errors, reads fall
// through to the loader and writes are dropped.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// PageCache wraps a Redis client. A nil *PageCache is valid and caches nothing.
type PageCache struct {
	rdb        *redis.Client
	feedTTL    time.Duration
	profileTTL time.Duration
}

func New(rdb *redis.Client, feedTTL, profileTTL time.Duration) *PageCache {
	return &PageCache{rdb: rdb, feedTTL: feedTTL, profileTTL: profileTTL}
}

func (c *PageCache) enabled() bool {
	return c != nil && c.rdb != nil
}

// GetJSON reports whether key was found and decoded into dest.
func (c *PageCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !c.enabled() {
		return false, nil
	}
	s, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *PageCache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if !c.enabled() {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}

// Aside serves key from Redis when present; otherwise fetch populates dest
// and the result is stored with ttl. fetch errors are returned unchanged.
func (c *PageCache) Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := c.GetJSON(ctx, key, dest)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache read failed")
	}
	if found {
		return nil
	}
	if err := fetch(); err != nil {
		return err
	}
	if err := c.SetJSON(ctx, key, dest, ttl); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return nil
}

func (c *PageCache) Invalidate(ctx context.Context, keys ...string) {
	if !c.enabled() || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Ctx(ctx).Warn().Err(err).Strs("keys", keys).Msg("cache invalidate failed")
	}
}

// FeedGeneration returns the current feed generation number, zero when unset
// or unavailable.
func (c *PageCache) FeedGeneration(ctx context.Context) int64 {
	if !c.enabled() {
		return 0
	}
	n, err := c.rdb.Get(ctx, feedGenerationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Ctx(ctx).Warn().Err(err).Msg("feed generation read failed")
	}
	return n
}

// InvalidateFeeds retires every cached feed page by bumping the generation.
// Stale pages expire on their own TTL.
func (c *PageCache) InvalidateFeeds(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.rdb.Incr(ctx, feedGenerationKey).Err(); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("feed invalidate failed")
	}
}

func (c *PageCache) InvalidateProfile(ctx context.Context, username string) {
	c.Invalidate(ctx, ProfileKey(username))
}

func (c *PageCache) FeedTTL() time.Duration {
	if c == nil {
		return 0
	}
	return c.feedTTL
}

func (c *PageCache) ProfileTTL() time.Duration {
	if c == nil {
		return 0
	}
	return c.profileTTL
}
