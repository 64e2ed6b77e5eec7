package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*PageCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, time.Minute, 5*time.Minute), mr
}

type page struct {
	IDs []string `json:"ids"`
}

func TestAside_MissThenHit(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	calls := 0

	load := func(dst *page) func() error {
		return func() error {
			calls++
			dst.IDs = []string{"a", "b"}
			return nil
		}
	}

	var first page
	require.NoError(t, c.Aside(ctx, "k", &first, time.Minute, load(&first)))
	var second page
	require.NoError(t, c.Aside(ctx, "k", &second, time.Minute, load(&second)))

	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"a", "b"}, second.IDs)
	assert.True(t, mr.Exists("k"))
}

func TestAside_FetchErrorNotCached(t *testing.T) {
	c, mr := newTestCache(t)
	boom := errors.New("boom")

	var p page
	err := c.Aside(context.Background(), "k", &p, time.Minute, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("k"))
}

func TestNilCacheFailsOpen(t *testing.T) {
	var c *PageCache
	ctx := context.Background()
	calls := 0

	var p page
	require.NoError(t, c.Aside(ctx, "k", &p, time.Minute, func() error { calls++; return nil }))
	c.InvalidateFeeds(ctx)
	c.InvalidateProfile(ctx, "bob")
	assert.Equal(t, 1, calls)
	assert.Zero(t, c.FeedGeneration(ctx))
}

func TestAside_RedisDownFallsThrough(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	c := New(rdb, time.Minute, time.Minute)

	calls := 0
	var p page
	require.NoError(t, c.Aside(context.Background(), "k", &p, time.Minute, func() error { calls++; return nil }))
	assert.Equal(t, 1, calls)
}

func TestInvalidateFeeds_BumpsGeneration(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	g0 := c.FeedGeneration(ctx)
	before := FeedKey(g0, "viewer", 20, 0)
	c.InvalidateFeeds(ctx)
	g1 := c.FeedGeneration(ctx)

	assert.Equal(t, g0+1, g1)
	assert.NotEqual(t, before, FeedKey(g1, "viewer", 20, 0))
}

func TestInvalidateProfile(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.SetJSON(ctx, ProfileKey("Bob"), page{IDs: []string{"x"}}, time.Minute))

	c.InvalidateProfile(ctx, "bob")
	assert.False(t, mr.Exists("profile:bob"))
}
