package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFeedCache(t *testing.T) (*FeedCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewFeedCache(rdb, time.Minute), mr
}

func TestFeedCache_MissSetHit(t *testing.T) {
	cache, mr := newTestFeedCache(t)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, 10)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, 10, []byte(`{"items":[]}`)))

	data, ok, err := cache.Get(ctx, 10)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"items":[]}`, string(data))
	assert.Equal(t, time.Minute, mr.TTL(feedCacheKey))

	_, ok, err = cache.Get(ctx, 20)
	require.NoError(t, err)
	assert.False(t, ok, "pages are cached per limit")
}

func TestFeedCache_Invalidate(t *testing.T) {
	cache, mr := newTestFeedCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 10, []byte("a")))
	require.NoError(t, cache.Set(ctx, 20, []byte("b")))
	require.NoError(t, cache.Invalidate(ctx))

	assert.False(t, mr.Exists(feedCacheKey))
	_, ok, err := cache.Get(ctx, 10)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFeedCache_Expiry(t *testing.T) {
	cache, mr := newTestFeedCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 10, []byte("a")))
	mr.FastForward(2 * time.Minute)

	_, ok, err := cache.Get(ctx, 10)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFeedCache_RedisDown(t *testing.T) {
	cache, mr := newTestFeedCache(t)
	mr.Close()

	_, _, err := cache.Get(context.Background(), 10)
	assert.Error(t, err)
}
