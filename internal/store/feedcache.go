package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const feedCacheKey = "feed:public"

// FeedCache keeps rendered anonymous feed pages in one Redis hash keyed by
// page size, so a single DEL drops every cached page.
type FeedCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewFeedCache(rdb *redis.Client, ttl time.Duration) *FeedCache {
	return &FeedCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached page for limit, or ok=false on a miss.
func (c *FeedCache) Get(ctx context.Context, limit int) (data []byte, ok bool, err error) {
	data, err = c.rdb.HGet(ctx, feedCacheKey, strconv.Itoa(limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores the page for limit and refreshes the hash TTL.
func (c *FeedCache) Set(ctx context.Context, limit int, data []byte) error {
	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, feedCacheKey, strconv.Itoa(limit), data)
	pipe.Expire(ctx, feedCacheKey, c.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Invalidate drops every cached page.
func (c *FeedCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, feedCacheKey).Err()
}
