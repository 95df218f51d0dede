package calendar

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// FeedCache stores rendered calendar documents. Incr backs the per-studio version
// counter that rendered feeds are keyed under.
type FeedCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

type redisFeedCache struct {
	client *redis.Client
}

// NewRedisFeedCache wraps a Redis client as a FeedCache.
func NewRedisFeedCache(client *redis.Client) FeedCache {
	return &redisFeedCache{client: client}
}

func (c *redisFeedCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *redisFeedCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *redisFeedCache) Incr(ctx context.Context, key string) (int64, error) {
	return c.client.Incr(ctx, key).Result()
}

func studioVersionKey(studioID string) string {
	return "calendar:studio:" + studioID + ":version"
}

// studioFeedKey embeds the version so a document rendered before an invalidation
// is written under a key no reader asks for again.
func studioFeedKey(studioID string, version int64) string {
	return "calendar:studio:" + studioID + ":v" + strconv.FormatInt(version, 10)
}

// feedVersion reads a version counter. A missing counter is version 0.
func feedVersion(ctx context.Context, cache FeedCache, studioID string) (int64, error) {
	raw, ok, err := cache.Get(ctx, studioVersionKey(studioID))
	if err != nil || !ok {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}
