// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// feed.go provides a Valkey-backed cache for public feed responses.
// Serialized article payloads are stored per slug so reader traffic
// skips the database on repeat hits. Saves through the editorial
// pipeline invalidate the affected slug.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// feedKeyPrefix is the Valkey key prefix for cached feed responses.
	feedKeyPrefix = "feed:"

	// DefaultFeedTTL is how long a cached feed response stays fresh.
	// View counters drift by at most this much for hot articles.
	DefaultFeedTTL = 5 * time.Minute

	// IndexKey is the cache key for the published-article listing.
	IndexKey = "_index"
)

// FeedCache manages cached public feed responses in Valkey.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache creates a feed cache backed by the given Valkey client.
func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	if ttl == 0 {
		ttl = DefaultFeedTTL
	}
	return &FeedCache{client: client, ttl: ttl}
}

// Get retrieves the cached payload for a slug. Returns false on miss.
func (fc *FeedCache) Get(ctx context.Context, slug string) ([]byte, bool) {
	val, err := fc.client.Get(ctx, feedKeyPrefix+slug).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("feed cache get error", "slug", slug, "error", err)
		return nil, false
	}
	return val, true
}

// Set stores a serialized payload for a slug with the configured TTL.
func (fc *FeedCache) Set(ctx context.Context, slug string, payload []byte) {
	if err := fc.client.Set(ctx, feedKeyPrefix+slug, payload, fc.ttl).Err(); err != nil {
		slog.Warn("feed cache set error", "slug", slug, "error", err)
	}
}

// Invalidate removes a single slug and the listing from the cache.
// Called after any save that touches a published article.
func (fc *FeedCache) Invalidate(ctx context.Context, slug string) {
	if err := fc.client.Del(ctx, feedKeyPrefix+slug, feedKeyPrefix+IndexKey).Err(); err != nil {
		slog.Warn("feed cache invalidate error", "slug", slug, "error", err)
	}
}

// InvalidateAll removes all cached feed entries by scanning for the prefix.
func (fc *FeedCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	for {
		keys, nextCursor, err := fc.client.Scan(ctx, cursor, feedKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("feed cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := fc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("feed cache bulk delete error", "error", err)
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			return
		}
	}
}
