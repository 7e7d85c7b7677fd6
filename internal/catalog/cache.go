package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"jobmate/board-service/internal/airtable"
)

const (
	// CacheKey holds the raw record set of the last successful fetch.
	CacheKey = "jobboard:records"
	// EventJobsRefreshed is published after every refresh from the source.
	EventJobsRefreshed = "EVENT_JOBS_REFRESHED"
)

// ErrCacheMiss is returned by Cache.Load when nothing is cached.
var ErrCacheMiss = errors.New("catalog: cache miss")

// Cache shares the raw record set between board instances through Redis.
// Entries expire after the revalidation interval.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache constructs a Cache on an open client.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Store overwrites the cached record set.
func (c *Cache) Store(ctx context.Context, recs []airtable.Record) error {
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	if err := c.rdb.Set(ctx, CacheKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", CacheKey, err)
	}
	return nil
}

// Load returns the cached records and how long they remain valid.
func (c *Cache) Load(ctx context.Context) ([]airtable.Record, time.Duration, error) {
	data, err := c.rdb.Get(ctx, CacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, 0, ErrCacheMiss
	}
	if err != nil {
		return nil, 0, fmt.Errorf("redis GET %s: %w", CacheKey, err)
	}

	var recs []airtable.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, 0, fmt.Errorf("decode cached records: %w", err)
	}

	remaining, err := c.rdb.PTTL(ctx, CacheKey).Result()
	if err != nil || remaining < 0 {
		remaining = 0
	}
	return recs, remaining, nil
}

// PublishRefreshed announces a new snapshot to subscribers.
func (c *Cache) PublishRefreshed(ctx context.Context, count int, at time.Time) error {
	event, _ := json.Marshal(map[string]any{
		"type":        EventJobsRefreshed,
		"count":       count,
		"refreshedAt": at.UTC().Format(time.RFC3339),
	})
	if err := c.rdb.Publish(ctx, EventJobsRefreshed, event).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", EventJobsRefreshed, err)
	}
	return nil
}
