package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SummaryCache is an optional read/write-through Redis cache for rendered
// summaries. A nil cache (or zero TTL) degrades to pass-through; callers
// never need to branch on whether Redis is configured.
type SummaryCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewSummaryCache wraps a Redis client. Pass nil to disable caching.
func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{redis: client, ttl: ttl}
}

// SummaryKey builds the cache key for a unit/period summary request.
func SummaryKey(unitID int64, from, to time.Time) string {
	return fmt.Sprintf("summary:%d:%s:%s", unitID, from.Format("2006-01-02"), to.Format("2006-01-02"))
}

// Get loads a cached value into out, reporting whether it was present.
func (c *SummaryCache) Get(ctx context.Context, key string, out any) bool {
	if c == nil || c.redis == nil || c.ttl <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

// Set stores a value under key with the configured TTL. Failures are
// swallowed; the cache is never load-bearing.
func (c *SummaryCache) Set(ctx context.Context, key string, val any) {
	if c == nil || c.redis == nil || c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.ttl).Err()
}
