package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"bazaar/contexts/marketplace-moderation/review-service/ports"
)

// IdempotencyCache keeps idempotency records in a TTL cache so replayed
// combined/bulk requests return their recorded result without a database.
type IdempotencyCache struct {
	cache *gocache.Cache
}

func NewIdempotencyCache(defaultTTL time.Duration) *IdempotencyCache {
	if defaultTTL <= 0 {
		defaultTTL = 7 * 24 * time.Hour
	}
	return &IdempotencyCache{
		cache: gocache.New(defaultTTL, 10*time.Minute),
	}
}

func (c *IdempotencyCache) GetRecord(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	value, found := c.cache.Get(key)
	if !found {
		return ports.IdempotencyRecord{}, false, nil
	}
	record, ok := value.(ports.IdempotencyRecord)
	if !ok {
		return ports.IdempotencyRecord{}, false, nil
	}
	if !record.ExpiresAt.IsZero() && now.UTC().After(record.ExpiresAt.UTC()) {
		c.cache.Delete(key)
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (c *IdempotencyCache) PutRecord(_ context.Context, record ports.IdempotencyRecord) error {
	ttl := gocache.DefaultExpiration
	if !record.ExpiresAt.IsZero() {
		if remaining := time.Until(record.ExpiresAt); remaining > 0 {
			ttl = remaining
		}
	}
	c.cache.Set(record.Key, record, ttl)
	return nil
}
