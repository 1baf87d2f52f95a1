// Package cache provides a small byte cache used for campaign reads.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque values with a TTL.
type Cache interface {
	// Get returns the value and true when key is present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// NoopCache never stores anything.
type NoopCache struct{}

// NewNoop returns a cache that always misses.
func NewNoop() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (n *NoopCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (n *NoopCache) Delete(ctx context.Context, key string) error {
	return nil
}

// CampaignKey is the cache key for a campaign record.
func CampaignKey(id string) string {
	return "campaign:" + id
}
