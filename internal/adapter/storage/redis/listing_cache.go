package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"asset-marketplace/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// ListingCache implements ports.ListingCache using Redis. The cache is a
// best-effort read accelerator for single-listing lookups; the listings
// table stays the source of truth and every mutation invalidates the key.
type ListingCache struct {
	client *goredis.Client
	prefix string
}

// NewListingCache creates a new Redis-backed listing cache.
func NewListingCache(client *goredis.Client) *ListingCache {
	return &ListingCache{
		client: client,
		prefix: "listing:",
	}
}

// Get retrieves a cached listing by asset key.
// Returns nil, nil on a cache miss.
func (c *ListingCache) Get(ctx context.Context, key domain.AssetKey) (*domain.Listing, error) {
	val, err := c.client.Get(ctx, c.prefix+key.String()).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis listing get: %w", err)
	}

	l := &domain.Listing{}
	if err := json.Unmarshal(val, l); err != nil {
		return nil, fmt.Errorf("redis listing unmarshal: %w", err)
	}
	return l, nil
}

// Set stores a listing in the cache with TTL.
func (c *ListingCache) Set(ctx context.Context, listing *domain.Listing, ttl time.Duration) error {
	val, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("redis listing marshal: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+listing.AssetKey.String(), val, ttl).Err(); err != nil {
		return fmt.Errorf("redis listing set: %w", err)
	}
	return nil
}

// Invalidate removes a listing from the cache.
func (c *ListingCache) Invalidate(ctx context.Context, key domain.AssetKey) error {
	if err := c.client.Del(ctx, c.prefix+key.String()).Err(); err != nil {
		return fmt.Errorf("redis listing del: %w", err)
	}
	return nil
}
