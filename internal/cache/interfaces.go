package cache

import (
	"context"
	"time"
)

// Cache stores serialized component lookups keyed by sku. The same used/refurbished
// pair tends to repeat across pick events within a window, so caching the lookup
// saves one source query per repeat. Swapping between memory (single run) and
// Redis (shared across scheduled runs) requires no change to the enricher.
type Cache interface {
	// Get retrieves a value by key. Returns ErrCacheMiss if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// GetOrSet retrieves a value or computes and stores it if missing.
	GetOrSet(ctx context.Context, key string, ttl time.Duration, fn func() ([]byte, error)) ([]byte, error)

	// Close releases any underlying resources.
	Close() error
}

// CacheError is a typed error for cache operations.
type CacheError string

func (e CacheError) Error() string { return string(e) }

const (
	// ErrCacheMiss indicates the key was not found in cache.
	ErrCacheMiss CacheError = "cache miss"
)
