package cache

import (
	"context"
	"time"
)

// Cache is the best-effort key/value layer in front of the store.
// Implementations must report a missing key as ErrCacheMiss. Callers
// are expected to fall back to the store on any failure here, never
// to fail the overall operation.
type Cache interface {
	// Get retrieves a value by key. Returns ErrCacheMiss if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping probes the backend.
	Ping(ctx context.Context) error

	// Close releases the client.
	Close() error
}

// CacheError is a sentinel error type for cache conditions.
type CacheError string

func (e CacheError) Error() string { return string(e) }

const (
	// ErrCacheMiss indicates the key was not found in cache.
	ErrCacheMiss CacheError = "cache miss"
)
