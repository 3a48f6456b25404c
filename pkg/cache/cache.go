// Package cache stores rendered artifacts and snapshots keyed by content hash.
//
// Rendering a large graph through Graphviz is slow compared to capturing it,
// so the CLI and the HTTP server keep rendered output in a [Cache]. Keys are
// derived from the DOT source and render options by a [Keyer], which makes a
// cached artifact valid for exactly the graph state it was produced from.
//
// Three backends are provided:
//   - [FileCache] for the CLI, under the XDG cache directory
//   - [RedisCache] for the server, shared across instances
//   - [NullCache] when caching is disabled
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/graphstream/pkg/observability"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// GetOrCompute returns the cached value for key, computing and storing it on a
// miss. keyType labels the lookup for the cache hooks. A failed write is not
// reported since the computed value is still valid.
func GetOrCompute(ctx context.Context, c Cache, keyType, key string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, error) {
	hooks := observability.Cache()
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		hooks.OnCacheHit(ctx, keyType)
		return data, nil
	}
	hooks.OnCacheMiss(ctx, keyType)

	data, err := compute()
	if err != nil {
		return nil, err
	}
	if err := c.Set(ctx, key, data, ttl); err == nil {
		hooks.OnCacheSet(ctx, keyType, len(data))
	}
	return data, nil
}

// NullCache never stores anything.
type NullCache struct{}

// NewNullCache returns a cache that always misses.
func NewNullCache() *NullCache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Close() error                                             { return nil }

var _ Cache = (*NullCache)(nil)
