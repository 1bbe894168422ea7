// Package cache stores serialized assembly results.
//
// Backends implement the small Cache interface: NullCache (disabled),
// FileCache (CLI default, one JSON file per entry under the XDG cache
// directory), SQLiteCache (one database file), RedisCache and MongoCache
// (shared caches for the HTTP service, guarded by BreakerCache). Keys come
// from a Keyer so that callers never build key strings by hand;
// ScopedKeyer adds a namespace prefix on top of any Keyer.
//
// Cache failures are never fatal to an assembly: the pipeline treats a
// failed Get as a miss and ignores failed Sets.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether the key was present.
	// A missing or expired key is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default time-to-live values.
const (
	// TTLAssembly applies to cached assembly results.
	TTLAssembly = 7 * 24 * time.Hour
)

// NullCache misses on every Get and discards every Set. It backs
// --no-cache and backend "none".
type NullCache struct{}

// NewNullCache returns a NullCache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
