// Package cache provides the key-value caches that sit in front of the
// layout store.
//
// Layouts are read far more often than they are written (every editor
// session and every public gallery view loads them), so reads go through a
// [Cache]:
//
//   - [RedisCache]: shared cache for API deployments
//   - [FileCache]: on-disk cache for the CLI
//   - [MemoryCache]: process-local cache for tests and single-process servers
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so that every backend agrees on naming and
// deployments can share one Redis by scoping keys with [NewScopedKeyer].
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/seatplan/pkg/observability"
)

// Cache is a byte-oriented key-value cache with per-entry TTL.
type Cache interface {
	// Get returns the cached value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the cache's resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
// FileCache, MemoryCache and RedisCache implement it.
type Clearer interface {
	Clear(ctx context.Context) error
}

// NullCache misses every read and drops every write. It stands in when
// caching is disabled so callers need no nil checks.
type NullCache struct{}

func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

// Default TTLs for cached documents.
const (
	LayoutTTL       = 10 * time.Minute
	PublicLayoutTTL = 2 * time.Minute
)

// GetJSON reads key and decodes it into v. Undecodable entries are
// deleted and reported as misses. keyType labels the observability event.
func GetJSON(ctx context.Context, c Cache, keyType, key string, v any) (bool, error) {
	data, hit, err := c.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false, nil
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, c Cache, keyType, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
	return nil
}
