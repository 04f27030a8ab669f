package cache

import (
	"context"
	"slices"
	"sync"
	"time"
)

type memEntry struct {
	Data      []byte
	ExpiresAt time.Time // zero means no expiry
}

// MemoryCache is a process-local cache. Expired entries are dropped lazily
// on read.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memEntry
	now     func() time.Time
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memEntry), now: time.Now}
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.ExpiresAt.IsZero() && c.now().After(e.ExpiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return slices.Clone(e.Data), true, nil
}

// Set stores a value in the cache.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := memEntry{Data: slices.Clone(data)}
	if ttl > 0 {
		e.ExpiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, including expired ones not yet
// evicted.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops all entries.
func (c *MemoryCache) Clear(context.Context) error {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
	return nil
}

// Close drops all entries.
func (c *MemoryCache) Close() error {
	return c.Clear(context.Background())
}

var _ Cache = (*MemoryCache)(nil)
