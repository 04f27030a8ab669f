// Package observability lets the engine, the store, the cache and the HTTP
// API report events without depending on a logging or metrics backend.
//
// Each concern has a hook interface with a no-op default. The CLI installs
// charmbracelet/log-backed hooks at startup (see internal/cli/obs.go); a
// server could install metrics adapters the same way:
//
//	observability.SetStoreHooks(promStoreHooks{})
//
// Emitters fetch the current hooks at the call site:
//
//	observability.Seating().OnSaveStart(ctx, weddingID, rev)
package observability

import (
	"context"
	"sync"
	"time"
)

// SeatingHooks receives events from the seat assignment engine.
type SeatingHooks interface {
	// Mutation events fire after the in-memory map has changed.
	OnAssign(ctx context.Context, weddingID, seatID, guestID string)
	OnUnassign(ctx context.Context, weddingID, seatID string)
	OnClear(ctx context.Context, weddingID, layoutID string)

	// Save events fire on the background writer. rev is the revision being
	// written and entries the number of occupied seats in it.
	OnSaveStart(ctx context.Context, weddingID string, rev int64)
	OnSaveComplete(ctx context.Context, weddingID string, rev int64, entries int, duration time.Duration, err error)
}

// StoreHooks receives one event per gateway call, op being the method name
// (e.g. "GetLayout").
type StoreHooks interface {
	OnOperation(ctx context.Context, backend, op string, duration time.Duration, err error)
}

// CacheHooks receives layout cache events. keyType is "layout" or "public".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives one event per API request. route is the chi route
// pattern, not the raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string, status int, duration time.Duration)
}

type NoopSeatingHooks struct{}

func (NoopSeatingHooks) OnAssign(context.Context, string, string, string) {}
func (NoopSeatingHooks) OnUnassign(context.Context, string, string)       {}
func (NoopSeatingHooks) OnClear(context.Context, string, string)          {}
func (NoopSeatingHooks) OnSaveStart(context.Context, string, int64)       {}

func (NoopSeatingHooks) OnSaveComplete(context.Context, string, int64, int, time.Duration, error) {}

type NoopStoreHooks struct{}

func (NoopStoreHooks) OnOperation(context.Context, string, string, time.Duration, error) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, int, time.Duration) {}

// slot holds the registered implementation of one hook interface.
type slot[H any] struct {
	mu   sync.RWMutex
	h    H
	noop H
}

func newSlot[H any](noop H) *slot[H] { return &slot[H]{h: noop, noop: noop} }

func (s *slot[H]) get() H {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.h
}

// set installs h; a nil interface value keeps the current hooks.
func (s *slot[H]) set(h H) {
	if any(h) == nil {
		return
	}
	s.mu.Lock()
	s.h = h
	s.mu.Unlock()
}

func (s *slot[H]) reset() {
	s.mu.Lock()
	s.h = s.noop
	s.mu.Unlock()
}

var (
	seatingSlot = newSlot[SeatingHooks](NoopSeatingHooks{})
	storeSlot   = newSlot[StoreHooks](NoopStoreHooks{})
	cacheSlot   = newSlot[CacheHooks](NoopCacheHooks{})
	httpSlot    = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// Setters are meant to be called once at startup. Passing nil is a no-op.

func SetSeatingHooks(h SeatingHooks) { seatingSlot.set(h) }
func SetStoreHooks(h StoreHooks)     { storeSlot.set(h) }
func SetCacheHooks(h CacheHooks)     { cacheSlot.set(h) }
func SetHTTPHooks(h HTTPHooks)       { httpSlot.set(h) }

func Seating() SeatingHooks { return seatingSlot.get() }
func Store() StoreHooks     { return storeSlot.get() }
func Cache() CacheHooks     { return cacheSlot.get() }
func HTTP() HTTPHooks       { return httpSlot.get() }

// Reset restores every hook to its no-op default. Tests call it in Cleanup.
func Reset() {
	seatingSlot.reset()
	storeSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
