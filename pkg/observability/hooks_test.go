package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopSeatingHooks{}
	s.OnAssign(ctx, "w1", "t1-s1", "g1")
	s.OnUnassign(ctx, "w1", "t1-s1")
	s.OnClear(ctx, "w1", "layout")
	s.OnSaveStart(ctx, "w1", 3)
	s.OnSaveComplete(ctx, "w1", 3, 12, time.Millisecond, nil)

	NoopStoreHooks{}.OnOperation(ctx, "memory", "GetLayout", time.Millisecond, errors.New("boom"))

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "public", 1024)

	NoopHTTPHooks{}.OnRequest(ctx, "GET", "/layouts/{id}", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Seating().(NoopSeatingHooks); !ok {
		t.Error("Seating() should return NoopSeatingHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	seating := &testSeatingHooks{}
	SetSeatingHooks(seating)
	if Seating() != seating {
		t.Error("SetSeatingHooks should set custom hooks")
	}

	cache := &testCacheHooks{}
	SetCacheHooks(cache)
	if Cache() != cache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// nil is ignored
	SetSeatingHooks(nil)
	if Seating() != seating {
		t.Error("SetSeatingHooks(nil) should keep the previous hooks")
	}

	Reset()
	if _, ok := Seating().(NoopSeatingHooks); !ok {
		t.Error("Reset should restore NoopSeatingHooks")
	}
}

type testSeatingHooks struct{ NoopSeatingHooks }

type testCacheHooks struct{ NoopCacheHooks }
