package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/seatplan/pkg/cache"
	"github.com/matzehuels/seatplan/pkg/errors"
	"github.com/matzehuels/seatplan/pkg/observability"
	"github.com/matzehuels/seatplan/pkg/store"
	"github.com/matzehuels/seatplan/pkg/store/memory"
	"github.com/matzehuels/seatplan/pkg/store/storetest"
	"github.com/matzehuels/seatplan/pkg/venue"
)

// countingGateway counts reads that reach the backing store.
type countingGateway struct {
	store.Gateway
	mu     sync.Mutex
	gets   int
	public int
}

func (c *countingGateway) GetLayout(ctx context.Context, id string) (*venue.Layout, error) {
	c.mu.Lock()
	c.gets++
	c.mu.Unlock()
	return c.Gateway.GetLayout(ctx, id)
}

func (c *countingGateway) ListPublicLayouts(ctx context.Context) ([]venue.Layout, error) {
	c.mu.Lock()
	c.public++
	c.mu.Unlock()
	return c.Gateway.ListPublicLayouts(ctx)
}

func newCached(t *testing.T) (*store.Cached, *countingGateway) {
	t.Helper()
	inner := &countingGateway{Gateway: memory.New()}
	c := store.NewCached(inner, cache.NewMemoryCache(), nil, nil)
	t.Cleanup(func() { c.Close() })
	return c, inner
}

func TestCachedConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Gateway {
		c, _ := newCached(t)
		return c
	})
}

func TestCachedGetLayout(t *testing.T) {
	ctx := context.Background()
	c, inner := newCached(t)
	l := storetest.Layout("u1", "Hall", time.Now())
	if err := c.CreateLayout(ctx, l); err != nil {
		t.Fatal(err)
	}

	for range 3 {
		got, err := c.GetLayout(ctx, l.ID)
		if err != nil || got.Name != "Hall" {
			t.Fatalf("GetLayout = %+v, %v", got, err)
		}
	}
	if inner.gets != 1 {
		t.Errorf("inner reads = %d, want 1", inner.gets)
	}

	name := "Garden"
	if err := c.UpdateLayoutFields(ctx, l.ID, venue.Patch{Name: &name}); err != nil {
		t.Fatal(err)
	}
	got, err := c.GetLayout(ctx, l.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Garden" {
		t.Errorf("after patch Name = %q, want Garden", got.Name)
	}
}

func TestCachedPublicListInvalidation(t *testing.T) {
	ctx := context.Background()
	c, inner := newCached(t)
	l := storetest.Layout("u1", "Hall", time.Now())
	l.IsPublic = true
	if err := c.CreateLayout(ctx, l); err != nil {
		t.Fatal(err)
	}

	for range 2 {
		ls, err := c.ListPublicLayouts(ctx)
		if err != nil || len(ls) != 1 {
			t.Fatalf("ListPublicLayouts = %d, %v", len(ls), err)
		}
	}
	if inner.public != 1 {
		t.Errorf("inner public lists = %d, want 1", inner.public)
	}

	private := false
	if err := c.UpdateLayoutFields(ctx, l.ID, venue.Patch{IsPublic: &private}); err != nil {
		t.Fatal(err)
	}
	ls, err := c.ListPublicLayouts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ls) != 0 {
		t.Errorf("public layouts after unpublish = %d, want 0", len(ls))
	}
}

func TestCachedOwnerListAfterDelete(t *testing.T) {
	ctx := context.Background()
	c, _ := newCached(t)
	l := storetest.Layout("u1", "Hall", time.Now())
	if err := c.CreateLayout(ctx, l); err != nil {
		t.Fatal(err)
	}
	if ls, _ := c.ListLayoutsByOwner(ctx, "u1"); len(ls) != 1 {
		t.Fatalf("owner layouts = %d, want 1", len(ls))
	}
	if err := c.DeleteLayout(ctx, l.ID); err != nil {
		t.Fatal(err)
	}
	if ls, _ := c.ListLayoutsByOwner(ctx, "u1"); len(ls) != 0 {
		t.Errorf("owner layouts after delete = %d, want 0", len(ls))
	}
	if _, err := c.GetLayout(ctx, l.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("GetLayout after delete = %v, want NOT_FOUND", err)
	}
}

type opRecorder struct {
	observability.NoopStoreHooks
	mu   sync.Mutex
	ops  []string
	errs int
}

func (r *opRecorder) OnOperation(_ context.Context, backend, op string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, backend+"."+op)
	if err != nil {
		r.errs++
	}
}

func TestInstrument(t *testing.T) {
	rec := &opRecorder{}
	observability.SetStoreHooks(rec)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	g := store.Instrument(memory.New(), "memory")
	l := storetest.Layout("u1", "Hall", time.Now())
	if err := g.CreateLayout(ctx, l); err != nil {
		t.Fatal(err)
	}
	if _, err := g.GetLayout(ctx, "missing"); err == nil {
		t.Fatal("expected NOT_FOUND")
	}

	want := []string{"memory.CreateLayout", "memory.GetLayout"}
	if len(rec.ops) != len(want) {
		t.Fatalf("ops = %v, want %v", rec.ops, want)
	}
	for i := range want {
		if rec.ops[i] != want[i] {
			t.Errorf("ops[%d] = %q, want %q", i, rec.ops[i], want[i])
		}
	}
	if rec.errs != 1 {
		t.Errorf("errored ops = %d, want 1", rec.errs)
	}
}
