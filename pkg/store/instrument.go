package store

import (
	"context"
	"time"

	"github.com/matzehuels/seatplan/pkg/observability"
	"github.com/matzehuels/seatplan/pkg/seating"
	"github.com/matzehuels/seatplan/pkg/venue"
)

// Instrument wraps g so that every call is reported to the registered
// observability store hooks under the given backend name.
func Instrument(g Gateway, backend string) Gateway {
	return &instrumented{inner: g, backend: backend}
}

type instrumented struct {
	inner   Gateway
	backend string
}

func (i *instrumented) observe(ctx context.Context, op string, start time.Time, err error) {
	observability.Store().OnOperation(ctx, i.backend, op, time.Since(start), err)
}

func (i *instrumented) CreateLayout(ctx context.Context, l *venue.Layout) error {
	start := time.Now()
	err := i.inner.CreateLayout(ctx, l)
	i.observe(ctx, "CreateLayout", start, err)
	return err
}

func (i *instrumented) GetLayout(ctx context.Context, id string) (*venue.Layout, error) {
	start := time.Now()
	l, err := i.inner.GetLayout(ctx, id)
	i.observe(ctx, "GetLayout", start, err)
	return l, err
}

func (i *instrumented) ListLayoutsByOwner(ctx context.Context, ownerID string) ([]venue.Layout, error) {
	start := time.Now()
	ls, err := i.inner.ListLayoutsByOwner(ctx, ownerID)
	i.observe(ctx, "ListLayoutsByOwner", start, err)
	return ls, err
}

func (i *instrumented) ListPublicLayouts(ctx context.Context) ([]venue.Layout, error) {
	start := time.Now()
	ls, err := i.inner.ListPublicLayouts(ctx)
	i.observe(ctx, "ListPublicLayouts", start, err)
	return ls, err
}

func (i *instrumented) UpdateLayoutFields(ctx context.Context, id string, p venue.Patch) error {
	start := time.Now()
	err := i.inner.UpdateLayoutFields(ctx, id, p)
	i.observe(ctx, "UpdateLayoutFields", start, err)
	return err
}

func (i *instrumented) ReplaceLayout(ctx context.Context, l *venue.Layout) error {
	start := time.Now()
	err := i.inner.ReplaceLayout(ctx, l)
	i.observe(ctx, "ReplaceLayout", start, err)
	return err
}

func (i *instrumented) DeleteLayout(ctx context.Context, id string) error {
	start := time.Now()
	err := i.inner.DeleteLayout(ctx, id)
	i.observe(ctx, "DeleteLayout", start, err)
	return err
}

func (i *instrumented) GetWedding(ctx context.Context, id string) (*Wedding, error) {
	start := time.Now()
	w, err := i.inner.GetWedding(ctx, id)
	i.observe(ctx, "GetWedding", start, err)
	return w, err
}

func (i *instrumented) SaveWedding(ctx context.Context, w *Wedding) error {
	start := time.Now()
	err := i.inner.SaveWedding(ctx, w)
	i.observe(ctx, "SaveWedding", start, err)
	return err
}

func (i *instrumented) SelectLayout(ctx context.Context, weddingID, layoutID string) error {
	start := time.Now()
	err := i.inner.SelectLayout(ctx, weddingID, layoutID)
	i.observe(ctx, "SelectLayout", start, err)
	return err
}

func (i *instrumented) SaveAssignments(ctx context.Context, weddingID string, m seating.Map, rev int64) error {
	start := time.Now()
	err := i.inner.SaveAssignments(ctx, weddingID, m, rev)
	i.observe(ctx, "SaveAssignments", start, err)
	return err
}

func (i *instrumented) Close() error {
	return i.inner.Close()
}
