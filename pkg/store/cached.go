package store

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seatplan/pkg/cache"
	"github.com/matzehuels/seatplan/pkg/seating"
	"github.com/matzehuels/seatplan/pkg/venue"
)

// Cached is a Gateway decorator that serves layout reads from a cache.
// Single layouts, owner lists and the public list are cached; every layout
// write invalidates the affected keys. Wedding calls pass through, since
// seating changes on every interaction.
//
// Cache failures never fail a request: reads fall back to the inner
// gateway and are logged at debug level.
type Cached struct {
	inner  Gateway
	cache  cache.Cache
	keys   cache.Keyer
	logger *log.Logger
}

// NewCached wraps inner. A nil keyer uses cache.NewDefaultKeyer; a nil
// logger discards.
func NewCached(inner Gateway, c cache.Cache, keys cache.Keyer, logger *log.Logger) *Cached {
	if keys == nil {
		keys = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Cached{inner: inner, cache: c, keys: keys, logger: logger}
}

func (c *Cached) CreateLayout(ctx context.Context, l *venue.Layout) error {
	if err := c.inner.CreateLayout(ctx, l); err != nil {
		return err
	}
	c.invalidate(ctx, l.ID, l.OwnerID)
	return nil
}

func (c *Cached) GetLayout(ctx context.Context, id string) (*venue.Layout, error) {
	key := c.keys.LayoutKey(id)
	var l venue.Layout
	if hit, err := cache.GetJSON(ctx, c.cache, "layout", key, &l); err != nil {
		c.logger.Debug("layout cache read failed", "key", key, "err", err)
	} else if hit {
		return &l, nil
	}

	got, err := c.inner.GetLayout(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, "layout", key, got, cache.LayoutTTL)
	return got, nil
}

func (c *Cached) ListLayoutsByOwner(ctx context.Context, ownerID string) ([]venue.Layout, error) {
	return c.list(ctx, "owner_layouts", c.keys.OwnerLayoutsKey(ownerID), func() ([]venue.Layout, error) {
		return c.inner.ListLayoutsByOwner(ctx, ownerID)
	})
}

func (c *Cached) ListPublicLayouts(ctx context.Context) ([]venue.Layout, error) {
	return c.list(ctx, "public_layouts", c.keys.PublicLayoutsKey(), func() ([]venue.Layout, error) {
		return c.inner.ListPublicLayouts(ctx)
	})
}

func (c *Cached) UpdateLayoutFields(ctx context.Context, id string, p venue.Patch) error {
	owner := c.ownerOf(ctx, id)
	if err := c.inner.UpdateLayoutFields(ctx, id, p); err != nil {
		return err
	}
	c.invalidate(ctx, id, owner)
	return nil
}

func (c *Cached) ReplaceLayout(ctx context.Context, l *venue.Layout) error {
	owner := c.ownerOf(ctx, l.ID)
	if err := c.inner.ReplaceLayout(ctx, l); err != nil {
		return err
	}
	c.invalidate(ctx, l.ID, owner, l.OwnerID)
	return nil
}

func (c *Cached) DeleteLayout(ctx context.Context, id string) error {
	owner := c.ownerOf(ctx, id)
	if err := c.inner.DeleteLayout(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id, owner)
	return nil
}

func (c *Cached) GetWedding(ctx context.Context, id string) (*Wedding, error) {
	return c.inner.GetWedding(ctx, id)
}

func (c *Cached) SaveWedding(ctx context.Context, w *Wedding) error {
	return c.inner.SaveWedding(ctx, w)
}

func (c *Cached) SelectLayout(ctx context.Context, weddingID, layoutID string) error {
	return c.inner.SelectLayout(ctx, weddingID, layoutID)
}

func (c *Cached) SaveAssignments(ctx context.Context, weddingID string, m seating.Map, rev int64) error {
	return c.inner.SaveAssignments(ctx, weddingID, m, rev)
}

// Close closes the inner gateway and the cache.
func (c *Cached) Close() error {
	err := c.inner.Close()
	if cerr := c.cache.Close(); err == nil {
		err = cerr
	}
	return err
}

func (c *Cached) list(ctx context.Context, keyType, key string, load func() ([]venue.Layout, error)) ([]venue.Layout, error) {
	var ls []venue.Layout
	if hit, err := cache.GetJSON(ctx, c.cache, keyType, key, &ls); err != nil {
		c.logger.Debug("layout list cache read failed", "key", key, "err", err)
	} else if hit {
		return ls, nil
	}

	ls, err := load()
	if err != nil {
		return nil, err
	}
	c.store(ctx, keyType, key, ls, cache.PublicLayoutTTL)
	return ls, nil
}

func (c *Cached) store(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	if err := cache.SetJSON(ctx, c.cache, keyType, key, v, ttl); err != nil {
		c.logger.Debug("layout cache write failed", "key", key, "err", err)
	}
}

// ownerOf looks up the current owner so their list can be invalidated.
// It reads the inner gateway to avoid trusting a stale cached copy.
func (c *Cached) ownerOf(ctx context.Context, id string) string {
	l, err := c.inner.GetLayout(ctx, id)
	if err != nil {
		return ""
	}
	return l.OwnerID
}

func (c *Cached) invalidate(ctx context.Context, layoutID string, owners ...string) {
	keys := []string{c.keys.LayoutKey(layoutID), c.keys.PublicLayoutsKey()}
	for _, o := range owners {
		if o != "" {
			keys = append(keys, c.keys.OwnerLayoutsKey(o))
		}
	}
	for _, k := range keys {
		if err := c.cache.Delete(ctx, k); err != nil {
			c.logger.Warn("cache invalidation failed", "key", k, "err", err)
		}
	}
}

var _ Gateway = (*Cached)(nil)
