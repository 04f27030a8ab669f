// Package memory implements store.Gateway with in-process maps.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/seatplan/pkg/errors"
	"github.com/matzehuels/seatplan/pkg/seating"
	"github.com/matzehuels/seatplan/pkg/store"
	"github.com/matzehuels/seatplan/pkg/venue"
)

// Store is an in-memory gateway. Documents are deep-copied on the way in
// and out, so callers never share state with the store.
type Store struct {
	mu       sync.RWMutex
	layouts  map[string]*venue.Layout
	weddings map[string]*store.Wedding
	closed   bool
}

// New creates an empty store.
func New() *Store {
	return &Store{
		layouts:  make(map[string]*venue.Layout),
		weddings: make(map[string]*store.Wedding),
	}
}

func (s *Store) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Persistence(err, "memory store")
	}
	if s.closed {
		return errors.New(errors.ErrCodePersistence, "memory store is closed")
	}
	return nil
}

func (s *Store) CreateLayout(ctx context.Context, l *venue.Layout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	if _, exists := s.layouts[l.ID]; exists {
		return errors.New(errors.ErrCodeInvalidInput, "layout %s already exists", l.ID)
	}
	s.layouts[l.ID] = l.Clone()
	return nil
}

func (s *Store) GetLayout(ctx context.Context, id string) (*venue.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	l, ok := s.layouts[id]
	if !ok {
		return nil, errors.NotFound("layout %s not found", id)
	}
	return l.Clone(), nil
}

func (s *Store) ListLayoutsByOwner(ctx context.Context, ownerID string) ([]venue.Layout, error) {
	return s.list(ctx, func(l *venue.Layout) bool { return l.OwnerID == ownerID })
}

func (s *Store) ListPublicLayouts(ctx context.Context) ([]venue.Layout, error) {
	return s.list(ctx, func(l *venue.Layout) bool { return l.IsPublic })
}

func (s *Store) list(ctx context.Context, keep func(*venue.Layout) bool) ([]venue.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	var out []venue.Layout
	for _, l := range s.layouts {
		if keep(l) {
			out = append(out, *l.Clone())
		}
	}
	slices.SortFunc(out, func(a, b venue.Layout) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *Store) UpdateLayoutFields(ctx context.Context, id string, p venue.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	l, ok := s.layouts[id]
	if !ok {
		return errors.NotFound("layout %s not found", id)
	}
	l.Apply(p)
	return nil
}

func (s *Store) ReplaceLayout(ctx context.Context, l *venue.Layout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	old, ok := s.layouts[l.ID]
	if !ok {
		return errors.NotFound("layout %s not found", l.ID)
	}
	c := l.Clone()
	c.CreatedAt = old.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	s.layouts[l.ID] = c
	return nil
}

func (s *Store) DeleteLayout(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	if _, ok := s.layouts[id]; !ok {
		return errors.NotFound("layout %s not found", id)
	}
	delete(s.layouts, id)

	now := time.Now().UTC()
	for _, w := range s.weddings {
		if w.SelectedLayoutID == id {
			w.SelectedLayoutID = ""
			w.Assignments = seating.Map{}
			w.UpdatedAt = now
		}
	}
	return nil
}

func (s *Store) GetWedding(ctx context.Context, id string) (*store.Wedding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	w, ok := s.weddings[id]
	if !ok {
		return nil, errors.NotFound("wedding %s not found", id)
	}
	return w.Clone(), nil
}

func (s *Store) SaveWedding(ctx context.Context, w *store.Wedding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	s.weddings[w.ID] = w.Clone()
	return nil
}

func (s *Store) SelectLayout(ctx context.Context, weddingID, layoutID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	w, ok := s.weddings[weddingID]
	if !ok {
		return errors.NotFound("wedding %s not found", weddingID)
	}
	w.SelectedLayoutID = layoutID
	w.Assignments = seating.Map{}
	w.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) SaveAssignments(ctx context.Context, weddingID string, m seating.Map, rev int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	w, ok := s.weddings[weddingID]
	if !ok {
		return errors.NotFound("wedding %s not found", weddingID)
	}
	w.Assignments = m.Clone()
	w.Revision = rev
	w.UpdatedAt = time.Now().UTC()
	return nil
}

// Close marks the store closed; later calls fail with PERSISTENCE.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

var _ store.Gateway = (*Store)(nil)
