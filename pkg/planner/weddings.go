package planner

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/seatplan/pkg/errors"
	"github.com/matzehuels/seatplan/pkg/guest"
	"github.com/matzehuels/seatplan/pkg/seating"
	"github.com/matzehuels/seatplan/pkg/store"
	"github.com/matzehuels/seatplan/pkg/venue"
)

// =============================================================================
// Weddings
// =============================================================================

// CreateWedding stores a new, empty wedding owned by userID.
func (s *Service) CreateWedding(ctx context.Context, userID, name string) (*store.Wedding, error) {
	if userID == "" {
		return nil, errors.New(errors.ErrCodeUnauthorized, "sign in to create weddings")
	}
	if err := errors.ValidateName("wedding name", name); err != nil {
		return nil, err
	}
	now := s.now()
	w := &store.Wedding{
		ID:          uuid.NewString(),
		OwnerID:     userID,
		Name:        name,
		Assignments: seating.Map{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.SaveWedding(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// GetWedding returns a wedding owned by userID.
func (s *Service) GetWedding(ctx context.Context, userID, id string) (*store.Wedding, error) {
	w, err := s.store.GetWedding(ctx, id)
	if err != nil {
		return nil, err
	}
	if !w.CanEdit(userID) {
		return nil, errors.PermissionDenied("wedding %s belongs to another user", id)
	}
	return w, nil
}

// =============================================================================
// Seating sessions
// =============================================================================

// Session is an open seating editor on one wedding.
type Session struct {
	Wedding *store.Wedding
	Layout  *venue.Layout // nil when no layout is selected
	Guests  []guest.Guest
	Engine  *seating.Engine
}

// Close flushes pending writes and stops the engine.
func (ss *Session) Close(ctx context.Context) error {
	return ss.Engine.Close(ctx)
}

// Summary reports the session's seating progress.
func (ss *Session) Summary() seating.Summary {
	return seating.Summarize(ss.Engine.Layout(), ss.Engine.Snapshot(), ss.Guests)
}

// OpenSeating loads a wedding, its selected layout and its guests, and
// returns an engine seeded with the stored assignments and persisting
// through the gateway. A selected layout that no longer exists is treated
// as no selection. Extra engine options are applied last.
func (s *Service) OpenSeating(ctx context.Context, userID, weddingID string, opts ...seating.Option) (*Session, error) {
	w, err := s.GetWedding(ctx, userID, weddingID)
	if err != nil {
		return nil, err
	}

	var l *venue.Layout
	if w.SelectedLayoutID != "" {
		l, err = s.store.GetLayout(ctx, w.SelectedLayoutID)
		switch {
		case errors.Is(err, errors.ErrCodeNotFound):
			s.logger.Warn("selected layout is gone", "wedding", weddingID, "layout", w.SelectedLayoutID)
			l = nil
		case err != nil:
			return nil, err
		}
	}

	guests, err := s.listGuests(ctx, weddingID)
	if err != nil {
		return nil, err
	}

	engineOpts := []seating.Option{
		seating.WithSaver(s.store),
		seating.WithLayout(l),
		seating.WithLogger(s.logger),
	}
	e := seating.New(weddingID, append(engineOpts, opts...)...)
	if _, err := e.Load(w.Assignments, w.Revision); err != nil {
		_ = e.Close(ctx)
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "stored seating of wedding %s is corrupt", weddingID)
	}
	return &Session{Wedding: w, Layout: l, Guests: guests, Engine: e}, nil
}

func (s *Service) listGuests(ctx context.Context, weddingID string) ([]guest.Guest, error) {
	if s.guests == nil {
		return nil, nil
	}
	guests, err := s.guests.ListGuests(ctx, weddingID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "list guests of wedding %s", weddingID)
	}
	return guests, nil
}

// mutate opens a session, applies fn and waits for the write. A failed
// background write is returned as the PERSISTENCE error it was reported as.
func (s *Service) mutate(ctx context.Context, userID, weddingID string, fn func(*Session) error) (seating.Map, error) {
	var (
		mu       sync.Mutex
		writeErr error
	)
	ss, err := s.OpenSeating(ctx, userID, weddingID, seating.WithErrorHandler(func(err error) {
		mu.Lock()
		writeErr = err
		mu.Unlock()
	}))
	if err != nil {
		return nil, err
	}

	fnErr := fn(ss)
	if err := ss.Close(ctx); err != nil {
		return nil, err
	}
	if fnErr != nil {
		return nil, fnErr
	}
	mu.Lock()
	defer mu.Unlock()
	if writeErr != nil {
		return nil, writeErr
	}
	return ss.Engine.Snapshot(), nil
}

// AssignSeat seats a guest and returns the saved map. With a guest
// directory configured, the guest must exist and have accepted; the stored
// name comes from the directory.
func (s *Service) AssignSeat(ctx context.Context, userID, weddingID, seatID, guestID string) (seating.Map, error) {
	return s.mutate(ctx, userID, weddingID, func(ss *Session) error {
		name := guestID
		if s.guests != nil {
			g, ok := guest.Find(ss.Guests, guestID)
			if !ok {
				return errors.NotFound("guest %s not found", guestID)
			}
			if !g.Eligible() {
				return errors.Validation("guest %s has not accepted (rsvp %s)", guestID, g.RSVPStatus)
			}
			name = g.DisplayName()
		}
		if ss.Engine.Layout() == nil {
			return errors.Validation("wedding %s has no layout selected", weddingID)
		}
		return ss.Engine.Assign(seatID, guestID, name)
	})
}

// UnassignSeat empties a seat. Empty seats are not an error.
func (s *Service) UnassignSeat(ctx context.Context, userID, weddingID, seatID string) (seating.Map, error) {
	return s.mutate(ctx, userID, weddingID, func(ss *Session) error {
		ss.Engine.Unassign(seatID)
		return nil
	})
}

// ClearSeating removes every assignment of the wedding.
func (s *Service) ClearSeating(ctx context.Context, userID, weddingID string) (seating.Map, error) {
	return s.mutate(ctx, userID, weddingID, func(ss *Session) error {
		ss.Engine.ClearAssignments()
		return nil
	})
}

// SelectLayout makes layoutID the wedding's layout and clears its seating.
// The layout must be viewable by the user. An empty layoutID clears the
// selection.
func (s *Service) SelectLayout(ctx context.Context, userID, weddingID, layoutID string) error {
	var l *venue.Layout
	if layoutID != "" {
		var err error
		if l, err = s.GetLayout(ctx, userID, layoutID); err != nil {
			return err
		}
	}
	_, err := s.mutate(ctx, userID, weddingID, func(ss *Session) error {
		if l == nil {
			ss.Engine.ClearSelection()
		} else {
			ss.Engine.SelectLayout(l.ID, l)
		}
		return nil
	})
	return err
}

// Summary reports seating progress of a wedding.
func (s *Service) Summary(ctx context.Context, userID, weddingID string) (seating.Summary, error) {
	w, err := s.GetWedding(ctx, userID, weddingID)
	if err != nil {
		return seating.Summary{}, err
	}
	var l *venue.Layout
	if w.SelectedLayoutID != "" {
		l, err = s.store.GetLayout(ctx, w.SelectedLayoutID)
		if err != nil && !errors.Is(err, errors.ErrCodeNotFound) {
			return seating.Summary{}, err
		}
	}
	guests, err := s.listGuests(ctx, weddingID)
	if err != nil {
		return seating.Summary{}, err
	}
	return seating.Summarize(l, w.Assignments, guests), nil
}
