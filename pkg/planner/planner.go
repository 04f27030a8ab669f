// Package planner is the authorization and lifecycle layer over the
// persistence gateway.
//
// Every write first loads the current document, checks that the caller owns
// it and validates the result, so the gateway only ever sees permitted,
// well-formed documents. Reads of layouts allow the owner or anyone when the
// layout is public; weddings are visible to their owner only.
//
// Seating changes go through a [seating.Engine] opened with [Service.OpenSeating].
// The one-shot helpers (AssignSeat, UnassignSeat, ClearSeating, SelectLayout)
// open an engine, apply one mutation, and wait for it to be written, which is
// what request/response callers such as the HTTP API need.
package planner

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/seatplan/pkg/errors"
	"github.com/matzehuels/seatplan/pkg/guest"
	"github.com/matzehuels/seatplan/pkg/store"
	"github.com/matzehuels/seatplan/pkg/venue"
)

// Service implements layout and wedding operations on behalf of a user.
type Service struct {
	store  store.Gateway
	guests guest.Directory
	logger *log.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithGuests sets the guest directory used to resolve guest names and
// eligibility. Without one, guests are not checked.
func WithGuests(d guest.Directory) Option {
	return func(s *Service) { s.guests = d }
}

// WithLogger sets the service logger. It is also handed to seating engines.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New creates a service over g.
func New(g store.Gateway, opts ...Option) *Service {
	s := &Service{store: g, now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return s
}

// Store returns the underlying gateway.
func (s *Service) Store() store.Gateway { return s.store }

// =============================================================================
// Layouts
// =============================================================================

// CreateLayout stores l as a new layout owned by userID. A missing id is
// generated; timestamps and the capacity total are set here.
func (s *Service) CreateLayout(ctx context.Context, userID string, l *venue.Layout) (*venue.Layout, error) {
	if userID == "" {
		return nil, errors.New(errors.ErrCodeUnauthorized, "sign in to create layouts")
	}
	c := l.Clone()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.OwnerID = userID
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt
	c.Recompute()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.CreateLayout(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Debug("layout created", "id", c.ID, "owner", userID, "tables", len(c.Tables))
	return c, nil
}

// GetLayout returns a layout the user may view.
func (s *Service) GetLayout(ctx context.Context, userID, id string) (*venue.Layout, error) {
	l, err := s.store.GetLayout(ctx, id)
	if err != nil {
		return nil, err
	}
	if !l.CanView(userID) {
		return nil, errors.PermissionDenied("layout %s is private", id)
	}
	return l, nil
}

// ListMine returns the user's own layouts, newest first.
func (s *Service) ListMine(ctx context.Context, userID string) ([]venue.Layout, error) {
	if userID == "" {
		return nil, errors.New(errors.ErrCodeUnauthorized, "sign in to list your layouts")
	}
	return s.store.ListLayoutsByOwner(ctx, userID)
}

// ListPublic returns every public layout, newest first.
func (s *Service) ListPublic(ctx context.Context) ([]venue.Layout, error) {
	return s.store.ListPublicLayouts(ctx)
}

// editable loads a layout and checks that userID owns it.
func (s *Service) editable(ctx context.Context, userID, id string) (*venue.Layout, error) {
	l, err := s.store.GetLayout(ctx, id)
	if err != nil {
		return nil, err
	}
	if !l.CanEdit(userID) {
		return nil, errors.PermissionDenied("only the owner can change layout %s", id)
	}
	return l, nil
}

// UpdateLayout merges metadata changes into a layout.
func (s *Service) UpdateLayout(ctx context.Context, userID, id string, p venue.Patch) (*venue.Layout, error) {
	l, err := s.editable(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if p.Empty() {
		return l, nil
	}
	l.Apply(p)
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateLayoutFields(ctx, id, p); err != nil {
		return nil, err
	}
	return s.store.GetLayout(ctx, id)
}

// SetPreviewImage records the URL of a rendered preview. An empty url
// clears it.
func (s *Service) SetPreviewImage(ctx context.Context, userID, id, url string) (*venue.Layout, error) {
	url = strings.TrimSpace(url)
	return s.UpdateLayout(ctx, userID, id, venue.Patch{PreviewImageURL: &url})
}

// Publish sets whether a layout is visible to everyone.
func (s *Service) Publish(ctx context.Context, userID, id string, public bool) (*venue.Layout, error) {
	return s.UpdateLayout(ctx, userID, id, venue.Patch{IsPublic: &public})
}

// ReplaceLayout swaps in a new outline and table arrangement. Metadata is
// left as stored. Assignments of weddings using the layout are kept; seats
// that no longer exist show up as orphaned in their summary.
func (s *Service) ReplaceLayout(ctx context.Context, userID, id string, shape venue.Shape, tables []venue.Table) (*venue.Layout, error) {
	l, err := s.editable(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	next := (&venue.Layout{Shape: shape, Tables: tables}).Clone()
	l.Replace(next.Shape, next.Tables)
	l.UpdatedAt = s.now()
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.ReplaceLayout(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// DeleteLayout removes a layout. Weddings that selected it lose the
// selection and their seating.
func (s *Service) DeleteLayout(ctx context.Context, userID, id string) error {
	if _, err := s.editable(ctx, userID, id); err != nil {
		return err
	}
	if err := s.store.DeleteLayout(ctx, id); err != nil {
		return err
	}
	s.logger.Debug("layout deleted", "id", id, "owner", userID)
	return nil
}

// DuplicateLayout copies a layout the user may view into a new private
// layout owned by the user. Tables get fresh ids, and seat ids follow.
// An empty name becomes "Copy of <source name>".
func (s *Service) DuplicateLayout(ctx context.Context, userID, id, name string) (*venue.Layout, error) {
	src, err := s.GetLayout(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		name = "Copy of " + src.Name
	}

	dup := src.Clone()
	dup.ID = ""
	dup.Name = name
	dup.IsPublic = false
	for i := range dup.Tables {
		t := &dup.Tables[i]
		t.ID = uuid.NewString()
		for j := range t.Seats {
			t.Seats[j].ID = venue.SeatID(t.ID, j)
		}
	}
	return s.CreateLayout(ctx, userID, dup)
}
