// Package store defines the persistence gateway for layouts and weddings.
//
// Backends live in subpackages:
//
//   - memory: in-process maps, for tests and development
//   - sqlite: a single-file database for the CLI
//   - mongo: the production document store (collections venueLayouts and
//     weddings)
//
// Every backend reports missing documents as NOT_FOUND and driver failures
// as PERSISTENCE errors (see pkg/errors). Ownership is not checked here;
// pkg/planner authorizes before calling the gateway.
//
// Writes to a wedding's seating are last-write-wins. Each save records the
// writer's revision and a timestamp so that conflicting sessions can be
// diagnosed, but no write is rejected.
package store

import (
	"context"
	"time"

	"github.com/matzehuels/seatplan/pkg/seating"
	"github.com/matzehuels/seatplan/pkg/venue"
)

// Wedding is the per-wedding record holding the selected layout and its
// seating.
type Wedding struct {
	ID               string      `json:"id" bson:"_id"`
	OwnerID          string      `json:"owner_id" bson:"owner_id"`
	Name             string      `json:"name,omitempty" bson:"name,omitempty"`
	SelectedLayoutID string      `json:"selected_layout_id" bson:"selectedVenueLayoutId"`
	Assignments      seating.Map `json:"seating_assignments" bson:"seatingAssignments"`
	Revision         int64       `json:"seating_revision" bson:"seatingRevision"`
	CreatedAt        time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at" bson:"updated_at"`
}

// CanEdit reports whether userID may change the wedding's seating.
func (w *Wedding) CanEdit(userID string) bool {
	return userID != "" && userID == w.OwnerID
}

// Clone returns a deep copy.
func (w *Wedding) Clone() *Wedding {
	c := *w
	c.Assignments = w.Assignments.Clone()
	return &c
}

// Gateway is the document store boundary.
type Gateway interface {
	// CreateLayout inserts a new layout. An existing id is INVALID_INPUT.
	CreateLayout(ctx context.Context, l *venue.Layout) error

	// GetLayout returns a layout or NOT_FOUND.
	GetLayout(ctx context.Context, id string) (*venue.Layout, error)

	// ListLayoutsByOwner returns the owner's layouts, newest first.
	ListLayoutsByOwner(ctx context.Context, ownerID string) ([]venue.Layout, error)

	// ListPublicLayouts returns every public layout, newest first.
	ListPublicLayouts(ctx context.Context) ([]venue.Layout, error)

	// UpdateLayoutFields merges non-nil patch fields into a stored layout.
	UpdateLayoutFields(ctx context.Context, id string, p venue.Patch) error

	// ReplaceLayout overwrites a stored layout document, keeping CreatedAt.
	ReplaceLayout(ctx context.Context, l *venue.Layout) error

	// DeleteLayout removes a layout. Weddings that selected it lose the
	// selection and their seating.
	DeleteLayout(ctx context.Context, id string) error

	// GetWedding returns a wedding or NOT_FOUND.
	GetWedding(ctx context.Context, id string) (*Wedding, error)

	// SaveWedding inserts or overwrites a wedding record.
	SaveWedding(ctx context.Context, w *Wedding) error

	// SelectLayout sets the wedding's layout and clears its seating.
	SelectLayout(ctx context.Context, weddingID, layoutID string) error

	// SaveAssignments overwrites the wedding's seating with m.
	SaveAssignments(ctx context.Context, weddingID string, m seating.Map, rev int64) error

	// Close releases the backend's resources.
	Close() error
}

var _ seating.Saver = Gateway(nil)
