package venue

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/seatplan/pkg/errors"
	"github.com/matzehuels/seatplan/pkg/geometry"
)

// Shape is the drawn outline of the room.
type Shape []geometry.Point

// Complete reports whether the outline can be rendered as a closed polygon.
func (s Shape) Complete() bool { return len(s) >= 3 }

// Polygon returns the outline as a geometry.Polygon.
func (s Shape) Polygon() geometry.Polygon { return geometry.Polygon(s) }

// Layout is a persisted venue floor plan.
type Layout struct {
	ID              string    `json:"id" bson:"_id"`
	Name            string    `json:"name" bson:"name"`
	Description     string    `json:"description,omitempty" bson:"description,omitempty"`
	OwnerID         string    `json:"owner_id" bson:"owner_id"`
	IsPublic        bool      `json:"is_public" bson:"is_public"`
	PreviewImageURL string    `json:"preview_image_url,omitempty" bson:"preview_image_url,omitempty"`
	Shape           Shape     `json:"venue_shape" bson:"venue_shape"`
	Tables          []Table   `json:"tables" bson:"tables"`
	TotalCapacity   int       `json:"total_capacity" bson:"total_capacity"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

// New creates an empty layout owned by ownerID with a fresh id.
func New(ownerID, name string) *Layout {
	now := time.Now().UTC()
	return &Layout{
		ID:        uuid.NewString(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Recompute refreshes derived fields (TotalCapacity).
func (l *Layout) Recompute() {
	total := 0
	for i := range l.Tables {
		total += l.Tables[i].Capacity
	}
	l.TotalCapacity = total
}

// AddTable appends t and recomputes the capacity total.
func (l *Layout) AddTable(t Table) {
	l.Tables = append(l.Tables, t)
	l.Recompute()
}

// RemoveTable deletes the table with the given id. It reports whether a
// table was removed.
func (l *Layout) RemoveTable(id string) bool {
	i := slices.IndexFunc(l.Tables, func(t Table) bool { return t.ID == id })
	if i < 0 {
		return false
	}
	l.Tables = slices.Delete(l.Tables, i, i+1)
	l.Recompute()
	return true
}

// Table returns a pointer to the table with the given id.
func (l *Layout) Table(id string) (*Table, bool) {
	for i := range l.Tables {
		if l.Tables[i].ID == id {
			return &l.Tables[i], true
		}
	}
	return nil, false
}

// SeatRef locates a seat within a layout.
type SeatRef struct {
	Table      *Table
	TableIndex int
	SeatIndex  int
}

// Seat returns the seat with the given id and its owning table.
func (l *Layout) Seat(seatID string) (SeatRef, bool) {
	for ti := range l.Tables {
		t := &l.Tables[ti]
		for si := range t.Seats {
			if t.Seats[si].ID == seatID {
				return SeatRef{Table: t, TableIndex: ti, SeatIndex: si}, true
			}
		}
	}
	return SeatRef{}, false
}

// HasSeat reports whether seatID belongs to one of the layout's tables.
func (l *Layout) HasSeat(seatID string) bool {
	_, ok := l.Seat(seatID)
	return ok
}

// SeatIDs returns every seat id in table order.
func (l *Layout) SeatIDs() []string {
	var ids []string
	for i := range l.Tables {
		for _, s := range l.Tables[i].Seats {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// CanEdit reports whether userID may modify the layout.
func (l *Layout) CanEdit(userID string) bool {
	return userID != "" && userID == l.OwnerID
}

// CanView reports whether userID may read the layout.
func (l *Layout) CanView(userID string) bool {
	return l.IsPublic || l.CanEdit(userID)
}

// Validate checks the layout's invariants. It returns an error carrying
// errors.ErrCodeValidation on the first violation found.
func (l *Layout) Validate() error {
	if err := errors.ValidateName("layout name", l.Name); err != nil {
		return err
	}
	if len(l.Shape) > 0 && !l.Shape.Complete() {
		return errors.Validation("venue shape needs at least 3 points, got %d", len(l.Shape))
	}
	if l.PreviewImageURL != "" {
		if err := errors.ValidateURL(l.PreviewImageURL); err != nil {
			return errors.Wrap(errors.ErrCodeValidation, err, "invalid preview image")
		}
	}

	tableIDs := make(map[string]struct{}, len(l.Tables))
	seatIDs := make(map[string]struct{})
	for i := range l.Tables {
		t := &l.Tables[i]
		if err := t.validate(); err != nil {
			return err
		}
		if _, dup := tableIDs[t.ID]; dup {
			return errors.Validation("duplicate table id %q", t.ID)
		}
		tableIDs[t.ID] = struct{}{}
		for _, s := range t.Seats {
			if s.ID == "" {
				return errors.Validation("table %s: seat without id", t.ID)
			}
			if _, dup := seatIDs[s.ID]; dup {
				return errors.Validation("duplicate seat id %q", s.ID)
			}
			seatIDs[s.ID] = struct{}{}
		}
	}
	return nil
}

// Replace swaps in a new table arrangement and outline (full replacement,
// as opposed to Apply's metadata merge).
func (l *Layout) Replace(shape Shape, tables []Table) {
	l.Shape = shape
	l.Tables = tables
	l.Recompute()
	l.UpdatedAt = time.Now().UTC()
}

// Clone returns a deep copy of the layout.
func (l *Layout) Clone() *Layout {
	c := *l
	c.Shape = slices.Clone(l.Shape)
	c.Tables = make([]Table, len(l.Tables))
	for i, t := range l.Tables {
		t.Seats = slices.Clone(t.Seats)
		if t.Rect != nil {
			r := *t.Rect
			t.Rect = &r
		}
		if t.Circle != nil {
			cs := *t.Circle
			t.Circle = &cs
		}
		c.Tables[i] = t
	}
	return &c
}

// Patch is a partial metadata update. Nil fields are left unchanged.
type Patch struct {
	Name            *string `json:"name,omitempty"`
	Description     *string `json:"description,omitempty"`
	IsPublic        *bool   `json:"is_public,omitempty"`
	PreviewImageURL *string `json:"preview_image_url,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.IsPublic == nil && p.PreviewImageURL == nil
}

// Fields returns the patch as document field names (bson tags) to values,
// suitable for a $set update.
func (p Patch) Fields() map[string]any {
	m := make(map[string]any, 4)
	if p.Name != nil {
		m["name"] = *p.Name
	}
	if p.Description != nil {
		m["description"] = *p.Description
	}
	if p.IsPublic != nil {
		m["is_public"] = *p.IsPublic
	}
	if p.PreviewImageURL != nil {
		m["preview_image_url"] = *p.PreviewImageURL
	}
	return m
}

// Apply merges the patch into the layout.
func (l *Layout) Apply(p Patch) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.IsPublic != nil {
		l.IsPublic = *p.IsPublic
	}
	if p.PreviewImageURL != nil {
		l.PreviewImageURL = *p.PreviewImageURL
	}
	l.UpdatedAt = time.Now().UTC()
}
