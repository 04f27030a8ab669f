package venue

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/matzehuels/seatplan/pkg/errors"
	"github.com/matzehuels/seatplan/pkg/geometry"
)

// Table kinds.
const (
	KindRect   = geometry.ShapeRect
	KindCircle = geometry.ShapeCircle
)

// RectSize holds the dimensions of a rectangular table.
type RectSize struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// CircleSize holds the dimensions of a round table.
type CircleSize struct {
	Radius float64 `json:"radius" bson:"radius"`
}

// Seat is a single assignable position. Position is relative to the owning
// table's center, before rotation.
type Seat struct {
	ID       string         `json:"id" bson:"id"`
	Position geometry.Point `json:"position" bson:"position"`
}

// Table is a drawable table element. Exactly one of Rect or Circle is set,
// matching Kind.
type Table struct {
	ID       string         `json:"id" bson:"id"`
	Kind     geometry.Shape `json:"kind" bson:"kind"`
	Position geometry.Point `json:"position" bson:"position"`
	Rotation float64        `json:"rotation,omitempty" bson:"rotation,omitempty"`
	Label    string         `json:"label,omitempty" bson:"label,omitempty"`
	Capacity int            `json:"capacity" bson:"capacity"`
	Seats    []Seat         `json:"seats" bson:"seats"`

	Rect   *RectSize   `json:"rect,omitempty" bson:"rect,omitempty"`
	Circle *CircleSize `json:"circle,omitempty" bson:"circle,omitempty"`
}

// NewRectTable creates a rectangular table centered at pos with capacity
// generated seats. An empty id is replaced with a random UUID.
func NewRectTable(id string, pos geometry.Point, width, height float64, capacity int) Table {
	t := Table{
		ID:       orNewID(id),
		Kind:     KindRect,
		Position: pos,
		Capacity: capacity,
		Rect:     &RectSize{Width: width, Height: height},
	}
	t.Seats = t.generateSeats()
	return t
}

// NewCircleTable creates a round table centered at pos with capacity
// generated seats. An empty id is replaced with a random UUID.
func NewCircleTable(id string, pos geometry.Point, radius float64, capacity int) Table {
	t := Table{
		ID:       orNewID(id),
		Kind:     KindCircle,
		Position: pos,
		Capacity: capacity,
		Circle:   &CircleSize{Radius: radius},
	}
	t.Seats = t.generateSeats()
	return t
}

// SeatID returns the id of the seat at index i (zero-based) of a table.
func SeatID(tableID string, i int) string {
	return fmt.Sprintf("%s-s%d", tableID, i+1)
}

// Size returns the table's dimensions as a geometry.Size.
func (t *Table) Size() geometry.Size {
	switch {
	case t.Kind == KindRect && t.Rect != nil:
		return geometry.Size{Width: t.Rect.Width, Height: t.Rect.Height}
	case t.Kind == KindCircle && t.Circle != nil:
		return geometry.Size{Radius: t.Circle.Radius}
	}
	return geometry.Size{}
}

// Bounds returns the unrotated local extent of the table body, centered at
// the origin.
func (t *Table) Bounds() geometry.Rect {
	s := t.Size()
	if t.Kind == KindCircle {
		return geometry.Rect{X: -s.Radius, Y: -s.Radius, Width: 2 * s.Radius, Height: 2 * s.Radius}
	}
	return geometry.Rect{X: -s.Width / 2, Y: -s.Height / 2, Width: s.Width, Height: s.Height}
}

// DisplayLabel returns the table's label, or its 1-based sequence number
// when no label is set.
func (t *Table) DisplayLabel(index int) string {
	if t.Label != "" {
		return t.Label
	}
	return strconv.Itoa(index + 1)
}

// SeatPosition returns the canvas-space position of seat i, applying the
// table's rotation and translation.
func (t *Table) SeatPosition(i int) geometry.Point {
	return t.Position.Add(t.Seats[i].Position.Rotate(t.Rotation))
}

// Resize changes the table's dimensions and regenerates seat positions.
// Seat ids and count are preserved. Only the dimension matching Kind is
// read from size.
func (t *Table) Resize(size geometry.Size) error {
	switch t.Kind {
	case KindRect:
		if size.Width <= 0 || size.Height <= 0 {
			return errors.Validation("table %s: width and height must be positive", t.ID)
		}
		t.Rect = &RectSize{Width: size.Width, Height: size.Height}
	case KindCircle:
		if size.Radius <= 0 {
			return errors.Validation("table %s: radius must be positive", t.ID)
		}
		t.Circle = &CircleSize{Radius: size.Radius}
	default:
		return errors.Validation("table %s: unknown kind %q", t.ID, t.Kind)
	}

	positions := geometry.GenerateSeats(t.Kind, t.Size(), len(t.Seats))
	for i := range t.Seats {
		t.Seats[i].Position = positions[i]
	}
	return nil
}

func (t *Table) generateSeats() []Seat {
	positions := geometry.GenerateSeats(t.Kind, t.Size(), t.Capacity)
	seats := make([]Seat, len(positions))
	for i, p := range positions {
		seats[i] = Seat{ID: SeatID(t.ID, i), Position: p}
	}
	return seats
}

func (t *Table) validate() error {
	if err := errors.ValidateID("table", t.ID); err != nil {
		return errors.Wrap(errors.ErrCodeValidation, err, "invalid table")
	}
	if t.Capacity < 0 {
		return errors.Validation("table %s: capacity must be >= 0, got %d", t.ID, t.Capacity)
	}
	if len(t.Seats) != t.Capacity {
		return errors.Validation("table %s: has %d seats for capacity %d", t.ID, len(t.Seats), t.Capacity)
	}

	switch t.Kind {
	case KindRect:
		if t.Rect == nil || t.Circle != nil {
			return errors.Validation("table %s: rect table must carry rect dimensions only", t.ID)
		}
		if t.Rect.Width <= 0 || t.Rect.Height <= 0 {
			return errors.Validation("table %s: width and height must be positive", t.ID)
		}
	case KindCircle:
		if t.Circle == nil || t.Rect != nil {
			return errors.Validation("table %s: circle table must carry circle dimensions only", t.ID)
		}
		if t.Circle.Radius <= 0 {
			return errors.Validation("table %s: radius must be positive", t.ID)
		}
	default:
		return errors.Validation("table %s: unknown kind %q", t.ID, t.Kind)
	}
	return nil
}

func orNewID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}
