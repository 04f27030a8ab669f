package geometry

import "math"

// Shape identifies a table outline.
type Shape string

// Supported table shapes.
const (
	ShapeRect   Shape = "rect"
	ShapeCircle Shape = "circle"
)

// Valid reports whether s is a known shape.
func (s Shape) Valid() bool { return s == ShapeRect || s == ShapeCircle }

const (
	// SeatClearance is the distance between a table edge and a seat center.
	SeatClearance = 20.0

	// SeatRadius is the drawn (and hit-tested) radius of a seat.
	SeatRadius = 12.0
)

// Size carries the dimensions of a table. Width and Height apply to
// rectangles, Radius to circles; the other fields are ignored.
type Size struct {
	Width  float64
	Height float64
	Radius float64
}

// GenerateSeats returns capacity seat positions around a table of the given
// shape, relative to the table's center. It returns nil for capacity <= 0
// or an unknown shape.
func GenerateSeats(shape Shape, size Size, capacity int) []Point {
	if capacity <= 0 {
		return nil
	}
	switch shape {
	case ShapeRect:
		return RectSeats(size.Width, size.Height, capacity)
	case ShapeCircle:
		return CircleSeats(size.Radius, capacity)
	default:
		return nil
	}
}

// RectSeats distributes capacity seats over the four sides of a w×h
// rectangle centered at the origin. Each side receives ceil(capacity/4)
// evenly spaced slots; the combined top, bottom, left, right list is
// truncated to capacity.
func RectSeats(w, h float64, capacity int) []Point {
	if capacity <= 0 {
		return nil
	}
	perSide := (capacity + 3) / 4
	spaceX := w / float64(perSide+1)
	spaceY := h / float64(perSide+1)
	left, top := -w/2, -h/2

	seats := make([]Point, 0, perSide*4)
	for i := 1; i <= perSide; i++ {
		seats = append(seats, Point{left + spaceX*float64(i), top - SeatClearance})
	}
	for i := 1; i <= perSide; i++ {
		seats = append(seats, Point{left + spaceX*float64(i), h/2 + SeatClearance})
	}
	for i := 1; i <= perSide; i++ {
		seats = append(seats, Point{left - SeatClearance, top + spaceY*float64(i)})
	}
	for i := 1; i <= perSide; i++ {
		seats = append(seats, Point{w/2 + SeatClearance, top + spaceY*float64(i)})
	}
	return seats[:capacity]
}

// CircleSeats places capacity seats around a circle of radius r centered at
// the origin, at angle 2π·i/capacity and distance r+SeatClearance.
func CircleSeats(r float64, capacity int) []Point {
	if capacity <= 0 {
		return nil
	}
	dist := r + SeatClearance
	step := 2 * math.Pi / float64(capacity)
	seats := make([]Point, capacity)
	for i := range seats {
		sin, cos := math.Sincos(step * float64(i))
		seats[i] = Point{cos * dist, sin * dist}
	}
	return seats
}
