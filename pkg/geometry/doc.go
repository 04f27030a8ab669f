// Package geometry provides the 2D primitives and seat generators used by
// venue layouts.
//
// # Seat Generation
//
// [GenerateSeats] places chairs around a table given its shape, size and
// capacity. Positions are relative to the table's center, in canvas units,
// before the table's rotation is applied:
//
//	pts := geometry.GenerateSeats(geometry.ShapeRect, geometry.Size{Width: 160, Height: 80}, 8)
//	// 2 seats per side: top, bottom, left, right
//
// Rectangles distribute ceil(capacity/4) seats evenly along each side and
// truncate the combined list (top, bottom, left, right) to exactly capacity
// entries, so tables whose capacity is not a multiple of four leave the last
// sides short. Circles space seats at equal angles 2π/capacity starting at
// angle zero (positive X axis).
//
// Every generator is a pure function: identical inputs always produce
// identical output, which keeps golden-value tests stable.
//
// # Primitives
//
// [Point], [Rect] and [Polygon] carry the small amount of vector math the
// editor needs: translation, rotation about the origin, axis-aligned bounds
// and point-in-polygon tests for hit-testing venue outlines.
package geometry
