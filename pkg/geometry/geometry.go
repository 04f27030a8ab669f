package geometry

import "math"

// Point is a 2D position or vector.
type Point struct {
	X float64 `json:"x" bson:"x" toml:"x"`
	Y float64 `json:"y" bson:"y" toml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p * k.
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Div returns p / k. k must be non-zero.
func (p Point) Div(k float64) Point { return Point{p.X / k, p.Y / k} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Rotate rotates p about the origin by deg degrees (clockwise on a y-down canvas).
func (p Point) Rotate(deg float64) Point {
	if deg == 0 {
		return p
	}
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Point{p.X*cos - p.Y*sin, p.X*sin + p.Y*cos}
}

// ApproxEqual reports whether p and q differ by at most eps on both axes.
func (p Point) ApproxEqual(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Bounds returns r itself, so a Rect can stand in wherever a bounded shape
// is expected.
func (r Rect) Bounds() Rect { return r }

// IsEmpty reports whether r has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rect containing both r and other.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.X+r.Width, other.X+other.Width)
	maxY := max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Center returns the center point of r.
func (r Rect) Center() Point {
	return Point{r.X + r.Width/2, r.Y + r.Height/2}
}

// Polygon is an ordered list of vertices. The closing edge from the last
// vertex back to the first is implicit.
type Polygon []Point

// Closed reports whether the polygon has enough vertices to enclose an area.
func (pg Polygon) Closed() bool { return len(pg) >= 3 }

// Bounds returns the axis-aligned bounding box of the polygon.
func (pg Polygon) Bounds() Rect {
	if len(pg) == 0 {
		return Rect{}
	}
	minX, minY := pg[0].X, pg[0].Y
	maxX, maxY := minX, minY
	for _, p := range pg[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Area returns the absolute area enclosed by the polygon (shoelace formula).
// Open polygons have zero area.
func (pg Polygon) Area() float64 {
	if !pg.Closed() {
		return 0
	}
	var sum float64
	for i := range pg {
		j := (i + 1) % len(pg)
		sum += pg[i].X*pg[j].Y - pg[j].X*pg[i].Y
	}
	return math.Abs(sum) / 2
}

// Contains reports whether p lies inside the polygon using ray casting.
// Open polygons contain nothing.
func (pg Polygon) Contains(p Point) bool {
	if !pg.Closed() {
		return false
	}
	inside := false
	for i, j := 0, len(pg)-1; i < len(pg); j, i = i, i+1 {
		a, b := pg[i], pg[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}
