// Package scene builds a retained scene graph from a venue layout and
// resolves pointer positions to the shapes under them.
//
// The graph mirrors what a renderer paints, in paint order:
//
//	root
//	├── outline          (venue polygon)
//	└── table            (group, translated + rotated)
//	    ├── body         (rect or circle)
//	    ├── label        (text, not interactive)
//	    └── seat         (group at the seat's local position)
//	        └── chair    (circle)
//
// Hit testing returns the topmost interactive shape; callers walk up from
// it with [Node.Closest] to find the seat or table it belongs to.
package scene

import (
	"math"

	"github.com/matzehuels/seatplan/pkg/geometry"
	"github.com/matzehuels/seatplan/pkg/venue"
)

// Kind tags a node's role.
type Kind string

const (
	KindRoot    Kind = "root"
	KindOutline Kind = "outline"
	KindTable   Kind = "table"
	KindBody    Kind = "body"
	KindLabel   Kind = "label"
	KindSeat    Kind = "seat"
	KindChair   Kind = "chair"
)

// Geometry is a hit-testable shape in its node's local space.
type Geometry interface {
	Contains(p geometry.Point) bool
	Bounds() geometry.Rect
}

// Circle is a circle centered at the local origin.
type Circle struct {
	Radius float64
}

func (c Circle) Contains(p geometry.Point) bool {
	return p.X*p.X+p.Y*p.Y <= c.Radius*c.Radius
}

func (c Circle) Bounds() geometry.Rect {
	return geometry.Rect{X: -c.Radius, Y: -c.Radius, Width: 2 * c.Radius, Height: 2 * c.Radius}
}

// Node is an element of the scene graph.
type Node struct {
	ID       string
	Kind     Kind
	Parent   *Node
	Children []*Node

	// Local transform relative to the parent: rotate by Rotation degrees,
	// then translate by Position.
	Position geometry.Point
	Rotation float64

	Geometry  Geometry
	Listening bool
	Text      string

	TableID string
	SeatID  string
}

func (n *Node) add(c *Node) *Node {
	c.Parent = n
	n.Children = append(n.Children, c)
	return c
}

// ToLocal maps a canvas-space point into n's local space.
func (n *Node) ToLocal(p geometry.Point) geometry.Point {
	if n.Parent != nil {
		p = n.Parent.ToLocal(p)
	}
	return p.Sub(n.Position).Rotate(-n.Rotation)
}

// ToWorld maps a point in n's local space to canvas space.
func (n *Node) ToWorld(p geometry.Point) geometry.Point {
	p = p.Rotate(n.Rotation).Add(n.Position)
	if n.Parent != nil {
		return n.Parent.ToWorld(p)
	}
	return p
}

// Closest returns n or its nearest ancestor of the given kind.
func (n *Node) Closest(kind Kind) *Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Kind == kind {
			return cur
		}
	}
	return nil
}

// WorldBounds returns the canvas-space bounding box of n's geometry and
// all descendants.
func (n *Node) WorldBounds() geometry.Rect {
	var r geometry.Rect
	if n.Geometry != nil {
		b := n.Geometry.Bounds()
		corners := []geometry.Point{
			{X: b.X, Y: b.Y}, {X: b.X + b.Width, Y: b.Y},
			{X: b.X, Y: b.Y + b.Height}, {X: b.X + b.Width, Y: b.Y + b.Height},
		}
		for i := range corners {
			corners[i] = n.ToWorld(corners[i])
		}
		r = geometry.Polygon(corners).Bounds()
	}
	for _, c := range n.Children {
		r = r.Union(c.WorldBounds())
	}
	return r
}

// Scene is a scene graph built from one layout.
type Scene struct {
	Root   *Node
	seats  map[string]*Node
	tables map[string]*Node
}

// Build creates the scene for l. A nil layout yields an empty scene.
func Build(l *venue.Layout) *Scene {
	s := &Scene{
		Root:   &Node{ID: "root", Kind: KindRoot},
		seats:  make(map[string]*Node),
		tables: make(map[string]*Node),
	}
	if l == nil {
		return s
	}

	if l.Shape.Complete() {
		s.Root.add(&Node{
			ID:       "outline",
			Kind:     KindOutline,
			Geometry: l.Shape.Polygon(),
		})
	}

	for i := range l.Tables {
		t := &l.Tables[i]
		group := s.Root.add(&Node{
			ID:       t.ID,
			Kind:     KindTable,
			Position: t.Position,
			Rotation: t.Rotation,
			TableID:  t.ID,
		})
		s.tables[t.ID] = group

		var body Geometry = t.Bounds()
		if t.Kind == venue.KindCircle {
			body = Circle{Radius: t.Size().Radius}
		}
		group.add(&Node{
			ID:        t.ID + "/body",
			Kind:      KindBody,
			Geometry:  body,
			Listening: true,
			TableID:   t.ID,
		})
		group.add(&Node{
			ID:       t.ID + "/label",
			Kind:     KindLabel,
			Text:     t.DisplayLabel(i),
			Rotation: -t.Rotation,
			TableID:  t.ID,
		})

		for _, seat := range t.Seats {
			sg := group.add(&Node{
				ID:       seat.ID,
				Kind:     KindSeat,
				Position: seat.Position,
				TableID:  t.ID,
				SeatID:   seat.ID,
			})
			sg.add(&Node{
				ID:        seat.ID + "/chair",
				Kind:      KindChair,
				Geometry:  Circle{Radius: geometry.SeatRadius},
				Listening: true,
				TableID:   t.ID,
				SeatID:    seat.ID,
			})
			s.seats[seat.ID] = sg
		}
	}
	return s
}

// HitTest returns the topmost interactive node containing p (canvas
// space), or nil.
func (s *Scene) HitTest(p geometry.Point) *Node {
	return hit(s.Root, p)
}

func hit(n *Node, p geometry.Point) *Node {
	for i := len(n.Children) - 1; i >= 0; i-- {
		if h := hit(n.Children[i], p); h != nil {
			return h
		}
	}
	if n.Listening && n.Geometry != nil && n.Geometry.Contains(n.ToLocal(p)) {
		return n
	}
	return nil
}

// SeatAt resolves p to the seat under it.
func (s *Scene) SeatAt(p geometry.Point) (string, bool) {
	h := s.HitTest(p)
	if h == nil {
		return "", false
	}
	if seat := h.Closest(KindSeat); seat != nil {
		return seat.SeatID, true
	}
	return "", false
}

// TableAt resolves p to the table under it, including its seats.
func (s *Scene) TableAt(p geometry.Point) (string, bool) {
	h := s.HitTest(p)
	if h == nil {
		return "", false
	}
	if t := h.Closest(KindTable); t != nil {
		return t.TableID, true
	}
	return "", false
}

// Seat returns the seat group node for seatID.
func (s *Scene) Seat(seatID string) (*Node, bool) {
	n, ok := s.seats[seatID]
	return n, ok
}

// Table returns the table group node for tableID.
func (s *Scene) Table(tableID string) (*Node, bool) {
	n, ok := s.tables[tableID]
	return n, ok
}

// SeatCenter returns the canvas-space center of a seat.
func (s *Scene) SeatCenter(seatID string) (geometry.Point, bool) {
	n, ok := s.seats[seatID]
	if !ok {
		return geometry.Point{}, false
	}
	return n.ToWorld(geometry.Point{}), true
}

// Bounds returns the canvas-space extent of everything in the scene.
func (s *Scene) Bounds() geometry.Rect {
	return s.Root.WorldBounds()
}

// Walk visits nodes in paint order. Returning false skips n's children.
func (s *Scene) Walk(fn func(n *Node) bool) {
	var walk func(n *Node)
	walk = func(n *Node) {
		if !fn(n) {
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(s.Root)
}

// Nearest returns the seat whose center is closest to p within maxDist.
// Used by coarse pointers (terminal cells) where exact hits are rare.
func (s *Scene) Nearest(p geometry.Point, maxDist float64) (string, bool) {
	best, bestDist := "", math.Inf(1)
	for id, n := range s.seats {
		d := n.ToWorld(geometry.Point{}).Dist(p)
		if d < bestDist || (d == bestDist && id < best) {
			best, bestDist = id, d
		}
	}
	if best == "" || bestDist > maxDist {
		return "", false
	}
	return best, true
}
