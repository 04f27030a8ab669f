// Package dnd coordinates dragging guests from the guest list onto seats.
//
// A [Coordinator] is an explicit state machine owned by the rendering layer:
//
//	Idle ──BeginDrag──▶ Dragging ──Drop on seat──▶ Idle (guest assigned)
//	                       │
//	                       └──Drop elsewhere / Cancel──▶ Idle (no change)
//
// Clicking an occupied seat unassigns it. That transition is available in
// any state and always ends in Idle.
//
// Pointer positions are given in screen space and converted with the
// canvas transform before hit-testing the scene.
package dnd

import (
	"github.com/matzehuels/seatplan/pkg/canvas"
	"github.com/matzehuels/seatplan/pkg/errors"
	"github.com/matzehuels/seatplan/pkg/geometry"
	"github.com/matzehuels/seatplan/pkg/guest"
	"github.com/matzehuels/seatplan/pkg/scene"
	"github.com/matzehuels/seatplan/pkg/seating"
)

// State is the coordinator's drag state.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithSnapRadius lets drops and clicks that miss every chair resolve to
// the nearest seat within r canvas units. Useful for coarse pointers such
// as terminal cells.
func WithSnapRadius(r float64) Option {
	return func(c *Coordinator) { c.snap = r }
}

// Coordinator bridges the guest list and the canvas. It is not safe for
// concurrent use; drive it from the UI loop.
type Coordinator struct {
	engine *seating.Engine
	scene  *scene.Scene
	view   *canvas.Transform
	snap   float64

	guests map[string]guest.Guest

	state   State
	dragged guest.Guest
	pointer geometry.Point
	hover   string
}

// New creates an idle coordinator.
func New(engine *seating.Engine, sc *scene.Scene, view *canvas.Transform, opts ...Option) *Coordinator {
	c := &Coordinator{
		engine: engine,
		scene:  sc,
		view:   view,
		guests: make(map[string]guest.Guest),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetGuests replaces the guest list. Only accepted guests are kept. An
// in-progress drag of a guest no longer eligible is cancelled.
func (c *Coordinator) SetGuests(guests []guest.Guest) {
	c.guests = make(map[string]guest.Guest, len(guests))
	for _, g := range guest.Accepted(guests) {
		c.guests[g.ID] = g
	}
	if c.state == Dragging {
		if _, ok := c.guests[c.dragged.ID]; !ok {
			c.Cancel()
		}
	}
}

// SetScene swaps the hit-test scene, e.g. after another layout was
// selected. Any drag in progress is cancelled.
func (c *Coordinator) SetScene(sc *scene.Scene) {
	c.scene = sc
	c.Cancel()
}

// State returns the current state.
func (c *Coordinator) State() State { return c.state }

// Dragged returns the guest being dragged.
func (c *Coordinator) Dragged() (guest.Guest, bool) {
	return c.dragged, c.state == Dragging
}

// Pointer returns the last screen position given to Move or Drop.
func (c *Coordinator) Pointer() geometry.Point { return c.pointer }

// Hover returns the seat under the pointer during a drag, or "".
func (c *Coordinator) Hover() string { return c.hover }

// Draggable reports whether a guest can be picked up from the guest list:
// they must be known, accepted and not yet seated.
func (c *Coordinator) Draggable(guestID string) bool {
	if _, ok := c.guests[guestID]; !ok {
		return false
	}
	return !c.engine.IsGuestAssigned(guestID)
}

// BeginDrag picks up a guest. It fails with VALIDATION when a drag is
// already in progress or the guest is not draggable.
func (c *Coordinator) BeginDrag(guestID string) error {
	if c.state != Idle {
		return errors.Validation("already dragging %s", c.dragged.DisplayName())
	}
	g, ok := c.guests[guestID]
	if !ok {
		return errors.Validation("guest %s is not eligible for seating", guestID)
	}
	if c.engine.IsGuestAssigned(guestID) {
		return errors.Validation("%s already has a seat; unassign it first", g.DisplayName())
	}
	c.state = Dragging
	c.dragged = g
	c.hover = ""
	return nil
}

// Move tracks the pointer and returns the seat currently under it while
// dragging.
func (c *Coordinator) Move(screen geometry.Point) string {
	c.pointer = screen
	if c.state != Dragging {
		c.hover = ""
		return ""
	}
	c.hover, _ = c.seatAt(screen)
	return c.hover
}

// Drop releases the dragged guest at screen. When the point resolves to a
// seat the guest is assigned there and the seat id is returned. A drop
// that misses every seat changes nothing. The coordinator is Idle
// afterwards in every case.
func (c *Coordinator) Drop(screen geometry.Point) (string, error) {
	c.pointer = screen
	if c.state != Dragging {
		return "", nil
	}
	g := c.dragged
	c.reset()

	seatID, ok := c.seatAt(screen)
	if !ok {
		return "", nil
	}
	if err := c.engine.Assign(seatID, g.ID, g.DisplayName()); err != nil {
		return "", err
	}
	return seatID, nil
}

// Cancel abandons a drag without changes.
func (c *Coordinator) Cancel() {
	c.reset()
}

// ClickSeat unassigns the seat under screen, if it is occupied, and
// returns the guest that was removed. Any drag in progress is abandoned.
func (c *Coordinator) ClickSeat(screen geometry.Point) (seating.Assignment, bool) {
	c.pointer = screen
	c.reset()

	seatID, ok := c.seatAt(screen)
	if !ok {
		return seating.Assignment{}, false
	}
	a, occupied := c.engine.Occupant(seatID)
	if !occupied {
		return seating.Assignment{}, false
	}
	c.engine.Unassign(seatID)
	return a, true
}

func (c *Coordinator) reset() {
	c.state = Idle
	c.dragged = guest.Guest{}
	c.hover = ""
}

func (c *Coordinator) seatAt(screen geometry.Point) (string, bool) {
	if c.scene == nil {
		return "", false
	}
	p := c.view.ToCanvasSpace(screen)
	if id, ok := c.scene.SeatAt(p); ok {
		return id, true
	}
	if c.snap > 0 {
		return c.scene.Nearest(p, c.snap)
	}
	return "", false
}
