// Package canvas maintains the pan/zoom transform of the infinite drawing
// surface and converts between screen space (viewport pixels) and canvas
// space (layout coordinates, independent of the current view).
//
//	screen = canvas*scale + offset
//	canvas = (screen - offset) / scale
//
// Zooming is anchored at the pointer: after [Transform.ZoomAt] the canvas
// point that was under the pointer is still under it.
package canvas

import "github.com/matzehuels/seatplan/pkg/geometry"

const (
	// DefaultMinScale and DefaultMaxScale bound the zoom level unless
	// overridden with WithBounds or Unbounded.
	DefaultMinScale = 0.1
	DefaultMaxScale = 10.0

	// DefaultZoomFactor is the per-step factor used by wheel zooming.
	DefaultZoomFactor = 1.05
)

// Transform is the view state of a canvas. The zero value is not usable;
// create one with New.
type Transform struct {
	scale  float64
	offset geometry.Point

	minScale float64
	maxScale float64
}

// Option configures a Transform.
type Option func(*Transform)

// WithBounds clamps the scale to [lo, hi]. Non-positive or inverted bounds
// are ignored.
func WithBounds(lo, hi float64) Option {
	return func(t *Transform) {
		if lo > 0 && hi >= lo {
			t.minScale, t.maxScale = lo, hi
		}
	}
}

// Unbounded disables scale clamping.
func Unbounded() Option {
	return func(t *Transform) { t.minScale, t.maxScale = 0, 0 }
}

// New returns an identity transform (scale 1, offset 0).
func New(opts ...Option) *Transform {
	t := &Transform{
		scale:    1,
		minScale: DefaultMinScale,
		maxScale: DefaultMaxScale,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Scale returns the current zoom level.
func (t *Transform) Scale() float64 { return t.scale }

// Offset returns the current pan offset in screen pixels.
func (t *Transform) Offset() geometry.Point { return t.offset }

// Bounded reports whether scale clamping is active.
func (t *Transform) Bounded() bool { return t.maxScale > 0 }

// Set replaces the view state. Non-positive scales are ignored; in-range
// clamping applies as for zooming.
func (t *Transform) Set(scale float64, offset geometry.Point) {
	if scale > 0 {
		t.scale = t.clamp(scale)
	}
	t.offset = offset
}

// ToCanvasSpace converts a screen point to canvas coordinates.
func (t *Transform) ToCanvasSpace(screen geometry.Point) geometry.Point {
	return screen.Sub(t.offset).Div(t.scale)
}

// ToScreenSpace converts a canvas point to screen coordinates.
func (t *Transform) ToScreenSpace(p geometry.Point) geometry.Point {
	return p.Scale(t.scale).Add(t.offset)
}

// ZoomAt zooms in (direction > 0) or out (direction < 0) by factor while
// keeping the canvas point under pointer fixed on screen. A zero direction
// or a factor <= 0 leaves the transform unchanged.
func (t *Transform) ZoomAt(pointer geometry.Point, direction int, factor float64) {
	if direction == 0 || factor <= 0 {
		return
	}
	anchor := t.ToCanvasSpace(pointer)

	next := t.scale * factor
	if direction < 0 {
		next = t.scale / factor
	}
	t.scale = t.clamp(next)

	// Solve pointer = anchor*scale + offset for offset.
	t.offset = pointer.Sub(anchor.Scale(t.scale))
}

// Pan moves the view by delta screen pixels.
func (t *Transform) Pan(delta geometry.Point) {
	t.offset = t.offset.Add(delta)
}

// Reset restores scale 1 and offset {0,0}.
func (t *Transform) Reset() {
	t.scale = 1
	t.offset = geometry.Point{}
}

func (t *Transform) clamp(s float64) float64 {
	if !t.Bounded() {
		return s
	}
	return min(max(s, t.minScale), t.maxScale)
}

// Fit scales and centers content inside a viewport of w×h screen units,
// leaving padding on every side. Empty content resets the view.
func (t *Transform) Fit(content geometry.Rect, w, h, padding float64) {
	availW, availH := w-2*padding, h-2*padding
	if content.IsEmpty() || availW <= 0 || availH <= 0 {
		t.Reset()
		return
	}
	t.scale = t.clamp(min(availW/content.Width, availH/content.Height))
	center := content.Center().Scale(t.scale)
	t.offset = geometry.Pt(w/2-center.X, h/2-center.Y)
}
