package canvas

import (
	"math"
	"testing"

	"github.com/matzehuels/seatplan/pkg/geometry"
)

const eps = 1e-9

func TestRoundTrip(t *testing.T) {
	states := []struct {
		scale  float64
		offset geometry.Point
	}{
		{1, geometry.Pt(0, 0)},
		{2.5, geometry.Pt(-40, 13)},
		{0.37, geometry.Pt(1000, -250.5)},
		{9.9, geometry.Pt(0.001, 7)},
	}
	points := []geometry.Point{
		geometry.Pt(0, 0), geometry.Pt(120, 45), geometry.Pt(-3.5, 800), geometry.Pt(1e4, -1e4),
	}

	for _, st := range states {
		tr := New()
		tr.Set(st.scale, st.offset)
		for _, p := range points {
			got := tr.ToScreenSpace(tr.ToCanvasSpace(p))
			if !got.ApproxEqual(p, 1e-6) {
				t.Errorf("scale=%v offset=%v: round trip of %v = %v", st.scale, st.offset, p, got)
			}
		}
	}
}

func TestZoomAtKeepsPointerAnchored(t *testing.T) {
	tr := New()
	pointer := geometry.Pt(320, 240)
	before := tr.ToCanvasSpace(pointer)

	tr.ZoomAt(pointer, +1, 1.05)

	if math.Abs(tr.Scale()-1.05) > eps {
		t.Errorf("Scale = %v, want 1.05", tr.Scale())
	}
	if after := tr.ToCanvasSpace(pointer); !after.ApproxEqual(before, eps) {
		t.Errorf("pointer drifted: before %v after %v", before, after)
	}
}

func TestZoomAtSequence(t *testing.T) {
	tr := New()
	tr.Pan(geometry.Pt(50, -20))
	pointer := geometry.Pt(10, 400)
	anchor := tr.ToCanvasSpace(pointer)

	for i := 0; i < 10; i++ {
		tr.ZoomAt(pointer, +1, 1.1)
	}
	for i := 0; i < 4; i++ {
		tr.ZoomAt(pointer, -1, 1.1)
	}

	if got := tr.ToCanvasSpace(pointer); !got.ApproxEqual(anchor, 1e-6) {
		t.Errorf("anchor drifted to %v, want %v", got, anchor)
	}
	if want := math.Pow(1.1, 6); math.Abs(tr.Scale()-want) > 1e-9 {
		t.Errorf("Scale = %v, want %v", tr.Scale(), want)
	}
}

func TestZoomAtNoop(t *testing.T) {
	tr := New()
	tr.Set(2, geometry.Pt(5, 5))

	tr.ZoomAt(geometry.Pt(1, 1), 0, 1.5)
	tr.ZoomAt(geometry.Pt(1, 1), 1, 0)
	tr.ZoomAt(geometry.Pt(1, 1), 1, -2)

	if tr.Scale() != 2 || tr.Offset() != geometry.Pt(5, 5) {
		t.Errorf("transform changed: scale=%v offset=%v", tr.Scale(), tr.Offset())
	}
}

func TestZoomClamp(t *testing.T) {
	tr := New(WithBounds(0.5, 2))
	pointer := geometry.Pt(100, 100)
	anchor := tr.ToCanvasSpace(pointer)

	for i := 0; i < 50; i++ {
		tr.ZoomAt(pointer, +1, 1.5)
	}
	if tr.Scale() != 2 {
		t.Errorf("Scale = %v, want clamped 2", tr.Scale())
	}
	if got := tr.ToCanvasSpace(pointer); !got.ApproxEqual(anchor, 1e-9) {
		t.Errorf("anchor drifted under clamp: %v, want %v", got, anchor)
	}

	for i := 0; i < 50; i++ {
		tr.ZoomAt(pointer, -1, 1.5)
	}
	if tr.Scale() != 0.5 {
		t.Errorf("Scale = %v, want clamped 0.5", tr.Scale())
	}
}

func TestUnbounded(t *testing.T) {
	tr := New(Unbounded())
	for i := 0; i < 100; i++ {
		tr.ZoomAt(geometry.Pt(0, 0), +1, 2)
	}
	if tr.Scale() <= DefaultMaxScale {
		t.Errorf("Scale = %v, want beyond %v", tr.Scale(), DefaultMaxScale)
	}
}

func TestWithBoundsIgnoresInvalid(t *testing.T) {
	tr := New(WithBounds(3, 1))
	tr.Set(50, geometry.Point{})
	if tr.Scale() != DefaultMaxScale {
		t.Errorf("Scale = %v, want default clamp %v", tr.Scale(), DefaultMaxScale)
	}
}

func TestReset(t *testing.T) {
	tr := New()
	tr.ZoomAt(geometry.Pt(30, 30), 1, 3)
	tr.Pan(geometry.Pt(10, 10))
	tr.Reset()
	if tr.Scale() != 1 || tr.Offset() != (geometry.Point{}) {
		t.Errorf("Reset: scale=%v offset=%v", tr.Scale(), tr.Offset())
	}
}

func TestFit(t *testing.T) {
	tr := New()
	tr.Fit(geometry.Rect{X: 100, Y: 100, Width: 400, Height: 200}, 220, 220, 10)

	if tr.Scale() != 0.5 {
		t.Errorf("Scale = %v, want 0.5", tr.Scale())
	}
	center := tr.ToScreenSpace(geometry.Pt(300, 200))
	if !center.ApproxEqual(geometry.Pt(110, 110), 1e-9) {
		t.Errorf("content center on screen = %v, want (110, 110)", center)
	}

	tr.Fit(geometry.Rect{}, 100, 100, 0)
	if tr.Scale() != 1 || tr.Offset() != (geometry.Point{}) {
		t.Error("empty content should reset the view")
	}
}
