package geometry

import (
	"math"
	"testing"
)

func TestPointRotate(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		deg  float64
		want Point
	}{
		{"zero", Pt(3, 4), 0, Pt(3, 4)},
		{"quarter", Pt(1, 0), 90, Pt(0, 1)},
		{"half", Pt(1, 2), 180, Pt(-1, -2)},
		{"negative", Pt(0, 1), -90, Pt(1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Rotate(tt.deg); !got.ApproxEqual(tt.want, 1e-9) {
				t.Errorf("Rotate(%v) = %v, want %v", tt.deg, got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 10}
	tests := []struct {
		p    Point
		want bool
	}{
		{Pt(10, 10), true},
		{Pt(30, 20), true},
		{Pt(20, 15), true},
		{Pt(9.99, 15), false},
		{Pt(20, 20.01), false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 5, Y: -5, Width: 10, Height: 5}
	got := a.Union(b)
	want := Rect{X: 0, Y: -5, Width: 15, Height: 15}
	if got != want {
		t.Errorf("Union = %v, want %v", got, want)
	}
	if got := (Rect{}).Union(a); got != a {
		t.Errorf("empty.Union(a) = %v, want %v", got, a)
	}
}

func TestPolygon(t *testing.T) {
	square := Polygon{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}

	if !square.Closed() {
		t.Error("square should be closed")
	}
	if got := square.Area(); math.Abs(got-100) > 1e-9 {
		t.Errorf("Area = %v, want 100", got)
	}
	if got := square.Bounds(); got != (Rect{X: 0, Y: 0, Width: 10, Height: 10}) {
		t.Errorf("Bounds = %v", got)
	}
	if !square.Contains(Pt(5, 5)) {
		t.Error("square should contain its center")
	}
	if square.Contains(Pt(15, 5)) {
		t.Error("square should not contain an outside point")
	}

	line := Polygon{Pt(0, 0), Pt(10, 0)}
	if line.Closed() || line.Area() != 0 || line.Contains(Pt(5, 0)) {
		t.Error("two-point polygon must be treated as open")
	}

	lShape := Polygon{Pt(0, 0), Pt(20, 0), Pt(20, 10), Pt(10, 10), Pt(10, 20), Pt(0, 20)}
	if lShape.Contains(Pt(15, 15)) {
		t.Error("L shape should not contain its notch")
	}
	if !lShape.Contains(Pt(5, 15)) {
		t.Error("L shape should contain its lower arm")
	}
}
