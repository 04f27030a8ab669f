package geometry

import (
	"math"
	"reflect"
	"testing"
)

const eps = 1e-9

func TestGenerateSeatsCount(t *testing.T) {
	for _, shape := range []Shape{ShapeRect, ShapeCircle} {
		for c := 0; c <= 33; c++ {
			got := GenerateSeats(shape, Size{Width: 120, Height: 60, Radius: 40}, c)
			if len(got) != c {
				t.Errorf("GenerateSeats(%s, %d) returned %d seats", shape, c, len(got))
			}
		}
	}
}

func TestGenerateSeatsDeterministic(t *testing.T) {
	size := Size{Width: 173.5, Height: 91.25, Radius: 47}
	for _, shape := range []Shape{ShapeRect, ShapeCircle} {
		a := GenerateSeats(shape, size, 11)
		b := GenerateSeats(shape, size, 11)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("GenerateSeats(%s) not deterministic:\n%v\n%v", shape, a, b)
		}
	}
}

func TestGenerateSeatsEdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		shape    Shape
		size     Size
		capacity int
	}{
		{"zero capacity rect", ShapeRect, Size{Width: 100, Height: 50}, 0},
		{"zero capacity circle", ShapeCircle, Size{Radius: 30}, 0},
		{"negative capacity", ShapeRect, Size{Width: 100, Height: 50}, -3},
		{"unknown shape", Shape("hexagon"), Size{Width: 100}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GenerateSeats(tt.shape, tt.size, tt.capacity); len(got) != 0 {
				t.Errorf("GenerateSeats() = %v, want empty", got)
			}
		})
	}
}

func TestRectSeatsCapacityEight(t *testing.T) {
	got := RectSeats(160, 80, 8)
	third := 160.0 / 3
	want := []Point{
		{-80 + third, -60}, {-80 + 2*third, -60}, // top
		{-80 + third, 60}, {-80 + 2*third, 60}, // bottom
		{-100, -40 + 80.0/3}, {-100, -40 + 160.0/3}, // left
		{100, -40 + 80.0/3}, {100, -40 + 160.0/3}, // right
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].ApproxEqual(want[i], eps) {
			t.Errorf("seat %d = %v, want %v", i, got[i], want[i])
		}
	}

	// No two seats share a position.
	for i := range got {
		for j := i + 1; j < len(got); j++ {
			if got[i].Dist(got[j]) < eps {
				t.Errorf("seats %d and %d overlap at %v", i, j, got[i])
			}
		}
	}
}

func TestRectSeatsTruncation(t *testing.T) {
	// capacity 5: two per side generated, top and bottom full, left gets one, right none.
	got := RectSeats(100, 100, 5)
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	sides := map[string]int{}
	for _, p := range got {
		switch {
		case p.Y < -50:
			sides["top"]++
		case p.Y > 50:
			sides["bottom"]++
		case p.X < -50:
			sides["left"]++
		case p.X > 50:
			sides["right"]++
		}
	}
	want := map[string]int{"top": 2, "bottom": 2, "left": 1}
	if !reflect.DeepEqual(sides, want) {
		t.Errorf("side distribution = %v, want %v", sides, want)
	}
}

func TestCircleSeatsEqualAngles(t *testing.T) {
	for _, c := range []int{1, 2, 3, 7, 12} {
		got := CircleSeats(50, c)
		step := 2 * math.Pi / float64(c)
		for i, p := range got {
			if d := math.Hypot(p.X, p.Y); math.Abs(d-70) > eps {
				t.Errorf("c=%d seat %d distance = %v, want 70", c, i, d)
			}
			angle := math.Atan2(p.Y, p.X)
			if angle < 0 {
				angle += 2 * math.Pi
			}
			want := step * float64(i)
			if math.Abs(angle-want) > 1e-6 && math.Abs(angle-want+2*math.Pi) > 1e-6 {
				t.Errorf("c=%d seat %d angle = %v, want %v", c, i, angle, want)
			}
		}
	}
}

func TestCircleSeatsGolden(t *testing.T) {
	got := CircleSeats(50, 4)
	want := []Point{{70, 0}, {0, 70}, {-70, 0}, {0, -70}}
	for i := range want {
		if !got[i].ApproxEqual(want[i], 1e-9) {
			t.Errorf("seat %d = %v, want %v", i, got[i], want[i])
		}
	}
}
