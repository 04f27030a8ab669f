// Package storetest is a conformance suite for store.Gateway backends.
//
//	func TestConformance(t *testing.T) {
//	    storetest.Run(t, func(t *testing.T) store.Gateway { return memory.New() })
//	}
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/seatplan/pkg/errors"
	"github.com/matzehuels/seatplan/pkg/geometry"
	"github.com/matzehuels/seatplan/pkg/seating"
	"github.com/matzehuels/seatplan/pkg/store"
	"github.com/matzehuels/seatplan/pkg/venue"
)

// Factory returns a fresh, empty gateway. The suite closes it.
type Factory func(t *testing.T) store.Gateway

// Run executes the conformance suite against gateways produced by newGateway.
func Run(t *testing.T, newGateway Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, g store.Gateway)
	}{
		{"LayoutRoundTrip", testLayoutRoundTrip},
		{"CreateDuplicate", testCreateDuplicate},
		{"NotFound", testNotFound},
		{"Lists", testLists},
		{"PatchVersusReplace", testPatchVersusReplace},
		{"DeleteCascades", testDeleteCascades},
		{"WeddingSeating", testWeddingSeating},
		{"EngineSaver", testEngineSaver},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGateway(t)
			t.Cleanup(func() { _ = g.Close() })
			tt.fn(t, g)
		})
	}
}

// Layout returns a valid two-table layout with millisecond timestamps, so
// backends with coarser time storage round-trip it exactly.
func Layout(owner, name string, created time.Time) *venue.Layout {
	l := venue.New(owner, name)
	l.CreatedAt = created.UTC().Truncate(time.Millisecond)
	l.UpdatedAt = l.CreatedAt
	l.Description = "ground floor"
	l.Shape = venue.Shape{geometry.Pt(0, 0), geometry.Pt(600, 0), geometry.Pt(600, 400), geometry.Pt(0, 400)}
	head := venue.NewRectTable(l.ID+"-head", geometry.Pt(300, 60), 240, 60, 6)
	head.Label = "Head"
	head.Rotation = 10
	l.AddTable(head)
	l.AddTable(venue.NewCircleTable(l.ID+"-t2", geometry.Pt(150, 250), 45, 5))
	return l
}

func ctx() context.Context { return context.Background() }

func wantCode(t *testing.T, err error, code errors.Code) {
	t.Helper()
	if !errors.Is(err, code) {
		t.Errorf("error = %v, want code %s", err, code)
	}
}

func testLayoutRoundTrip(t *testing.T, g store.Gateway) {
	l := Layout("u1", "Hall", time.Now())
	l.IsPublic = true
	l.PreviewImageURL = "https://img.example.com/hall.png"
	if err := g.CreateLayout(ctx(), l); err != nil {
		t.Fatalf("CreateLayout: %v", err)
	}

	got, err := g.GetLayout(ctx(), l.ID)
	if err != nil {
		t.Fatalf("GetLayout: %v", err)
	}
	if got.Name != l.Name || got.Description != l.Description || got.OwnerID != l.OwnerID ||
		got.IsPublic != l.IsPublic || got.PreviewImageURL != l.PreviewImageURL {
		t.Errorf("metadata mismatch: got %+v", got)
	}
	if !got.CreatedAt.Equal(l.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, l.CreatedAt)
	}
	if got.TotalCapacity != 11 || len(got.Tables) != 2 || len(got.Shape) != 4 {
		t.Fatalf("structure mismatch: capacity=%d tables=%d shape=%d", got.TotalCapacity, len(got.Tables), len(got.Shape))
	}
	head := got.Tables[0]
	if head.Kind != venue.KindRect || head.Rect == nil || head.Rect.Width != 240 || head.Label != "Head" || head.Rotation != 10 {
		t.Errorf("head table = %+v", head)
	}
	if got.Tables[1].Circle == nil || got.Tables[1].Circle.Radius != 45 {
		t.Errorf("round table = %+v", got.Tables[1])
	}
	if err := got.Validate(); err != nil {
		t.Errorf("stored layout no longer valid: %v", err)
	}
	if head.Seats[0] != l.Tables[0].Seats[0] {
		t.Errorf("seat = %+v, want %+v", head.Seats[0], l.Tables[0].Seats[0])
	}
}

func testCreateDuplicate(t *testing.T, g store.Gateway) {
	l := Layout("u1", "Hall", time.Now())
	if err := g.CreateLayout(ctx(), l); err != nil {
		t.Fatal(err)
	}
	wantCode(t, g.CreateLayout(ctx(), l), errors.ErrCodeInvalidInput)
}

func testNotFound(t *testing.T, g store.Gateway) {
	_, err := g.GetLayout(ctx(), "missing")
	wantCode(t, err, errors.ErrCodeNotFound)
	wantCode(t, g.UpdateLayoutFields(ctx(), "missing", venue.Patch{}), errors.ErrCodeNotFound)
	wantCode(t, g.ReplaceLayout(ctx(), Layout("u", "x", time.Now())), errors.ErrCodeNotFound)
	wantCode(t, g.DeleteLayout(ctx(), "missing"), errors.ErrCodeNotFound)
	_, err = g.GetWedding(ctx(), "missing")
	wantCode(t, err, errors.ErrCodeNotFound)
	wantCode(t, g.SelectLayout(ctx(), "missing", "l"), errors.ErrCodeNotFound)
	wantCode(t, g.SaveAssignments(ctx(), "missing", seating.Map{}, 1), errors.ErrCodeNotFound)
}

func testLists(t *testing.T, g store.Gateway) {
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	a := Layout("u1", "A", base)
	b := Layout("u1", "B", base.Add(time.Hour))
	c := Layout("u2", "C", base.Add(2*time.Hour))
	b.IsPublic, c.IsPublic = true, true
	for _, l := range []*venue.Layout{a, b, c} {
		if err := g.CreateLayout(ctx(), l); err != nil {
			t.Fatal(err)
		}
	}

	mine, err := g.ListLayoutsByOwner(ctx(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 2 || mine[0].Name != "B" || mine[1].Name != "A" {
		t.Errorf("ListLayoutsByOwner = %v", names(mine))
	}

	public, err := g.ListPublicLayouts(ctx())
	if err != nil {
		t.Fatal(err)
	}
	if len(public) != 2 || public[0].Name != "C" || public[1].Name != "B" {
		t.Errorf("ListPublicLayouts = %v", names(public))
	}

	none, err := g.ListLayoutsByOwner(ctx(), "nobody")
	if err != nil || len(none) != 0 {
		t.Errorf("ListLayoutsByOwner(nobody) = %v, %v", names(none), err)
	}
}

func testPatchVersusReplace(t *testing.T, g store.Gateway) {
	l := Layout("u1", "Hall", time.Now())
	if err := g.CreateLayout(ctx(), l); err != nil {
		t.Fatal(err)
	}

	public := true
	if err := g.UpdateLayoutFields(ctx(), l.ID, venue.Patch{IsPublic: &public}); err != nil {
		t.Fatalf("UpdateLayoutFields: %v", err)
	}
	got, _ := g.GetLayout(ctx(), l.ID)
	if !got.IsPublic || got.Name != "Hall" || got.Description != "ground floor" || len(got.Tables) != 2 {
		t.Errorf("patch did not merge: %+v", got)
	}

	repl := l.Clone()
	repl.CreatedAt = time.Time{}
	repl.IsPublic = true
	repl.Replace(nil, []venue.Table{venue.NewCircleTable("solo", geometry.Point{}, 30, 3)})
	if err := g.ReplaceLayout(ctx(), repl); err != nil {
		t.Fatalf("ReplaceLayout: %v", err)
	}
	got, _ = g.GetLayout(ctx(), l.ID)
	if len(got.Tables) != 1 || got.TotalCapacity != 3 || len(got.Shape) != 0 {
		t.Errorf("replace: tables=%d capacity=%d shape=%d", len(got.Tables), got.TotalCapacity, len(got.Shape))
	}
	if !got.CreatedAt.Equal(l.CreatedAt) {
		t.Errorf("ReplaceLayout changed CreatedAt: %v -> %v", l.CreatedAt, got.CreatedAt)
	}
}

func testDeleteCascades(t *testing.T, g store.Gateway) {
	doomed := Layout("u1", "Doomed", time.Now())
	kept := Layout("u1", "Kept", time.Now())
	for _, l := range []*venue.Layout{doomed, kept} {
		if err := g.CreateLayout(ctx(), l); err != nil {
			t.Fatal(err)
		}
	}
	w1 := &store.Wedding{ID: "w1", OwnerID: "u1", SelectedLayoutID: doomed.ID,
		Assignments: seating.Map{doomed.ID + "-t2-s1": {GuestID: "g1", GuestName: "Ada"}}}
	w2 := &store.Wedding{ID: "w2", OwnerID: "u1", SelectedLayoutID: kept.ID,
		Assignments: seating.Map{kept.ID + "-t2-s1": {GuestID: "g2", GuestName: "Bob"}}}
	for _, w := range []*store.Wedding{w1, w2} {
		if err := g.SaveWedding(ctx(), w); err != nil {
			t.Fatal(err)
		}
	}

	if err := g.DeleteLayout(ctx(), doomed.ID); err != nil {
		t.Fatalf("DeleteLayout: %v", err)
	}
	if _, err := g.GetLayout(ctx(), doomed.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("deleted layout still readable: %v", err)
	}

	got1, _ := g.GetWedding(ctx(), "w1")
	if got1.SelectedLayoutID != "" || len(got1.Assignments) != 0 {
		t.Errorf("cascade missed w1: %+v", got1)
	}
	got2, _ := g.GetWedding(ctx(), "w2")
	if got2.SelectedLayoutID != kept.ID || len(got2.Assignments) != 1 {
		t.Errorf("cascade touched w2: %+v", got2)
	}
}

func testWeddingSeating(t *testing.T, g store.Gateway) {
	w := &store.Wedding{ID: "w1", OwnerID: "u1", Name: "A & B", CreatedAt: time.Now().UTC().Truncate(time.Millisecond)}
	if err := g.SaveWedding(ctx(), w); err != nil {
		t.Fatalf("SaveWedding: %v", err)
	}
	got, err := g.GetWedding(ctx(), "w1")
	if err != nil {
		t.Fatal(err)
	}
	if got.OwnerID != "u1" || got.Name != "A & B" || got.Assignments == nil {
		t.Errorf("wedding = %+v", got)
	}

	m := seating.Map{"s1": {GuestID: "g1", GuestName: "Ada"}, "s2": {GuestID: "g2", GuestName: "Bob"}}
	if err := g.SaveAssignments(ctx(), "w1", m, 3); err != nil {
		t.Fatalf("SaveAssignments: %v", err)
	}
	// Last write wins even with an older revision.
	m2 := seating.Map{"s9": {GuestID: "g1", GuestName: "Ada"}}
	if err := g.SaveAssignments(ctx(), "w1", m2, 2); err != nil {
		t.Fatalf("SaveAssignments(older rev): %v", err)
	}
	got, _ = g.GetWedding(ctx(), "w1")
	if len(got.Assignments) != 1 || got.Assignments["s9"].GuestName != "Ada" || got.Revision != 2 {
		t.Errorf("after last write: %+v", got)
	}

	if err := g.SelectLayout(ctx(), "w1", "L2"); err != nil {
		t.Fatalf("SelectLayout: %v", err)
	}
	got, _ = g.GetWedding(ctx(), "w1")
	if got.SelectedLayoutID != "L2" || len(got.Assignments) != 0 {
		t.Errorf("SelectLayout did not clear: %+v", got)
	}
}

func testEngineSaver(t *testing.T, g store.Gateway) {
	if err := g.SaveWedding(ctx(), &store.Wedding{ID: "w1", OwnerID: "u1", SelectedLayoutID: "L1",
		Assignments: seating.Map{"a": {GuestID: "g0"}}}); err != nil {
		t.Fatal(err)
	}

	e := seating.New("w1", seating.WithSaver(g))
	e.Assign("s1", "g1", "Ada")
	e.SelectLayout("L2", nil)

	c, cancel := context.WithTimeout(ctx(), 5*time.Second)
	defer cancel()
	if err := e.Close(c); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := g.GetWedding(ctx(), "w1")
	if err != nil {
		t.Fatal(err)
	}
	if got.SelectedLayoutID != "L2" || len(got.Assignments) != 0 {
		t.Errorf("persisted %+v, want L2 with empty seating", got)
	}
	if got.Revision != e.Revision() {
		t.Errorf("Revision = %d, want %d", got.Revision, e.Revision())
	}
}

func names(ls []venue.Layout) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.Name
	}
	return out
}
