package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/seatplan/pkg/dnd"
	"github.com/matzehuels/seatplan/pkg/geometry"
	"github.com/matzehuels/seatplan/pkg/guest"
	"github.com/matzehuels/seatplan/pkg/planner"
	"github.com/matzehuels/seatplan/pkg/store/memory"
	"github.com/matzehuels/seatplan/pkg/venue"
)

// openEditor seats a wedding on a single round table for four and returns
// an editor sized to a 100x40 terminal.
func openEditor(t *testing.T) (EditorModel, *planner.Service, string) {
	t.Helper()
	ctx := context.Background()

	dir := guest.NewMemoryDirectory()
	g := memory.New()
	t.Cleanup(func() { g.Close() })
	svc := planner.New(g, planner.WithGuests(dir))

	l := &venue.Layout{Name: "Garden"}
	l.AddTable(venue.NewCircleTable("t1", geometry.Pt(0, 0), 50, 4))
	l, err := svc.CreateLayout(ctx, "alice", l)
	if err != nil {
		t.Fatal(err)
	}
	w, err := svc.CreateWedding(ctx, "alice", "Ada & Charles")
	if err != nil {
		t.Fatal(err)
	}
	dir.Set(w.ID, []guest.Guest{
		{ID: "g2", Name: "Bob", RSVPStatus: guest.RSVPAccepted},
		{ID: "g1", Name: "Ada", RSVPStatus: guest.RSVPAccepted},
		{ID: "g3", Name: "Cy", RSVPStatus: guest.RSVPDeclined},
	})
	if err := svc.SelectLayout(ctx, "alice", w.ID, l.ID); err != nil {
		t.Fatal(err)
	}

	ss, err := svc.OpenSeating(ctx, "alice", w.ID)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ss.Close(context.Background()) })

	m := NewEditorModel(ss, nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(EditorModel), svc, w.ID
}

func press(t *testing.T, m EditorModel, key tea.KeyMsg) EditorModel {
	t.Helper()
	next, _ := m.Update(key)
	return next.(EditorModel)
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)

func (m EditorModel) pointAtSeat(t *testing.T, seatID string) EditorModel {
	t.Helper()
	c, ok := m.scene.SeatCenter(seatID)
	if !ok {
		t.Fatalf("seat %s not in scene", seatID)
	}
	m.pointer = m.view.ToScreenSpace(c)
	return m
}

func TestEditorListsAcceptedGuestsByName(t *testing.T) {
	m, _, _ := openEditor(t)

	if len(m.Guests) != 2 {
		t.Fatalf("guest list = %v, want the two accepted guests", m.Guests)
	}
	if m.Guests[0].Name != "Ada" || m.Guests[1].Name != "Bob" {
		t.Errorf("guest order = %s, %s; want Ada, Bob", m.Guests[0].Name, m.Guests[1].Name)
	}

	view := m.View()
	for _, want := range []string{"Ada & Charles", "Garden", "Ada", "Bob", "0/4"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "Cy") {
		t.Error("declined guest should not be listed")
	}
}

func TestEditorSeatAndFree(t *testing.T) {
	m, _, _ := openEditor(t)

	m = press(t, m, keyEnter)
	if g, ok := m.dnd.Dragged(); !ok || g.ID != "g1" {
		t.Fatalf("after enter on the list, dragging %v (%v), want g1", g.ID, ok)
	}
	if m.focus != paneCanvas {
		t.Error("picking a guest up should focus the plan")
	}

	m = m.pointAtSeat(t, "t1-s1")
	m = press(t, m, keyEnter)
	a, ok := m.engine.Occupant("t1-s1")
	if !ok || a.GuestID != "g1" || a.GuestName != "Ada" {
		t.Fatalf("Occupant(t1-s1) = %+v, %v; want Ada", a, ok)
	}
	if m.dnd.State() != dnd.Idle {
		t.Error("coordinator should be idle after a drop")
	}
	if !strings.Contains(m.status, "Seated Ada at t1-s1") {
		t.Errorf("status = %q", m.status)
	}

	// A seated guest cannot be picked up again.
	m = press(t, m, keyTab)
	m = press(t, m, keyEnter)
	if m.err == nil || m.dnd.State() != dnd.Idle {
		t.Error("picking up a seated guest should fail")
	}

	m = press(t, m, keyTab)
	m = m.pointAtSeat(t, "t1-s1")
	m = press(t, m, keyEnter)
	if m.engine.IsGuestAssigned("g1") {
		t.Error("enter on an occupied seat without a guest in hand should free it")
	}
	if !strings.Contains(m.status, "Freed the seat of Ada") {
		t.Errorf("status = %q", m.status)
	}
}

func TestEditorCancelAndMiss(t *testing.T) {
	m, _, _ := openEditor(t)

	m = press(t, m, keyDown)
	if m.Cursor != 1 {
		t.Fatalf("Cursor = %d, want 1", m.Cursor)
	}
	m = press(t, m, keyEnter)
	if g, _ := m.dnd.Dragged(); g.ID != "g2" {
		t.Fatalf("dragging %q, want g2", g.ID)
	}
	m = press(t, m, keyEsc)
	if m.dnd.State() != dnd.Idle || m.engine.Len() != 0 {
		t.Error("esc should abandon the drag without seating anyone")
	}

	m = press(t, m, keyTab)
	m = press(t, m, keyEnter)
	m.pointer = geometry.Pt(0.5, 1)
	m = press(t, m, keyEnter)
	if m.engine.Len() != 0 {
		t.Error("a drop away from every seat should change nothing")
	}
	if !strings.Contains(m.status, "No seat here") {
		t.Errorf("status = %q", m.status)
	}
}

func TestEditorSavesThroughStore(t *testing.T) {
	m, svc, weddingID := openEditor(t)

	m = press(t, m, keyEnter)
	m = m.pointAtSeat(t, "t1-s3")
	m = press(t, m, keyEnter)

	if err := m.session.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	w, err := svc.GetWedding(context.Background(), "alice", weddingID)
	if err != nil {
		t.Fatal(err)
	}
	if a, ok := w.Assignments["t1-s3"]; !ok || a.GuestID != "g1" {
		t.Errorf("stored assignments = %v, want g1 at t1-s3", w.Assignments)
	}
}

func TestEditorQuit(t *testing.T) {
	m, _, _ := openEditor(t)

	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("%s: no command returned", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s should quit", key)
		}
	}
}

func TestEditorZoomKeepsPointer(t *testing.T) {
	m, _, _ := openEditor(t)

	before := m.view.ToCanvasSpace(m.pointer)
	scale := m.view.Scale()
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("+")})
	if m.view.Scale() <= scale {
		t.Errorf("scale %g after zoom in, was %g", m.view.Scale(), scale)
	}
	after := m.view.ToCanvasSpace(m.pointer)
	if after.Dist(before) > 1e-9 {
		t.Errorf("point under the pointer moved from %v to %v", before, after)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("0")})
	if m.view.Scale() != scale {
		t.Errorf("fit restored scale %g, want %g", m.view.Scale(), scale)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Ada", 10, "Ada"},
		{"Bartholomew", 5, "Bart…"},
		{"Ada", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestEditorMouseReleaseOffPlanCancels(t *testing.T) {
	m, _, _ := openEditor(t)
	mouse := func(m EditorModel, action tea.MouseAction, y int) EditorModel {
		next, _ := m.Update(tea.MouseMsg{X: 2, Y: y, Action: action, Button: tea.MouseButtonLeft})
		return next.(EditorModel)
	}
	adaRow := headerLines + 1

	// A click on a guest row picks the guest up and keeps them in hand.
	m = mouse(m, tea.MouseActionPress, adaRow)
	m = mouse(m, tea.MouseActionRelease, adaRow)
	if g, ok := m.dnd.Dragged(); !ok || g.ID != "g1" {
		t.Fatalf("after a click on Ada's row, dragging %v (%v)", g.ID, ok)
	}
	m = press(t, m, keyEsc)

	// Dragging from the list and letting go over the list drops nowhere.
	m = mouse(m, tea.MouseActionPress, adaRow)
	m = mouse(m, tea.MouseActionRelease, adaRow+5)
	if m.dnd.State() != dnd.Idle {
		t.Error("release off the plan should leave the coordinator idle")
	}
	if m.engine.Len() != 0 {
		t.Error("release off the plan should seat nobody")
	}
	if !strings.Contains(m.status, "No seat here") {
		t.Errorf("status = %q", m.status)
	}
}
