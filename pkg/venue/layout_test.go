package venue

import (
	"testing"

	"github.com/matzehuels/seatplan/pkg/errors"
	"github.com/matzehuels/seatplan/pkg/geometry"
)

func sampleLayout() *Layout {
	l := New("user-1", "Main hall")
	l.Shape = Shape{geometry.Pt(0, 0), geometry.Pt(800, 0), geometry.Pt(800, 600), geometry.Pt(0, 600)}
	l.AddTable(NewRectTable("head", geometry.Pt(400, 80), 240, 60, 10))
	l.AddTable(NewCircleTable("t2", geometry.Pt(200, 300), 50, 8))
	return l
}

func TestTotalCapacity(t *testing.T) {
	l := sampleLayout()
	if l.TotalCapacity != 18 {
		t.Errorf("TotalCapacity = %d, want 18", l.TotalCapacity)
	}
	if !l.RemoveTable("head") {
		t.Fatal("RemoveTable(head) = false")
	}
	if l.TotalCapacity != 8 {
		t.Errorf("TotalCapacity after remove = %d, want 8", l.TotalCapacity)
	}
	if l.RemoveTable("missing") {
		t.Error("RemoveTable(missing) = true")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(l *Layout)
		wantErr bool
	}{
		{"valid", func(l *Layout) {}, false},
		{"empty shape", func(l *Layout) { l.Shape = nil }, false},
		{"no tables", func(l *Layout) { l.Tables = nil; l.Recompute() }, false},
		{"empty name", func(l *Layout) { l.Name = "" }, true},
		{"blank name", func(l *Layout) { l.Name = "  " }, true},
		{"two point shape", func(l *Layout) { l.Shape = l.Shape[:2] }, true},
		{"one point shape", func(l *Layout) { l.Shape = l.Shape[:1] }, true},
		{"negative capacity", func(l *Layout) { l.Tables[0].Capacity = -1 }, true},
		{"seat count mismatch", func(l *Layout) { l.Tables[0].Seats = l.Tables[0].Seats[:3] }, true},
		{"rect without dims", func(l *Layout) { l.Tables[0].Rect = nil }, true},
		{"both variants", func(l *Layout) { l.Tables[1].Rect = &RectSize{Width: 1, Height: 1} }, true},
		{"unknown kind", func(l *Layout) { l.Tables[1].Kind = "oval" }, true},
		{"duplicate table id", func(l *Layout) { l.Tables[1].ID = "head" }, true},
		{"duplicate seat id", func(l *Layout) { l.Tables[1].Seats[0].ID = l.Tables[0].Seats[0].ID }, true},
		{"bad preview url", func(l *Layout) { l.PreviewImageURL = "javascript:x" }, true},
		{"good preview url", func(l *Layout) { l.PreviewImageURL = "https://cdn.example.com/p.png" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := sampleLayout()
			tt.mutate(l)
			err := l.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeValidation) {
				t.Errorf("Validate() code = %v, want %v", errors.GetCode(err), errors.ErrCodeValidation)
			}
		})
	}
}

func TestSeatLookup(t *testing.T) {
	l := sampleLayout()
	ref, ok := l.Seat("t2-s3")
	if !ok {
		t.Fatal("Seat(t2-s3) not found")
	}
	if ref.Table.ID != "t2" || ref.TableIndex != 1 || ref.SeatIndex != 2 {
		t.Errorf("unexpected ref: table=%s ti=%d si=%d", ref.Table.ID, ref.TableIndex, ref.SeatIndex)
	}
	if l.HasSeat("t2-s9") {
		t.Error("HasSeat(t2-s9) = true")
	}
	if got := len(l.SeatIDs()); got != 18 {
		t.Errorf("len(SeatIDs) = %d, want 18", got)
	}
}

func TestOwnership(t *testing.T) {
	l := sampleLayout()
	if !l.CanEdit("user-1") || !l.CanView("user-1") {
		t.Error("owner must be able to edit and view")
	}
	if l.CanEdit("user-2") || l.CanView("user-2") {
		t.Error("stranger must not access a private layout")
	}
	if l.CanEdit("") {
		t.Error("anonymous must not edit")
	}
	l.IsPublic = true
	if !l.CanView("user-2") || l.CanEdit("user-2") {
		t.Error("public layout must be readable but not writable by others")
	}
}

func TestPatch(t *testing.T) {
	l := sampleLayout()
	tables := len(l.Tables)

	public := true
	desc := "Ground floor"
	p := Patch{IsPublic: &public, Description: &desc}
	if p.Empty() {
		t.Fatal("Empty() = true")
	}
	l.Apply(p)

	if !l.IsPublic || l.Description != desc || l.Name != "Main hall" {
		t.Errorf("Apply merged incorrectly: %+v", l)
	}
	if len(l.Tables) != tables {
		t.Error("Apply must not touch tables")
	}

	fields := p.Fields()
	if len(fields) != 2 || fields["is_public"] != true || fields["description"] != desc {
		t.Errorf("Fields() = %v", fields)
	}
	if !(Patch{}).Empty() {
		t.Error("zero Patch should be empty")
	}
}

func TestReplace(t *testing.T) {
	l := sampleLayout()
	l.Replace(nil, []Table{NewCircleTable("solo", geometry.Point{}, 30, 4)})
	if l.TotalCapacity != 4 || len(l.Tables) != 1 || len(l.Shape) != 0 {
		t.Errorf("Replace: capacity=%d tables=%d shape=%d", l.TotalCapacity, len(l.Tables), len(l.Shape))
	}
}

func TestClone(t *testing.T) {
	l := sampleLayout()
	c := l.Clone()
	c.Tables[0].Seats[0].ID = "changed"
	c.Tables[0].Rect.Width = 1
	c.Shape[0] = geometry.Pt(-1, -1)

	if l.Tables[0].Seats[0].ID == "changed" || l.Tables[0].Rect.Width == 1 || l.Shape[0].X == -1 {
		t.Error("Clone shares memory with the original")
	}
}
