package seating

import (
	"testing"

	"github.com/matzehuels/seatplan/pkg/geometry"
	"github.com/matzehuels/seatplan/pkg/guest"
	"github.com/matzehuels/seatplan/pkg/venue"
)

func TestSummarize(t *testing.T) {
	l := venue.New("owner", "Hall")
	l.AddTable(venue.NewCircleTable("t1", geometry.Point{}, 40, 4))
	head := venue.NewRectTable("head", geometry.Pt(0, 200), 200, 60, 6)
	head.Label = "Head"
	l.AddTable(head)

	m := Map{
		"t1-s1":   {GuestID: "a", GuestName: "Ada"},
		"t1-s2":   {GuestID: "b", GuestName: "Bob"},
		"head-s1": {GuestID: "c", GuestName: "Cy"},
		"gone-s1": {GuestID: "d", GuestName: "Di"},
	}
	guests := []guest.Guest{
		{ID: "a", RSVPStatus: guest.RSVPAccepted},
		{ID: "b", RSVPStatus: guest.RSVPAccepted},
		{ID: "c", RSVPStatus: guest.RSVPAccepted},
		{ID: "e", RSVPStatus: guest.RSVPAccepted},
		{ID: "f", RSVPStatus: guest.RSVPDeclined},
	}

	s := Summarize(l, m, guests)
	if s.Seated != 4 || s.Capacity != 10 || s.Eligible != 4 {
		t.Errorf("seated=%d capacity=%d eligible=%d", s.Seated, s.Capacity, s.Eligible)
	}
	if len(s.Unseated) != 1 || s.Unseated[0].ID != "e" {
		t.Errorf("Unseated = %+v", s.Unseated)
	}
	if len(s.Tables) != 2 || s.Tables[0].Occupied != 2 || s.Tables[1].Occupied != 1 {
		t.Errorf("Tables = %+v", s.Tables)
	}
	if s.Tables[0].Label != "1" || s.Tables[1].Label != "Head" {
		t.Errorf("labels = %q, %q", s.Tables[0].Label, s.Tables[1].Label)
	}
	if len(s.Orphaned) != 1 || s.Orphaned[0] != "gone-s1" {
		t.Errorf("Orphaned = %v", s.Orphaned)
	}
}
