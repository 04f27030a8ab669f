package seating

import (
	"github.com/matzehuels/seatplan/pkg/guest"
	"github.com/matzehuels/seatplan/pkg/venue"
)

// TableOccupancy counts the occupied seats of one table.
type TableOccupancy struct {
	TableID  string `json:"table_id"`
	Label    string `json:"label"`
	Occupied int    `json:"occupied"`
	Capacity int    `json:"capacity"`
}

// Summary describes how far seating has progressed.
type Summary struct {
	Seated   int              `json:"seated"`
	Capacity int              `json:"capacity"`
	Eligible int              `json:"eligible"`
	Unseated []guest.Guest    `json:"unseated"`
	Tables   []TableOccupancy `json:"tables"`

	// Orphaned lists assigned seat ids that the layout does not contain.
	Orphaned []string `json:"orphaned,omitempty"`
}

// Summarize reports seating progress for layout l. guests may contain
// guests of any RSVP status; only accepted guests count as eligible.
func Summarize(l *venue.Layout, m Map, guests []guest.Guest) Summary {
	s := Summary{Seated: len(m)}

	if l != nil {
		s.Capacity = l.TotalCapacity
		for i := range l.Tables {
			t := &l.Tables[i]
			occ := TableOccupancy{TableID: t.ID, Label: t.DisplayLabel(i), Capacity: t.Capacity}
			for _, seat := range t.Seats {
				if _, ok := m[seat.ID]; ok {
					occ.Occupied++
				}
			}
			s.Tables = append(s.Tables, occ)
		}
		for _, seat := range m.Seats() {
			if !l.HasSeat(seat) {
				s.Orphaned = append(s.Orphaned, seat)
			}
		}
	}

	for _, g := range guest.Accepted(guests) {
		s.Eligible++
		if !m.IsGuestAssigned(g.ID) {
			s.Unseated = append(s.Unseated, g)
		}
	}
	return s
}
