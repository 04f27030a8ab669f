package seating

import (
	"maps"
	"slices"

	"github.com/matzehuels/seatplan/pkg/errors"
)

// Assignment is the guest occupying a seat.
type Assignment struct {
	GuestID   string `json:"guestId" bson:"guestId"`
	GuestName string `json:"guestName" bson:"guestName"`
}

// Map binds seat ids to guests.
type Map map[string]Assignment

// Clone returns an independent copy. A nil map clones to an empty map.
func (m Map) Clone() Map {
	c := make(Map, len(m))
	maps.Copy(c, m)
	return c
}

// SeatOf returns the seat held by guestID.
func (m Map) SeatOf(guestID string) (string, bool) {
	for seat, a := range m {
		if a.GuestID == guestID {
			return seat, true
		}
	}
	return "", false
}

// IsGuestAssigned reports whether guestID holds any seat.
func (m Map) IsGuestAssigned(guestID string) bool {
	_, ok := m.SeatOf(guestID)
	return ok
}

// Assign seats guestID at seatID, first removing any seat the guest already
// holds. It returns the id of a different guest displaced from seatID, if
// any.
func (m Map) Assign(seatID, guestID, guestName string) (displaced string) {
	for seat, a := range m {
		if a.GuestID == guestID && seat != seatID {
			delete(m, seat)
		}
	}
	if prev, ok := m[seatID]; ok && prev.GuestID != guestID {
		displaced = prev.GuestID
	}
	m[seatID] = Assignment{GuestID: guestID, GuestName: guestName}
	return displaced
}

// Unassign empties seatID and reports whether it was occupied.
func (m Map) Unassign(seatID string) bool {
	if _, ok := m[seatID]; !ok {
		return false
	}
	delete(m, seatID)
	return true
}

// Seats returns the occupied seat ids in sorted order.
func (m Map) Seats() []string {
	return slices.Sorted(maps.Keys(m))
}

// Validate checks that no guest holds two seats and that no entry is
// missing its seat or guest id. Maps read from a store are validated
// before being adopted.
func (m Map) Validate() error {
	seen := make(map[string]string, len(m))
	for _, seat := range m.Seats() {
		a := m[seat]
		if seat == "" || a.GuestID == "" {
			return errors.Validation("assignment with empty seat or guest id")
		}
		if other, dup := seen[a.GuestID]; dup {
			return errors.Validation("guest %s assigned to both %s and %s", a.GuestID, other, seat)
		}
		seen[a.GuestID] = seat
	}
	return nil
}
