// Package guest is the read-only boundary to the wedding guest list.
//
// Guests are owned elsewhere; seatplan only lists them, filters them to
// those eligible for a seat, and hands them to the drag-and-drop
// coordinator.
package guest

import (
	"context"
	"slices"
	"strings"
)

// RSVPStatus represents a guest's attendance confirmation.
type RSVPStatus string

const (
	RSVPPending  RSVPStatus = "pending"
	RSVPAccepted RSVPStatus = "accepted"
	RSVPDeclined RSVPStatus = "declined"
)

// Guest is a single invitee.
type Guest struct {
	ID         string     `json:"id" toml:"id" bson:"id"`
	Name       string     `json:"name" toml:"name" bson:"name"`
	RSVPStatus RSVPStatus `json:"rsvp_status" toml:"rsvp" bson:"rsvp_status"`
	PlusOneFor string     `json:"plus_one_for,omitempty" toml:"plus_one_for,omitempty" bson:"plus_one_for,omitempty"`
}

// Eligible reports whether the guest may be given a seat.
func (g Guest) Eligible() bool {
	return g.RSVPStatus == RSVPAccepted
}

// DisplayName returns the name shown on seats, falling back to the id.
func (g Guest) DisplayName() string {
	if name := strings.TrimSpace(g.Name); name != "" {
		return name
	}
	return g.ID
}

// Accepted returns the guests with an accepted RSVP, preserving order.
func Accepted(guests []Guest) []Guest {
	out := make([]Guest, 0, len(guests))
	for _, g := range guests {
		if g.Eligible() {
			out = append(out, g)
		}
	}
	return out
}

// SortByName orders guests by display name, case-insensitively.
func SortByName(guests []Guest) {
	slices.SortStableFunc(guests, func(a, b Guest) int {
		return strings.Compare(strings.ToLower(a.DisplayName()), strings.ToLower(b.DisplayName()))
	})
}

// Directory lists the guests of a wedding.
type Directory interface {
	ListGuests(ctx context.Context, weddingID string) ([]Guest, error)
}

// Find returns the guest with the given id.
func Find(guests []Guest, id string) (Guest, bool) {
	i := slices.IndexFunc(guests, func(g Guest) bool { return g.ID == id })
	if i < 0 {
		return Guest{}, false
	}
	return guests[i], true
}
