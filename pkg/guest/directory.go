package guest

import (
	"context"
	"os"
	"slices"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/seatplan/pkg/errors"
)

// MemoryDirectory is an in-memory Directory keyed by wedding id.
type MemoryDirectory struct {
	mu     sync.RWMutex
	guests map[string][]Guest
}

// NewMemoryDirectory creates an empty in-memory directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{guests: make(map[string][]Guest)}
}

// Set replaces the guest list of a wedding.
func (d *MemoryDirectory) Set(weddingID string, guests []Guest) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.guests[weddingID] = slices.Clone(guests)
}

// ListGuests returns a copy of the wedding's guests. Unknown weddings have
// no guests.
func (d *MemoryDirectory) ListGuests(ctx context.Context, weddingID string) ([]Guest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.guests[weddingID]), nil
}

// FileDirectory reads guests from a TOML file. The file holds a single
// guest list and is served for every wedding id:
//
//	[[guests]]
//	id = "g1"
//	name = "Ada Lovelace"
//	rsvp = "accepted"
//
//	[[guests]]
//	id = "g2"
//	name = "Charles Babbage"
//	rsvp = "accepted"
//	plus_one_for = "g1"
type FileDirectory struct {
	Path string
}

type guestFile struct {
	Guests []Guest `toml:"guests"`
}

// ListGuests re-reads the file on every call so edits are picked up
// without restarting the editor.
func (d FileDirectory) ListGuests(ctx context.Context, _ string) ([]Guest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(d.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("guest file %s does not exist", d.Path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read guest file")
	}
	return ParseTOML(data)
}

// ParseTOML decodes a guest list and checks ids are present and unique.
func ParseTOML(data []byte) ([]Guest, error) {
	var f guestFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode guest file")
	}
	seen := make(map[string]struct{}, len(f.Guests))
	for i, g := range f.Guests {
		if err := errors.ValidateID("guest", g.ID); err != nil {
			return nil, errors.Wrap(errors.ErrCodeValidation, err, "guest #%d", i+1)
		}
		if _, dup := seen[g.ID]; dup {
			return nil, errors.Validation("duplicate guest id %q", g.ID)
		}
		seen[g.ID] = struct{}{}
		if g.RSVPStatus == "" {
			f.Guests[i].RSVPStatus = RSVPPending
		}
	}
	return f.Guests, nil
}
