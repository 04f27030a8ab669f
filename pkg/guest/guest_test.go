package guest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/seatplan/pkg/errors"
)

func TestAccepted(t *testing.T) {
	guests := []Guest{
		{ID: "a", Name: "Ada", RSVPStatus: RSVPAccepted},
		{ID: "b", Name: "Bob", RSVPStatus: RSVPDeclined},
		{ID: "c", Name: "Cy", RSVPStatus: RSVPPending},
		{ID: "d", Name: "Di", RSVPStatus: RSVPAccepted, PlusOneFor: "a"},
	}
	got := Accepted(guests)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "d" {
		t.Errorf("Accepted() = %+v", got)
	}
	if len(Accepted(nil)) != 0 {
		t.Error("Accepted(nil) should be empty")
	}
}

func TestDisplayNameAndSort(t *testing.T) {
	guests := []Guest{{ID: "z", Name: "zoe"}, {ID: "x"}, {ID: "y", Name: "Adam"}}
	SortByName(guests)
	want := []string{"Adam", "x", "zoe"}
	for i, g := range guests {
		if g.DisplayName() != want[i] {
			t.Errorf("guests[%d] = %q, want %q", i, g.DisplayName(), want[i])
		}
	}
}

func TestMemoryDirectory(t *testing.T) {
	d := NewMemoryDirectory()
	d.Set("w1", []Guest{{ID: "a", RSVPStatus: RSVPAccepted}})

	got, err := d.ListGuests(context.Background(), "w1")
	if err != nil || len(got) != 1 {
		t.Fatalf("ListGuests = %v, %v", got, err)
	}
	got[0].Name = "mutated"
	again, _ := d.ListGuests(context.Background(), "w1")
	if again[0].Name != "" {
		t.Error("ListGuests returned shared storage")
	}

	none, err := d.ListGuests(context.Background(), "other")
	if err != nil || len(none) != 0 {
		t.Errorf("unknown wedding = %v, %v", none, err)
	}
}

func TestFileDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guests.toml")
	src := `
[[guests]]
id = "g1"
name = "Ada Lovelace"
rsvp = "accepted"

[[guests]]
id = "g2"
name = "Charles Babbage"
plus_one_for = "g1"
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	guests, err := FileDirectory{Path: path}.ListGuests(context.Background(), "any")
	if err != nil {
		t.Fatalf("ListGuests: %v", err)
	}
	if len(guests) != 2 {
		t.Fatalf("len = %d, want 2", len(guests))
	}
	if guests[1].RSVPStatus != RSVPPending || guests[1].PlusOneFor != "g1" {
		t.Errorf("guests[1] = %+v", guests[1])
	}
	if g, ok := Find(guests, "g1"); !ok || !g.Eligible() {
		t.Errorf("Find(g1) = %+v, %v", g, ok)
	}
}

func TestFileDirectoryErrors(t *testing.T) {
	missing := FileDirectory{Path: filepath.Join(t.TempDir(), "none.toml")}
	if _, err := missing.ListGuests(context.Background(), "w"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing file error = %v", err)
	}

	tests := []struct {
		name string
		src  string
		code errors.Code
	}{
		{"syntax", "[[guests]\n", errors.ErrCodeInvalidInput},
		{"missing id", "[[guests]]\nname = \"x\"\n", errors.ErrCodeValidation},
		{"duplicate", "[[guests]]\nid = \"a\"\n[[guests]]\nid = \"a\"\n", errors.ErrCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseTOML([]byte(tt.src)); !errors.Is(err, tt.code) {
				t.Errorf("ParseTOML error = %v, want %v", err, tt.code)
			}
		})
	}
}
