package venue

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/seatplan/pkg/errors"
)

const sampleTOML = `
name = "Garden marquee"
description = "Summer reception"
outline = [{x = 0, y = 0}, {x = 900, y = 0}, {x = 900, y = 600}, {x = 0, y = 600}]

[[tables]]
id = "head"
kind = "rect"
x = 450
y = 80
width = 240
height = 60
capacity = 10
label = "Head table"

[[tables]]
kind = "circle"
x = 200
y = 300
radius = 50
capacity = 7
rotation = 15
`

func TestReadTOML(t *testing.T) {
	l, err := ReadTOML(strings.NewReader(sampleTOML), "owner")
	if err != nil {
		t.Fatalf("ReadTOML: %v", err)
	}
	if l.Name != "Garden marquee" || l.OwnerID != "owner" {
		t.Errorf("metadata = %q / %q", l.Name, l.OwnerID)
	}
	if len(l.Shape) != 4 {
		t.Errorf("len(Shape) = %d, want 4", len(l.Shape))
	}
	if l.TotalCapacity != 17 {
		t.Errorf("TotalCapacity = %d, want 17", l.TotalCapacity)
	}
	if l.Tables[1].ID != "t2" {
		t.Errorf("generated table id = %q, want t2", l.Tables[1].ID)
	}
	if l.Tables[1].Rotation != 15 {
		t.Errorf("Rotation = %v, want 15", l.Tables[1].Rotation)
	}
	if got := l.Tables[1].Seats[6].ID; got != "t2-s7" {
		t.Errorf("last seat id = %q, want t2-s7", got)
	}
}

func TestReadTOMLErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.Code
	}{
		{"syntax", "name = ", errors.ErrCodeInvalidInput},
		{"unknown kind", "name = \"x\"\n[[tables]]\nkind = \"oval\"\ncapacity = 2\n", errors.ErrCodeValidation},
		{"missing name", "[[tables]]\nkind = \"circle\"\nradius = 10\ncapacity = 2\n", errors.ErrCodeValidation},
		{"open outline", "name = \"x\"\noutline = [{x = 0, y = 0}, {x = 1, y = 1}]\n", errors.ErrCodeValidation},
		{"negative capacity", "name = \"x\"\n[[tables]]\nkind = \"circle\"\nradius = 10\ncapacity = -2\n", errors.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTOML(strings.NewReader(tt.src), "owner")
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadTOML error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestTOMLRoundTripKeepsSeatIDs(t *testing.T) {
	l, err := ReadTOML(strings.NewReader(sampleTOML), "owner")
	if err != nil {
		t.Fatalf("ReadTOML: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteTOML(l, &buf); err != nil {
		t.Fatalf("WriteTOML: %v", err)
	}
	again, err := ReadTOML(&buf, "owner")
	if err != nil {
		t.Fatalf("ReadTOML(again): %v", err)
	}

	if again.ID != l.ID {
		t.Errorf("ID = %q, want %q", again.ID, l.ID)
	}
	a, b := l.SeatIDs(), again.SeatIDs()
	if strings.Join(a, ",") != strings.Join(b, ",") {
		t.Errorf("seat ids differ after round trip:\n%v\n%v", a, b)
	}
}

func TestJSONFileRoundTrip(t *testing.T) {
	l := sampleLayout()
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := ExportFile(l, path); err != nil {
		t.Fatalf("ExportFile: %v", err)
	}
	got, err := ImportFile(path, "someone-else")
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if got.OwnerID != "user-1" {
		t.Errorf("OwnerID = %q, want recorded owner", got.OwnerID)
	}
	if got.TotalCapacity != l.TotalCapacity || len(got.Tables) != len(l.Tables) {
		t.Errorf("round trip lost data: %+v", got)
	}
}

func TestReadJSONRecomputesCapacity(t *testing.T) {
	l := sampleLayout()
	l.TotalCapacity = 999
	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ReadJSON(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.TotalCapacity != 18 {
		t.Errorf("TotalCapacity = %d, want 18", got.TotalCapacity)
	}
}
