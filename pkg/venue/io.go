package venue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/seatplan/pkg/errors"
	"github.com/matzehuels/seatplan/pkg/geometry"
)

// Definition is the hand-editable description of a layout. Seats are not
// listed; they are generated from each table's capacity when the
// definition is built.
//
//	name = "Garden marquee"
//	outline = [{x = 0, y = 0}, {x = 900, y = 0}, {x = 900, y = 600}, {x = 0, y = 600}]
//
//	[[tables]]
//	id = "head"
//	kind = "rect"
//	x = 450
//	y = 80
//	width = 240
//	height = 60
//	capacity = 10
//	label = "Head table"
//
//	[[tables]]
//	kind = "circle"
//	x = 200
//	y = 300
//	radius = 50
//	capacity = 8
type Definition struct {
	ID          string           `toml:"id,omitempty"`
	Name        string           `toml:"name"`
	Description string           `toml:"description,omitempty"`
	Public      bool             `toml:"public,omitempty"`
	PreviewURL  string           `toml:"preview_image_url,omitempty"`
	Outline     []geometry.Point `toml:"outline,omitempty"`
	Tables      []TableDef       `toml:"tables"`
}

// TableDef describes one table in a Definition.
type TableDef struct {
	ID       string  `toml:"id,omitempty"`
	Kind     string  `toml:"kind"`
	X        float64 `toml:"x"`
	Y        float64 `toml:"y"`
	Rotation float64 `toml:"rotation,omitempty"`
	Width    float64 `toml:"width,omitempty"`
	Height   float64 `toml:"height,omitempty"`
	Radius   float64 `toml:"radius,omitempty"`
	Capacity int     `toml:"capacity"`
	Label    string  `toml:"label,omitempty"`
}

// Build turns the definition into a validated layout owned by ownerID.
// Tables without an id are given sequential ids ("t1", "t2", ...) so that
// re-importing the same file yields the same seat ids.
func (d Definition) Build(ownerID string) (*Layout, error) {
	l := New(ownerID, d.Name)
	if d.ID != "" {
		l.ID = d.ID
	}
	l.Description = d.Description
	l.IsPublic = d.Public
	l.PreviewImageURL = d.PreviewURL
	l.Shape = Shape(d.Outline)

	for i, td := range d.Tables {
		id := td.ID
		if id == "" {
			id = fmt.Sprintf("t%d", i+1)
		}
		pos := geometry.Pt(td.X, td.Y)

		var t Table
		switch geometry.Shape(td.Kind) {
		case KindRect:
			t = NewRectTable(id, pos, td.Width, td.Height, td.Capacity)
		case KindCircle:
			t = NewCircleTable(id, pos, td.Radius, td.Capacity)
		default:
			return nil, errors.Validation("table %s: unknown kind %q (want rect or circle)", id, td.Kind)
		}
		t.Rotation = td.Rotation
		t.Label = td.Label
		l.Tables = append(l.Tables, t)
	}

	l.Recompute()
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// DefinitionOf returns the editable definition of a layout. Seats are
// omitted since Build regenerates them.
func DefinitionOf(l *Layout) Definition {
	d := Definition{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Public:      l.IsPublic,
		PreviewURL:  l.PreviewImageURL,
		Outline:     []geometry.Point(l.Shape),
	}
	for _, t := range l.Tables {
		s := t.Size()
		d.Tables = append(d.Tables, TableDef{
			ID:       t.ID,
			Kind:     string(t.Kind),
			X:        t.Position.X,
			Y:        t.Position.Y,
			Rotation: t.Rotation,
			Width:    s.Width,
			Height:   s.Height,
			Radius:   s.Radius,
			Capacity: t.Capacity,
			Label:    t.Label,
		})
	}
	return d
}

// ReadTOML decodes a layout definition from r and builds it for ownerID.
func ReadTOML(r io.Reader, ownerID string) (*Layout, error) {
	var d Definition
	if _, err := toml.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout definition")
	}
	return d.Build(ownerID)
}

// WriteTOML encodes the layout's definition to w.
func WriteTOML(l *Layout, w io.Writer) error {
	return toml.NewEncoder(w).Encode(DefinitionOf(l))
}

// MarshalLayout serializes a layout to pretty-printed JSON bytes.
func MarshalLayout(l *Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// ReadJSON decodes a complete layout document from r and validates it.
// TotalCapacity is recomputed rather than trusted.
func ReadJSON(r io.Reader) (*Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout")
	}
	l.Recompute()
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// WriteJSON writes the layout as indented JSON to w.
func WriteJSON(l *Layout, w io.Writer) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// ImportFile reads a layout from path, choosing the format by extension
// (.toml for definitions, anything else as JSON). ownerID is applied to
// TOML definitions; JSON documents keep their recorded owner unless it is
// empty.
func ImportFile(path, ownerID string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if isTOML(path) {
		return ReadTOML(bytes.NewReader(data), ownerID)
	}
	l, err := ReadJSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if l.OwnerID == "" {
		l.OwnerID = ownerID
	}
	return l, nil
}

// ExportFile writes the layout to path, choosing the format by extension.
func ExportFile(l *Layout, path string) error {
	var buf bytes.Buffer
	var err error
	if isTOML(path) {
		err = WriteTOML(l, &buf)
	} else {
		err = WriteJSON(l, &buf)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
