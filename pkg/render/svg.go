package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/seatplan/pkg/geometry"
	"github.com/matzehuels/seatplan/pkg/scene"
	"github.com/matzehuels/seatplan/pkg/seating"
	"github.com/matzehuels/seatplan/pkg/venue"
)

// DefaultPadding is the margin around the drawing, in canvas units.
const DefaultPadding = 40

const chartCSS = `
    .outline { fill: #fbf8f3; stroke: #8a7f72; stroke-width: 2; }
    .table-body { fill: #ffffff; stroke: #5b534b; stroke-width: 2; }
    .table-label { font: 600 14px sans-serif; fill: #3b342e; text-anchor: middle; dominant-baseline: central; }
    .seat circle { fill: #e9e4dc; stroke: #8a7f72; stroke-width: 1.5; }
    .seat.occupied circle { fill: #c9a227; stroke: #7a5f00; }
    .seat.highlight circle { stroke: #d1495b; stroke-width: 3; }
    .guest-name { font: 11px sans-serif; fill: #3b342e; text-anchor: middle; }`

// Option configures SVG rendering.
type Option func(*svgRenderer)

type svgRenderer struct {
	assignments seating.Map
	names       bool
	padding     float64
	highlight   map[string]bool
	title       string
}

// WithAssignments marks occupied seats and adds a tooltip with the guest's
// name.
func WithAssignments(m seating.Map) Option {
	return func(r *svgRenderer) { r.assignments = m }
}

// WithGuestNames prints guest names below occupied seats.
func WithGuestNames() Option {
	return func(r *svgRenderer) { r.names = true }
}

// WithPadding sets the margin around the drawing.
func WithPadding(p float64) Option {
	return func(r *svgRenderer) {
		if p >= 0 {
			r.padding = p
		}
	}
}

// WithHighlight outlines the given seats.
func WithHighlight(seatIDs ...string) Option {
	return func(r *svgRenderer) {
		for _, id := range seatIDs {
			r.highlight[id] = true
		}
	}
}

// WithTitle sets the document title. It defaults to the layout name.
func WithTitle(title string) Option {
	return func(r *svgRenderer) { r.title = title }
}

// SVG renders l as a seating chart.
func SVG(l *venue.Layout, opts ...Option) []byte {
	r := svgRenderer{padding: DefaultPadding, highlight: map[string]bool{}, title: l.Name}
	for _, opt := range opts {
		opt(&r)
	}

	view := viewBox(l, r.padding)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		view.X, view.Y, view.Width, view.Height, view.Width, view.Height)
	fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", chartCSS)

	if l.Shape.Complete() {
		fmt.Fprintf(&buf, `  <polygon class="outline" points="%s"/>`+"\n", points(l.Shape))
	}
	for i := range l.Tables {
		r.renderTable(&buf, &l.Tables[i], i)
	}
	if r.names {
		r.renderNames(&buf, l)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderTable(buf *bytes.Buffer, t *venue.Table, index int) {
	fmt.Fprintf(buf, `  <g class="table" id="table-%s" data-table-id="%s" transform="translate(%.2f %.2f) rotate(%.2f)">`+"\n",
		escapeXML(t.ID), escapeXML(t.ID), t.Position.X, t.Position.Y, t.Rotation)

	switch t.Kind {
	case venue.KindCircle:
		fmt.Fprintf(buf, `    <circle class="table-body" r="%.2f"/>`+"\n", t.Size().Radius)
	default:
		b := t.Bounds()
		fmt.Fprintf(buf, `    <rect class="table-body" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="6"/>`+"\n",
			b.X, b.Y, b.Width, b.Height)
	}
	// Labels stay upright.
	fmt.Fprintf(buf, `    <text class="table-label" transform="rotate(%.2f)">%s</text>`+"\n",
		-t.Rotation, escapeXML(t.DisplayLabel(index)))

	for _, seat := range t.Seats {
		class := "seat"
		a, occupied := r.assignments[seat.ID]
		if occupied {
			class += " occupied"
		}
		if r.highlight[seat.ID] {
			class += " highlight"
		}
		fmt.Fprintf(buf, `    <g class="%s" data-seat-id="%s" transform="translate(%.2f %.2f)">`,
			class, escapeXML(seat.ID), seat.Position.X, seat.Position.Y)
		fmt.Fprintf(buf, `<circle r="%d"/>`, int(geometry.SeatRadius))
		if occupied {
			fmt.Fprintf(buf, `<title>%s</title>`, escapeXML(guestLabel(a)))
		}
		buf.WriteString("</g>\n")
	}
	buf.WriteString("  </g>\n")
}

// renderNames draws names in canvas space so they are not rotated with
// their table.
func (r *svgRenderer) renderNames(buf *bytes.Buffer, l *venue.Layout) {
	buf.WriteString(`  <g class="guest-names">` + "\n")
	for i := range l.Tables {
		t := &l.Tables[i]
		for j, seat := range t.Seats {
			a, ok := r.assignments[seat.ID]
			if !ok {
				continue
			}
			p := t.SeatPosition(j)
			fmt.Fprintf(buf, `    <text class="guest-name" x="%.2f" y="%.2f">%s</text>`+"\n",
				p.X, p.Y+geometry.SeatRadius+12, escapeXML(guestLabel(a)))
		}
	}
	buf.WriteString("  </g>\n")
}

func viewBox(l *venue.Layout, padding float64) geometry.Rect {
	b := scene.Build(l).Bounds()
	if b.IsEmpty() {
		b = geometry.Rect{Width: 1, Height: 1}
	}
	return geometry.Rect{
		X:      b.X - padding,
		Y:      b.Y - padding,
		Width:  b.Width + 2*padding,
		Height: b.Height + 2*padding,
	}
}

func points(s venue.Shape) string {
	parts := make([]string, len(s))
	for i, p := range s {
		parts[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func guestLabel(a seating.Assignment) string {
	if a.GuestName != "" {
		return a.GuestName
	}
	return a.GuestID
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
