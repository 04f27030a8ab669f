package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/seatplan/pkg/errors"
	"github.com/matzehuels/seatplan/pkg/geometry"
	"github.com/matzehuels/seatplan/pkg/seating"
	"github.com/matzehuels/seatplan/pkg/venue"
)

// DOTOptions configures DOT floor plans.
type DOTOptions struct {
	// Assignments, when set, labels occupied seats with guest names.
	Assignments seating.Map
	// ShowSeatIDs labels empty seats with their id instead of leaving them
	// blank.
	ShowSeatIDs bool
}

// ToDOT converts a layout to a Graphviz floor plan. Positions are pinned
// in canvas units (inputscale=72), with y flipped since Graphviz grows
// upwards. Edges tie each seat to its table.
func ToDOT(l *venue.Layout, opts DOTOptions) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "graph %q {\n", l.Name)
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=10, fontname=\"Helvetica\", fixedsize=true];\n")
	buf.WriteString("  edge [style=invis];\n")
	buf.WriteString("\n")

	for i := range l.Tables {
		t := &l.Tables[i]
		size := t.Size()
		shape, w, h := "box", size.Width, size.Height
		if t.Kind == venue.KindCircle {
			shape, w, h = "circle", 2*size.Radius, 2*size.Radius
		}
		fmt.Fprintf(&buf, "  %q [shape=%s, label=%q, width=%s, height=%s, pos=%q, orientation=%s];\n",
			"table:"+t.ID, shape, t.DisplayLabel(i), inches(w), inches(h), pinned(t.Position),
			strconv.FormatFloat(-t.Rotation, 'f', 2, 64))

		for j, seat := range t.Seats {
			label := ""
			if opts.ShowSeatIDs {
				label = seat.ID
			}
			style := "solid"
			if a, ok := opts.Assignments[seat.ID]; ok {
				label, style = guestLabel(a), "filled"
			}
			d := inches(2 * geometry.SeatRadius)
			fmt.Fprintf(&buf, "  %q [shape=circle, label=%q, style=%s, fillcolor=gold, width=%s, height=%s, pos=%q];\n",
				"seat:"+seat.ID, label, style, d, d, pinned(t.SeatPosition(j)))
			fmt.Fprintf(&buf, "  %q -- %q;\n", "table:"+t.ID, "seat:"+seat.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func inches(px float64) string {
	return strconv.FormatFloat(px/72, 'f', 3, 64)
}

func pinned(p geometry.Point) string {
	return fmt.Sprintf("%.2f,%.2f!", p.X, -p.Y)
}

// RenderDOT lays out a DOT floor plan with neato and returns SVG.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with a plain
// viewBox so the output scales like SVG's.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
