// Package render draws venue layouts and seating charts.
//
// # SVG
//
// [SVG] writes a self-contained seating chart: the venue outline, every
// table with its label, and every seat. Seats carry their id in a
// data-seat-id attribute and the class "occupied" when a guest sits there,
// so a browser front end can bind its own pointer handlers to them.
//
//	svg := render.SVG(layout,
//	    render.WithAssignments(wedding.Assignments),
//	    render.WithGuestNames(),
//	)
//
// # Graphviz
//
// [ToDOT] produces a DOT floor plan with every table and seat pinned to its
// canvas position; [RenderDOT] lays it out with neato and returns SVG. This
// is the fallback for tools that already consume Graphviz output.
//
// # Format conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg).
package render
