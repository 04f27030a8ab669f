// Package pkg provides the core libraries for Seatplan, a wedding seating and
// venue-layout engine.
//
// # Overview
//
// A venue layout is a floor plan: an optional outline polygon and a set of
// rectangular or round tables, each with generated seats. A wedding selects
// one layout and maps seat ids to guests. The pkg directory is organized
// into four areas:
//
//  1. Domain model: [geometry], [venue], [guest] and [seating]
//  2. Interaction: [canvas], [scene] and [dnd] for pan/zoom and drag-and-drop
//  3. Persistence: [store] with memory, SQLite and MongoDB backends, fronted
//     by [cache]
//  4. Surfaces: [planner] (the service layer), [api] (HTTP) and [render]
//     (SVG, DOT, PDF and PNG)
//
// # Architecture
//
// The typical data flow through Seatplan:
//
//	TOML definition / JSON document
//	         ↓
//	    [venue] package (tables, seats, outline)
//	         ↓
//	    [planner] package (permissions, wedding sessions)
//	         ↓
//	    [seating] engine ──→ [store] gateway (background writes)
//	         ↓
//	    [render] package / [api] responses
//
// # Quick Start
//
// Build a layout, seat a guest and draw the chart:
//
//	svc := planner.New(memory.New())
//
//	l := &venue.Layout{Name: "Garden"}
//	l.AddTable(venue.NewCircleTable("t1", geometry.Pt(200, 150), 50, 8))
//	l, _ = svc.CreateLayout(ctx, "alice", l)
//
//	w, _ := svc.CreateWedding(ctx, "alice", "Ada & Charles")
//	_ = svc.SelectLayout(ctx, "alice", w.ID, l.ID)
//	m, _ := svc.AssignSeat(ctx, "alice", w.ID, "t1-s1", "g1")
//
//	svg := render.SVG(l, render.WithAssignments(m))
//
// # Main Packages
//
// [geometry] - Points, rectangles, polygons and seat placement around
// rectangular and round tables.
//
// [venue] - Layouts and tables, validation, TOML and JSON import/export.
//
// [seating] - The per-wedding assignment map and the engine that applies
// changes locally and persists them in the background, newest state wins.
//
// [canvas], [scene], [dnd] - Screen/canvas transforms, hit testing and the
// drag-and-drop coordinator used by the terminal editor.
//
// [store] - The persistence gateway and its backends, plus the caching and
// instrumentation decorators.
//
// [observability] - Hook interfaces for seating, store, cache and HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                  # All tests
//	go test ./pkg/seating/...          # Specific package
//	SEATPLAN_TEST_MONGO_URI=mongodb://localhost:27017 go test ./pkg/store/mongo
//
// [geometry]: https://pkg.go.dev/github.com/matzehuels/seatplan/pkg/geometry
// [venue]: https://pkg.go.dev/github.com/matzehuels/seatplan/pkg/venue
// [guest]: https://pkg.go.dev/github.com/matzehuels/seatplan/pkg/guest
// [seating]: https://pkg.go.dev/github.com/matzehuels/seatplan/pkg/seating
// [canvas]: https://pkg.go.dev/github.com/matzehuels/seatplan/pkg/canvas
// [scene]: https://pkg.go.dev/github.com/matzehuels/seatplan/pkg/scene
// [dnd]: https://pkg.go.dev/github.com/matzehuels/seatplan/pkg/dnd
// [store]: https://pkg.go.dev/github.com/matzehuels/seatplan/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/seatplan/pkg/cache
// [planner]: https://pkg.go.dev/github.com/matzehuels/seatplan/pkg/planner
// [api]: https://pkg.go.dev/github.com/matzehuels/seatplan/pkg/api
// [render]: https://pkg.go.dev/github.com/matzehuels/seatplan/pkg/render
// [observability]: https://pkg.go.dev/github.com/matzehuels/seatplan/pkg/observability
package pkg
