// Package seating binds guests to seats.
//
// A [Map] is the seat → guest binding of one wedding's selected layout. A
// guest id appears as a value at most once: assigning a guest who already
// holds a seat moves them, and assigning to an occupied seat displaces its
// previous occupant.
//
// [Engine] wraps a Map for interactive use. Mutations apply to memory
// immediately and are persisted by a single background writer, so callers
// never block on the store:
//
//	eng := seating.New("wedding-1",
//	    seating.WithSaver(gateway),
//	    seating.WithErrorHandler(func(err error) { ui.Notify(err) }),
//	)
//	defer eng.Close(ctx)
//
//	eng.Assign("t1-s1", "g1", "Ada")
//	eng.Assign("t1-s2", "g1", "Ada") // t1-s1 is empty again
//
// Queued snapshots are coalesced: when several mutations happen while a
// write is in flight, only the newest state is written next. Failed writes
// are reported once as PERSISTENCE errors and the in-memory state is kept.
package seating
