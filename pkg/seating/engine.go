package seating

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seatplan/pkg/errors"
	"github.com/matzehuels/seatplan/pkg/observability"
	"github.com/matzehuels/seatplan/pkg/venue"
)

// DefaultSaveTimeout bounds a single background write.
const DefaultSaveTimeout = 10 * time.Second

// Saver persists seating state. store.Gateway satisfies it.
type Saver interface {
	// SelectLayout records the wedding's selected layout and clears its
	// stored assignments.
	SelectLayout(ctx context.Context, weddingID, layoutID string) error

	// SaveAssignments overwrites the wedding's stored assignments.
	SaveAssignments(ctx context.Context, weddingID string, m Map, rev int64) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithSaver enables background persistence through s.
func WithSaver(s Saver) Option {
	return func(e *Engine) { e.saver = s }
}

// WithLayout restricts assignments to seats of l and records it as the
// selected layout.
func WithLayout(l *venue.Layout) Option {
	return func(e *Engine) {
		e.layout = l
		if l != nil {
			e.layoutID = l.ID
		}
	}
}

// WithErrorHandler sets the callback for failed background writes. It is
// called from the writer goroutine, once per failed write.
func WithErrorHandler(fn func(error)) Option {
	return func(e *Engine) { e.onError = fn }
}

// WithLogger sets the engine's logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithSaveTimeout bounds each background write.
func WithSaveTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.saveTimeout = d
		}
	}
}

// snapshot is one queued write.
type snapshot struct {
	seq     uint64
	rev     int64
	m       Map
	selects bool
	layout  string
}

// Engine is the seat assignment state of one wedding. It is safe for
// concurrent use.
type Engine struct {
	weddingID   string
	saver       Saver
	onError     func(error)
	logger      *log.Logger
	saveTimeout time.Duration

	mu       sync.Mutex
	m        Map
	layout   *venue.Layout
	layoutID string
	rev      int64
	dirty    bool

	pending *snapshot
	queued  uint64
	written uint64
	changed chan struct{}
	kick    chan struct{}
	stop    chan struct{}
	done    chan struct{}
	closed  bool
}

// New creates an engine with an empty map. When a Saver is configured the
// background writer starts immediately; call Close to stop it.
func New(weddingID string, opts ...Option) *Engine {
	e := &Engine{
		weddingID:   weddingID,
		m:           make(Map),
		saveTimeout: DefaultSaveTimeout,
		changed:     make(chan struct{}),
		kick:        make(chan struct{}, 1),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if e.saver != nil {
		go e.run()
	} else {
		close(e.done)
	}
	return e
}

// WeddingID returns the wedding this engine belongs to.
func (e *Engine) WeddingID() string { return e.weddingID }

// LayoutID returns the selected layout id, or "" when none is selected.
func (e *Engine) LayoutID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layoutID
}

// Layout returns the layout used for seat validation, if any.
func (e *Engine) Layout() *venue.Layout {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layout
}

// Revision returns the revision of the newest local state.
func (e *Engine) Revision() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rev
}

// Load adopts state read from the store. It only replaces the map when no
// local mutation has happened yet, so a slow initial read never overwrites
// the user's edits; it reports whether the map was adopted. The revision
// counter is advanced past rev either way.
func (e *Engine) Load(m Map, rev int64) (bool, error) {
	if err := m.Validate(); err != nil {
		return false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if rev > e.rev {
		e.rev = rev
	}
	if e.dirty {
		e.logger.Debug("ignoring stale seating load", "wedding", e.weddingID, "rev", rev)
		return false, nil
	}
	e.m = m.Clone()
	return true, nil
}

// Assign seats a guest. A guest already seated elsewhere is moved, and a
// different guest occupying seatID is unassigned. When the engine was
// given a layout, an unknown seat id is a VALIDATION error and nothing
// changes.
func (e *Engine) Assign(seatID, guestID, guestName string) error {
	if seatID == "" || guestID == "" {
		return errors.Validation("seat id and guest id are required")
	}

	e.mu.Lock()
	if e.layout != nil && !e.layout.HasSeat(seatID) {
		e.mu.Unlock()
		return errors.Validation("seat %s is not part of layout %s", seatID, e.layout.ID)
	}
	if cur, ok := e.m[seatID]; ok && cur.GuestID == guestID && cur.GuestName == guestName {
		e.mu.Unlock()
		return nil
	}
	displaced := e.m.Assign(seatID, guestID, guestName)
	e.enqueueLocked(false)
	e.mu.Unlock()

	if displaced != "" {
		e.logger.Debug("seat reassigned", "seat", seatID, "from", displaced, "to", guestID)
	}
	observability.Seating().OnAssign(context.Background(), e.weddingID, seatID, guestID)
	return nil
}

// Unassign empties a seat. Unassigning an empty seat is a no-op.
func (e *Engine) Unassign(seatID string) {
	e.mu.Lock()
	if !e.m.Unassign(seatID) {
		e.mu.Unlock()
		return
	}
	e.enqueueLocked(false)
	e.mu.Unlock()

	observability.Seating().OnUnassign(context.Background(), e.weddingID, seatID)
}

// SelectLayout switches the wedding to another layout. The map is reset to
// empty and the selection is persisted. l may be nil to skip seat
// validation; layoutID "" clears the selection.
func (e *Engine) SelectLayout(layoutID string, l *venue.Layout) {
	e.mu.Lock()
	e.layoutID = layoutID
	e.layout = l
	e.m = make(Map)
	e.enqueueLocked(true)
	e.mu.Unlock()

	observability.Seating().OnClear(context.Background(), e.weddingID, layoutID)
}

// ClearSelection deselects the layout and clears all assignments.
func (e *Engine) ClearSelection() {
	e.SelectLayout("", nil)
}

// ClearAssignments empties the map but keeps the selected layout.
func (e *Engine) ClearAssignments() {
	e.mu.Lock()
	if len(e.m) == 0 {
		e.mu.Unlock()
		return
	}
	e.m = make(Map)
	e.enqueueLocked(false)
	layoutID := e.layoutID
	e.mu.Unlock()

	observability.Seating().OnClear(context.Background(), e.weddingID, layoutID)
}

// IsGuestAssigned reports whether the guest holds a seat.
func (e *Engine) IsGuestAssigned(guestID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.m.IsGuestAssigned(guestID)
}

// SeatOf returns the seat held by a guest.
func (e *Engine) SeatOf(guestID string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.m.SeatOf(guestID)
}

// Occupant returns the guest in a seat.
func (e *Engine) Occupant(seatID string) (Assignment, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, ok := e.m[seatID]
	return a, ok
}

// Snapshot returns a copy of the current map.
func (e *Engine) Snapshot() Map {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.m.Clone()
}

// Len returns the number of occupied seats.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.m)
}

// Saving reports whether a write is queued or in flight.
func (e *Engine) Saving() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.written < e.queued
}

// Flush waits until every mutation made before the call has been written
// (successfully or not).
func (e *Engine) Flush(ctx context.Context) error {
	e.mu.Lock()
	target := e.queued
	for e.written < target {
		ch := e.changed
		e.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
		e.mu.Lock()
	}
	e.mu.Unlock()
	return nil
}

// Close stops accepting writes, waits for the queued ones and stops the
// background writer. Mutations after Close are applied in memory only.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	already := e.closed
	e.closed = true
	e.mu.Unlock()

	err := e.Flush(ctx)
	if already || e.saver == nil {
		return err
	}
	close(e.stop)
	<-e.done
	return err
}

// enqueueLocked records a local mutation and hands the newest state to the
// writer, replacing any snapshot that has not been picked up yet. A
// replaced snapshot's layout selection is carried forward so it is not
// lost. e.mu must be held.
func (e *Engine) enqueueLocked(selection bool) {
	e.dirty = true
	e.rev++
	if e.saver == nil || e.closed {
		return
	}

	if e.pending != nil && e.pending.selects {
		selection = true
	}
	e.queued++
	e.pending = &snapshot{
		seq:     e.queued,
		rev:     e.rev,
		m:       e.m.Clone(),
		selects: selection,
		layout:  e.layoutID,
	}
	select {
	case e.kick <- struct{}{}:
	default:
	}
}

func (e *Engine) run() {
	defer close(e.done)
	for {
		select {
		case <-e.kick:
			e.drain()
		case <-e.stop:
			// A snapshot may have been queued after the last kick.
			e.drain()
			return
		}
	}
}

// drain writes snapshots until none is pending.
func (e *Engine) drain() {
	for {
		e.mu.Lock()
		snap := e.pending
		e.pending = nil
		e.mu.Unlock()
		if snap == nil {
			return
		}

		err := e.write(snap)

		e.mu.Lock()
		e.written = snap.seq
		close(e.changed)
		e.changed = make(chan struct{})
		e.mu.Unlock()

		if err != nil {
			e.logger.Warn("seating not saved", "wedding", e.weddingID, "rev", snap.rev, "err", err)
			if e.onError != nil {
				e.onError(err)
			}
		}
	}
}

func (e *Engine) write(snap *snapshot) error {
	ctx, cancel := context.WithTimeout(context.Background(), e.saveTimeout)
	defer cancel()

	hooks := observability.Seating()
	hooks.OnSaveStart(ctx, e.weddingID, snap.rev)
	start := time.Now()

	var err error
	if snap.selects {
		err = e.saver.SelectLayout(ctx, e.weddingID, snap.layout)
	}
	if err == nil {
		err = e.saver.SaveAssignments(ctx, e.weddingID, snap.m, snap.rev)
	}
	err = errors.Persistence(err, "save seating for wedding %s", e.weddingID)

	hooks.OnSaveComplete(ctx, e.weddingID, snap.rev, len(snap.m), time.Since(start), err)
	if err == nil {
		e.logger.Debug("seating saved", "wedding", e.weddingID, "rev", snap.rev, "seats", len(snap.m))
	}
	return err
}
