package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = [...]string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a one-line progress message on stderr while a slow step
// runs, such as a Graphviz layout or the first MongoDB round trip.
type Spinner struct {
	message string
	w       io.Writer

	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	stop    sync.Once

	mu      sync.Mutex // guards w and started
	started bool
}

// newSpinnerWithContext returns a spinner that also stops when ctx ends.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		w:       os.Stderr,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

func (s *Spinner) Start() {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
	go s.run()
}

func (s *Spinner) run() {
	defer close(s.stopped)
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()

	for frame := 0; ; frame = (frame + 1) % len(spinnerFrames) {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-tick.C:
			s.draw(spinnerFrames[frame])
		}
	}
}

// Stop ends the animation and blanks the line. Extra calls, and calls
// before Start, are harmless.
func (s *Spinner) Stop() {
	s.stop.Do(func() {
		s.cancel()
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.stopped
		}
		s.clear()
	})
}

// Cancelled reports whether the spinner has stopped or its parent context ended.
func (s *Spinner) Cancelled() bool { return s.ctx.Err() != nil }

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.w, "\r"+styleIconSpinner.Render(frame)+" "+StyleDim.Render(s.message))
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.w, "\r"+strings.Repeat(" ", len(s.message)+4)+"\r")
}
