package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func newTestSpinner(ctx context.Context, msg string) (*Spinner, *bytes.Buffer) {
	var buf bytes.Buffer
	s := newSpinnerWithContext(ctx, msg)
	s.w = &buf
	return s, &buf
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	s, buf := newTestSpinner(context.Background(), "Laying out...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	s.mu.Lock()
	out := buf.String()
	s.mu.Unlock()
	if !strings.Contains(out, "Laying out...") {
		t.Errorf("spinner output %q should contain the message", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("spinner should end by clearing the line, got %q", out)
	}
	if !s.Cancelled() {
		t.Error("Cancelled() should be true after Stop")
	}
}

func TestSpinnerStopIdempotent(t *testing.T) {
	s, _ := newTestSpinner(context.Background(), "Testing...")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopBeforeStart(t *testing.T) {
	s, _ := newTestSpinner(context.Background(), "Testing...")

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop before Start should not block")
	}
}

func TestSpinnerParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, _ := newTestSpinner(ctx, "Connecting...")
	s.Start()

	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner goroutine should exit when its context is cancelled")
	}
	if !s.Cancelled() {
		t.Error("Cancelled() should be true after the parent context is cancelled")
	}
	s.Stop()
}
