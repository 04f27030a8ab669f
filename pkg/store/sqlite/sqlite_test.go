package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/seatplan/pkg/store"
	"github.com/matzehuels/seatplan/pkg/store/storetest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "seatplan.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return s
}

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Gateway { return newTestStore(t) })
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "seatplan.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	l := storetest.Layout("u1", "Hall", time.Now())
	if err := s.CreateLayout(context.Background(), l); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.GetLayout(context.Background(), l.ID)
	if err != nil || got.Name != "Hall" {
		t.Errorf("GetLayout after reopen = %+v, %v", got, err)
	}
}

func TestTimeFormatOrders(t *testing.T) {
	a := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	b := a.Add(500 * time.Millisecond)
	if !(formatTime(a) < formatTime(b)) {
		t.Errorf("%s should sort before %s", formatTime(a), formatTime(b))
	}
	if !parseTime(formatTime(b)).Equal(b) {
		t.Error("time does not round-trip")
	}
}
