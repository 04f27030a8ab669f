package planner

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/seatplan/pkg/errors"
	"github.com/matzehuels/seatplan/pkg/geometry"
	"github.com/matzehuels/seatplan/pkg/guest"
	"github.com/matzehuels/seatplan/pkg/store/memory"
	"github.com/matzehuels/seatplan/pkg/venue"
)

func newService(t *testing.T) (*Service, *guest.MemoryDirectory) {
	t.Helper()
	dir := guest.NewMemoryDirectory()
	g := memory.New()
	t.Cleanup(func() { g.Close() })
	return New(g, WithGuests(dir)), dir
}

func draft(name string) *venue.Layout {
	l := &venue.Layout{Name: name}
	l.Shape = venue.Shape{{X: 0, Y: 0}, {X: 800, Y: 0}, {X: 800, Y: 600}, {X: 0, Y: 600}}
	l.AddTable(venue.NewRectTable("head", geometry.Pt(400, 80), 240, 60, 10))
	l.AddTable(venue.NewCircleTable("t2", geometry.Pt(200, 300), 50, 8))
	return l
}

func wantCode(t *testing.T, err error, code errors.Code) {
	t.Helper()
	if !errors.Is(err, code) {
		t.Fatalf("err = %v, want %s", err, code)
	}
}

func TestCreateLayout(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t)

	l, err := s.CreateLayout(ctx, "alice", draft("Hall"))
	if err != nil {
		t.Fatal(err)
	}
	if l.ID == "" || l.OwnerID != "alice" || l.TotalCapacity != 18 || l.CreatedAt.IsZero() {
		t.Errorf("created layout = %+v", l)
	}

	_, err = s.CreateLayout(ctx, "alice", draft(" "))
	wantCode(t, err, errors.ErrCodeValidation)

	_, err = s.CreateLayout(ctx, "", draft("Hall"))
	wantCode(t, err, errors.ErrCodeUnauthorized)
}

func TestLayoutVisibility(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t)
	l, err := s.CreateLayout(ctx, "alice", draft("Hall"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.GetLayout(ctx, "alice", l.ID); err != nil {
		t.Errorf("owner read: %v", err)
	}
	_, err = s.GetLayout(ctx, "bob", l.ID)
	wantCode(t, err, errors.ErrCodePermissionDenied)

	if _, err := s.Publish(ctx, "alice", l.ID, true); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetLayout(ctx, "bob", l.ID); err != nil {
		t.Errorf("public read: %v", err)
	}
	pub, err := s.ListPublic(ctx)
	if err != nil || len(pub) != 1 {
		t.Errorf("ListPublic = %d, %v", len(pub), err)
	}
	mine, err := s.ListMine(ctx, "bob")
	if err != nil || len(mine) != 0 {
		t.Errorf("ListMine(bob) = %d, %v", len(mine), err)
	}
}

func TestWritesRequireOwner(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t)
	l, err := s.CreateLayout(ctx, "alice", draft("Hall"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Publish(ctx, "alice", l.ID, true); err != nil {
		t.Fatal(err)
	}

	name := "Mine now"
	_, err = s.UpdateLayout(ctx, "bob", l.ID, venue.Patch{Name: &name})
	wantCode(t, err, errors.ErrCodePermissionDenied)
	_, err = s.ReplaceLayout(ctx, "bob", l.ID, nil, nil)
	wantCode(t, err, errors.ErrCodePermissionDenied)
	wantCode(t, s.DeleteLayout(ctx, "bob", l.ID), errors.ErrCodePermissionDenied)

	got, _ := s.GetLayout(ctx, "alice", l.ID)
	if got.Name != "Hall" || len(got.Tables) != 2 {
		t.Errorf("layout changed by non-owner: %+v", got)
	}
}

func TestUpdateLayout(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t)
	l, _ := s.CreateLayout(ctx, "alice", draft("Hall"))

	got, err := s.SetPreviewImage(ctx, "alice", l.ID, "https://img.example/hall.png")
	if err != nil {
		t.Fatal(err)
	}
	if got.PreviewImageURL != "https://img.example/hall.png" || len(got.Tables) != 2 {
		t.Errorf("after preview = %+v", got)
	}

	_, err = s.SetPreviewImage(ctx, "alice", l.ID, "ftp://img.example/hall.png")
	wantCode(t, err, errors.ErrCodeValidation)

	_, err = s.UpdateLayout(ctx, "alice", "missing", venue.Patch{})
	wantCode(t, err, errors.ErrCodeNotFound)
}

func TestReplaceLayout(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t)
	l, _ := s.CreateLayout(ctx, "alice", draft("Hall"))

	tables := []venue.Table{venue.NewCircleTable("solo", geometry.Pt(100, 100), 40, 6)}
	got, err := s.ReplaceLayout(ctx, "alice", l.ID, nil, tables)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalCapacity != 6 || got.Name != "Hall" || len(got.Shape) != 0 {
		t.Errorf("replaced = %+v", got)
	}

	bad := []venue.Table{venue.NewCircleTable("solo", geometry.Pt(0, 0), 40, 6)}
	bad[0].Seats = bad[0].Seats[:3]
	_, err = s.ReplaceLayout(ctx, "alice", l.ID, nil, bad)
	wantCode(t, err, errors.ErrCodeValidation)
}

func TestDuplicateLayout(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t)
	src, _ := s.CreateLayout(ctx, "alice", draft("Hall"))

	_, err := s.DuplicateLayout(ctx, "bob", src.ID, "")
	wantCode(t, err, errors.ErrCodePermissionDenied)

	if _, err := s.Publish(ctx, "alice", src.ID, true); err != nil {
		t.Fatal(err)
	}
	dup, err := s.DuplicateLayout(ctx, "bob", src.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	if dup.ID == src.ID || dup.OwnerID != "bob" || dup.IsPublic {
		t.Errorf("dup = %+v", dup)
	}
	if dup.Name != "Copy of Hall" {
		t.Errorf("dup name = %q", dup.Name)
	}
	if dup.TotalCapacity != src.TotalCapacity {
		t.Errorf("capacity = %d, want %d", dup.TotalCapacity, src.TotalCapacity)
	}
	for _, tbl := range dup.Tables {
		if tbl.ID == "head" || tbl.ID == "t2" {
			t.Errorf("table id %q reused", tbl.ID)
		}
		for _, seat := range tbl.Seats {
			if !strings.HasPrefix(seat.ID, tbl.ID+"-s") {
				t.Errorf("seat %q does not follow table %q", seat.ID, tbl.ID)
			}
		}
	}
}
