// Package sqlite implements store.Gateway on a single SQLite file, for the
// CLI and single-user setups.
//
// Tables and the venue outline are stored as JSON columns; seating
// assignments are a JSON object keyed by seat id, mirroring the document
// shape used by the mongo backend.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/matzehuels/seatplan/pkg/errors"
	"github.com/matzehuels/seatplan/pkg/seating"
	"github.com/matzehuels/seatplan/pkg/store"
	"github.com/matzehuels/seatplan/pkg/venue"
)

//go:embed schema.sql
var embeddedSchema embed.FS

// timeFormat is fixed-width so that text ordering matches time ordering.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

// Store is a SQLite-backed gateway.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Persistence(err, "create database directory")
		}
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, errors.Persistence(err, "open %s", path)
	}
	// SQLite allows one writer; a single connection keeps writes ordered.
	db.SetMaxOpenConns(1)

	s := New(db)
	if err := s.InitSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database. Call InitSchema before use.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// InitSchema creates tables and indexes if they do not exist.
func (s *Store) InitSchema() error {
	b, err := embeddedSchema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(strings.TrimSpace(string(b))); err != nil {
		return errors.Persistence(err, "apply schema")
	}
	return nil
}

// ---------- Layouts ----------

const layoutColumns = `id, owner_id, name, description, is_public, preview_image_url,
	venue_shape, tables, total_capacity, created_at, updated_at`

func (s *Store) CreateLayout(ctx context.Context, l *venue.Layout) error {
	shape, tables, err := encodeLayout(l)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO venue_layouts(`+layoutColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`,
		l.ID, l.OwnerID, l.Name, l.Description, l.IsPublic, l.PreviewImageURL,
		shape, tables, l.TotalCapacity, formatTime(l.CreatedAt), formatTime(l.UpdatedAt))
	if err != nil {
		return errors.Persistence(err, "insert layout %s", l.ID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "layout %s already exists", l.ID)
	}
	return nil
}

func (s *Store) GetLayout(ctx context.Context, id string) (*venue.Layout, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+layoutColumns+` FROM venue_layouts WHERE id = ?`, id)
	l, err := scanLayout(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("layout %s not found", id)
	}
	if err != nil {
		return nil, errors.Persistence(err, "read layout %s", id)
	}
	return l, nil
}

func (s *Store) ListLayoutsByOwner(ctx context.Context, ownerID string) ([]venue.Layout, error) {
	return s.listLayouts(ctx, `WHERE owner_id = ?`, ownerID)
}

func (s *Store) ListPublicLayouts(ctx context.Context) ([]venue.Layout, error) {
	return s.listLayouts(ctx, `WHERE is_public = 1`)
}

func (s *Store) listLayouts(ctx context.Context, where string, args ...any) ([]venue.Layout, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+layoutColumns+` FROM venue_layouts `+where+` ORDER BY created_at DESC, id ASC`, args...)
	if err != nil {
		return nil, errors.Persistence(err, "list layouts")
	}
	defer rows.Close()

	var out []venue.Layout
	for rows.Next() {
		l, err := scanLayout(rows)
		if err != nil {
			return nil, errors.Persistence(err, "scan layout")
		}
		out = append(out, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Persistence(err, "list layouts")
	}
	return out, nil
}

func (s *Store) UpdateLayoutFields(ctx context.Context, id string, p venue.Patch) error {
	fields := p.Fields()
	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	// Column names match the patch's document field names.
	for _, col := range []string{"name", "description", "is_public", "preview_image_url"} {
		if v, ok := fields[col]; ok {
			sets = append(sets, col+" = ?")
			args = append(args, v)
		}
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, formatTime(time.Now()), id)

	res, err := s.db.ExecContext(ctx,
		`UPDATE venue_layouts SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return errors.Persistence(err, "update layout %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound("layout %s not found", id)
	}
	return nil
}

func (s *Store) ReplaceLayout(ctx context.Context, l *venue.Layout) error {
	shape, tables, err := encodeLayout(l)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE venue_layouts SET
			owner_id = ?, name = ?, description = ?, is_public = ?, preview_image_url = ?,
			venue_shape = ?, tables = ?, total_capacity = ?, updated_at = ?
		WHERE id = ?`,
		l.OwnerID, l.Name, l.Description, l.IsPublic, l.PreviewImageURL,
		shape, tables, l.TotalCapacity, formatTime(time.Now()), l.ID)
	if err != nil {
		return errors.Persistence(err, "replace layout %s", l.ID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound("layout %s not found", l.ID)
	}
	return nil
}

func (s *Store) DeleteLayout(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Persistence(err, "begin delete")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM venue_layouts WHERE id = ?`, id)
	if err != nil {
		return errors.Persistence(err, "delete layout %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound("layout %s not found", id)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE weddings
		SET selected_layout_id = '', seating_assignments = '{}', updated_at = ?
		WHERE selected_layout_id = ?`, formatTime(time.Now()), id); err != nil {
		return errors.Persistence(err, "clear weddings using layout %s", id)
	}
	return errors.Persistence(tx.Commit(), "commit delete of layout %s", id)
}

// ---------- Weddings ----------

func (s *Store) GetWedding(ctx context.Context, id string) (*store.Wedding, error) {
	var (
		w                store.Wedding
		assignments      string
		created, updated string
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, owner_id, name, selected_layout_id,
			seating_assignments, seating_revision, created_at, updated_at
		FROM weddings WHERE id = ?`, id).
		Scan(&w.ID, &w.OwnerID, &w.Name, &w.SelectedLayoutID, &assignments, &w.Revision, &created, &updated)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("wedding %s not found", id)
	}
	if err != nil {
		return nil, errors.Persistence(err, "read wedding %s", id)
	}
	if err := json.Unmarshal([]byte(assignments), &w.Assignments); err != nil {
		return nil, errors.Persistence(err, "decode seating of wedding %s", id)
	}
	if w.Assignments == nil {
		w.Assignments = seating.Map{}
	}
	w.CreatedAt, w.UpdatedAt = parseTime(created), parseTime(updated)
	return &w, nil
}

func (s *Store) SaveWedding(ctx context.Context, w *store.Wedding) error {
	assignments, err := encodeAssignments(w.Assignments)
	if err != nil {
		return err
	}
	updated := w.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO weddings(id, owner_id, name, selected_layout_id,
			seating_assignments, seating_revision, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id, name = excluded.name,
			selected_layout_id = excluded.selected_layout_id,
			seating_assignments = excluded.seating_assignments,
			seating_revision = excluded.seating_revision,
			updated_at = excluded.updated_at`,
		w.ID, w.OwnerID, w.Name, w.SelectedLayoutID, assignments, w.Revision,
		formatTime(w.CreatedAt), formatTime(updated))
	return errors.Persistence(err, "save wedding %s", w.ID)
}

func (s *Store) SelectLayout(ctx context.Context, weddingID, layoutID string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE weddings
		SET selected_layout_id = ?, seating_assignments = '{}', updated_at = ?
		WHERE id = ?`, layoutID, formatTime(time.Now()), weddingID)
	if err != nil {
		return errors.Persistence(err, "select layout for wedding %s", weddingID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound("wedding %s not found", weddingID)
	}
	return nil
}

func (s *Store) SaveAssignments(ctx context.Context, weddingID string, m seating.Map, rev int64) error {
	assignments, err := encodeAssignments(m)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE weddings
		SET seating_assignments = ?, seating_revision = ?, updated_at = ?
		WHERE id = ?`, assignments, rev, formatTime(time.Now()), weddingID)
	if err != nil {
		return errors.Persistence(err, "save seating for wedding %s", weddingID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound("wedding %s not found", weddingID)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ---------- Encoding ----------

type scanner interface {
	Scan(dest ...any) error
}

func scanLayout(row scanner) (*venue.Layout, error) {
	var (
		l                venue.Layout
		shape, tables    string
		created, updated string
	)
	if err := row.Scan(&l.ID, &l.OwnerID, &l.Name, &l.Description, &l.IsPublic, &l.PreviewImageURL,
		&shape, &tables, &l.TotalCapacity, &created, &updated); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(shape), &l.Shape); err != nil {
		return nil, fmt.Errorf("decode venue shape: %w", err)
	}
	if err := json.Unmarshal([]byte(tables), &l.Tables); err != nil {
		return nil, fmt.Errorf("decode tables: %w", err)
	}
	l.CreatedAt, l.UpdatedAt = parseTime(created), parseTime(updated)
	return &l, nil
}

func encodeLayout(l *venue.Layout) (shape, tables string, err error) {
	s, err := json.Marshal(l.Shape)
	if err != nil {
		return "", "", errors.Wrap(errors.ErrCodeInternal, err, "encode venue shape")
	}
	t, err := json.Marshal(l.Tables)
	if err != nil {
		return "", "", errors.Wrap(errors.ErrCodeInternal, err, "encode tables")
	}
	if l.Shape == nil {
		s = []byte("[]")
	}
	if l.Tables == nil {
		t = []byte("[]")
	}
	return string(s), string(t), nil
}

func encodeAssignments(m seating.Map) (string, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode seating")
	}
	return string(b), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

var _ store.Gateway = (*Store)(nil)
