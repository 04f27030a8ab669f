package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/matzehuels/seatplan/pkg/api"
	"github.com/matzehuels/seatplan/pkg/errors"
	"github.com/matzehuels/seatplan/pkg/store/sqlite"
)

const gardenTOML = `id = "garden"
name = "Garden"
outline = [{x = 0, y = 0}, {x = 400, y = 0}, {x = 400, y = 300}, {x = 0, y = 300}]

[[tables]]
id = "t1"
kind = "circle"
x = 200
y = 150
radius = 50
capacity = 4
`

// testEnv points the CLI at a fresh SQLite store with caching off and
// returns the scratch directory.
func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("SEATPLAN_USER", "alice")
	t.Setenv("SEATPLAN_STORE_BACKEND", "sqlite")
	t.Setenv("SEATPLAN_STORE_SQLITE_PATH", filepath.Join(dir, "seatplan.db"))
	t.Setenv("SEATPLAN_CACHE_MODE", "none")
	return dir
}

// captureStdout runs fn with os.Stdout redirected and returns what it wrote.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	out := make(chan string)
	go func() {
		b, _ := io.ReadAll(r)
		out <- string(b)
	}()
	fn()
	w.Close()
	return <-out
}

// run executes the root command with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetErr(io.Discard)
	var err error
	out := captureStdout(t, func() {
		err = root.ExecuteContext(context.Background())
	})
	return out, err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("seatplan %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

var idLine = regexp.MustCompile(`(?m)^ID\s+(\S+)\s*$`)

func TestLayoutAndWeddingFlow(t *testing.T) {
	dir := testEnv(t)
	def := filepath.Join(dir, "garden.toml")
	if err := os.WriteFile(def, []byte(gardenTOML), 0644); err != nil {
		t.Fatal(err)
	}

	out := mustRun(t, "layout", "import", def)
	if !strings.Contains(out, "Garden") || !strings.Contains(out, "garden") {
		t.Errorf("import output = %q", out)
	}

	out = mustRun(t, "layout", "list")
	if !strings.Contains(out, "garden") || !strings.Contains(out, "private") {
		t.Errorf("list output = %q", out)
	}

	out = mustRun(t, "wedding", "create", "Ada & Charles")
	match := idLine.FindStringSubmatch(out)
	if match == nil {
		t.Fatalf("no wedding id in %q", out)
	}
	weddingID := match[1]

	mustRun(t, "wedding", "select", weddingID, "garden")
	mustRun(t, "wedding", "assign", weddingID, "t1-s1", "g1")
	mustRun(t, "wedding", "assign", weddingID, "t1-s2", "g2")
	mustRun(t, "wedding", "unassign", weddingID, "t1-s2")

	out = mustRun(t, "wedding", "show", weddingID)
	if !strings.Contains(out, "t1-s1") || strings.Contains(out, "t1-s2") {
		t.Errorf("show output = %q", out)
	}

	if _, err := run(t, "wedding", "assign", weddingID, "t9-s1", "g3"); !errors.Is(err, errors.ErrCodeValidation) {
		t.Errorf("unknown seat: err = %v, want VALIDATION", err)
	}

	chart := filepath.Join(dir, "chart.svg")
	mustRun(t, "render", "--wedding", weddingID, "-o", chart)
	svg, err := os.ReadFile(chart)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), `class="seat occupied" data-seat-id="t1-s1"`) {
		t.Error("rendered chart should mark t1-s1 occupied")
	}

	exported := filepath.Join(dir, "garden.json")
	mustRun(t, "layout", "export", "garden", exported)
	if _, err := os.Stat(exported); err != nil {
		t.Errorf("export: %v", err)
	}

	mustRun(t, "layout", "delete", "garden")

	g, err := sqlite.Open(filepath.Join(dir, "seatplan.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()
	w, err := g.GetWedding(context.Background(), weddingID)
	if err != nil {
		t.Fatal(err)
	}
	if w.SelectedLayoutID != "" || len(w.Assignments) != 0 {
		t.Errorf("after deleting its layout, wedding = %+v; want no layout and no seating", w)
	}
}

func TestLayoutPermissions(t *testing.T) {
	dir := testEnv(t)
	def := filepath.Join(dir, "garden.toml")
	if err := os.WriteFile(def, []byte(gardenTOML), 0644); err != nil {
		t.Fatal(err)
	}
	mustRun(t, "layout", "import", def)

	if _, err := run(t, "--user", "bob", "layout", "show", "garden"); !errors.Is(err, errors.ErrCodePermissionDenied) {
		t.Errorf("viewing a private layout as another user: err = %v", err)
	}

	mustRun(t, "layout", "publish", "garden")
	out := mustRun(t, "--user", "bob", "layout", "list", "--public")
	if !strings.Contains(out, "garden") {
		t.Errorf("public list = %q", out)
	}
	if _, err := run(t, "--user", "bob", "layout", "delete", "garden"); !errors.Is(err, errors.ErrCodePermissionDenied) {
		t.Errorf("deleting another user's layout: err = %v", err)
	}
}

func TestUserRequired(t *testing.T) {
	testEnv(t)
	t.Setenv("SEATPLAN_USER", "")
	t.Setenv("USER", "")

	if _, err := run(t, "layout", "list"); !errors.Is(err, errors.ErrCodeUnauthorized) {
		t.Errorf("err = %v, want UNAUTHORIZED", err)
	}
}

func TestSeatsCommand(t *testing.T) {
	testEnv(t)

	out := mustRun(t, "seats", "--shape", "circle", "--radius", "50", "--capacity", "4")
	if !strings.Contains(out, "4 seats around a circle table") {
		t.Errorf("output = %q", out)
	}

	if _, err := run(t, "seats", "--shape", "hexagon"); !errors.Is(err, errors.ErrCodeValidation) {
		t.Errorf("unknown shape: err = %v, want VALIDATION", err)
	}
}

func TestTokenCommand(t *testing.T) {
	testEnv(t)

	if _, err := run(t, "token"); err == nil {
		t.Error("token without a secret should fail")
	}

	t.Setenv("SEATPLAN_SERVER_JWT_SECRET", "test-secret")
	root := New(io.Discard, LogInfo).RootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"token", "--ttl", "1h"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}

	user, err := api.NewAuthenticator("test-secret", "seatplan").Verify(strings.TrimSpace(buf.String()))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if user != "alice" {
		t.Errorf("token subject = %q, want alice", user)
	}
}

func TestLogFormatFlag(t *testing.T) {
	testEnv(t)
	if _, err := run(t, "--log-format", "yaml", "seats"); err == nil {
		t.Error("an unknown log format should be rejected")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", formatSVG},
		{"plan.svg", formatSVG},
		{"plan.DOT", formatDOT},
		{"plan.gv", formatDOT},
		{"chart.pdf", formatPDF},
		{"chart.png", formatPNG},
		{"chart.txt", formatSVG},
	}
	for _, tt := range tests {
		if got := formatFromPath(tt.path); got != tt.want {
			t.Errorf("formatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
