// Package cli implements the seatplan command-line interface.
//
// Commands manage venue layouts and weddings in the configured store,
// preview seat geometry, render floor plans, run the HTTP API and open a
// terminal seating editor. The CLI is built using cobra and logs through
// charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - layout: Import, export, list, show, publish and delete venue layouts
//   - wedding: Create weddings, select their layout and assign seats
//   - edit: Drag guests onto seats in a terminal editor
//   - render: Draw a layout as SVG, DOT, PDF or PNG
//   - serve: Run the HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging and
// --log-format for text, logfmt or JSON output (JSON suits serve behind a
// log collector). The logger is attached to the command context by the
// root command.
package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// logFormats maps --log-format values to formatters.
var logFormats = map[string]log.Formatter{
	"text":   log.TextFormatter,
	"logfmt": log.LogfmtFormatter,
	"json":   log.JSONFormatter,
}

// newLogger creates a text logger with short "15:04:05.00" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// setLogFormat switches l to the named output format.
func setLogFormat(l *log.Logger, name string) error {
	f, ok := logFormats[strings.ToLower(name)]
	if !ok {
		names := make([]string, 0, len(logFormats))
		for n := range logFormats {
			names = append(names, n)
		}
		sort.Strings(names)
		return fmt.Errorf("unknown log format %q (want one of %s)", name, strings.Join(names, ", "))
	}
	l.SetFormatter(f)
	return nil
}

// progress times a step and logs its completion with the elapsed time as
// a "took" field, rounded to the millisecond.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with keyvals and the elapsed time, for example
// "Imported layout name=Garden tables=12 took=3ms".
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by the root command, or a
// logger that discards everything when none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}
