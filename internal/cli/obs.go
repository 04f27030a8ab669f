package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seatplan/pkg/observability"
)

// logHooks reports library events to the CLI logger at debug level, so
// they only show up with --verbose. Failures are logged as warnings.
type logHooks struct {
	logger *log.Logger
}

// installHooks registers logHooks for every observability category.
func installHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetSeatingHooks(h)
	observability.SetStoreHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h *logHooks) OnAssign(_ context.Context, weddingID, seatID, guestID string) {
	h.logger.Debug("seat assigned", "wedding", weddingID, "seat", seatID, "guest", guestID)
}

func (h *logHooks) OnUnassign(_ context.Context, weddingID, seatID string) {
	h.logger.Debug("seat cleared", "wedding", weddingID, "seat", seatID)
}

func (h *logHooks) OnClear(_ context.Context, weddingID, layoutID string) {
	h.logger.Debug("seating cleared", "wedding", weddingID, "layout", layoutID)
}

func (h *logHooks) OnSaveStart(_ context.Context, weddingID string, rev int64) {
	h.logger.Debug("saving seating", "wedding", weddingID, "rev", rev)
}

func (h *logHooks) OnSaveComplete(_ context.Context, weddingID string, rev int64, entries int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("save seating failed", "wedding", weddingID, "rev", rev, "error", err)
		return
	}
	h.logger.Debug("seating saved", "wedding", weddingID, "rev", rev, "entries", entries, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnOperation(_ context.Context, backend, op string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("store call failed", "backend", backend, "op", op, "took", d.Round(time.Microsecond), "error", err)
		return
	}
	h.logger.Debug("store call", "backend", backend, "op", op, "took", d.Round(time.Microsecond))
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

// OnRequest only surfaces server errors; the API logs every request itself.
func (h *logHooks) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	if status >= 500 {
		h.logger.Warn("request failed", "method", method, "route", route, "status", status, "took", d.Round(time.Millisecond))
	}
}

var (
	_ observability.SeatingHooks = (*logHooks)(nil)
	_ observability.StoreHooks   = (*logHooks)(nil)
	_ observability.CacheHooks   = (*logHooks)(nil)
	_ observability.HTTPHooks    = (*logHooks)(nil)
)
