package vectorize

import (
	"context"
	"log/slog"
	"sync/atomic"

	"sketch-tracer/internal/trace"
)

// nopHandler discards all records. Enabled returns false so callers skip
// message formatting.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures logging for the vectorizer and the tracer it drives.
// By default nothing is logged; nil restores that.
//
// Levels:
//   - [slog.LevelDebug]: per-component statistics
//   - [slog.LevelInfo]: batch summaries
//   - [slog.LevelWarn]: aborted traces
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
	trace.SetLogger(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
