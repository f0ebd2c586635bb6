package mapscene

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that discards all records. Enabled returns false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger sets the logger used by the style, tile and realtime packages. Nothing is logged
// until it is called; nil restores silence.
//
// Records and their levels:
//   - Debug "tile: phase built", "tile: geometry built": one loader step, with a "tile" group
//     holding x, y and z
//   - Debug "tile: frame": one PhasedManager pass with mode, tiles, updated and pending counts
//   - Debug "tile: build not scheduled", "tile: build dropped for invisible tile",
//     "tile: payload replaced, rebuilding", "tile: uncacheable tile skipped"
//   - Warn "style: invalid rule": one per problem found while building an Evaluator, with the
//     rule path in "error"
//   - Warn "style: predicate never matches", "style: dropping attribute", "style: ignoring kind":
//     rule problems found lazily while matching or building a Technique
//   - Warn "realtime: recovered panic": a deferred task or manager update panicked
//
//	mapscene.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the logger set by SetLogger, or a silent one.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
