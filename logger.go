package memoji

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard reports every level as disabled, so callers skip building records.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (d discard) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discard) WithGroup(string) slog.Handler           { return d }

// NopLogger returns a logger with every level disabled.
func NopLogger() *slog.Logger { return slog.New(discard{}) }

var active atomic.Pointer[slog.Logger]

func init() { active.Store(NopLogger()) }

// SetLogger installs l as the package logger; nil restores silence.
// It may be called while other goroutines are compositing.
//
// Events by level:
//   - [slog.LevelDebug]: drawing context sizes and glyph selection
//   - [slog.LevelInfo]: completed exports
//   - [slog.LevelWarn]: compositing fallback and failed exports
//
// For example:
//
//	memoji.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
//		&slog.HandlerOptions{Level: slog.LevelDebug})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = NopLogger()
	}
	active.Store(l)
}

// Logger returns the package logger. The glyph and export packages take
// theirs through options instead, so they do not import this package.
func Logger() *slog.Logger { return active.Load() }
