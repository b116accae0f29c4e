package glyph

import "log/slog"

// DefaultSize is the default glyph size in pixels.
const DefaultSize = 160

// FontOption configures a FontSource.
//
// Example:
//
//	src, err := glyph.LoadFont("NotoColorEmoji.ttf", glyph.WithSize(320))
type FontOption func(*fontOptions)

type fontOptions struct {
	size      int
	cacheSize int
	logger    *slog.Logger
}

func defaultFontOptions() fontOptions {
	return fontOptions{
		size:      DefaultSize,
		cacheSize: 64,
		logger:    slog.New(slog.DiscardHandler),
	}
}

// WithSize sets the width and height of rendered glyphs in pixels.
// Non-positive sizes are ignored.
func WithSize(px int) FontOption {
	return func(o *fontOptions) {
		if px > 0 {
			o.size = px
		}
	}
}

// WithCacheSize sets how many rendered glyphs are kept in total. The bound
// is rounded up to a multiple of the cache's shard count. Zero disables caching.
func WithCacheSize(n int) FontOption {
	return func(o *fontOptions) {
		o.cacheSize = max(n, 0)
	}
}

// WithLogger sets the logger for diagnostics. Nil keeps the silent default.
func WithLogger(l *slog.Logger) FontOption {
	return func(o *fontOptions) {
		if l != nil {
			o.logger = l
		}
	}
}
