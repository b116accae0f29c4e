package memoji

import "errors"

// Compositing resource errors. Composite never returns them; it falls back to
// the source image instead. CompositeE reports them to callers that care.
var (
	// ErrContextUnavailable is returned when a drawing context cannot be
	// created: the canvas size is invalid, exceeds the pixel budget, or the
	// configured ContextFactory refused the allocation.
	ErrContextUnavailable = errors.New("memoji: drawing context unavailable")

	// ErrNoRasterData is returned when the source image has no pixels to draw.
	ErrNoRasterData = errors.New("memoji: source has no raster data")

	// ErrContextClosed is returned by operations on a closed Context.
	ErrContextClosed = errors.New("memoji: context closed")
)

// Session errors.
var (
	// ErrNoGlyph is returned when an export is requested before a glyph was selected.
	ErrNoGlyph = errors.New("memoji: no glyph selected")
)

// ErrNoSink is returned when an export targets a destination the Session
// was created without.
var ErrNoSink = errors.New("memoji: export destination not configured")
