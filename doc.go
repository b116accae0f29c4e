// Package memoji turns an emoji into a sticker: the emoji glyph flattened
// onto a solid background color.
//
// # Quick Start
//
//	import "github.com/gogpu/memoji"
//
//	src, _ := glyph.LoadFont("NotoColorEmoji.ttf", glyph.WithSize(160))
//	img, _ := src.Glyph(ctx, "🐙")
//	sticker := memoji.Composite(img, memoji.Hex("#1E90FF"))
//
// # Compositing
//
// Composite draws the background as a full-canvas rectangle and the glyph
// over it with source-over blending in premultiplied RGBA. The output has
// the glyph's dimensions and orientation. By default every output pixel is
// opaque; WithOpaque(false) keeps the background's alpha.
//
// Composite never fails. When no drawing context can be created, or the
// glyph has no pixels, it logs a warning and returns the glyph unchanged.
// CompositeE reports the cause instead.
//
// # Drawing Context
//
// Context is the drawing surface Composite renders on. Its device space has
// the origin at the lower-left corner with y pointing up; InvertY maps
// image coordinates (origin upper-left) onto it. Buffers come from a shared
// pool and return to it on Close.
//
// # Sessions
//
// Session holds the state of an editor: the selected glyph and the
// background color. It exports stickers through the sinks of package
// export and reports the outcome through a Notifier, localized in English
// and Japanese.
//
// # Logging
//
// The package logs through log/slog. Output is discarded until SetLogger is
// called:
//
//	memoji.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
package memoji
