package memoji

import (
	"context"
	"fmt"
	"image"
	"sync"

	"golang.org/x/text/language"

	"github.com/gogpu/memoji/export"
	"github.com/gogpu/memoji/glyph"
)

// SessionOption configures a Session.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	lang      language.Tag
	bg        RGBA
	composite []CompositeOption
}

// WithLanguage selects the notification language. Unsupported languages
// fall back to the closest supported one, English by default.
func WithLanguage(tag language.Tag) SessionOption {
	return func(o *sessionOptions) {
		o.lang = tag
	}
}

// WithInitialBackground sets the background before any SetBackground call.
// The default is DefaultBackground.
func WithInitialBackground(c RGBA) SessionOption {
	return func(o *sessionOptions) {
		o.bg = c
	}
}

// WithCompositeOptions passes options to every Composite call of the session.
func WithCompositeOptions(opts ...CompositeOption) SessionOption {
	return func(o *sessionOptions) {
		o.composite = append(o.composite, opts...)
	}
}

// Session holds the sticker being edited: the selected glyph and the
// background color. It exports the composite to a photo library or a share
// target and reports the outcome through a Notifier.
//
// Session is safe for concurrent use; export callbacks run on the sinks'
// goroutines.
type Session struct {
	src      glyph.Source
	library  export.Sink
	share    export.Sink
	notifier Notifier
	lang     language.Tag
	opts     sessionOptions

	mu    sync.Mutex
	glyph image.Image
	input string
	bg    RGBA
}

// NewSession creates a session. Nil sinks make the matching export fail
// with ErrNoSink; a nil notifier drops notifications.
func NewSession(src glyph.Source, library, share export.Sink, n Notifier, opts ...SessionOption) *Session {
	o := sessionOptions{lang: language.English, bg: DefaultBackground}
	for _, opt := range opts {
		opt(&o)
	}
	return &Session{
		src:      src,
		library:  library,
		share:    share,
		notifier: n,
		lang:     o.lang,
		opts:     o,
		bg:       o.bg,
	}
}

// Select captures the glyph for input and makes it the current glyph.
// On error the previous glyph is kept.
func (s *Session) Select(ctx context.Context, input string) error {
	if s.src == nil {
		return fmt.Errorf("memoji: select %q: no glyph source", input)
	}
	img, err := s.src.Glyph(ctx, input)
	if err != nil {
		return fmt.Errorf("memoji: select %q: %w", input, err)
	}
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("memoji: select %q: %w", input, ErrNoRasterData)
	}

	s.mu.Lock()
	s.glyph, s.input = img, input
	s.mu.Unlock()
	Logger().Debug("memoji: glyph selected", "input", input, "bounds", img.Bounds())
	return nil
}

// SetBackground sets the background color.
func (s *Session) SetBackground(c RGBA) {
	s.mu.Lock()
	s.bg = c
	s.mu.Unlock()
}

// Background returns the background color.
func (s *Session) Background() RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bg
}

// Glyph returns the current glyph and the input it was captured from, or
// nil before the first successful Select.
func (s *Session) Glyph() (image.Image, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.glyph, s.input
}

// NeedsGlyph reports whether no glyph has been selected yet. Front ends
// open the glyph picker when it is true.
func (s *Session) NeedsGlyph() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.glyph == nil
}

// Preview returns the current glyph composited over the background, or nil
// without a glyph. Like Composite it falls back to the bare glyph.
func (s *Session) Preview() image.Image {
	img, bg := s.state()
	if img == nil {
		return nil
	}
	return Composite(img, bg, s.opts.composite...)
}

func (s *Session) state() (image.Image, RGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.glyph, s.bg
}

// SaveToLibrary composites the sticker and saves it to the library. The
// user is notified of the outcome; failure details go to the log. The
// returned channel yields exactly one Result.
func (s *Session) SaveToLibrary(ctx context.Context) <-chan export.Result {
	return s.export(ctx, "library", s.library, true)
}

// Share composites the sticker and hands it to the share target. The
// outcome is logged and returned but not shown to the user.
func (s *Session) Share(ctx context.Context) <-chan export.Result {
	return s.export(ctx, "share", s.share, false)
}

func (s *Session) export(ctx context.Context, target string, sink export.Sink, notify bool) <-chan export.Result {
	ch := make(chan export.Result, 1)
	log := Logger().With("target", target)

	img, bg := s.state()
	if img == nil {
		log.Warn("memoji: export without glyph")
		s.notify(NoticeNoGlyph)
		ch <- export.Result{Err: ErrNoGlyph}
		return ch
	}
	if sink == nil {
		log.Warn("memoji: export failed", "err", ErrNoSink)
		if notify {
			s.notify(NoticeSaveFailed)
		}
		ch <- export.Result{Err: ErrNoSink}
		return ch
	}

	out := Composite(img, bg, s.opts.composite...)
	sink.Export(ctx, out, export.Handler{
		OnSuccess: func() {
			log.Info("memoji: export done")
			if notify {
				s.notify(NoticeSaved)
			}
			ch <- export.Result{}
		},
		OnFailure: func(err error) {
			log.Warn("memoji: export failed", "err", err, "reason", export.Reason(err))
			if notify {
				s.notify(NoticeSaveFailed)
			}
			ch <- export.Result{Err: err}
		},
	})
	return ch
}

func (s *Session) notify(n Notice) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(Notification{Notice: n, Text: Localize(s.lang, n)})
}
