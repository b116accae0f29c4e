package export

import (
	"log/slog"
	"time"
)

// LibraryOption configures a Library.
type LibraryOption func(*libraryOptions)

type libraryOptions struct {
	logger  *slog.Logger
	now     func() time.Time
	prefix  string
	jpeg    bool
	quality int
}

func defaultLibraryOptions() libraryOptions {
	return libraryOptions{
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
		prefix: "memoji",
	}
}

// WithLogger sets the logger. Nil keeps the silent default.
func WithLogger(l *slog.Logger) LibraryOption {
	return func(o *libraryOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock sets the time source used for asset names and timestamps.
func WithClock(now func() time.Time) LibraryOption {
	return func(o *libraryOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithPrefix sets the file name prefix of saved assets. Default "memoji".
func WithPrefix(prefix string) LibraryOption {
	return func(o *libraryOptions) {
		if prefix != "" {
			o.prefix = prefix
		}
	}
}

// WithJPEG saves assets as JPEG at the given quality instead of PNG.
// JPEG has no alpha channel, so only use it for opaque stickers.
func WithJPEG(quality int) LibraryOption {
	return func(o *libraryOptions) {
		o.jpeg = true
		o.quality = quality
	}
}
