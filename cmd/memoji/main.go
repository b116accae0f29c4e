// Command memoji renders an emoji as a sticker on a solid background and
// saves it to a photo library directory or writes it to standard output.
//
//	memoji -emoji 😀 -font NotoColorEmoji.ttf -bg 1E90FF -library ~/Stickers
//	memoji -emoji 👍🏽 -glyph twemoji/72x72 -share > sticker.png
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"golang.org/x/text/language"

	"github.com/gogpu/memoji"
	"github.com/gogpu/memoji/export"
	"github.com/gogpu/memoji/glyph"
)

type config struct {
	emoji       string
	font        string
	glyph       string
	size        int
	bg          string
	transparent bool
	library     string
	share       bool
	list        bool
	lang        string
	verbose     bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.emoji, "emoji", "", "emoji to render")
	flag.StringVar(&cfg.font, "font", "", "color emoji font file")
	flag.StringVar(&cfg.glyph, "glyph", "", "glyph image file, or a directory of images named by code point")
	flag.IntVar(&cfg.size, "size", glyph.DefaultSize, "glyph size in pixels when rendering from a font")
	flag.StringVar(&cfg.bg, "bg", memoji.DefaultBackground.String(), "background color as hex RRGGBB or RRGGBBAA")
	flag.BoolVar(&cfg.transparent, "transparent", false, "keep the background alpha instead of forcing an opaque sticker")
	flag.StringVar(&cfg.library, "library", "", "photo library directory to save to")
	flag.BoolVar(&cfg.share, "share", false, "write the sticker as PNG to standard output")
	flag.BoolVar(&cfg.list, "list", false, "list the assets of -library and exit")
	flag.StringVar(&cfg.lang, "lang", "en", "notification language (en, ja)")
	flag.BoolVar(&cfg.verbose, "v", false, "verbose logging to standard error")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		log.SetFlags(0)
		log.Printf("memoji: %v", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, stdout, stderr io.Writer) error {
	var logger *slog.Logger
	if cfg.verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		memoji.SetLogger(logger)
		defer memoji.SetLogger(nil)
	}

	if cfg.list {
		return listAssets(ctx, cfg, logger, stdout)
	}

	bg, err := memoji.ParseHex(cfg.bg)
	if err != nil {
		return err
	}
	lang, err := language.Parse(cfg.lang)
	if err != nil {
		return fmt.Errorf("invalid -lang %q: %w", cfg.lang, err)
	}
	if cfg.emoji == "" {
		return errors.New("-emoji is required")
	}
	if cfg.library == "" && !cfg.share {
		return errors.New("nothing to do: pass -library and/or -share")
	}

	src, err := newSource(cfg, logger)
	if err != nil {
		return err
	}

	var library export.Sink
	if cfg.library != "" {
		lib, err := export.OpenLibrary(cfg.library, export.WithLogger(logger))
		if err != nil {
			return err
		}
		defer func() { _ = lib.Close() }()
		library = lib
	}

	notifier := memoji.NotifierFunc(func(n memoji.Notification) {
		fmt.Fprintln(stderr, n.Text)
	})
	session := memoji.NewSession(src, library, export.NewShare(stdout), notifier,
		memoji.WithLanguage(lang),
		memoji.WithInitialBackground(bg),
		memoji.WithCompositeOptions(memoji.WithOpaque(!cfg.transparent)),
	)

	if err := session.Select(ctx, cfg.emoji); err != nil {
		return err
	}

	var failed error
	if library != nil {
		if r := <-session.SaveToLibrary(ctx); !r.OK() {
			failed = fmt.Errorf("save: %s", export.Reason(r.Err))
		}
	}
	if cfg.share {
		if r := <-session.Share(ctx); !r.OK() {
			failed = errors.Join(failed, fmt.Errorf("share: %w", r.Err))
		}
	}
	return failed
}

// newSource picks the glyph source from the flags.
func newSource(cfg config, logger *slog.Logger) (glyph.Source, error) {
	switch {
	case cfg.font != "" && cfg.glyph != "":
		return nil, errors.New("-font and -glyph are mutually exclusive")
	case cfg.font != "":
		return glyph.LoadFont(cfg.font, glyph.WithSize(cfg.size), glyph.WithLogger(logger))
	case cfg.glyph != "":
		info, err := os.Stat(cfg.glyph)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return glyph.DirSource{Dir: cfg.glyph, Logger: logger}, nil
		}
		return glyph.FileSource(cfg.glyph), nil
	default:
		return nil, errors.New("one of -font or -glyph is required")
	}
}

func listAssets(ctx context.Context, cfg config, logger *slog.Logger, stdout io.Writer) error {
	if cfg.library == "" {
		return errors.New("-list needs -library")
	}
	lib, err := export.OpenLibrary(cfg.library, export.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() { _ = lib.Close() }()

	assets, err := lib.Assets(ctx)
	if err != nil {
		return err
	}
	for _, a := range assets {
		fmt.Fprintf(stdout, "%d\t%s\t%dx%d\t%s\n", a.ID, a.Name, a.Width, a.Height, a.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
