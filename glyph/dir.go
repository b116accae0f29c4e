package glyph

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gogpu/memoji/glyph/emoji"
	intImage "github.com/gogpu/memoji/internal/image"
)

// DirSource loads emoji images from a directory laid out like the Twemoji
// and Noto asset sets: one file per sequence, named by its code points in
// lowercase hex joined by a separator, e.g. "1f468-200d-1f469.png".
//
// Lookup tries the name with U+FE0F first and then without it, because the
// asset sets differ in whether they keep the emoji variation selector.
type DirSource struct {
	// Dir is the directory holding the images.
	Dir string

	// Ext is the file extension including the dot. Default ".png".
	Ext string

	// Sep joins code points. Default "-".
	Sep string

	// Logger receives debug output. Nil disables logging.
	Logger *slog.Logger
}

// Glyph implements Source.
func (s DirSource) Glyph(ctx context.Context, input string) (image.Image, error) {
	seq, err := Validate(input)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, name := range s.candidates(seq) {
		path := filepath.Join(s.Dir, name)
		img, format, err := intImage.Load(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("glyph: load %s: %w", path, err)
		}
		if s.Logger != nil {
			s.Logger.Debug("glyph: loaded from directory", "path", path, "format", format)
		}
		return img, nil
	}
	return nil, fmt.Errorf("%w: %q in %s", ErrNotFound, input, s.Dir)
}

// candidates lists the file names tried for seq, most specific first.
func (s DirSource) candidates(seq emoji.Sequence) []string {
	ext, sep := s.Ext, s.Sep
	if ext == "" {
		ext = ".png"
	}
	if sep == "" {
		sep = "-"
	}

	var full, bare []string
	for _, r := range seq.Runes() {
		hex := strconv.FormatInt(int64(r), 16)
		full = append(full, hex)
		if r != emoji.EmojiVariation {
			bare = append(bare, hex)
		}
	}
	names := []string{strings.Join(full, sep) + ext}
	if len(bare) != len(full) {
		names = append(names, strings.Join(bare, sep)+ext)
	}
	return names
}

// FileSource returns a Source that yields the image stored at path for any
// valid emoji input. It serves prepared glyph bitmaps.
func FileSource(path string) Source {
	return Func(func(ctx context.Context, input string) (image.Image, error) {
		if _, err := Validate(input); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("glyph: %w", err)
		}
		img, _, err := intImage.Load(path)
		if err != nil {
			return nil, fmt.Errorf("glyph: load %s: %w", path, err)
		}
		return img, nil
	})
}
