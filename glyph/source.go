// Package glyph captures emoji glyphs as bitmaps.
//
// A Source turns the user's emoji input into an image with a transparent
// background. Input is limited to exactly one emoji sequence: Validate
// normalizes it to NFC and rejects anything else.
//
// Sources:
//
//   - FontSource renders the glyph from a color emoji font
//   - DirSource loads per-emoji images named by code point ("1f600.png")
//   - FileSource always yields one prepared image
//   - Func adapts a plain function
package glyph

import (
	"context"
	"errors"
	"fmt"
	"image"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/memoji/glyph/emoji"
)

// Input errors.
var (
	// ErrEmptyInput is returned for empty input.
	ErrEmptyInput = errors.New("glyph: empty input")

	// ErrNotEmoji is returned when the input contains anything but emoji.
	ErrNotEmoji = errors.New("glyph: input is not an emoji")

	// ErrMultipleGlyphs is returned when the input holds more than one emoji.
	ErrMultipleGlyphs = errors.New("glyph: input holds more than one emoji")

	// ErrNotFound is returned when a source has no image for the emoji.
	ErrNotFound = errors.New("glyph: emoji not available")
)

// Source yields the bitmap of a single emoji glyph.
type Source interface {
	Glyph(ctx context.Context, input string) (image.Image, error)
}

// Func adapts a function to Source.
type Func func(ctx context.Context, input string) (image.Image, error)

// Glyph implements Source.
func (f Func) Glyph(ctx context.Context, input string) (image.Image, error) {
	return f(ctx, input)
}

// Validate normalizes input to NFC and checks that it is exactly one
// emoji sequence. It returns the parsed sequence.
func Validate(input string) (emoji.Sequence, error) {
	if input == "" {
		return emoji.Sequence{}, ErrEmptyInput
	}
	text := norm.NFC.String(input)
	seqs, bad := emoji.Parse(text)
	switch {
	case bad >= 0:
		return emoji.Sequence{}, fmt.Errorf("%w: %q at byte %d", ErrNotEmoji, input, bad)
	case len(seqs) > 1:
		return emoji.Sequence{}, fmt.Errorf("%w: %q has %d", ErrMultipleGlyphs, input, len(seqs))
	}
	return seqs[0], nil
}
