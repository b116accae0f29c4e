package glyph

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/gogpu/memoji/glyph/emoji"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		text  string
		kind  emoji.Kind
		err   error
	}{
		{"single", "\U0001F600", "\U0001F600", emoji.Single, nil},
		{"presentation", "\u2764\uFE0F", "\u2764\uFE0F", emoji.Presentation, nil},
		{"modified", "\U0001F44D\U0001F3FD", "\U0001F44D\U0001F3FD", emoji.Modified, nil},
		{"joined", "\U0001F468\u200D\U0001F469\u200D\U0001F467", "\U0001F468\u200D\U0001F469\u200D\U0001F467", emoji.Joined, nil},
		{"flag", "\U0001F1EF\U0001F1F5", "\U0001F1EF\U0001F1F5", emoji.Flag, nil},
		{"keycap", "1\uFE0F\u20E3", "1\uFE0F\u20E3", emoji.Keycap, nil},
		{"empty", "", "", 0, ErrEmptyInput},
		{"letter", "a", "", 0, ErrNotEmoji},
		{"trailing text", "\U0001F600!", "", 0, ErrNotEmoji},
		{"text default alone", "\u2764", "", 0, ErrNotEmoji},
		{"text presentation", "\u2764\uFE0E", "", 0, ErrNotEmoji},
		{"non-emoji dingbat", "\u2701", "", 0, ErrNotEmoji},
		{"white flag alone", "\U0001F3F3", "", 0, ErrNotEmoji},
		{"white flag presentation", "\U0001F3F3\uFE0F", "\U0001F3F3\uFE0F", emoji.Presentation, nil},
		{"two emoji", "\U0001F600\U0001F601", "", 0, ErrMultipleGlyphs},
		{"two flags", "\U0001F1EF\U0001F1F5\U0001F1FA\U0001F1F8", "", 0, ErrMultipleGlyphs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := Validate(tt.input)
			if !errors.Is(err, tt.err) {
				t.Fatalf("Validate(%q) error = %v, want %v", tt.input, err, tt.err)
			}
			if tt.err != nil {
				return
			}
			if seq.Text != tt.text {
				t.Errorf("Text = %q, want %q", seq.Text, tt.text)
			}
			if seq.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", seq.Kind, tt.kind)
			}
		})
	}
}

func TestValidateSymbols(t *testing.T) {
	if _, err := Validate("\u2126"); !errors.Is(err, ErrNotEmoji) {
		t.Errorf("Validate(ohm) error = %v, want ErrNotEmoji", err)
	}
	seq, err := Validate("\u00A9\uFE0F")
	if err != nil {
		t.Fatalf("Validate(copyright) error = %v", err)
	}
	if seq.Base != 0xA9 {
		t.Errorf("Base = %U, want U+00A9", seq.Base)
	}
}

func TestFunc(t *testing.T) {
	want := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	var got string
	src := Func(func(_ context.Context, input string) (image.Image, error) {
		got = input
		return want, nil
	})

	var s Source = src
	img, err := s.Glyph(context.Background(), "\U0001F600")
	if err != nil {
		t.Fatalf("Glyph() error = %v", err)
	}
	if img != want {
		t.Error("Glyph() did not return the function's image")
	}
	if got != "\U0001F600" {
		t.Errorf("input = %q", got)
	}
}
