package memoji

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	co := defaultContextOptions()
	if co.opaque || co.maxPixels != DefaultMaxPixels {
		t.Errorf("context defaults = %+v", co)
	}
	cp := defaultCompositeOptions()
	if !cp.opaque || cp.maxPixels != DefaultMaxPixels || cp.factory == nil {
		t.Errorf("composite defaults = %+v", cp)
	}
}

func TestWithPixelBudget(t *testing.T) {
	if _, err := NewContext(10, 10, WithPixelBudget(99)); !errors.Is(err, ErrContextUnavailable) {
		t.Errorf("over budget: error = %v, want ErrContextUnavailable", err)
	}
	dc, err := NewContext(10, 10, WithPixelBudget(100))
	if err != nil {
		t.Fatalf("at budget: error = %v", err)
	}
	_ = dc.Close()
}

func TestWithMaxPixels(t *testing.T) {
	src := newGlyph(8, 8, color.NRGBA{R: 255, A: 255})
	out, err := CompositeE(src, Blue, WithMaxPixels(63))
	if !errors.Is(err, ErrContextUnavailable) {
		t.Fatalf("error = %v, want ErrContextUnavailable", err)
	}
	if out != image.Image(src) {
		t.Error("fallback did not return the source")
	}
}

func TestWithContextFactoryNilRestoresDefault(t *testing.T) {
	src := newGlyph(2, 2, color.NRGBA{})
	out, err := CompositeE(src, Red, WithContextFactory(nil))
	if err != nil {
		t.Fatalf("CompositeE() error = %v", err)
	}
	if got := rgba8(out, 0, 0); got != [4]uint8{255, 0, 0, 255} {
		t.Errorf("pixel = %v, want red", got)
	}
}
