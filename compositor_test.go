package memoji

import (
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"
)

// newGlyph returns a w×h NRGBA image filled with c.
func newGlyph(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// randomOpaque returns a w×h image with random opaque pixels.
func randomOpaque(w, h int, seed int64) *image.NRGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(rng.Intn(256))
		img.Pix[i+1] = uint8(rng.Intn(256))
		img.Pix[i+2] = uint8(rng.Intn(256))
		img.Pix[i+3] = 255
	}
	return img
}

// rgba8 returns the 8-bit premultiplied channels of img at (x, y).
func rgba8(img image.Image, x, y int) [4]uint8 {
	r, g, b, a := img.At(x, y).RGBA()
	return [4]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func assertPixelsEqual(t *testing.T, got, want image.Image) {
	t.Helper()
	gb, wb := got.Bounds(), want.Bounds()
	if gb.Size() != wb.Size() {
		t.Fatalf("size = %v, want %v", gb.Size(), wb.Size())
	}
	for y := range wb.Dy() {
		for x := range wb.Dx() {
			g := rgba8(got, gb.Min.X+x, gb.Min.Y+y)
			w := rgba8(want, wb.Min.X+x, wb.Min.Y+y)
			if g != w {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, g, w)
			}
		}
	}
}

func TestComposite_OpaqueSourceOccludesBackground(t *testing.T) {
	backgrounds := []RGBA{Blue, White, Gray, RGBA2(1, 0, 0, 0.5)}
	for i, bg := range backgrounds {
		src := randomOpaque(17, 9, int64(i))
		t.Run(bg.String(), func(t *testing.T) {
			out := Composite(src, bg)
			assertPixelsEqual(t, out, src)
		})
	}
}

func TestComposite_TransparentSourceYieldsBackground(t *testing.T) {
	src := newGlyph(8, 6, color.NRGBA{})
	bg := Hex("#336699")

	out := Composite(src, bg)
	want := [4]uint8{0x33, 0x66, 0x99, 0xff}
	for y := range 6 {
		for x := range 8 {
			if got := rgba8(out, x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestComposite_PreservesDimensions(t *testing.T) {
	sizes := []image.Point{{1, 1}, {3, 7}, {64, 2}, {100, 100}}
	for _, sz := range sizes {
		src := newGlyph(sz.X, sz.Y, color.NRGBA{R: 10, A: 100})
		out := Composite(src, Gray)
		if got := out.Bounds().Size(); got != sz {
			t.Errorf("Composite(%v) size = %v", sz, got)
		}
	}
}

func TestComposite_OffsetBounds(t *testing.T) {
	full := newGlyph(20, 20, color.NRGBA{})
	full.SetNRGBA(5, 5, color.NRGBA{G: 255, A: 255})
	sub := full.SubImage(image.Rect(5, 5, 15, 10))

	out := Composite(sub, Black)
	if got := out.Bounds(); got != image.Rect(0, 0, 10, 5) {
		t.Fatalf("bounds = %v, want (0,0)-(10,5)", got)
	}
	if got := rgba8(out, 0, 0); got != [4]uint8{0, 255, 0, 255} {
		t.Errorf("top-left = %v, want green", got)
	}
}

func TestComposite_AlreadyOpaqueIsUnchanged(t *testing.T) {
	src := newGlyph(12, 12, color.NRGBA{})
	src.SetNRGBA(3, 4, color.NRGBA{R: 200, G: 100, B: 50, A: 128})
	bg := Hex("#FFCC00")

	once := Composite(src, bg)
	twice := Composite(once, bg)
	assertPixelsEqual(t, twice, once)
}

func TestComposite_AlphaBlending(t *testing.T) {
	// 50% red over opaque blue.
	src := newGlyph(1, 1, color.NRGBA{R: 255, A: 128})
	out := Composite(src, Blue)

	got := rgba8(out, 0, 0)
	want := [4]uint8{128, 0, 127, 255}
	if got != want {
		t.Errorf("blended pixel = %v, want %v", got, want)
	}
}

func TestComposite_NotOpaque(t *testing.T) {
	src := newGlyph(2, 1, color.NRGBA{})
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})

	out := Composite(src, RGBA2(0, 0, 1, 0.5), WithOpaque(false))

	if got := rgba8(out, 0, 0); got != [4]uint8{255, 0, 0, 255} {
		t.Errorf("opaque glyph pixel = %v, want red", got)
	}
	if got := rgba8(out, 1, 0); got != [4]uint8{0, 0, 128, 128} {
		t.Errorf("background pixel = %v, want half-transparent blue", got)
	}
}

func TestComposite_OpaqueForcesAlpha(t *testing.T) {
	src := newGlyph(4, 4, color.NRGBA{G: 255, A: 60})
	out := Composite(src, RGBA2(1, 1, 1, 0.25))
	for y := range 4 {
		for x := range 4 {
			if a := rgba8(out, x, y)[3]; a != 255 {
				t.Fatalf("alpha at (%d,%d) = %d, want 255", x, y, a)
			}
		}
	}
}

func TestComposite_Orientation(t *testing.T) {
	src := newGlyph(5, 4, color.NRGBA{})
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})

	out := Composite(src, White)

	if got := rgba8(out, 0, 0); got != [4]uint8{255, 0, 0, 255} {
		t.Errorf("top-left = %v, want red marker", got)
	}
	for _, p := range []image.Point{{0, 3}, {4, 0}, {4, 3}} {
		if got := rgba8(out, p.X, p.Y); got != [4]uint8{255, 255, 255, 255} {
			t.Errorf("pixel %v = %v, want white", p, got)
		}
	}
}

func TestComposite_RedSquareOverBlue(t *testing.T) {
	src := newGlyph(100, 100, color.NRGBA{})
	for y := range 10 {
		for x := range 10 {
			src.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
		}
	}

	out := Composite(src, Blue)

	if got := out.Bounds().Size(); got != image.Pt(100, 100) {
		t.Fatalf("size = %v, want 100x100", got)
	}
	red := [4]uint8{255, 0, 0, 255}
	blue := [4]uint8{0, 0, 255, 255}
	for y := range 100 {
		for x := range 100 {
			want := blue
			if x < 10 && y < 10 {
				want = red
			}
			if got := rgba8(out, x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestComposite_ContextFailureReturnsSource(t *testing.T) {
	errExhausted := errors.New("out of graphics memory")
	src := newGlyph(10, 10, color.NRGBA{R: 1, A: 2})

	factory := func(int, int, ...ContextOption) (*Context, error) {
		return nil, errExhausted
	}

	out := Composite(src, Blue, WithContextFactory(factory))
	if out != image.Image(src) {
		t.Fatalf("Composite returned %T, want the source image", out)
	}

	_, err := CompositeE(src, Blue, WithContextFactory(factory))
	if !errors.Is(err, ErrContextUnavailable) || !errors.Is(err, errExhausted) {
		t.Errorf("CompositeE error = %v, want ErrContextUnavailable wrapping the cause", err)
	}
}

func TestComposite_PixelBudgetExceeded(t *testing.T) {
	src := newGlyph(50, 50, color.NRGBA{})
	out, err := CompositeE(src, Blue, WithMaxPixels(100))
	if !errors.Is(err, ErrContextUnavailable) {
		t.Fatalf("error = %v, want ErrContextUnavailable", err)
	}
	if out != image.Image(src) {
		t.Error("fallback did not return the source")
	}
}

func TestComposite_UnboundedSourceWithoutBudget(t *testing.T) {
	src := image.NewUniform(color.NRGBA{R: 255, A: 128})

	out, err := CompositeE(src, Blue, WithMaxPixels(0))
	if !errors.Is(err, ErrContextUnavailable) {
		t.Fatalf("error = %v, want ErrContextUnavailable", err)
	}
	if out != image.Image(src) {
		t.Error("fallback did not return the source")
	}

	if out := Composite(src, Blue, WithMaxPixels(0)); out != image.Image(src) {
		t.Error("Composite did not fall back to the source")
	}
}

func TestComposite_NoRasterData(t *testing.T) {
	if out := Composite(nil, Blue); out != nil {
		t.Errorf("Composite(nil) = %v, want nil", out)
	}

	empty := image.NewNRGBA(image.Rect(0, 0, 0, 0))
	out, err := CompositeE(empty, Blue)
	if !errors.Is(err, ErrNoRasterData) {
		t.Errorf("error = %v, want ErrNoRasterData", err)
	}
	if out != image.Image(empty) {
		t.Error("fallback did not return the source")
	}
}

func TestComposite_ReleasesContext(t *testing.T) {
	var created []*Context
	factory := func(w, h int, opts ...ContextOption) (*Context, error) {
		dc, err := NewContext(w, h, opts...)
		created = append(created, dc)
		return dc, err
	}

	Composite(newGlyph(3, 3, color.NRGBA{}), Blue, WithContextFactory(factory))

	if len(created) != 1 {
		t.Fatalf("factory called %d times, want 1", len(created))
	}
	if !created[0].closed {
		t.Error("drawing context was not closed")
	}
}

func TestComposite_DoesNotMutateSource(t *testing.T) {
	src := newGlyph(4, 4, color.NRGBA{R: 9, G: 8, B: 7, A: 6})
	before := append([]uint8(nil), src.Pix...)

	Composite(src, Red)

	for i := range before {
		if src.Pix[i] != before[i] {
			t.Fatalf("source byte %d changed from %d to %d", i, before[i], src.Pix[i])
		}
	}
}
