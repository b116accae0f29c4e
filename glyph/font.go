package glyph

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"sync"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	gtopentype "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/draw"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/memoji/glyph/emoji"
	"github.com/gogpu/memoji/internal/cache"
)

// ErrNoGlyphData is returned by NewFontSource for fonts with neither color
// bitmaps nor outlines.
var ErrNoGlyphData = errors.New("glyph: font has no color bitmaps or outlines")

// FontSource renders emoji from a font.
//
// The input is shaped with HarfBuzz so that ZWJ, flag, keycap and skin tone
// sequences resolve to the font's ligature glyph. The glyph's color bitmap
// (CBDT/CBLC or sbix) is scaled to fit a size×size canvas. Fonts or glyphs
// without color bitmaps are rendered from their outline as a black glyph.
//
// FontSource is safe for concurrent use.
type FontSource struct {
	font    *gtfont.Font
	strikes emoji.Strikes // nil without color bitmaps
	outline *sfnt.Font    // nil without outlines

	size   int
	logger *slog.Logger
	cache  *cache.Sharded[renderKey, image.Image] // nil when disabled

	shapers sync.Pool // *shaping.HarfbuzzShaper
	buffers sync.Pool // *sfnt.Buffer
}

type renderKey struct {
	text string
	size int
}

func hashRenderKey(k renderKey) uint64 {
	return cache.StringHasher(k.text)*31 + uint64(k.size)
}

// LoadFont reads a font file and returns a FontSource for it.
func LoadFont(path string, opts ...FontOption) (*FontSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("glyph: read font: %w", err)
	}
	return NewFontSource(data, opts...)
}

// NewFontSource parses font data. The data must not be modified afterwards.
func NewFontSource(data []byte, opts ...FontOption) (*FontSource, error) {
	o := defaultFontOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ld, err := gtopentype.NewLoader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("glyph: parse font: %w", err)
	}
	f, err := gtfont.NewFont(ld)
	if err != nil {
		return nil, fmt.Errorf("glyph: parse font: %w", err)
	}

	s := &FontSource{
		font:   f,
		size:   o.size,
		logger: o.logger,
	}
	s.shapers.New = func() any { return &shaping.HarfbuzzShaper{} }
	s.buffers.New = func() any { return &sfnt.Buffer{} }

	strikes, err := loadStrikes(ld)
	switch {
	case err == nil:
		s.strikes = strikes
		s.logger.Debug("glyph: color bitmaps", "strikes", strikes.PPEMs())
	case !errors.Is(err, emoji.ErrNoTable):
		s.logger.Warn("glyph: ignoring color bitmap table", "err", err)
	}

	// Color-only fonts often fail outline parsing; that is not an error
	// as long as the bitmaps are usable.
	if outline, err := opentype.Parse(data); err == nil {
		s.outline = outline
	} else {
		s.logger.Debug("glyph: no outlines", "err", err)
	}

	if s.strikes == nil && s.outline == nil {
		return nil, ErrNoGlyphData
	}
	if o.cacheSize > 0 {
		s.cache = cache.NewSharded[renderKey, image.Image](cache.PerShard(o.cacheSize), hashRenderKey)
	}
	return s, nil
}

// loadStrikes reads the CBDT/CBLC or sbix table of the font.
func loadStrikes(ld *gtopentype.Loader) (emoji.Strikes, error) {
	if cbdt, err := ld.RawTable(gtopentype.MustNewTag("CBDT")); err == nil {
		cblc, err := ld.RawTable(gtopentype.MustNewTag("CBLC"))
		if err != nil {
			return nil, fmt.Errorf("%w: CBDT without CBLC", emoji.ErrMalformed)
		}
		return emoji.NewCBDT(cbdt, cblc)
	}
	if sbix, err := ld.RawTable(gtopentype.MustNewTag("sbix")); err == nil {
		maxp, err := ld.RawTable(gtopentype.MustNewTag("maxp"))
		if err != nil || len(maxp) < 6 {
			return nil, fmt.Errorf("%w: sbix without maxp", emoji.ErrMalformed)
		}
		return emoji.NewSbix(sbix, int(binary.BigEndian.Uint16(maxp[4:6])))
	}
	return nil, emoji.ErrNoTable
}

// Size returns the width and height of rendered glyphs.
func (s *FontSource) Size() int {
	return s.size
}

// HasColor reports whether the font carries color bitmaps.
func (s *FontSource) HasColor() bool {
	return s.strikes != nil
}

// Glyph implements Source. The returned image must not be modified; it may
// be shared with later calls for the same input.
func (s *FontSource) Glyph(ctx context.Context, input string) (image.Image, error) {
	seq, err := Validate(input)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := renderKey{text: seq.Text, size: s.size}
	if s.cache == nil {
		return s.render(key)
	}
	return s.cache.GetOrLoad(key, func() (image.Image, error) {
		return s.render(key)
	})
}

// CacheStats returns the render cache counters.
func (s *FontSource) CacheStats() cache.Stats {
	if s.cache == nil {
		return cache.Stats{}
	}
	return s.cache.Stats()
}

func (s *FontSource) render(key renderKey) (image.Image, error) {
	gid, ok := s.glyphID(key.text)
	if !ok {
		return nil, fmt.Errorf("%w: %q not in font", ErrNotFound, key.text)
	}

	if s.strikes != nil {
		img, err := s.renderBitmap(gid, key.size)
		if err == nil {
			return img, nil
		}
		if !errors.Is(err, emoji.ErrNoBitmap) || s.outline == nil {
			return nil, fmt.Errorf("glyph: %q: %w", key.text, err)
		}
	}
	if s.outline == nil {
		return nil, fmt.Errorf("%w: %q has no bitmap", ErrNotFound, key.text)
	}
	return s.renderOutline(gid, key.size)
}

// glyphID shapes text and returns the glyph that represents it.
func (s *FontSource) glyphID(text string) (uint16, bool) {
	runes := []rune(text)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      gtfont.NewFace(s.font),
		Size:      fixed.I(s.size),
		Script:    language.LookupScript(runes[0]),
		Language:  language.NewLanguage("en"),
	}

	hb := s.shapers.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	s.shapers.Put(hb)

	var found []uint16
	for _, g := range out.Glyphs {
		if g.GlyphID != 0 {
			found = append(found, uint16(g.GlyphID))
		}
	}
	if len(found) == 0 {
		return 0, false
	}
	if len(found) > 1 {
		// The font has no ligature for the sequence; show its first part.
		s.logger.Debug("glyph: sequence not ligated", "text", text, "glyphs", len(found))
	}
	return found[0], true
}

// renderBitmap scales the color bitmap of gid to fit a size×size canvas.
func (s *FontSource) renderBitmap(gid uint16, size int) (image.Image, error) {
	b, err := s.strikes.Glyph(gid, uint16(min(size, 0xFFFF)))
	if err != nil {
		return nil, err
	}
	src, err := b.Decode()
	if err != nil {
		return nil, fmt.Errorf("glyph: decode %s bitmap: %w", b.Format, err)
	}
	s.logger.Debug("glyph: bitmap", "gid", gid, "ppem", b.PPEM, "format", b.Format, "bounds", src.Bounds())

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, fit(src.Bounds(), size), src, src.Bounds(), draw.Over, nil)
	return dst, nil
}

// fit returns the largest rectangle with the aspect ratio of r centered in
// a size×size square.
func fit(r image.Rectangle, size int) image.Rectangle {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return image.Rectangle{}
	}
	dw, dh := size, size
	if w > h {
		dh = max(1, h*size/w)
	} else if h > w {
		dw = max(1, w*size/h)
	}
	x0, y0 := (size-dw)/2, (size-dh)/2
	return image.Rect(x0, y0, x0+dw, y0+dh)
}

// renderOutline rasterizes the outline of gid as a black glyph centered in
// a size×size canvas.
func (s *FontSource) renderOutline(gid uint16, size int) (image.Image, error) {
	buf := s.buffers.Get().(*sfnt.Buffer)
	defer s.buffers.Put(buf)

	segs, err := s.outline.LoadGlyph(buf, sfnt.GlyphIndex(gid), fixed.I(size), nil)
	if err != nil {
		return nil, fmt.Errorf("glyph: load outline %d: %w", gid, err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	if len(segs) == 0 {
		return dst, nil
	}

	// Segments are y-down relative to the glyph origin. Shift the bounds
	// center onto the canvas center.
	bounds := segs.Bounds()
	s.logger.Debug("glyph: outline", "gid", gid, "segments", len(segs))
	dx := float32(size)/2 - float32(bounds.Min.X+bounds.Max.X)/128
	dy := float32(size)/2 - float32(bounds.Min.Y+bounds.Max.Y)/128
	pt := func(p fixed.Point26_6) (float32, float32) {
		return float32(p.X)/64 + dx, float32(p.Y)/64 + dy
	}

	var r vector.Rasterizer
	r.Reset(size, size)
	r.DrawOp = draw.Src
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			r.MoveTo(pt(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			r.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			x1, y1 := pt(seg.Args[0])
			x2, y2 := pt(seg.Args[1])
			r.QuadTo(x1, y1, x2, y2)
		case sfnt.SegmentOpCubeTo:
			x1, y1 := pt(seg.Args[0])
			x2, y2 := pt(seg.Args[1])
			x3, y3 := pt(seg.Args[2])
			r.CubeTo(x1, y1, x2, y2, x3, y3)
		}
	}
	r.ClosePath()
	r.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{})
	return dst, nil
}
