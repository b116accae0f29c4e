package emoji

import (
	"encoding/binary"
	"errors"
	"image"

	intImage "github.com/gogpu/memoji/internal/image"
)

// Bitmap table errors.
var (
	// ErrNoTable indicates the font lacks the requested bitmap table.
	ErrNoTable = errors.New("emoji: font has no bitmap table")

	// ErrMalformed indicates bitmap table data is truncated or inconsistent.
	ErrMalformed = errors.New("emoji: malformed bitmap table")

	// ErrNoBitmap indicates the glyph has no bitmap in the selected strike.
	ErrNoBitmap = errors.New("emoji: glyph has no bitmap")

	// ErrUnsupportedFormat indicates bitmap data in a format Decode cannot read.
	ErrUnsupportedFormat = errors.New("emoji: unsupported bitmap format")
)

// Format is the encoding of embedded bitmap data.
type Format int

const (
	PNG Format = iota
	JPEG
	TIFF
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	case TIFF:
		return "TIFF"
	default:
		return "Unknown"
	}
}

// Bitmap is one embedded glyph image.
type Bitmap struct {
	GlyphID uint16
	Format  Format
	Data    []byte

	// PPEM is the pixels-per-em of the strike the bitmap came from.
	PPEM uint16

	// Width and Height are the pixel size recorded in the table; 0 when the
	// table does not store metrics (sbix).
	Width, Height int

	// BearingX and BearingY position the bitmap relative to the glyph origin.
	BearingX, BearingY int
}

// Decode decodes the bitmap data.
func (b *Bitmap) Decode() (image.Image, error) {
	switch b.Format {
	case PNG, JPEG, TIFF:
		img, _, err := intImage.DecodeBytes(b.Data)
		return img, err
	default:
		return nil, ErrUnsupportedFormat
	}
}

// Strikes is a color bitmap table holding glyph images at fixed sizes.
type Strikes interface {
	// PPEMs lists the available strike sizes.
	PPEMs() []uint16

	// Glyph returns the bitmap of gid from the strike that best serves ppem:
	// the smallest strike at least ppem wide, or the largest one.
	Glyph(gid, ppem uint16) (*Bitmap, error)
}

// bestStrike picks the index of the smallest size >= ppem, or the largest
// size when none is big enough. It returns -1 for an empty list.
func bestStrike(sizes []uint16, ppem uint16) int {
	best, largest := -1, -1
	for i, s := range sizes {
		if largest < 0 || s > sizes[largest] {
			largest = i
		}
		if s >= ppem && (best < 0 || s < sizes[best]) {
			best = i
		}
	}
	if best < 0 {
		return largest
	}
	return best
}

// reader reads big-endian values at absolute offsets with bounds checks.
type reader []byte

func (r reader) u8(off int) (uint8, bool) {
	if off < 0 || off >= len(r) {
		return 0, false
	}
	return r[off], true
}

func (r reader) u16(off int) (uint16, bool) {
	if off < 0 || off+2 > len(r) {
		return 0, false
	}
	return binary.BigEndian.Uint16(r[off:]), true
}

func (r reader) u32(off int) (uint32, bool) {
	if off < 0 || off+4 > len(r) {
		return 0, false
	}
	return binary.BigEndian.Uint32(r[off:]), true
}

func (r reader) slice(off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off+n > len(r) {
		return nil, false
	}
	return r[off : off+n], true
}

// Sbix reads the Apple sbix table.
type Sbix struct {
	data      reader
	numGlyphs int
	strikes   []sbixStrike
}

type sbixStrike struct {
	ppem   uint16
	offset int
}

// NewSbix parses an sbix table. numGlyphs comes from the maxp table.
func NewSbix(data []byte, numGlyphs int) (*Sbix, error) {
	if len(data) == 0 {
		return nil, ErrNoTable
	}
	r := reader(data)
	version, ok := r.u16(0)
	if !ok || version != 1 {
		return nil, ErrMalformed
	}
	count, ok := r.u32(4)
	if !ok || int(count) > len(data)/4 {
		return nil, ErrMalformed
	}

	t := &Sbix{data: r, numGlyphs: numGlyphs, strikes: make([]sbixStrike, count)}
	for i := range t.strikes {
		off, _ := r.u32(8 + 4*i)
		ppem, ok := r.u16(int(off))
		// Each strike holds numGlyphs+1 glyph data offsets after its header.
		if !ok || int(off)+4+(numGlyphs+1)*4 > len(data) {
			return nil, ErrMalformed
		}
		t.strikes[i] = sbixStrike{ppem: ppem, offset: int(off)}
	}
	return t, nil
}

// PPEMs implements Strikes.
func (t *Sbix) PPEMs() []uint16 {
	sizes := make([]uint16, len(t.strikes))
	for i, s := range t.strikes {
		sizes[i] = s.ppem
	}
	return sizes
}

// Glyph implements Strikes.
func (t *Sbix) Glyph(gid, ppem uint16) (*Bitmap, error) {
	if int(gid) >= t.numGlyphs {
		return nil, ErrNoBitmap
	}
	i := bestStrike(t.PPEMs(), ppem)
	if i < 0 {
		return nil, ErrNoBitmap
	}
	s := t.strikes[i]

	// Follow 'dupe' records to the glyph they reference.
	for range 4 {
		start, _ := t.data.u32(s.offset + 4 + 4*int(gid))
		end, _ := t.data.u32(s.offset + 4 + 4*int(gid+1))
		if end <= start {
			return nil, ErrNoBitmap
		}
		rec, ok := t.data.slice(s.offset+int(start), int(end-start))
		if !ok || len(rec) < 8 {
			return nil, ErrMalformed
		}
		payload := rec[8:]
		b := &Bitmap{
			GlyphID:  gid,
			PPEM:     s.ppem,
			Data:     payload,
			BearingX: int(int16(binary.BigEndian.Uint16(rec[0:]))),
			BearingY: int(int16(binary.BigEndian.Uint16(rec[2:]))),
		}
		switch string(rec[4:8]) {
		case "png ":
			b.Format = PNG
		case "jpg ":
			b.Format = JPEG
		case "tiff":
			b.Format = TIFF
		case "dupe":
			if len(payload) < 2 {
				return nil, ErrMalformed
			}
			gid = binary.BigEndian.Uint16(payload)
			if int(gid) >= t.numGlyphs {
				return nil, ErrMalformed
			}
			continue
		default:
			return nil, ErrUnsupportedFormat
		}
		return b, nil
	}
	return nil, ErrMalformed
}
