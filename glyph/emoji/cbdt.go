package emoji

import "fmt"

// CBDT reads the Google CBDT/CBLC color bitmap tables. CBLC locates each
// glyph's record in CBDT; CBDT holds the PNG data with its metrics.
type CBDT struct {
	cbdt    reader
	cblc    reader
	strikes []cblcStrike
}

// cblcStrike is one BitmapSize record of CBLC.
type cblcStrike struct {
	arrayOffset int
	numSubtable int
	first, last uint16
	ppem        uint16
}

// bitmapSizeLen is the size of a CBLC BitmapSize record.
const bitmapSizeLen = 48

// NewCBDT parses the CBLC index and keeps both tables for lookups.
func NewCBDT(cbdt, cblc []byte) (*CBDT, error) {
	if len(cbdt) == 0 || len(cblc) == 0 {
		return nil, ErrNoTable
	}
	r := reader(cblc)
	major, ok := r.u16(0)
	if !ok {
		return nil, ErrMalformed
	}
	if major != 2 && major != 3 {
		return nil, fmt.Errorf("%w: CBLC version %d", ErrMalformed, major)
	}
	count, ok := r.u32(4)
	if !ok || 8+int(count)*bitmapSizeLen > len(cblc) {
		return nil, ErrMalformed
	}

	t := &CBDT{cbdt: cbdt, cblc: r, strikes: make([]cblcStrike, count)}
	for i := range t.strikes {
		rec := 8 + i*bitmapSizeLen
		arr, _ := r.u32(rec)
		n, _ := r.u32(rec + 8)
		first, _ := r.u16(rec + 40)
		last, _ := r.u16(rec + 42)
		ppem, _ := r.u8(rec + 44)
		if int(arr)+int(n)*8 > len(cblc) {
			return nil, ErrMalformed
		}
		t.strikes[i] = cblcStrike{
			arrayOffset: int(arr),
			numSubtable: int(n),
			first:       first,
			last:        last,
			ppem:        uint16(ppem),
		}
	}
	return t, nil
}

// PPEMs implements Strikes.
func (t *CBDT) PPEMs() []uint16 {
	sizes := make([]uint16, len(t.strikes))
	for i, s := range t.strikes {
		sizes[i] = s.ppem
	}
	return sizes
}

// Glyph implements Strikes.
func (t *CBDT) Glyph(gid, ppem uint16) (*Bitmap, error) {
	i := bestStrike(t.PPEMs(), ppem)
	if i < 0 {
		return nil, ErrNoBitmap
	}
	s := t.strikes[i]
	if gid < s.first || gid > s.last {
		return nil, ErrNoBitmap
	}

	for j := range s.numSubtable {
		entry := s.arrayOffset + j*8
		first, _ := t.cblc.u16(entry)
		last, _ := t.cblc.u16(entry + 2)
		if gid < first || gid > last {
			continue
		}
		add, _ := t.cblc.u32(entry + 4)
		loc, err := t.locate(s.arrayOffset+int(add), gid, first)
		if err != nil {
			return nil, err
		}
		b, err := t.record(loc)
		if err != nil {
			return nil, err
		}
		b.GlyphID = gid
		b.PPEM = s.ppem
		return b, nil
	}
	return nil, ErrNoBitmap
}

// location is where a glyph's image record sits in CBDT.
type location struct {
	offset, size int
	imageFormat  uint16
	// metrics shared by all glyphs of the subtable (index formats 2 and 5).
	metrics []byte
}

// locate resolves gid through the index subtable at off.
func (t *CBDT) locate(off int, gid, first uint16) (location, error) {
	r := t.cblc
	indexFormat, ok1 := r.u16(off)
	imageFormat, ok2 := r.u16(off + 2)
	base, ok3 := r.u32(off + 4)
	if !ok1 || !ok2 || !ok3 {
		return location{}, ErrMalformed
	}
	loc := location{imageFormat: imageFormat}
	body := off + 8
	idx := int(gid - first)

	switch indexFormat {
	case 1: // u32 offsets, one per glyph plus end
		a, ok1 := r.u32(body + 4*idx)
		b, ok2 := r.u32(body + 4*(idx+1))
		if !ok1 || !ok2 || b < a {
			return loc, ErrMalformed
		}
		loc.offset, loc.size = int(base+a), int(b-a)
	case 3: // u16 offsets
		a, ok1 := r.u16(body + 2*idx)
		b, ok2 := r.u16(body + 2*(idx+1))
		if !ok1 || !ok2 || b < a {
			return loc, ErrMalformed
		}
		loc.offset, loc.size = int(base)+int(a), int(b-a)
	case 2: // constant size, shared metrics
		size, ok := r.u32(body)
		m, ok2 := r.slice(body+4, 8)
		if !ok || !ok2 {
			return loc, ErrMalformed
		}
		loc.offset, loc.size, loc.metrics = int(base)+idx*int(size), int(size), m
	case 4: // sparse (gid, offset) pairs
		n, ok := r.u32(body)
		if !ok || body+4+4*(int(n)+1) > len(r) {
			return loc, ErrMalformed
		}
		for k := range int(n) {
			p := body + 4 + 4*k
			g, _ := r.u16(p)
			if g != gid {
				continue
			}
			a, ok1 := r.u16(p + 2)
			b, ok2 := r.u16(p + 6)
			if !ok1 || !ok2 || b < a {
				return loc, ErrMalformed
			}
			loc.offset, loc.size = int(base)+int(a), int(b-a)
			return loc, nil
		}
		return loc, ErrNoBitmap
	case 5: // sparse glyph ids, constant size
		size, ok1 := r.u32(body)
		m, ok2 := r.slice(body+4, 8)
		n, ok3 := r.u32(body + 12)
		if !ok1 || !ok2 || !ok3 {
			return loc, ErrMalformed
		}
		for k := range int(n) {
			g, ok := r.u16(body + 16 + 2*k)
			if !ok {
				return loc, ErrMalformed
			}
			if g == gid {
				loc.offset, loc.size, loc.metrics = int(base)+k*int(size), int(size), m
				return loc, nil
			}
		}
		return loc, ErrNoBitmap
	default:
		return loc, fmt.Errorf("%w: index format %d", ErrUnsupportedFormat, indexFormat)
	}
	return loc, nil
}

// record decodes the CBDT image record at loc.
func (t *CBDT) record(loc location) (*Bitmap, error) {
	if loc.size == 0 {
		return nil, ErrNoBitmap
	}
	rec, ok := t.cbdt.slice(loc.offset, loc.size)
	if !ok {
		return nil, ErrMalformed
	}

	var metrics []byte
	var dataAt int
	switch loc.imageFormat {
	case 17: // small metrics: height, width, bearingX, bearingY, advance
		if len(rec) < 9 {
			return nil, ErrMalformed
		}
		metrics, dataAt = rec[:5], 5
	case 18: // big metrics: height, width, horiBearingX, horiBearingY, ...
		if len(rec) < 12 {
			return nil, ErrMalformed
		}
		metrics, dataAt = rec[:8], 8
	case 19: // metrics live in CBLC
		metrics, dataAt = loc.metrics, 0
	default:
		return nil, fmt.Errorf("%w: image format %d", ErrUnsupportedFormat, loc.imageFormat)
	}

	n, ok := reader(rec).u32(dataAt)
	if !ok || dataAt+4+int(n) > len(rec) {
		return nil, ErrMalformed
	}
	b := &Bitmap{Format: PNG, Data: rec[dataAt+4 : dataAt+4+int(n)]}
	if len(metrics) >= 4 {
		b.Height = int(metrics[0])
		b.Width = int(metrics[1])
		b.BearingX = int(int8(metrics[2]))
		b.BearingY = int(int8(metrics[3]))
	}
	return b, nil
}
