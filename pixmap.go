package memoji

import (
	"image"
	"image/color"

	intImage "github.com/gogpu/memoji/internal/image"
)

// Pixmap represents a rectangular pixel buffer.
// Pixels are stored top row first as premultiplied RGBA, 4 bytes per pixel.
type Pixmap struct {
	width  int
	height int
	data   []uint8
}

// newPooledPixmap acquires the pixel storage from the shared buffer pool.
func newPooledPixmap(width, height, maxPixels int) (*Pixmap, error) {
	data, err := intImage.GetFromDefault(width, height, maxPixels)
	if err != nil {
		return nil, err
	}
	return &Pixmap{width: width, height: height, data: data}, nil
}

// release hands the storage back to the pool. The pixmap is unusable afterwards.
func (p *Pixmap) release() {
	intImage.PutToDefault(p.data)
	p.data = nil
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Data returns the raw pixel data (premultiplied RGBA).
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// offset returns the byte offset of (x, y), or -1 when out of bounds.
func (p *Pixmap) offset(x, y int) int {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return -1
	}
	return (y*p.width + x) * 4
}

// SetPixelPremul stores premultiplied channel values at (x, y).
// Out-of-bounds coordinates are ignored.
func (p *Pixmap) SetPixelPremul(x, y int, r, g, b, a uint8) {
	i := p.offset(x, y)
	if i < 0 {
		return
	}
	p.data[i+0] = r
	p.data[i+1] = g
	p.data[i+2] = b
	p.data[i+3] = a
}

// Fill sets every pixel to the given premultiplied value.
func (p *Pixmap) Fill(r, g, b, a uint8) {
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// ToImage copies the pixmap into a new image.RGBA.
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	i := p.offset(x, y)
	if i < 0 {
		return color.RGBA{}
	}
	return color.RGBA{R: p.data[i], G: p.data[i+1], B: p.data[i+2], A: p.data[i+3]}
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.RGBAModel
}
