package memoji

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"math"

	"github.com/gogpu/memoji/internal/blend"
)

// Context is a scoped drawing context over a pooled pixel buffer.
//
// Device space follows the PDF/CoreGraphics imaging model: the origin is the
// lower-left corner of the canvas and y grows upwards. Pixels are stored top
// row first, so device row y covers storage row height-1-y. DrawImage places
// an image's first stored row at the lowest y of its destination rectangle;
// drawing an image upright therefore needs a vertical flip (see InvertY).
//
// A Context must be closed to return its buffer to the pool. It is not safe
// for concurrent use.
type Context struct {
	width  int
	height int
	pixmap *Pixmap

	fill    RGBA
	op      Operator
	blendFn blend.Func
	matrix  Matrix
	stack   []Matrix

	closed bool
}

// Ensure Context implements io.Closer
var _ io.Closer = (*Context)(nil)

// NewContext acquires a drawing context with the given canvas size.
// It fails with ErrContextUnavailable when the size is not positive or the
// buffer cannot be allocated within the pixel budget.
func NewContext(width, height int, opts ...ContextOption) (*Context, error) {
	options := defaultContextOptions()
	for _, opt := range opts {
		opt(&options)
	}

	pm, err := newPooledPixmap(width, height, options.maxPixels)
	if err != nil {
		return nil, fmt.Errorf("%w: %dx%d: %w", ErrContextUnavailable, width, height, err)
	}
	if options.opaque {
		pm.Fill(0, 0, 0, 255)
	}

	Logger().Debug("memoji: context acquired", "width", width, "height", height, "opaque", options.opaque)

	return &Context{
		width:   width,
		height:  height,
		pixmap:  pm,
		fill:    Black,
		op:      OpSourceOver,
		blendFn: blend.For(blend.SourceOver),
		matrix:  Identity(),
		stack:   make([]Matrix, 0, 4),
	}, nil
}

// Close releases the pixel buffer back to the pool.
// Close is idempotent - multiple calls are safe.
// Implements io.Closer.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.pixmap.release()
	c.stack = nil
	return nil
}

// Width returns the canvas width in pixels.
func (c *Context) Width() int {
	return c.width
}

// Height returns the canvas height in pixels.
func (c *Context) Height() int {
	return c.height
}

// Image returns a copy of the canvas. The copy stays valid after Close.
// It returns nil once the context is closed.
func (c *Context) Image() *image.RGBA {
	if c.closed {
		return nil
	}
	return c.pixmap.ToImage()
}

// SetFillColor sets the color used by FillRect.
func (c *Context) SetFillColor(col RGBA) {
	c.fill = col
}

// Operator is a Porter-Duff compositing operator.
type Operator uint8

const (
	// OpSourceOver draws the source over the canvas. It is the default.
	OpSourceOver Operator = iota

	// OpSource replaces the canvas with the source.
	OpSource

	// OpDestinationOver draws the source beneath the canvas.
	OpDestinationOver

	// OpClear clears the covered pixels.
	OpClear
)

var operatorModes = [...]blend.Mode{
	OpSourceOver:      blend.SourceOver,
	OpSource:          blend.Source,
	OpDestinationOver: blend.DestinationOver,
	OpClear:           blend.Clear,
}

// String returns the operator name.
func (op Operator) String() string {
	if int(op) < len(operatorModes) {
		return operatorModes[op].String()
	}
	return "Unknown"
}

// SetOperator sets the operator used by FillRect and DrawImage.
// Unknown operators select OpSourceOver.
func (c *Context) SetOperator(op Operator) {
	if int(op) >= len(operatorModes) {
		op = OpSourceOver
	}
	c.op = op
	c.blendFn = blend.For(operatorModes[op])
}

// compose writes the premultiplied source pixel into dst with the current
// operator.
func (c *Context) compose(dst []byte, sr, sg, sb, sa byte) {
	if c.op == OpSourceOver {
		blend.SourceOverPixel(dst, sr, sg, sb, sa)
		return
	}
	dst[0], dst[1], dst[2], dst[3] = c.blendFn(sr, sg, sb, sa, dst[0], dst[1], dst[2], dst[3])
}

// Push saves the current transformation matrix.
func (c *Context) Push() {
	c.stack = append(c.stack, c.matrix)
}

// Pop restores the transformation matrix saved by the matching Push.
func (c *Context) Pop() {
	if n := len(c.stack); n > 0 {
		c.matrix = c.stack[n-1]
		c.stack = c.stack[:n-1]
	}
}

// Concat prepends m to the current transformation: user coordinates are
// transformed by m first, then by the previous matrix.
func (c *Context) Concat(m Matrix) {
	c.matrix = c.matrix.Multiply(m)
}

// Translate moves the user-space origin by (x, y).
func (c *Context) Translate(x, y float64) {
	c.Concat(Translate(x, y))
}

// Scale scales user space by (x, y).
func (c *Context) Scale(x, y float64) {
	c.Concat(Scale(x, y))
}

// InvertY flips the Y axis so user space has its origin at the top-left
// corner with y growing downwards, matching stored image rows.
func (c *Context) InvertY() {
	c.Concat(FlipY(float64(c.height)))
}

// Transform returns the current transformation matrix.
func (c *Context) Transform() Matrix {
	return c.matrix
}

// FillRect fills the user-space rectangle with the fill color using the
// current operator.
func (c *Context) FillRect(x, y, w, h float64) error {
	if c.closed {
		return ErrContextClosed
	}
	sr, sg, sb, sa := c.fill.Premul8()
	if sa == 0 && c.op == OpSourceOver {
		return nil
	}

	c.scan(x, y, w, h, func(dst []byte, u, v float64) {
		if u >= 0 && u < 1 && v >= 0 && v < 1 {
			c.compose(dst, sr, sg, sb, sa)
		}
	})
	return nil
}

// DrawImage draws img into the user-space rectangle (x, y, w, h) using
// nearest-neighbour sampling and the current operator. The image's first
// stored row lands at the rectangle's lowest user-space y.
func (c *Context) DrawImage(img image.Image, x, y, w, h float64) error {
	if c.closed {
		return ErrContextClosed
	}
	if img == nil {
		return ErrNoRasterData
	}
	src := toPremultiplied(img)
	iw, ih := src.Rect.Dx(), src.Rect.Dy()
	if iw == 0 || ih == 0 {
		return ErrNoRasterData
	}

	c.scan(x, y, w, h, func(dst []byte, u, v float64) {
		ix := int(math.Floor(u * float64(iw)))
		iy := int(math.Floor(v * float64(ih)))
		if ix < 0 || ix >= iw || iy < 0 || iy >= ih {
			return
		}
		s := src.Pix[iy*src.Stride+ix*4:]
		c.compose(dst, s[0], s[1], s[2], s[3])
	})
	return nil
}

// scan visits every canvas pixel whose center may fall inside the
// transformed user-space rectangle. fn receives the pixel's 4-byte slot and
// the pixel center in rectangle-relative coordinates, where [0,1)x[0,1) is
// inside the rectangle.
func (c *Context) scan(x, y, w, h float64, fn func(dst []byte, u, v float64)) {
	if w == 0 || h == 0 {
		return
	}
	inv := c.matrix
	if !inv.IsIdentity() {
		var ok bool
		if inv, ok = c.matrix.Invert(); !ok {
			return
		}
	}

	// Device-space bounding box of the rectangle.
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range [4][2]float64{{x, y}, {x + w, y}, {x, y + h}, {x + w, y + h}} {
		dx, dy := c.matrix.TransformPoint(p[0], p[1])
		minX, maxX = math.Min(minX, dx), math.Max(maxX, dx)
		minY, maxY = math.Min(minY, dy), math.Max(maxY, dy)
	}
	x0 := max(0, int(math.Floor(minX)))
	x1 := min(c.width, int(math.Ceil(maxX)))
	y0 := max(0, int(math.Floor(minY)))
	y1 := min(c.height, int(math.Ceil(maxY)))

	data := c.pixmap.Data()
	for dy := y0; dy < y1; dy++ {
		row := c.height - 1 - dy
		for dx := x0; dx < x1; dx++ {
			ux, uy := inv.TransformPoint(float64(dx)+0.5, float64(dy)+0.5)
			i := (row*c.width + dx) * 4
			fn(data[i:i+4], (ux-x)/w, (uy-y)/h)
		}
	}
}

// toPremultiplied returns img as a premultiplied *image.RGBA with its
// bounds starting at the origin, copying only when necessary.
func toPremultiplied(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	return rgba
}
