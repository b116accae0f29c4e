package memoji

import (
	"errors"
	"fmt"
	"image"
)

// Composite paints bg beneath src and returns the flattened result.
//
// Every output pixel is src composited over bg:
//
//	out.rgb = src.rgb*src.a + bg.rgb*(1-src.a)
//
// With the default WithOpaque(true) the output alpha is 1 everywhere. The
// output has exactly the dimensions of src and matches its orientation.
//
// Composite never fails: if no drawing context can be created or src has
// no raster data, src itself is returned unchanged. Use CompositeE to learn
// why a fallback happened.
func Composite(src image.Image, bg RGBA, opts ...CompositeOption) image.Image {
	out, err := CompositeE(src, bg, opts...)
	if err != nil {
		Logger().Warn("memoji: compositing failed, using source image", "err", err)
		return src
	}
	return out
}

// CompositeE is Composite with the fallback cause reported.
// On error the returned image is src.
func CompositeE(src image.Image, bg RGBA, opts ...CompositeOption) (image.Image, error) {
	options := defaultCompositeOptions()
	for _, opt := range opts {
		opt(&options)
	}

	if src == nil || src.Bounds().Empty() {
		return src, ErrNoRasterData
	}
	size := src.Bounds().Size()

	dc, err := options.factory(size.X, size.Y,
		WithOpaqueCanvas(options.opaque),
		WithPixelBudget(options.maxPixels),
	)
	if err != nil {
		if !errors.Is(err, ErrContextUnavailable) {
			err = fmt.Errorf("%w: %w", ErrContextUnavailable, err)
		}
		return src, err
	}
	if dc == nil {
		return src, ErrContextUnavailable
	}
	defer func() { _ = dc.Close() }()

	w, h := float64(size.X), float64(size.Y)

	dc.SetFillColor(bg)
	if err := dc.FillRect(0, 0, w, h); err != nil {
		return src, err
	}

	dc.InvertY()
	if err := dc.DrawImage(src, 0, 0, w, h); err != nil {
		return src, err
	}

	return dc.Image(), nil
}
