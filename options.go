package memoji

// DefaultMaxPixels is the largest canvas, in pixels, a Context will allocate
// unless configured otherwise. Glyph stickers are far below it.
const DefaultMaxPixels = 64 << 20

// ContextOption configures a Context during creation.
// Use functional options to customize Context behavior.
//
// Example:
//
//	// Transparent canvas (default)
//	dc, err := memoji.NewContext(160, 160)
//
//	// Opaque canvas with a smaller allocation budget
//	dc, err := memoji.NewContext(160, 160, memoji.WithOpaqueCanvas(true), memoji.WithPixelBudget(1<<20))
type ContextOption func(*contextOptions)

// contextOptions holds optional configuration for Context creation.
type contextOptions struct {
	opaque    bool
	maxPixels int
}

// defaultContextOptions returns the default context options.
func defaultContextOptions() contextOptions {
	return contextOptions{
		opaque:    false,
		maxPixels: DefaultMaxPixels,
	}
}

// WithOpaqueCanvas initializes the canvas as opaque black instead of
// transparent. Source-over drawing keeps an opaque canvas opaque.
func WithOpaqueCanvas(opaque bool) ContextOption {
	return func(o *contextOptions) {
		o.opaque = opaque
	}
}

// WithPixelBudget limits the canvas size. A non-positive budget leaves only
// the fixed 1 GiB allocation ceiling.
func WithPixelBudget(maxPixels int) ContextOption {
	return func(o *contextOptions) {
		o.maxPixels = maxPixels
	}
}

// ContextFactory creates the drawing context used by Composite.
// Replace it with WithContextFactory to control allocation, e.g. in tests.
type ContextFactory func(width, height int, opts ...ContextOption) (*Context, error)

// CompositeOption configures a Composite call.
//
// Example:
//
//	out := memoji.Composite(glyph, memoji.Hex("#1E90FF"), memoji.WithOpaque(false))
type CompositeOption func(*compositeOptions)

// compositeOptions holds optional configuration for Composite.
type compositeOptions struct {
	opaque    bool
	maxPixels int
	factory   ContextFactory
}

// defaultCompositeOptions returns the default composite options.
func defaultCompositeOptions() compositeOptions {
	return compositeOptions{
		opaque:    true,
		maxPixels: DefaultMaxPixels,
		factory:   NewContext,
	}
}

// WithOpaque controls whether the output canvas is initialized as opaque.
// The default is true, which forces every output pixel to full alpha.
func WithOpaque(opaque bool) CompositeOption {
	return func(o *compositeOptions) {
		o.opaque = opaque
	}
}

// WithMaxPixels sets the pixel budget of the drawing context.
func WithMaxPixels(maxPixels int) CompositeOption {
	return func(o *compositeOptions) {
		o.maxPixels = maxPixels
	}
}

// WithContextFactory replaces the function used to create the drawing context.
// A nil factory restores the default.
func WithContextFactory(f ContextFactory) CompositeOption {
	return func(o *compositeOptions) {
		if f == nil {
			f = NewContext
		}
		o.factory = f
	}
}
