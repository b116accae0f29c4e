// Package image provides pixel buffer management and image codecs for memoji.
package image

import (
	"errors"
	"math"
	"sync"
)

// Common errors for buffer operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrTooLarge is returned when a buffer would exceed the pool's pixel budget.
	ErrTooLarge = errors.New("image: buffer exceeds pixel budget")
)

// BytesPerPixel is the size of one RGBA8 pixel.
const BytesPerPixel = 4

// MaxPixels is the hard ceiling for a single buffer (1 GiB of RGBA8).
// It applies even when the caller's budget is disabled.
const MaxPixels = 1 << 28

// Pool is a thread-safe pool for reusing RGBA8 pixel buffers.
//
// Pool groups buffers by their pixel count, so canvases of the same size
// share storage between exports. Buffers handed out by Get are zeroed.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[int][][]byte
	maxSize int // max buffers per bucket
}

// NewPool creates a new buffer pool with the given maximum buffers per bucket.
// A maxPerBucket of 0 means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[int][][]byte),
		maxSize: maxPerBucket,
	}
}

// Get returns a zeroed buffer for a width×height RGBA8 canvas.
// maxPixels bounds the request; a non-positive maxPixels leaves only
// the MaxPixels ceiling.
func (p *Pool) Get(width, height, maxPixels int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if width > math.MaxInt/height {
		return nil, ErrTooLarge
	}
	pixels := width * height
	if pixels > MaxPixels || (maxPixels > 0 && pixels > maxPixels) {
		return nil, ErrTooLarge
	}

	p.mu.Lock()
	bucket := p.buckets[pixels]
	if n := len(bucket); n > 0 {
		buf := bucket[n-1]
		p.buckets[pixels] = bucket[:n-1]
		p.mu.Unlock()
		clear(buf)
		return buf, nil
	}
	p.mu.Unlock()

	return make([]byte, pixels*BytesPerPixel), nil
}

// Put returns a buffer to the pool for reuse.
// If buf is empty or the bucket is at capacity, the buffer is discarded.
func (p *Pool) Put(buf []byte) {
	if len(buf) == 0 || len(buf)%BytesPerPixel != 0 {
		return
	}
	pixels := len(buf) / BytesPerPixel

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[pixels]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[pixels] = append(bucket, buf)
}

// Len returns the number of pooled buffers for the given pixel count.
func (p *Pool) Len(pixels int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buckets[pixels])
}

// defaultPool is the package-level pool shared by all drawing contexts.
var defaultPool = NewPool(8)

// GetFromDefault retrieves a buffer from the default pool.
func GetFromDefault(width, height, maxPixels int) ([]byte, error) {
	return defaultPool.Get(width, height, maxPixels)
}

// PutToDefault returns a buffer to the default pool.
func PutToDefault(buf []byte) {
	defaultPool.Put(buf)
}
