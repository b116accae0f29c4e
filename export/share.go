package export

import (
	"context"
	"fmt"
	"image"
	"io"
	"sync"

	intImage "github.com/gogpu/memoji/internal/image"
)

// Share writes the image as PNG to a writer, e.g. standard output piped to
// another program.
type Share struct {
	mu sync.Mutex
	w  io.Writer
}

// NewShare returns a Share writing to w. Concurrent exports are serialized.
func NewShare(w io.Writer) *Share {
	return &Share{w: w}
}

// Export implements Sink.
func (s *Share) Export(ctx context.Context, img image.Image, h Handler) {
	run(h, func() error {
		if img == nil {
			return ErrNilImage
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := intImage.EncodeToBytes(img)
		if err != nil {
			return err
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if _, err := s.w.Write(data); err != nil {
			return fmt.Errorf("export: share: %w", err)
		}
		return nil
	})
}
