// Package export delivers finished stickers to their destinations.
//
// A Sink receives an image and reports the outcome asynchronously through a
// Handler: exactly one of OnSuccess or OnFailure is called, once, on a
// goroutine other than the caller's. Await turns that callback pair into a
// channel.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"sync"
	"syscall"
)

// ErrNilImage is reported for a nil image.
var ErrNilImage = errors.New("export: nil image")

// Sink is an asynchronous image destination.
type Sink interface {
	Export(ctx context.Context, img image.Image, h Handler)
}

// Handler receives the outcome of one export. Nil callbacks are skipped.
type Handler struct {
	OnSuccess func()
	OnFailure func(err error)
}

// Result is the outcome of an export.
type Result struct {
	Err error
}

// OK reports whether the export succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Await runs sink and returns a channel that yields its single Result.
func Await(ctx context.Context, sink Sink, img image.Image) <-chan Result {
	ch := make(chan Result, 1)
	sink.Export(ctx, img, Handler{
		OnSuccess: func() { ch <- Result{} },
		OnFailure: func(err error) { ch <- Result{Err: err} },
	})
	return ch
}

// Funcs adapts a synchronous function to Sink. The function runs on its own
// goroutine and its error selects the callback.
type Funcs func(ctx context.Context, img image.Image) error

// Export implements Sink.
func (f Funcs) Export(ctx context.Context, img image.Image, h Handler) {
	run(h, func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return f(ctx, img)
	})
}

// run calls work on a new goroutine and reports its outcome to h once.
func run(h Handler, work func() error) {
	var once sync.Once
	report := func(err error) {
		once.Do(func() {
			switch {
			case err == nil && h.OnSuccess != nil:
				h.OnSuccess()
			case err != nil && h.OnFailure != nil:
				h.OnFailure(err)
			}
		})
	}
	go func() {
		var err error
		defer func() {
			if p := recover(); p != nil {
				err = panicError{p}
			}
			report(err)
		}()
		err = work()
	}()
}

type panicError struct{ v any }

func (e panicError) Error() string {
	return fmt.Sprintf("export: sink panicked: %v", e.v)
}

// Reason returns a short human-readable description of an export failure.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, fs.ErrPermission):
		return "permission denied"
	case errors.Is(err, syscall.ENOSPC):
		return "not enough storage"
	case errors.Is(err, fs.ErrNotExist):
		return "library not found"
	case errors.Is(err, ErrClosed):
		return "library closed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, ErrNilImage):
		return "no image"
	default:
		return "unexpected error"
	}
}
