package actor

import (
	"context"

	"github.com/teranos/actorgen/errors"
)

// Future is the result of a computation started by Async.
// The zero value is not usable.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Async runs fn on its own goroutine and returns a Future for its result.
// A panic in fn resolves the future with an error.
func Async[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = errors.Newf("future panicked: %v", r)
			}
		}()
		f.value, f.err = fn(ctx)
	}()
	return f
}

// AsyncErr is Async for computations that only report an error
func AsyncErr(ctx context.Context, fn func(ctx context.Context) error) *Future[Unit] {
	return Async(ctx, func(ctx context.Context) (Unit, error) {
		return Unit{}, fn(ctx)
	})
}

// Ready returns an already resolved Future
func Ready[T any](value T, err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), value: value, err: err}
	close(f.done)
	return f
}

// Done is closed once the result is available
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future resolves or ctx ends.
// When ctx ends first the computation keeps running; its result is discarded.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, errors.Wrap(ctx.Err(), "await")
	}
}
