package flow

import "context"

// Future is the eventual result of a computation started with Go.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Go starts fn in a new goroutine and returns its future result.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.val, f.err = fn()
	}()
	return f
}

// Resolved returns an already-completed future.
func Resolved[T any](val T, err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), val: val, err: err}
	close(f.done)
	return f
}

// Await blocks until the result is ready or the context is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-f.done:
		return f.val, f.err
	}
}

// Result couples a value with its terminal error.
type Result[T any] struct {
	Value T
	Err   error
}

// JoinAll waits for every future and returns each terminal outcome in
// input order. It never aborts early: a failed future contributes its
// error without affecting its siblings.
func JoinAll[T any](ctx context.Context, futures []*Future[T]) []Result[T] {
	results := make([]Result[T], len(futures))
	for i, f := range futures {
		results[i].Value, results[i].Err = f.Await(ctx)
	}
	return results
}
