// Package jobs runs long operations off the caller's goroutine and hands
// the outcome back on a channel. The caller stays the only writer of
// user-visible state; the job only computes.
package jobs

import "context"

// Result carries a job's value or its error, never both.
type Result[T any] struct {
	Value T
	Err   error
}

// Run executes fn in its own goroutine and returns a channel that delivers
// exactly one Result. The channel is buffered, so the result is never lost
// even if the caller reads late. fn is responsible for honoring ctx.
func Run[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) <-chan Result[T] {
	out := make(chan Result[T], 1)
	go func() {
		v, err := fn(ctx)
		out <- Result[T]{Value: v, Err: err}
		close(out)
	}()
	return out
}
