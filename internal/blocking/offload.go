// Package blocking wraps a blocking call (an ffmpeg exec, an HTTP round
// trip) so its caller can honor context cancellation without the call
// itself needing to be cancellation-aware.
package blocking

import "context"

// Offload runs fn on its own goroutine and returns its result once fn
// completes or ctx is done, whichever comes first. If ctx is done first,
// Offload returns ctx.Err() immediately but fn keeps running in the
// background until it finishes — there is no way to kill an in-flight
// os/exec.Cmd or http.Request from here; the caller is expected to have
// passed a context-aware fn (exec.CommandContext, http requests built with
// ctx) so the underlying operation is what actually stops.
func Offload[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)

	go func() {
		v, err := fn()
		done <- result{v, err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-done:
		return r.val, r.err
	}
}
