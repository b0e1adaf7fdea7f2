package readloop

import (
	"context"

	"github.com/keibahub/jvgate/internal/domain"
)

// Stream adapts an iterator into a cancellable asynchronous sequence.
// The traversal runs on its own goroutine; each element is either a
// record or the terminal error. The channel closes on end of stream,
// after the error element, or on cancellation - cancellation never
// produces an error element.
//
// The underlying native calls stay synchronous and thread-affine;
// asynchrony here only means the consumer may be suspended or cancelled
// between calls.
func Stream(ctx context.Context, it *Iterator) <-chan domain.RecordResult {
	out := make(chan domain.RecordResult)

	go func() {
		defer close(out)

		for it.Next(ctx) {
			select {
			case out <- domain.RecordResult{Record: it.Record()}:
			case <-ctx.Done():
				return
			}
		}

		if err := it.Err(); err != nil {
			select {
			case out <- domain.RecordResult{Err: err}:
			case <-ctx.Done():
			}
		}
	}()

	return out
}
