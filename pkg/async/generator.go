package async

import (
	"context"
)

// Yielder emits one value to the generator's channel. It returns false
// when the consumer is gone and the generator should stop.
type Yielder[T any] func(T) bool

// Generator runs gen in a goroutine and exposes its yields as a channel
// of results. If gen returns an error, it is delivered as the final
// element. The channel is closed when gen returns or ctx is cancelled;
// calling Generator again restarts the sequence from scratch.
func Generator[T any](ctx context.Context, gen func(yield Yielder[T]) error) <-chan Result[T] {
	ch := make(chan Result[T])

	y := func(t T) bool {
		select {
		case ch <- NewResult(t):
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(ch)

		if err := gen(y); err != nil {
			select {
			case ch <- Result[T]{Err: err}:
			case <-ctx.Done():
			}
		}
	}()

	return ch
}
