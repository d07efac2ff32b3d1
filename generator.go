package corort

import "context"

// Generator is a pull-style lazy sequence: values are handed to Next one
// at a time over an unbuffered channel, so the producer never holds more
// than one value that Next has not yet taken. The producer runs on its own
// goroutine, starting when NewGenerator is called; after Next takes a
// value, the producer runs on to its next yield while the consumer works
// and blocks there until the following Next call.
type Generator[T any] struct {
	out    chan T
	errc   chan error
	resume chan struct{}
	done   chan struct{}
}

// NewGenerator starts a Generator backed by produce, which is called with
// a yield function: each call to yield blocks until the value has been
// picked up by Next, then returns true to continue or false if the
// Generator has been closed.
func NewGenerator[T any](produce func(ctx context.Context, yield func(T) bool) error) *Generator[T] {
	g := &Generator[T]{
		out:    make(chan T),
		errc:   make(chan error, 1),
		resume: make(chan struct{}),
		done:   make(chan struct{}),
	}

	ctx, cancel := contextWithCancelOnClose(g.done)

	go func() {
		defer cancel()
		err := produce(ctx, func(v T) bool {
			select {
			case g.out <- v:
			case <-g.done:
				return false
			}
			select {
			case <-g.resume:
				return true
			case <-g.done:
				return false
			}
		})
		g.errc <- err
		close(g.out)
	}()

	return g
}

// Next pulls the next value. ok is false once the sequence is exhausted;
// err is non-nil if produce returned an error.
func (g *Generator[T]) Next() (v T, ok bool, err error) {
	select {
	case v, ok = <-g.out:
		if !ok {
			err = <-g.errc
			return v, false, err
		}
	case <-g.done:
		return v, false, nil
	}

	select {
	case g.resume <- struct{}{}:
	case <-g.done:
	}

	return v, true, nil
}

// Close stops the producer goroutine. It is safe to call more than once
// and safe to omit if the sequence was already fully drained by Next.
func (g *Generator[T]) Close() {
	select {
	case <-g.done:
	default:
		close(g.done)
	}
}

func contextWithCancelOnClose(done <-chan struct{}) (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-done:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
