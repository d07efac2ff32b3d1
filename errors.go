package corort

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

// ErrShutdown is returned by [ThreadPool.Schedule] and [ThreadPool.Yield]
// once shutdown has begun.
var ErrShutdown = errors.New("corort: thread pool has shut down")

// ErrNullExecutor is returned by constructors that require a non-nil
// [ThreadPool], e.g. [NewSharedMutex] and [NewTaskContainer].
var ErrNullExecutor = errors.New("corort: executor must not be nil")

// ErrCapacity is returned by [NewRingBuffer] when constructed with a
// non-positive capacity.
var ErrCapacity = errors.New("corort: capacity must be positive")

// ErrStopSignal is returned from a parked waiter's Acquire/Produce/Consume
// call once the owning [Semaphore] or [RingBuffer] has been told to stop.
// It is an ordinary error: it can be wrapped, compared with errors.Is, and
// handled like any other failure.
var ErrStopSignal = errors.New("corort: stop signal")

// panicItem is one recovered panic: value plus stack trace.
type panicItem struct {
	value any
	stack []byte
}

// UserFailure aggregates one or more panics recovered from a task body.
// A [Task] that panics does not crash its driver; the panic is captured
// here and surfaces as the Task's error.
type UserFailure struct {
	items []panicItem
}

func newUserFailure(v any) *UserFailure {
	return &UserFailure{items: []panicItem{{value: v, stack: debug.Stack()}}}
}

// Error implements error.
func (f *UserFailure) Error() string {
	var b strings.Builder
	b.WriteString("corort: task panicked:")
	for i, it := range f.items {
		fmt.Fprintf(&b, "\n(%d/%d) panic: %v", i+1, len(f.items), it.value)
		if it.stack != nil {
			b.WriteString("\n\n")
			b.Write(it.stack)
		}
	}
	return b.String()
}

// Unwrap exposes each recovered value that is itself an error, so
// errors.Is/As can see through a captured panic to a sentinel or typed
// error that was passed to panic.
func (f *UserFailure) Unwrap() []error {
	var errs []error
	for _, it := range f.items {
		if err, ok := it.value.(error); ok {
			errs = append(errs, err)
		}
	}
	return errs
}

// recoverAsFailure turns a recovered panic value into a *UserFailure, or
// returns nil if v is nil (no panic occurred).
func recoverAsFailure(v any) *UserFailure {
	if v == nil {
		return nil
	}
	return newUserFailure(v)
}
