package corort

import (
	"container/list"
	"context"
	"sync"

	"github.com/gammazero/deque"
)

// RingBuffer is a bounded, suspending channel: Produce parks once the
// buffer is full, Consume parks once it is empty, and a stop signal wakes
// every currently parked waiter with [ErrStopSignal].
//
// Element storage is a deque.Deque[T] rather than a fixed-size slot array
// with front/back indices: Go's slice-backed deque already gives O(1)
// push/pop at both ends without manual index arithmetic. Waiters on both
// sides are tracked in LIFO-ordered lists.
type RingBuffer[T any] struct {
	capacity int

	mu             sync.Mutex
	buf            deque.Deque[T]
	produceWaiters list.List // of *produceWaiter
	consumeWaiters list.List // of *consumeWaiter
	stopped        bool
}

type produceWaiter[T any] struct {
	value   T
	ready   chan struct{}
	failed  bool
	elem    *list.Element
	removed bool
}

type consumeWaiter[T any] struct {
	value   T
	ready   chan struct{}
	failed  bool
	elem    *list.Element
	removed bool
}

// NewRingBuffer creates a RingBuffer with the given fixed capacity, which
// must be at least 1. It returns [ErrCapacity] otherwise.
func NewRingBuffer[T any](capacity int) (*RingBuffer[T], error) {
	if capacity < 1 {
		return nil, ErrCapacity
	}
	return &RingBuffer[T]{capacity: capacity}, nil
}

// Produce suspends the calling goroutine until v is accepted into the
// buffer, or accepts it immediately if the buffer is not full.
//
// When a consumer is already parked, v transits straight through to it in
// one step instead of round-tripping through the slot array — direct
// hand-off, preserving FIFO order across a queued producer/consumer pair.
func (r *RingBuffer[T]) Produce(ctx context.Context, v T) error {
	r.mu.Lock()

	if front := r.consumeWaiters.Front(); front != nil {
		cw := front.Value.(*consumeWaiter[T])
		cw.removed = true
		r.consumeWaiters.Remove(front)
		cw.value = v
		r.mu.Unlock()
		close(cw.ready) // direct hand-off, inline.
		return nil
	}

	if r.buf.Len() < r.capacity {
		r.buf.PushBack(v)
		r.mu.Unlock()
		return nil
	}

	// Only the blocking path consults the stop flag: a stopped RingBuffer
	// keeps serving Produce calls that would not have to park, and only
	// refuses to queue a new waiter.
	if r.stopped {
		r.mu.Unlock()
		return ErrStopSignal
	}

	pw := &produceWaiter[T]{value: v, ready: make(chan struct{})}
	pw.elem = r.produceWaiters.PushFront(pw) // LIFO.
	r.mu.Unlock()

	select {
	case <-pw.ready:
		if pw.failed {
			return ErrStopSignal
		}
		return nil
	case <-ctx.Done():
		r.mu.Lock()
		if !pw.removed {
			r.produceWaiters.Remove(pw.elem)
			r.mu.Unlock()
			return ctx.Err()
		}
		failed := pw.failed
		r.mu.Unlock()
		if failed {
			return ctx.Err()
		}
		// promoteOneProducerLocked already moved v into the buffer —
		// select's pseudo-random choice landed on ctx.Done() anyway, but
		// the value was genuinely accepted, so report the true outcome
		// instead of claiming it was lost.
		return nil
	}
}

// Consume suspends the calling goroutine until a value is available, or
// returns one immediately if the buffer is not empty.
func (r *RingBuffer[T]) Consume(ctx context.Context) (T, error) {
	r.mu.Lock()
	if r.buf.Len() > 0 {
		v := r.buf.PopFront()
		r.promoteOneProducerLocked()
		r.mu.Unlock()
		return v, nil
	}

	if r.stopped {
		r.mu.Unlock()
		var zero T
		return zero, ErrStopSignal
	}

	cw := &consumeWaiter[T]{ready: make(chan struct{})}
	cw.elem = r.consumeWaiters.PushFront(cw) // LIFO.
	r.mu.Unlock()

	select {
	case <-cw.ready:
		if cw.failed {
			var zero T
			return zero, ErrStopSignal
		}
		return cw.value, nil
	case <-ctx.Done():
		r.mu.Lock()
		if !cw.removed {
			r.consumeWaiters.Remove(cw.elem)
			r.mu.Unlock()
			var zero T
			return zero, ctx.Err()
		}
		failed := cw.failed
		r.mu.Unlock()
		if failed {
			var zero T
			return zero, ctx.Err()
		}
		// Produce already handed cw a value directly — select's
		// pseudo-random choice landed on ctx.Done() anyway, but the value
		// was genuinely delivered, so return it instead of losing it or
		// pushing it back into a buffer other producers may have refilled.
		return cw.value, nil
	}
}

// promoteOneProducerLocked is called with r.mu held after a slot freed up
// by a Consume that took from the buffer, not via direct hand-off: it
// moves one parked producer's value into the freed slot.
func (r *RingBuffer[T]) promoteOneProducerLocked() {
	front := r.produceWaiters.Front()
	if front == nil {
		return
	}
	pw := front.Value.(*produceWaiter[T])
	pw.removed = true
	r.produceWaiters.Remove(front)
	r.buf.PushBack(pw.value)
	close(pw.ready)
}

// StopSignalNotifyWaiters permanently stops r: every currently parked
// Produce/Consume call returns [ErrStopSignal]. Further suspensions after
// this point fail immediately rather than queueing; values already in the
// buffer remain consumable without blocking. Idempotent.
func (r *RingBuffer[T]) StopSignalNotifyWaiters() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true

	var ready []func()
	for e := r.produceWaiters.Front(); e != nil; e = e.Next() {
		pw := e.Value.(*produceWaiter[T])
		pw.removed, pw.failed = true, true
		ready = append(ready, func() { close(pw.ready) })
	}
	r.produceWaiters.Init()
	for e := r.consumeWaiters.Front(); e != nil; e = e.Next() {
		cw := e.Value.(*consumeWaiter[T])
		cw.removed, cw.failed = true, true
		ready = append(ready, func() { close(cw.ready) })
	}
	r.consumeWaiters.Init()
	r.mu.Unlock()

	for _, f := range ready {
		f()
	}
}

// Len returns the number of elements currently buffered (not counting
// parked producers).
func (r *RingBuffer[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Len()
}
