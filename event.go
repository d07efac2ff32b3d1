package corort

import (
	"context"
	"sync"
)

// WakePolicy controls the order in which [Event.Set] resumes parked
// waiters.
type WakePolicy int

const (
	// LIFO resumes the most recently parked waiter first. This is the
	// default: it falls out naturally from a push-front waiter stack and
	// needs no extra bookkeeping.
	LIFO WakePolicy = iota
	// FIFO resumes waiters in the order they parked.
	FIFO
)

// Event is a one-shot manual-reset signal. It starts unset; any number of
// goroutines can park on [Event.Wait] until [Event.Set] fires, at which
// point every current and future waiter proceeds without suspension until
// [Event.Reset].
//
// Rather than overload a single atomic word between an unset sentinel, a
// waiter-stack head, and a set sentinel manipulated with CAS, this
// implementation keeps a state flag plus a waiter list behind one mutex,
// which preserves the same ordering guarantees without an unsafe tagged
// pointer.
type Event struct {
	mu      sync.Mutex
	set     bool
	waiters []*eventWaiter
}

type eventWaiter struct {
	ch      chan struct{}
	removed bool
}

// NewEvent creates an Event. The zero value of Event is also ready to use.
func NewEvent() *Event { return &Event{} }

// IsSet reports whether e has been Set.
func (e *Event) IsSet() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.set
}

// Wait suspends the calling goroutine until e is Set, or returns
// immediately if e is already Set. It returns ctx.Err() if ctx is done
// first.
func (e *Event) Wait(ctx context.Context) error {
	e.mu.Lock()
	if e.set {
		e.mu.Unlock()
		return nil
	}
	w := &eventWaiter{ch: make(chan struct{})}
	e.waiters = append(e.waiters, w)
	e.mu.Unlock()

	select {
	case <-w.ch:
		return nil
	case <-ctx.Done():
		e.mu.Lock()
		w.removed = true
		e.mu.Unlock()
		return ctx.Err()
	}
}

// Set marks e as set and resumes every parked waiter inline on the calling
// goroutine, in the order policy dictates. Calling Set on an already-set
// Event is a no-op.
func (e *Event) Set(policy WakePolicy) {
	e.mu.Lock()
	if e.set {
		e.mu.Unlock()
		return
	}
	e.set = true
	waiters := e.waiters
	e.waiters = nil
	e.mu.Unlock()

	switch policy {
	case FIFO:
		for _, w := range waiters {
			if !w.removed {
				close(w.ch)
			}
		}
	default: // LIFO
		for i := len(waiters) - 1; i >= 0; i-- {
			if w := waiters[i]; !w.removed {
				close(w.ch)
			}
		}
	}
}

// SetVia is like Set but resumes each waiter by scheduling its wake-up on
// pool instead of running it inline, bounding recursion when many waiters
// are woken at once.
func (e *Event) SetVia(policy WakePolicy, pool *ThreadPool) {
	e.mu.Lock()
	if e.set {
		e.mu.Unlock()
		return
	}
	e.set = true
	waiters := e.waiters
	e.waiters = nil
	e.mu.Unlock()

	order := make([]*eventWaiter, 0, len(waiters))
	switch policy {
	case FIFO:
		order = append(order, waiters...)
	default:
		for i := len(waiters) - 1; i >= 0; i-- {
			order = append(order, waiters[i])
		}
	}

	jobs := make([]job, 0, len(order))
	for _, w := range order {
		if w.removed {
			continue
		}
		w := w
		jobs = append(jobs, func() { close(w.ch) })
	}
	pool.ResumeAll(jobs...)
}

// Reset clears e back to unset. It is only legal to call Reset when no
// waiters are currently parked; the caller is responsible for that
// precondition.
func (e *Event) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set {
		e.set = false
	}
}
