package corort

import (
	"context"
	"sync/atomic"
)

// Latch is a count-down barrier: it completes its internal [Event] once
// CountDown has driven the counter to zero or below.
type Latch struct {
	n     atomic.Int64
	event Event
}

// NewLatch creates a Latch requiring n CountDowns before it opens. n must
// be non-negative; NewLatch(0) returns a Latch that is already open.
func NewLatch(n int64) *Latch {
	l := &Latch{}
	l.n.Store(n)
	if n <= 0 {
		l.event.Set(LIFO)
	}
	return l
}

// CountDown decrements the counter by n (n may be more than 1 to count
// down several at once). Once the counter reaches zero or below, the Latch
// opens and every current and future waiter proceeds.
func (l *Latch) CountDown(n int64) {
	if n <= 0 {
		return
	}
	prev := l.n.Add(-n) + n
	if prev <= n {
		l.event.Set(LIFO)
	}
}

// CountDownVia is like CountDown but, when it opens the Latch, resumes
// waiters by scheduling each onto pool instead of inline.
func (l *Latch) CountDownVia(n int64, pool *ThreadPool) {
	if n <= 0 {
		return
	}
	prev := l.n.Add(-n) + n
	if prev <= n {
		l.event.SetVia(LIFO, pool)
	}
}

// Remaining returns the current counter value. It may be negative if
// CountDown overshot zero.
func (l *Latch) Remaining() int64 { return l.n.Load() }

// Wait suspends the calling goroutine until the Latch opens.
func (l *Latch) Wait(ctx context.Context) error {
	return l.event.Wait(ctx)
}
