package corort

import (
	"container/list"
	"context"
	"sync"
)

// Semaphore is a counting permit pool: a counter plus a waiter list
// drained on Release, guarded by a mutex for safe concurrent use, with a
// one-way broadcast stop signal that wakes every parked waiter at once.
type Semaphore struct {
	leastMax int64

	mu      sync.Mutex
	cur     int64
	waiters list.List // of *semaWaiter, LIFO (push/pop front)
	stopped bool
}

type semaWaiter struct {
	ch      chan struct{}
	failed  bool
	elem    *list.Element
	removed bool
}

// NewSemaphore creates a Semaphore with the given starting permit count,
// clamped to leastMax, and the given advisory upper bound.
func NewSemaphore(startingValue, leastMax int64) *Semaphore {
	if startingValue > leastMax {
		startingValue = leastMax
	}
	return &Semaphore{leastMax: leastMax, cur: startingValue}
}

// TryAcquire acquires a permit without blocking, reporting whether it
// succeeded.
func (s *Semaphore) TryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur <= 0 {
		return false
	}
	s.cur--
	return true
}

// Acquire suspends the calling goroutine until a permit is acquired, the
// semaphore is stopped ([ErrStopSignal]), or ctx is done.
func (s *Semaphore) Acquire(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return ErrStopSignal
	}
	if s.cur > 0 {
		s.cur--
		s.mu.Unlock()
		return nil
	}

	w := &semaWaiter{ch: make(chan struct{})}
	w.elem = s.waiters.PushFront(w) // LIFO: push front.
	s.mu.Unlock()

	select {
	case <-w.ch:
		if w.failed {
			return ErrStopSignal
		}
		return nil
	case <-ctx.Done():
		s.mu.Lock()
		if !w.removed {
			s.waiters.Remove(w.elem)
			s.mu.Unlock()
			return ctx.Err()
		}
		s.mu.Unlock()
		// Release (or StopSignalNotifyWaiters) already claimed w — select's
		// pseudo-random choice landed on ctx.Done() anyway. Find out which:
		// a real permit hand-off must be returned so it is not leaked.
		<-w.ch
		if !w.failed {
			s.Release()
		}
		return ctx.Err()
	}
}

// Release returns one permit. If a waiter is parked, the permit transits
// straight to it without touching the counter: a direct hand-off that
// closes the lost-wakeup window between incrementing the counter and a
// waiter re-checking it.
func (s *Semaphore) Release() {
	s.mu.Lock()
	if front := s.waiters.Front(); front != nil {
		w := front.Value.(*semaWaiter)
		w.removed = true
		s.waiters.Remove(front)
		s.mu.Unlock()
		close(w.ch)
		return
	}
	s.cur++
	s.mu.Unlock()
}

// StopSignalNotifyWaiters permanently stops s: every currently parked
// Acquire returns [ErrStopSignal], and so does every Acquire call made
// after this point. Idempotent.
func (s *Semaphore) StopSignalNotifyWaiters() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	var waiters []*semaWaiter
	for e := s.waiters.Front(); e != nil; e = e.Next() {
		w := e.Value.(*semaWaiter)
		w.removed = true
		w.failed = true
		waiters = append(waiters, w)
	}
	s.waiters.Init()
	s.mu.Unlock()

	for _, w := range waiters {
		close(w.ch)
	}
}
