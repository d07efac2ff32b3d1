package corort

import (
	"container/list"
	"context"
	"sync"
)

type sharedMutexState int

const (
	smUnlocked sharedMutexState = iota
	smLockedShared
	smLockedExclusive
)

// SharedMutex is a writer-preferring reader-writer async lock: once an
// exclusive waiter has queued, no shared acquire that arrives after it
// completes before it does, and waiters leave the queue in arrival order.
//
// An executor is required at construction (NewSharedMutex returns
// ErrNullExecutor without one) because waking a large batch of readers is
// done by scheduling each onto it rather than resuming them inline one
// after another on the releaser's own goroutine, bounding how deep a
// single Unlock call's resumption fan-out can recurse.
type SharedMutex struct {
	pool *ThreadPool

	mu              sync.Mutex
	state           sharedMutexState
	sharedCount     int
	exclusiveWaitCt int
	waiters         list.List // of *sharedWaiter, FIFO
}

type sharedWaiter struct {
	ch        chan struct{}
	exclusive bool
	elem      *list.Element
	removed   bool
}

// NewSharedMutex creates an unlocked SharedMutex driven by pool. It returns
// [ErrNullExecutor] if pool is nil.
func NewSharedMutex(pool *ThreadPool) (*SharedMutex, error) {
	if pool == nil {
		return nil, ErrNullExecutor
	}
	return &SharedMutex{pool: pool}, nil
}

// TryLockShared acquires a shared hold without blocking, reporting whether
// it succeeded. It fails if an exclusive waiter is already queued, even
// though the mutex is not currently exclusively held: anti-starvation for
// the writer.
func (m *SharedMutex) TryLockShared() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tryLockSharedLocked()
}

func (m *SharedMutex) tryLockSharedLocked() bool {
	if m.exclusiveWaitCt != 0 {
		return false
	}
	switch m.state {
	case smUnlocked:
		m.state = smLockedShared
		m.sharedCount = 1
		return true
	case smLockedShared:
		m.sharedCount++
		return true
	default:
		return false
	}
}

// TryLock acquires an exclusive hold without blocking, reporting whether
// it succeeded.
func (m *SharedMutex) TryLock() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != smUnlocked {
		return false
	}
	m.state = smLockedExclusive
	return true
}

// LockShared suspends the calling goroutine until a shared hold is
// acquired, or acquires it immediately if possible.
func (m *SharedMutex) LockShared(ctx context.Context) error {
	m.mu.Lock()
	if m.tryLockSharedLocked() {
		m.mu.Unlock()
		return nil
	}
	w := &sharedWaiter{ch: make(chan struct{})}
	w.elem = m.waiters.PushBack(w)
	m.mu.Unlock()
	return m.park(ctx, w)
}

// Lock suspends the calling goroutine until an exclusive hold is acquired,
// or acquires it immediately if possible.
func (m *SharedMutex) Lock(ctx context.Context) error {
	m.mu.Lock()
	if m.state == smUnlocked {
		m.state = smLockedExclusive
		m.mu.Unlock()
		return nil
	}
	w := &sharedWaiter{ch: make(chan struct{}), exclusive: true}
	w.elem = m.waiters.PushBack(w)
	m.exclusiveWaitCt++
	m.mu.Unlock()
	return m.park(ctx, w)
}

func (m *SharedMutex) park(ctx context.Context, w *sharedWaiter) error {
	select {
	case <-w.ch:
		return nil
	case <-ctx.Done():
		m.mu.Lock()
		if !w.removed {
			m.waiters.Remove(w.elem)
			if w.exclusive {
				m.exclusiveWaitCt--
			}
			m.mu.Unlock()
			return ctx.Err()
		}
		m.mu.Unlock()
		// wakeNextLocked already handed w its hold — select's
		// pseudo-random choice landed on ctx.Done() anyway. Take the
		// grant (the close is imminent, inline or via the pool) and hand
		// it straight back so it is not leaked as a phantom holder.
		<-w.ch
		if w.exclusive {
			m.Unlock()
		} else {
			m.UnlockShared()
		}
		return ctx.Err()
	}
}

// UnlockShared releases one shared hold. Only the hold that drives the
// shared count to zero triggers waking the next waiter(s).
func (m *SharedMutex) UnlockShared() {
	m.mu.Lock()
	m.sharedCount--
	if m.sharedCount > 0 {
		m.mu.Unlock()
		return
	}
	m.state = smUnlocked
	m.wakeNextLocked()
}

// Unlock releases an exclusive hold.
func (m *SharedMutex) Unlock() {
	m.mu.Lock()
	m.state = smUnlocked
	m.wakeNextLocked()
}

// wakeNextLocked is called with m.mu held; it releases m.mu itself before
// returning.
func (m *SharedMutex) wakeNextLocked() {
	front := m.waiters.Front()
	if front == nil {
		m.mu.Unlock()
		return
	}

	head := front.Value.(*sharedWaiter)

	if head.exclusive {
		head.removed = true
		m.waiters.Remove(front)
		m.exclusiveWaitCt--
		m.state = smLockedExclusive
		m.mu.Unlock()
		close(head.ch) // direct hand-off, inline: a single writer, cheap to resume directly.
		return
	}

	// Walk consecutive shared waiters from the head, stop at the first
	// exclusive one: anti-starvation once a writer is queued.
	var woken []job
	m.state = smLockedShared
	for {
		front = m.waiters.Front()
		if front == nil {
			break
		}
		w := front.Value.(*sharedWaiter)
		if w.exclusive {
			break
		}
		w.removed = true
		m.waiters.Remove(front)
		m.sharedCount++
		woken = append(woken, func() { close(w.ch) })
	}
	m.mu.Unlock()

	// Readers are resumed through the executor, not inline, to avoid a
	// single releaser recursively resuming an unbounded batch of readers.
	m.pool.ResumeAll(woken...)
}
