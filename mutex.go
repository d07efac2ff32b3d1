package corort

import (
	"container/list"
	"context"
	"sync"
)

// Mutex is an exclusive, non-recursive async lock. Ownership is logical,
// not tied to a goroutine: any goroutine may call Unlock, including one
// that never called Lock itself.
//
// Rather than overload a single lock-free word between an unlocked
// sentinel, a locked-no-waiters state and a waiter-stack head, this
// implementation keeps the state explicit: a boolean "locked" flag plus a
// waiter list, behind one mutex instead of a CAS loop. Waiters are
// appended to the list in arrival order and Unlock pops the front, so
// acquisition is FIFO among everyone currently parked.
type Mutex struct {
	mu      sync.Mutex
	locked  bool
	waiters list.List // of *mutexWaiter
}

type mutexWaiter struct {
	ch      chan struct{}
	elem    *list.Element
	removed bool
}

// NewMutex creates an unlocked Mutex. The zero value is also ready to use.
func NewMutex() *Mutex { return &Mutex{} }

// TryLock acquires m without blocking, reporting whether it succeeded.
func (m *Mutex) TryLock() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locked {
		return false
	}
	m.locked = true
	return true
}

// Lock suspends the calling goroutine until m is acquired, or acquires it
// immediately (no suspension) if m was unlocked. It returns ctx.Err() if
// ctx is done before m is acquired.
func (m *Mutex) Lock(ctx context.Context) error {
	m.mu.Lock()
	if !m.locked {
		m.locked = true
		m.mu.Unlock()
		return nil
	}

	w := &mutexWaiter{ch: make(chan struct{})}
	w.elem = m.waiters.PushBack(w)
	m.mu.Unlock()

	select {
	case <-w.ch:
		return nil
	case <-ctx.Done():
		m.mu.Lock()
		if !w.removed {
			m.waiters.Remove(w.elem)
			m.mu.Unlock()
			return ctx.Err()
		}
		m.mu.Unlock()
		// Unlock already handed the lock to w — select's pseudo-random
		// choice landed on ctx.Done() anyway. Take the grant (the close is
		// imminent if it hasn't happened yet) and hand it straight back so
		// it is not leaked as a phantom holder.
		<-w.ch
		m.Unlock()
		return ctx.Err()
	}
}

// Unlock releases m. If a waiter is parked, it is handed the lock directly
// and resumed inline on the unlocking goroutine: ownership transfers
// straight from releaser to the next waiter without re-deriving it from
// state that a concurrent TryLock could also be racing on.
func (m *Mutex) Unlock() {
	m.mu.Lock()
	if front := m.waiters.Front(); front != nil {
		w := front.Value.(*mutexWaiter)
		w.removed = true
		m.waiters.Remove(front)
		m.mu.Unlock()
		close(w.ch)
		return
	}
	m.locked = false
	m.mu.Unlock()
}
