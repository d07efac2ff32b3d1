package corort

import (
	"context"
	"sync"
)

// TaskContainer owns the lifetime of fire-and-forget computations started
// with Start. It is the detached-task analogue of [Task]: nobody holds an
// owning handle to any one of them, so something has to own their slots
// long enough to reclaim them once they finish, and to stop a panicking
// detached task from taking its peers down with it.
//
// Slot recycling uses a free-list-plus-pending-deletion scheme:
// GarbageCollect splices everything pending deletion onto the end of the
// free list in one step, so a slot's index stays stable for as long as
// its task is live, even while other slots are being recycled.
type TaskContainer struct {
	pool    *ThreadPool
	onPanic func(error)
	growth  float64

	mu            sync.Mutex
	slots         []*Task[struct{}]
	free          []int
	pendingDelete []int
	live          int
}

// NewTaskContainer creates a TaskContainer driven by pool. onPanic, if
// non-nil, is called with the failure of any task that fails: the error it
// returned, or the [UserFailure] recovered from it if it panicked; detached
// tasks never propagate their failure to a peer or to the caller. It
// returns [ErrNullExecutor] if pool is nil.
func NewTaskContainer(pool *ThreadPool, onPanic func(error)) (*TaskContainer, error) {
	if pool == nil {
		return nil, ErrNullExecutor
	}
	if onPanic == nil {
		onPanic = func(error) {}
	}
	return &TaskContainer{pool: pool, onPanic: onPanic, growth: 1.5}, nil
}

// Start wraps fn in a cleanup task that schedules onto the container's
// pool, awaits fn under a recover barrier, and reclaims its slot when
// done, then starts it.
func (c *TaskContainer) Start(ctx context.Context, fn func(context.Context) error) {
	c.mu.Lock()
	c.garbageCollectLocked()

	idx := c.allocLocked()
	c.live++

	slotCleanup := func() {
		c.mu.Lock()
		c.pendingDelete = append(c.pendingDelete, idx)
		c.live--
		c.mu.Unlock()
	}

	t := NewTask(func(ctx context.Context) (struct{}, error) {
		defer slotCleanup()

		if err := c.pool.Schedule(ctx); err != nil {
			return struct{}{}, nil
		}

		if err := c.runUnderRecoverBarrier(ctx, fn); err != nil {
			c.onPanic(err)
		}
		return struct{}{}, nil
	})

	c.slots[idx] = t
	c.mu.Unlock()

	t.Start(ctx)
}

// runUnderRecoverBarrier runs fn, converting a panic into a [*UserFailure]
// the same way a Task's own recover would, so onPanic sees every user
// failure uniformly regardless of whether it escaped as a panic or an
// ordinary returned error.
func (c *TaskContainer) runUnderRecoverBarrier(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if f := recoverAsFailure(recover()); f != nil {
			err = f
		}
	}()
	return fn(ctx)
}

// allocLocked is called with c.mu held; it returns a slot index, growing
// the slot slice by the container's growth factor if the free list is
// exhausted.
func (c *TaskContainer) allocLocked() int {
	if len(c.free) == 0 {
		old := len(c.slots)
		grown := old + 1
		if scaled := int(float64(old) * c.growth); scaled > grown {
			grown = scaled
		}
		c.slots = append(c.slots, make([]*Task[struct{}], grown-old)...)
		for i := old; i < grown; i++ {
			c.free = append(c.free, i)
		}
	}
	idx := c.free[len(c.free)-1]
	c.free = c.free[:len(c.free)-1]
	return idx
}

// garbageCollectLocked is called with c.mu held.
func (c *TaskContainer) garbageCollectLocked() int {
	if len(c.pendingDelete) == 0 {
		return 0
	}
	n := len(c.pendingDelete)
	for _, idx := range c.pendingDelete {
		c.slots[idx] = nil
	}
	c.free = append(c.free, c.pendingDelete...)
	c.pendingDelete = c.pendingDelete[:0]
	return n
}

// GarbageCollect splices every pending-deletion slot onto the free list
// and returns the count reclaimed.
func (c *TaskContainer) GarbageCollect() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.garbageCollectLocked()
}

// Size reports the number of tasks started but not yet finished. A
// finished task's slot may still be awaiting reclamation by GarbageCollect.
func (c *TaskContainer) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

// GarbageCollectAndYieldUntilEmpty repeatedly garbage-collects and yields
// on the container's pool until no tasks remain live. The caller must
// ensure no new tasks are started concurrently with this call.
func (c *TaskContainer) GarbageCollectAndYieldUntilEmpty(ctx context.Context) error {
	for {
		c.GarbageCollect()
		if c.Size() == 0 {
			return nil
		}
		if err := c.pool.Yield(ctx); err != nil {
			return err
		}
	}
}
