// Package corort is a coroutine runtime library: a set of composable
// asynchronous primitives — [Task], [ThreadPool], [Event], [Mutex],
// [SharedMutex], [Semaphore], [Latch], [RingBuffer], [WhenAll],
// [SyncWait], [TaskContainer] and [Generator] — for writing cooperative
// computations that suspend at well-defined points and resume either
// inline, by whatever releases the thing they were waiting on, or on a
// worker goroutine managed by a [ThreadPool].
//
// # No Stackless Coroutines
//
// Go has no compiler-generated suspend points. Every suspension here is
// an ordinary goroutine parking on a channel operation.
// That goroutine is cheap — the Go runtime multiplexes many of them onto a
// handful of OS threads — so "a computation suspended at a lock" still
// costs no OS thread, which is the property this library's primitives
// exist to preserve; it is just achieved by the platform's scheduler
// instead of a hand-rolled one.
//
// # Direct Hand-off
//
// [Mutex], [Semaphore] and [RingBuffer] transfer the resource they guard —
// the lock, a permit, an element — straight from the releaser to the next
// parked waiter, without going back through the counter or slot array the
// releaser itself just updated. Re-deriving ownership from shared state
// instead would race with a concurrent acquire; every implementation here
// preserves the hand-off.
//
// # Stop Signals, Not Cancellation Trees
//
// There is no per-task cancellation in this library. [Semaphore] and
// [RingBuffer] support a one-way stop broadcast: once stopped, every
// currently parked waiter wakes with [ErrStopSignal], and stop cannot be
// undone. A [context.Context] passed to an individual call only cancels
// that call's wait; it has no effect on other waiters of the same
// primitive.
//
// # Fan-out and Fan-in
//
// [ThreadPool] is a multi-threaded run queue: Schedule and Yield move the
// calling goroutine onto it, Shutdown drains and joins every worker.
// [TaskContainer] owns a set of detached, fire-and-forget [Task] values
// and reclaims their slots once they finish, swallowing and reporting any
// panic instead of letting it take down an unrelated peer. [WhenAll] joins
// a fixed set of [Task] values without letting one child's panic cancel
// its siblings.
package corort
