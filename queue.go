package corort

import "github.com/gammazero/deque"

// job is a unit of resumption work queued on a [ThreadPool]: either the
// body of a freshly spawned [Task] or the wake-up of a goroutine parked on
// an await. It is opaque to the pool, which just runs it.
type job func()

// jobQueue is the thread pool's run queue: a thin wrapper around
// deque.Deque for FIFO push/pop under the pool's own mutex. The pool makes
// no ordering promise beyond FIFO, so there is no need for priority
// ordering here.
type jobQueue struct {
	d deque.Deque[job]
}

func (q *jobQueue) empty() bool { return q.d.Len() == 0 }

func (q *jobQueue) len() int { return q.d.Len() }

func (q *jobQueue) pushBack(j job) { q.d.PushBack(j) }

func (q *jobQueue) popFront() job { return q.d.PopFront() }
