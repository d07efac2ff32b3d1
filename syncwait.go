package corort

import "context"

// SyncWait blocks the calling goroutine until fn completes, starting it on
// its own goroutine and returning its result. It is the bridge a
// non-async caller uses to run one async computation to completion.
func SyncWait[R any](ctx context.Context, fn func(context.Context) (R, error)) (R, error) {
	t := Go(fn)
	return t.Wait(ctx)
}

// RunAsync spawns fn on a detached goroutine and fires SyncWait on it,
// never observing the result: fire-and-forget. If pool is non-nil, the
// detached goroutine first waits for its turn on pool's queue via
// [ThreadPool.Schedule] and only then starts fn, which still runs on its
// own goroutine; if Schedule fails, fn is never run.
func RunAsync[R any](ctx context.Context, fn func(context.Context) (R, error), pool *ThreadPool) {
	go func() {
		if pool != nil {
			if err := pool.Schedule(ctx); err != nil {
				return
			}
		}
		_, _ = SyncWait(ctx, fn)
	}()
}
