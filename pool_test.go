package corort_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/corort/corort"
)

func TestThreadPoolScheduleFIFO(t *testing.T) {
	defer goleak.VerifyNone(t)

	pool := corort.NewThreadPool(1)
	defer pool.Shutdown()

	var mu sync.Mutex
	var order []int

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		i := i
		go func() {
			defer wg.Done()
			require.NoError(t, pool.Schedule(context.Background()))
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}()
		// Give each goroutine a moment to enqueue before starting the next,
		// so the expected order is deterministic with a single worker.
		time.Sleep(time.Millisecond)
	}
	wg.Wait()

	require.Len(t, order, 20)
	want := make([]int, 20)
	for i := range want {
		want[i] = i
	}
	require.Equal(t, want, order)
}

func TestThreadPoolShutdownRejectsSchedule(t *testing.T) {
	defer goleak.VerifyNone(t)

	pool := corort.NewThreadPool(2)
	pool.Shutdown()

	err := pool.Schedule(context.Background())
	require.ErrorIs(t, err, corort.ErrShutdown)
}

func TestThreadPoolShutdownIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	pool := corort.NewThreadPool(3)
	pool.Shutdown()
	pool.Shutdown()
}

func TestThreadPoolStartStopHooks(t *testing.T) {
	defer goleak.VerifyNone(t)

	var started, stopped atomic.Int64

	pool := corort.NewThreadPool(4,
		corort.WithOnThreadStart(func(int) { started.Add(1) }),
		corort.WithOnThreadStop(func(int) { stopped.Add(1) }),
	)
	pool.Shutdown()

	require.EqualValues(t, 4, started.Load())
	require.EqualValues(t, 4, stopped.Load())
}

func TestThreadPoolConcurrentWorkers(t *testing.T) {
	defer goleak.VerifyNone(t)

	const n = 100
	pool := corort.NewThreadPool(8)
	defer pool.Shutdown()

	var count atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, pool.Schedule(context.Background()))
			count.Add(1)
		}()
	}
	wg.Wait()

	require.EqualValues(t, n, count.Load())
}
