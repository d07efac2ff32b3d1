package corort_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/corort/corort"
)

func TestWhenAllJoinsAllChildren(t *testing.T) {
	defer goleak.VerifyNone(t)

	a := corort.NewTask(func(ctx context.Context) (int, error) { return 10, nil })
	b := corort.NewTask(func(ctx context.Context) (int, error) { return 20, nil })
	c := corort.NewTask(func(ctx context.Context) (int, error) { return 30, nil })

	tasks, err := corort.WhenAll(context.Background(), a, b, c)
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	for i, want := range []int{10, 20, 30} {
		v, err := tasks[i].Result()
		require.NoError(t, err)
		require.Equal(t, want, v)
	}
}

func TestWhenAllChildFailureDoesNotCancelSiblings(t *testing.T) {
	defer goleak.VerifyNone(t)

	boom := errors.New("boom")
	a := corort.NewTask(func(ctx context.Context) (int, error) { return 10, nil })
	b := corort.NewTask(func(ctx context.Context) (int, error) { return 0, boom })
	c := corort.NewTask(func(ctx context.Context) (int, error) { return 30, nil })

	tasks, err := corort.WhenAll(context.Background(), a, b, c)
	require.NoError(t, err)

	v1, err1 := tasks[0].Result()
	require.NoError(t, err1)
	require.Equal(t, 10, v1)

	_, err2 := tasks[1].Result()
	require.ErrorIs(t, err2, boom)

	v3, err3 := tasks[2].Result()
	require.NoError(t, err3)
	require.Equal(t, 30, v3)
}

func TestWhenAllEmpty(t *testing.T) {
	defer goleak.VerifyNone(t)

	tasks, err := corort.WhenAll[int](context.Background())
	require.NoError(t, err)
	require.Empty(t, tasks)
}

func TestWhenAllResumesOnlyOnceAfterEveryChild(t *testing.T) {
	defer goleak.VerifyNone(t)

	release := make(chan struct{})
	slow := corort.NewTask(func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	})
	fast := corort.NewTask(func(ctx context.Context) (int, error) { return 2, nil })

	joined := make(chan struct{})
	go func() {
		_, err := corort.WhenAll(context.Background(), slow, fast)
		require.NoError(t, err)
		close(joined)
	}()

	select {
	case <-joined:
		t.Fatal("WhenAll resumed before the slow child completed")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)

	select {
	case <-joined:
	case <-time.After(time.Second):
		t.Fatal("WhenAll never resumed after all children completed")
	}
}

func TestWhenAll2HeterogeneousTypes(t *testing.T) {
	defer goleak.VerifyNone(t)

	a := corort.NewTask(func(ctx context.Context) (int, error) { return 7, nil })
	b := corort.NewTask(func(ctx context.Context) (string, error) { return "ok", nil })

	pa, pb, err := corort.WhenAll2(context.Background(), a, b)
	require.NoError(t, err)
	require.Equal(t, 7, pa.Value)
	require.NoError(t, pa.Err)
	require.Equal(t, "ok", pb.Value)
	require.NoError(t, pb.Err)
}
