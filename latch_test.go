package corort_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/corort/corort"
)

func TestLatchOpensAfterN(t *testing.T) {
	defer goleak.VerifyNone(t)

	l := corort.NewLatch(3)

	done := make(chan struct{})
	go func() {
		require.NoError(t, l.Wait(context.Background()))
		close(done)
	}()

	l.CountDown(1)
	l.CountDown(1)

	select {
	case <-done:
		t.Fatal("latch opened before the third count-down")
	case <-time.After(20 * time.Millisecond):
	}

	l.CountDown(1)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("latch did not open after n count-downs")
	}
	require.LessOrEqual(t, l.Remaining(), int64(0))
}

func TestLatchCountDownByMoreThanOne(t *testing.T) {
	defer goleak.VerifyNone(t)

	l := corort.NewLatch(5)
	l.CountDown(5)
	require.NoError(t, l.Wait(context.Background()))
}

func TestLatchZeroIsAlreadyOpen(t *testing.T) {
	defer goleak.VerifyNone(t)

	l := corort.NewLatch(0)
	require.NoError(t, l.Wait(context.Background()))
}
