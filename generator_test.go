package corort_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/corort/corort"
)

func TestGeneratorYieldsInOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := corort.NewGenerator(func(ctx context.Context, yield func(int) bool) error {
		for i := 1; i <= 3; i++ {
			if !yield(i) {
				return nil
			}
		}
		return nil
	})
	defer g.Close()

	var got []int
	for {
		v, ok, err := g.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, v)
	}

	require.Equal(t, []int{1, 2, 3}, got)
}

func TestGeneratorPropagatesError(t *testing.T) {
	defer goleak.VerifyNone(t)

	boom := errors.New("boom")
	g := corort.NewGenerator(func(ctx context.Context, yield func(int) bool) error {
		yield(1)
		return boom
	})
	defer g.Close()

	v, ok, err := g.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, v)

	_, ok, err = g.Next()
	require.False(t, ok)
	require.ErrorIs(t, err, boom)
}

func TestGeneratorCloseStopsProducer(t *testing.T) {
	defer goleak.VerifyNone(t)

	produced := make(chan struct{})
	g := corort.NewGenerator(func(ctx context.Context, yield func(int) bool) error {
		for i := 0; ; i++ {
			if i == 0 {
				close(produced)
			}
			if !yield(i) {
				return nil
			}
		}
	})

	v, ok, err := g.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0, v)
	<-produced

	g.Close()
	g.Close() // idempotent
}
