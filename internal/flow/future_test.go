package flow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFutureAwait(t *testing.T) {
	f := Go(func() (int, error) { return 7, nil })
	v, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestFutureAwaitIsIdempotent(t *testing.T) {
	f := Go(func() (int, error) { return 7, nil })
	for i := 0; i < 3; i++ {
		v, err := f.Await(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 7, v)
	}
}

func TestFutureAwaitHonorsContext(t *testing.T) {
	blocked := make(chan struct{})
	defer close(blocked)
	f := Go(func() (int, error) {
		<-blocked
		return 0, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestJoinAllPreservesOrderAndOutcomes(t *testing.T) {
	futures := []*Future[int]{
		Go(func() (int, error) { return 1, nil }),
		Resolved(0, errBoom),
		Go(func() (int, error) {
			time.Sleep(5 * time.Millisecond)
			return 3, nil
		}),
	}

	results := JoinAll(context.Background(), futures)
	require.Len(t, results, 3)
	assert.Equal(t, 1, results[0].Value)
	assert.ErrorIs(t, results[1].Err, errBoom)
	assert.Equal(t, 3, results[2].Value)
	assert.NoError(t, results[2].Err)
}
