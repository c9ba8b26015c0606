package bus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuePublishAndRun(t *testing.T) {
	q := NewQueue[int](4)
	require.NoError(t, q.TryPublish(1))
	require.NoError(t, q.TryPublish(2))
	q.Close()

	var got []int
	q.Run(context.Background(), func(v int) {
		got = append(got, v)
	})
	assert.Equal(t, []int{1, 2}, got)
}

func TestQueueFullDoesNotBlock(t *testing.T) {
	q := NewQueue[string](1)
	require.NoError(t, q.TryPublish("a"))
	assert.ErrorIs(t, q.TryPublish("b"), ErrQueueFull)
}

func TestQueueClosedRejectsPublish(t *testing.T) {
	q := NewQueue[int](1)
	q.Close()
	assert.ErrorIs(t, q.TryPublish(1), ErrQueueClosed)
}

func TestQueueRunStopsOnContextCancel(t *testing.T) {
	q := NewQueue[int](1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	q.Run(ctx, func(int) {
		t.Fatal("handler should not run after cancel")
	})
}
