package loop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRunsInOrder(t *testing.T) {
	q := NewQueue(8)
	var got []int
	for i := 1; i <= 3; i++ {
		i := i
		require.True(t, q.Post(func() { got = append(got, i) }))
	}

	assert.Equal(t, 3, q.RunPending())
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Zero(t, q.RunPending())
}

func TestQueuePostAfterClose(t *testing.T) {
	q := NewQueue(1)
	q.Close()
	q.Close()

	assert.False(t, q.Post(func() {}))
	_, err := q.Next(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestQueuePostNil(t *testing.T) {
	q := NewQueue(1)
	assert.False(t, q.Post(nil))
}

func TestQueueCloseUnblocksPoster(t *testing.T) {
	q := NewQueue(1)
	require.True(t, q.Post(func() {}))

	result := make(chan bool)
	go func() { result <- q.Post(func() {}) }()

	q.Close()
	select {
	case ok := <-result:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Post stayed blocked after Close")
	}
}

func TestQueueRunSerializesConcurrentPosts(t *testing.T) {
	q := NewQueue(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Post(func() { counter++ })
		}()
	}

	finished := make(chan error, 1)
	go func() { finished <- q.Run(ctx) }()

	wg.Wait()
	done := make(chan struct{})
	q.Post(func() { close(done) })
	<-done
	q.Close()

	require.NoError(t, <-finished)
	assert.Equal(t, 50, counter)
}

func TestQueueRunNextHonoursContext(t *testing.T) {
	q := NewQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, q.RunNext(ctx), context.DeadlineExceeded)
}
