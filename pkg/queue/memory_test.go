package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueue_FIFO(t *testing.T) {
	q := NewInMemoryQueue[int](0)
	for i := 0; i < 5000; i++ {
		require.NoError(t, q.Enqueue(i))
	}
	assert.Equal(t, 5000, q.Size())

	ctx := context.Background()
	for i := 0; i < 5000; i++ {
		got, err := q.Dequeue(ctx)
		require.NoError(t, err)
		require.Equal(t, i, got)
	}
	assert.Zero(t, q.Size())
}

func TestInMemoryQueue_DequeueBlocksUntilEnqueue(t *testing.T) {
	q := NewInMemoryQueue[string](1)
	got := make(chan string)
	go func() {
		item, err := q.Dequeue(context.Background())
		assert.NoError(t, err)
		got <- item
	}()

	select {
	case <-got:
		t.Fatal("dequeue returned before enqueue")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, q.Enqueue("hello"))
	select {
	case item := <-got:
		assert.Equal(t, "hello", item)
	case <-time.After(time.Second):
		t.Fatal("dequeue did not return")
	}
}

func TestInMemoryQueue_DequeueContext(t *testing.T) {
	q := NewInMemoryQueue[int](1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := q.Dequeue(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestInMemoryQueue_CloseDrainsThenFails(t *testing.T) {
	q := NewInMemoryQueue[int](1)
	require.NoError(t, q.Enqueue(1))
	q.Close()
	q.Close()

	assert.Equal(t, ErrQueueClosed, q.Enqueue(2))

	got, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	_, err = q.Dequeue(context.Background())
	assert.Equal(t, ErrQueueClosed, err)
}

func TestInMemoryQueue_CloseWakesBlockedDequeue(t *testing.T) {
	q := NewInMemoryQueue[int](1)
	errs := make(chan error)
	go func() {
		_, err := q.Dequeue(context.Background())
		errs <- err
	}()
	time.Sleep(10 * time.Millisecond)
	q.Close()
	select {
	case err := <-errs:
		assert.Equal(t, ErrQueueClosed, err)
	case <-time.After(time.Second):
		t.Fatal("dequeue was not woken by close")
	}
}

func TestInMemoryQueue_ReadAllMessages(t *testing.T) {
	q := NewInMemoryQueue[int](4)
	items, err := q.ReadAllMessages()
	require.NoError(t, err)
	assert.Empty(t, items)

	for i := 0; i < 3; i++ {
		require.NoError(t, q.Enqueue(i))
	}
	items, err = q.ReadAllMessages()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, items)
	assert.Zero(t, q.Size())

	require.NoError(t, q.Enqueue(9))
	require.NoError(t, q.ClearQueue())
	assert.Zero(t, q.Size())
}

func TestInMemoryQueue_ConcurrentProducers(t *testing.T) {
	q := NewInMemoryQueue[int](0)
	const producers, perProducer = 8, 250

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				assert.NoError(t, q.Enqueue(i))
			}
		}()
	}

	received := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for received < producers*perProducer {
			_, err := q.Dequeue(context.Background())
			if err != nil {
				return
			}
			received++
		}
	}()

	wg.Wait()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not receive every item")
	}
	assert.Equal(t, producers*perProducer, received)
}
