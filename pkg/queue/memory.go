package queue

import (
	"context"
	"sync"
)

// InMemoryQueue implements an unbounded in-memory queue.
type InMemoryQueue[T any] struct {
	lock   sync.Mutex
	items  []T
	closed bool
	// ready holds a token while items may be pending
	ready chan struct{}
	done  chan struct{}
}

// NewInMemoryQueue creates a new queue. capacity is only a hint for the
// initial allocation; the queue grows as needed.
func NewInMemoryQueue[T any](capacity int) *InMemoryQueue[T] {
	return &InMemoryQueue[T]{
		items: make([]T, 0, capacity),
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

func (q *InMemoryQueue[T]) Enqueue(item T) error {
	q.lock.Lock()
	if q.closed {
		q.lock.Unlock()
		return ErrQueueClosed
	}
	q.items = append(q.items, item)
	q.lock.Unlock()
	q.signal()
	return nil
}

func (q *InMemoryQueue[T]) Dequeue(ctx context.Context) (T, error) {
	for {
		q.lock.Lock()
		if len(q.items) > 0 {
			item := q.items[0]
			var zero T
			q.items[0] = zero
			q.items = q.items[1:]
			remaining := len(q.items)
			q.lock.Unlock()
			if remaining > 0 {
				q.signal()
			}
			return item, nil
		}
		closed := q.closed
		q.lock.Unlock()

		var zero T
		if closed {
			return zero, ErrQueueClosed
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-q.ready:
		case <-q.done:
		}
	}
}

func (q *InMemoryQueue[T]) ReadAllMessages() ([]T, error) {
	q.lock.Lock()
	defer q.lock.Unlock()
	if len(q.items) == 0 {
		return nil, nil
	}
	items := q.items
	q.items = make([]T, 0, cap(items))
	return items, nil
}

func (q *InMemoryQueue[T]) Size() int {
	q.lock.Lock()
	defer q.lock.Unlock()
	return len(q.items)
}

func (q *InMemoryQueue[T]) ClearQueue() error {
	q.lock.Lock()
	defer q.lock.Unlock()
	q.items = q.items[:0]
	return nil
}

func (q *InMemoryQueue[T]) Close() {
	q.lock.Lock()
	defer q.lock.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}

func (q *InMemoryQueue[T]) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
