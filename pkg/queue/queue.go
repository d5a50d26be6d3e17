package queue

import (
	"context"
	"errors"
)

// ErrQueueClosed is returned by Enqueue after Close, and by Dequeue once a
// closed queue has been drained.
var ErrQueueClosed = errors.New("queue closed")

// Queue represents an unbounded FIFO queue that is safe for concurrent use.
type Queue[T any] interface {
	// Enqueue adds an item to the end of the queue. It never blocks.
	Enqueue(item T) error
	// Dequeue blocks until an item is available, the queue is closed and
	// drained, or ctx is done.
	Dequeue(ctx context.Context) (T, error)
	// ReadAllMessages removes and returns every pending item without blocking.
	ReadAllMessages() ([]T, error)
	// Size returns the number of pending items.
	Size() int
	// ClearQueue drops every pending item.
	ClearQueue() error
	// Close stops accepting items. Pending items can still be dequeued.
	Close()
}
