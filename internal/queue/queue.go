// Package queue provides the write-behind buffer used by the journal
// engine to batch scene operations between database flushes.
package queue

import (
	"sync"
)

// Queue buffers items between a producer and a periodic drain. The
// journal engine pushes operations as scene calls arrive and the
// background writer takes whole batches with Drain.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

// New creates a new empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{
		items: make([]T, 0),
	}
}

// Push appends items to the back of the queue.
func (q *Queue[T]) Push(items ...T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, items...)
}

// Requeue puts a failed batch back at the front, ahead of anything
// pushed since it was drained, so the next drain sees the original
// order again. The batch is copied; the caller's slice stays its own.
func (q *Queue[T]) Requeue(items []T) {
	if len(items) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	merged := make([]T, 0, len(items)+len(q.items))
	merged = append(merged, items...)
	merged = append(merged, q.items...)
	q.items = merged
}

// Len returns the number of items in the queue.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Drain returns all buffered items and leaves the queue empty. The
// replacement slice keeps the old capacity, since the next batch
// tends to be about the same size.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	drained := q.items
	q.items = make([]T, 0, cap(drained))
	return drained
}
