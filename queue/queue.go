// Package queue provides the shared task container used by mapper workers.
//
// A Queue is unbounded. Offer never blocks; Take blocks while the queue is empty
// and releases the lock while waiting. Two draw disciplines are available:
//   - NewFIFO: items are taken in insertion order.
//   - NewLIFO: items are taken from the same end they are inserted into.
package queue

import (
	"context"
	"errors"
	"sync"
)

const Namespace = "queue"

var (
	ErrClosed      = errors.New(Namespace + ": closed")
	ErrInterrupted = errors.New(Namespace + ": wait interrupted")
)

// Queue is an interface that defines methods on a shared queue of pending items.
type Queue[T any] interface {
	// Offer adds an item without blocking and wakes at most one blocked taker.
	Offer(T) error

	// Take removes one item, blocking while the queue is empty.
	Take(context.Context) (T, error)

	// Close rejects further offers, wakes all takers and returns the items left behind.
	Close() []T

	// Len returns the number of pending items.
	Len() int
}

// locked is a mutex and condition variable guarded slice.
// draw removes one item from a non-empty slice according to the discipline.
type locked[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []T
	closed bool
	draw   func([]T) (T, []T)
}

func newLocked[T any](draw func([]T) (T, []T)) *locked[T] {
	q := &locked[T]{draw: draw}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *locked[T]) Offer(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.items = append(q.items, v)
	q.cond.Signal()
	return nil
}

func (q *locked[T]) Take(ctx context.Context) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, errors.Join(ErrInterrupted, err)
	}

	// Cancellation must wake waiters; the callback takes the lock so it cannot
	// slip in between the ctx check and cond.Wait below.
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 {
		if q.closed {
			return zero, ErrClosed
		}
		if err := ctx.Err(); err != nil {
			return zero, errors.Join(ErrInterrupted, err)
		}
		q.cond.Wait()
	}

	v, rest := q.draw(q.items)
	q.items = rest
	return v, nil
}

func (q *locked[T]) Close() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true

	var left []T
	for len(q.items) > 0 {
		var v T
		v, q.items = q.draw(q.items)
		left = append(left, v)
	}
	q.items = nil
	q.cond.Broadcast()
	return left
}

func (q *locked[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
