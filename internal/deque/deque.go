// deque is a package that provides a bounded implementation of a double ended queue.
package deque

import (
	"errors"
	"sync"
)

var (
	// ErrEmptyDeque is returned when the deque is empty.
	ErrEmptyDeque = errors.New("deque is empty")

	// ErrFullDeque is returned when the deque is at capacity.
	ErrFullDeque = errors.New("deque is full")
)

// Deque is a basic implementation of a double ended queue
// with a fixed maximum length.  Elements enter on the left
// and leave on the right, which gives FIFO ordering.
type Deque[T any] struct {
	mu       sync.RWMutex
	capacity int
	internal []T
}

// New returns a new pointer to an instance of a Deque that
// holds at most capacity elements.
func New[T any](capacity int) *Deque[T] {
	return &Deque[T]{capacity: capacity, internal: make([]T, 0, capacity)}
}

// PushLeft puts a new item at the tail of the deque.  If the
// deque is already at capacity ErrFullDeque is returned and the
// deque is left untouched.
func (d *Deque[T]) PushLeft(element T) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.internal) >= d.capacity {
		return ErrFullDeque
	}
	d.internal = append(d.internal, element)
	return nil
}

// PopRight removes and returns the head element of the deque.
// This is synchronised internally.
func (d *Deque[T]) PopRight() (T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.internal) == 0 {
		var t T
		return t, ErrEmptyDeque
	}
	item := d.internal[0]
	var zero T
	d.internal[0] = zero
	d.internal = d.internal[1:]
	if len(d.internal) == 0 {
		// reclaim the backing array once drained.
		d.internal = make([]T, 0, d.capacity)
	}
	return item, nil
}

// Length returns the length of the Deque.
func (d *Deque[T]) Length() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.internal)
}

// Capacity returns the maximum number of elements the Deque holds.
func (d *Deque[T]) Capacity() int {
	return d.capacity
}
