// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package ring implements a fixed-capacity FIFO over a slice.
package ring

// Ring is a FIFO of a fixed number of items. Front is the oldest item and
// Back the newest. Rotate recycles the front slot as the new back without
// allocating.
//
// The zero value is an empty ring.
type Ring[T any] struct {
	items []T
	head  int
}

// New returns a ring holding items, items[0] at the front.
func New[T any](items ...T) *Ring[T] {
	r := &Ring[T]{}
	r.Reset(items...)
	return r
}

// Reset replaces the contents with items, items[0] at the front.
// The backing slice is reused when it is large enough.
func (r *Ring[T]) Reset(items ...T) {
	r.Clear()
	r.items = append(r.items[:0], items...)
}

// Clear removes all items.
func (r *Ring[T]) Clear() {
	var zero T
	for i := range r.items {
		r.items[i] = zero
	}
	r.items = r.items[:0]
	r.head = 0
}

// Len returns the number of items.
func (r *Ring[T]) Len() int { return len(r.items) }

// Front returns the oldest item. It panics if the ring is empty.
func (r *Ring[T]) Front() T { return r.items[r.head] }

// Back returns the newest item. It panics if the ring is empty.
func (r *Ring[T]) Back() T {
	return r.items[(r.head+len(r.items)-1)%len(r.items)]
}

// Rotate moves the front item to the back and returns it.
// It panics if the ring is empty.
func (r *Ring[T]) Rotate() T {
	v := r.items[r.head]
	r.head = (r.head + 1) % len(r.items)
	return v
}

// Each calls fn for every item from front to back.
func (r *Ring[T]) Each(fn func(T)) {
	for i := range r.items {
		fn(r.items[(r.head+i)%len(r.items)])
	}
}
