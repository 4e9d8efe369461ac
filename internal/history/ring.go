// Package history keeps a bounded, in-memory log of orchestration runs.
package history

// Ring is a fixed-capacity FIFO buffer. Pushing onto a full ring evicts
// the oldest element. Ring is not safe for concurrent use.
type Ring[T any] struct {
	buf   []T
	start int
	size  int
}

// NewRing creates a ring holding at most capacity elements.
// A non-positive capacity is treated as 1.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{buf: make([]T, capacity)}
}

// Push appends v, evicting the oldest element when full.
// It reports whether an element was evicted.
func (r *Ring[T]) Push(v T) bool {
	capacity := len(r.buf)
	if r.size < capacity {
		r.buf[(r.start+r.size)%capacity] = v
		r.size++
		return false
	}
	r.buf[r.start] = v
	r.start = (r.start + 1) % capacity
	return true
}

// Len returns the number of stored elements.
func (r *Ring[T]) Len() int {
	return r.size
}

// Cap returns the ring's capacity.
func (r *Ring[T]) Cap() int {
	return len(r.buf)
}

// Snapshot returns all elements, oldest first.
func (r *Ring[T]) Snapshot() []T {
	return r.Last(r.size)
}

// Last returns up to n most recent elements, oldest first.
func (r *Ring[T]) Last(n int) []T {
	if n > r.size {
		n = r.size
	}
	if n < 0 {
		n = 0
	}
	out := make([]T, 0, n)
	for i := r.size - n; i < r.size; i++ {
		out = append(out, r.buf[(r.start+i)%len(r.buf)])
	}
	return out
}
