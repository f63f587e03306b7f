// Package ringbuf provides a fixed-capacity ring that keeps the most recent
// values, overwriting the oldest once full.
package ringbuf

import "sync"

// Ring holds the last Cap() values pushed. It is safe for concurrent use.
// Capacity is a power of two for fast bitwise modulo.
type Ring[T any] struct {
	mu   sync.RWMutex
	buf  []T
	mask uint64
	head uint64 // total pushes

	overwritten uint64
}

// New creates a ring. capacity is rounded up to the next power of two.
// Minimum capacity is 2.
func New[T any](capacity int) *Ring[T] {
	size := nextPow2(capacity)
	if size < 2 {
		size = 2
	}
	return &Ring[T]{
		buf:  make([]T, size),
		mask: uint64(size - 1),
	}
}

// Push appends v, evicting the oldest value when the ring is full.
func (r *Ring[T]) Push(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.head >= uint64(len(r.buf)) {
		r.overwritten++
	}
	r.buf[r.head&r.mask] = v
	r.head++
}

// Last returns up to n of the most recent values, oldest first. n <= 0
// returns everything held.
func (r *Ring[T]) Last(n int) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	held := r.lenLocked()
	if n <= 0 || n > held {
		n = held
	}
	out := make([]T, n)
	start := r.head - uint64(n)
	for i := range out {
		out[i] = r.buf[(start+uint64(i))&r.mask]
	}
	return out
}

// Newest returns the most recent value.
func (r *Ring[T]) Newest() (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.head == 0 {
		var zero T
		return zero, false
	}
	return r.buf[(r.head-1)&r.mask], true
}

// Len returns the number of values held.
func (r *Ring[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lenLocked()
}

func (r *Ring[T]) lenLocked() int {
	if r.head < uint64(len(r.buf)) {
		return int(r.head)
	}
	return len(r.buf)
}

// Cap returns the ring capacity.
func (r *Ring[T]) Cap() int {
	return len(r.buf)
}

// Overwritten returns how many values were evicted.
func (r *Ring[T]) Overwritten() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.overwritten
}

// nextPow2 returns the smallest power of 2 >= n.
func nextPow2(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
