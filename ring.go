// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq

// ring is the element store behind Bounded.
//
// A power-of-two ring with free-running head and tail indices, in the manner
// of Lamport's buffer. The owner serializes access and enforces its own
// element limit, which may be smaller than the slot count.
type ring[T any] struct {
	buffer []T
	head   uint64 // next slot to pop
	tail   uint64 // next slot to push
	mask   uint64
}

func newRing[T any](capacity int) ring[T] {
	n := uint64(roundToPow2(capacity))
	return ring[T]{
		buffer: make([]T, n),
		mask:   n - 1,
	}
}

func (r *ring[T]) len() int {
	return int(r.tail - r.head)
}

func (r *ring[T]) push(elem T) {
	r.buffer[r.tail&r.mask] = elem
	r.tail++
}

// pop clears the vacated slot so referenced objects can be collected.
func (r *ring[T]) pop() T {
	elem := r.buffer[r.head&r.mask]
	var zero T
	r.buffer[r.head&r.mask] = zero
	r.head++
	return elem
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
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
