// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transfer

import "sync"

// Sink is an append-only destination sequence safe for concurrent writers.
// The zero value is ready to use.
type Sink[T any] struct {
	mu    sync.Mutex
	items []T
}

// NewSink creates a Sink with room for capacity items before growing.
func NewSink[T any](capacity int) *Sink[T] {
	return &Sink[T]{items: make([]T, 0, max(capacity, 0))}
}

// Append adds item to the end. Each call is atomic with respect to other
// appenders.
func (s *Sink[T]) Append(item T) {
	s.mu.Lock()
	s.items = append(s.items, item)
	s.mu.Unlock()
}

// Len returns the number of appended items.
func (s *Sink[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Items returns a copy of the appended items in append order.
func (s *Sink[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}
