// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq

import "context"

// Queue is the combined producer-consumer interface for a blocking FIFO queue.
//
// Example:
//
//	var q bq.Queue[int] = bq.NewBounded[int](8)
//
//	if err := q.Put(ctx, 42); err != nil {
//	    // ctx done while full
//	}
//
//	v, err := q.Take(ctx)
//	if err == nil {
//	    fmt.Println(v)
//	}
type Queue[T any] interface {
	Putter[T]
	Taker[T]
	Size() int
	Cap() int
}

// Putter is the producer side of a blocking queue.
type Putter[T any] interface {
	// Put appends elem, parking while the queue is full.
	// Returns ctx.Err() if ctx is done before space is found.
	Put(ctx context.Context, elem T) error

	// TryPut appends elem without parking.
	// Returns ErrWouldBlock if the queue is full.
	TryPut(elem T) error
}

// Taker is the consumer side of a blocking queue.
type Taker[T any] interface {
	// Take removes and returns the head element, parking while the queue is
	// empty. Returns (zero-value, ctx.Err()) if ctx is done first.
	Take(ctx context.Context) (T, error)

	// TryTake removes and returns the head element without parking.
	// Returns (zero-value, ErrWouldBlock) if the queue is empty.
	TryTake() (T, error)
}
