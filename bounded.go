// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq

import (
	"context"
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

var _ Queue[int] = (*Bounded[int])(nil)

// spinTries bounds the pause loop a blocked Put or Take runs on the
// lock-free count before it parks.
const spinTries = 16

// Bounded is a fixed-capacity blocking FIFO queue.
//
// Put parks while the queue holds Cap() elements and Take parks while it is
// empty. All reads and writes of the store happen under one mutex; parked
// callers release it and re-validate their condition after every wake.
// Any number of producer and consumer goroutines may share a Bounded.
//
// Memory: one power-of-two ring of at least capacity slots
type Bounded[T any] struct {
	mu       sync.Mutex
	notFull  cond // Producers park here
	notEmpty cond // Consumers park here
	ring     ring[T]
	capacity int

	count     atomix.Int64 // Mirror of ring.len(), written under mu
	puts      atomix.Int64
	takes     atomix.Int64
	putWaits  atomix.Int64
	takeWaits atomix.Int64
}

// Stats is a snapshot of a Bounded queue's counters.
type Stats struct {
	Puts      int64 // Elements accepted by Put or TryPut
	Takes     int64 // Elements returned by Take or TryTake
	PutWaits  int64 // Times a Put parked on a full queue
	TakeWaits int64 // Times a Take parked on an empty queue
}

// NewBounded creates a blocking queue holding at most capacity elements.
// Panics if capacity < 1.
func NewBounded[T any](capacity int) *Bounded[T] {
	if capacity < 1 {
		panic("bq: capacity must be > 0")
	}

	return &Bounded[T]{
		ring:     newRing[T](capacity),
		capacity: capacity,
	}
}

// Put appends elem to the tail of the queue, parking while it is full.
//
// Returns ctx.Err() without enqueueing if ctx is done on entry or while
// parked.
func (q *Bounded[T]) Put(ctx context.Context, elem T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q.spinWhile(q.isFull)

	q.mu.Lock()
	defer q.mu.Unlock()
	for q.ring.len() == q.capacity {
		q.putWaits.Add(1)
		if err := q.notFull.wait(ctx, &q.mu); err != nil {
			return err
		}
	}
	q.enqueue(elem)
	return nil
}

// Take removes and returns the head of the queue, parking while it is empty.
//
// Returns (zero-value, ctx.Err()) without dequeueing if ctx is done on entry
// or while parked.
func (q *Bounded[T]) Take(ctx context.Context) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	q.spinWhile(q.isEmpty)

	q.mu.Lock()
	defer q.mu.Unlock()
	for q.ring.len() == 0 {
		q.takeWaits.Add(1)
		if err := q.notEmpty.wait(ctx, &q.mu); err != nil {
			var zero T
			return zero, err
		}
	}
	return q.dequeue(), nil
}

// TryPut appends elem without parking.
// Returns ErrWouldBlock if the queue is full.
func (q *Bounded[T]) TryPut(elem T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.ring.len() == q.capacity {
		return ErrWouldBlock
	}
	q.enqueue(elem)
	return nil
}

// TryTake removes and returns the head without parking.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *Bounded[T]) TryTake() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.ring.len() == 0 {
		var zero T
		return zero, ErrWouldBlock
	}
	return q.dequeue(), nil
}

// Size returns the number of queued elements without blocking.
// The result may be stale by the time the caller sees it.
func (q *Bounded[T]) Size() int {
	return int(q.count.Load())
}

// Cap returns the queue capacity.
func (q *Bounded[T]) Cap() int {
	return q.capacity
}

// Stats returns a snapshot of the queue counters.
// Counters are read individually, so the snapshot is not atomic as a whole.
func (q *Bounded[T]) Stats() Stats {
	return Stats{
		Puts:      q.puts.Load(),
		Takes:     q.takes.Load(),
		PutWaits:  q.putWaits.Load(),
		TakeWaits: q.takeWaits.Load(),
	}
}

// enqueue requires q.mu held and a free slot.
func (q *Bounded[T]) enqueue(elem T) {
	if q.ring.len() >= q.capacity {
		panic("bq: capacity invariant violated")
	}
	q.ring.push(elem)
	q.count.Add(1)
	q.puts.Add(1)
	q.notEmpty.broadcast()
}

// dequeue requires q.mu held and at least one element.
func (q *Bounded[T]) dequeue() T {
	elem := q.ring.pop()
	q.count.Add(-1)
	q.takes.Add(1)
	q.notFull.broadcast()
	return elem
}

func (q *Bounded[T]) isFull() bool {
	return q.count.LoadRelaxed() >= int64(q.capacity)
}

func (q *Bounded[T]) isEmpty() bool {
	return q.count.LoadRelaxed() <= 0
}

// spinWhile pauses briefly while blocked reports true. A short wait on the
// other side is often over before parking would pay off. The caller still
// re-checks its condition under the lock.
func (q *Bounded[T]) spinWhile(blocked func() bool) {
	sw := spin.Wait{}
	for range spinTries {
		if !blocked() {
			return
		}
		sw.Once()
	}
}
