// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bq provides a bounded blocking FIFO queue.
//
// [Bounded] is the classic bounded buffer: a fixed-capacity FIFO store where
// producers park while it is full and consumers park while it is empty.
// Coordination is purely mutual exclusion plus condition signaling; no
// goroutine busy-waits for longer than a short adaptive spin.
//
// # Quick Start
//
//	q := bq.NewBounded[Event](64)
//
//	// Producer
//	if err := q.Put(ctx, ev); err != nil {
//	    return err // ctx cancelled while the queue was full
//	}
//
//	// Consumer
//	ev, err := q.Take(ctx)
//	if err != nil {
//	    return err // ctx cancelled while the queue was empty
//	}
//
// # Blocking and Cancellation
//
// Put and Take take a [context.Context]. The context is checked on entry and
// every time a parked call wakes. When it is done, the call returns
// ctx.Err() and leaves the queue exactly as it was: there is no partial
// enqueue or dequeue.
//
//	ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
//	defer cancel()
//	_, err := q.Take(ctx)
//	if bq.IsCanceled(err) {
//	    // nothing arrived in time
//	}
//
// A parked call holds no lock. It reacquires the lock and re-validates its
// condition after every wake, so spurious wakeups and lost races against
// other waiters are harmless.
//
// # Non-blocking Operations
//
// TryPut and TryTake never park. They return [ErrWouldBlock] when the queue
// is full or empty, sourced from [code.hybscloud.com/iox]:
//
//	backoff := iox.Backoff{}
//	for q.TryPut(item) != nil {
//	    backoff.Wait()
//	}
//	backoff.Reset()
//
// # Capacity and Size
//
// Capacity is exact: NewBounded(3) holds at most three elements. Panics if
// capacity < 1.
//
// Size reads an atomic mirror of the element count and never parks. The value
// may be stale as soon as it returns; do not use it for control decisions.
//
// # Wakeups
//
// Every Put wakes all goroutines parked on "not empty" and every Take wakes
// all goroutines parked on "not full". Each woken goroutine re-checks its
// condition, so any number of producers and consumers can share one queue
// without a parked waiter being starved by a single-wake policy.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for the lock-free size and statistics
// counters, and [code.hybscloud.com/spin] for CPU pause instructions.
package bq
