// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"code.hybscloud.com/bq"
)

// settle is how long a test watches a parked call to confirm it stays parked.
const settle = 50 * time.Millisecond

// =============================================================================
// Blocking on Full
// =============================================================================

// TestPutBlocksWhenFull verifies that a Put on a full queue does not return
// until a Take frees a slot.
func TestPutBlocksWhenFull(t *testing.T) {
	ctx := context.Background()
	q := bq.NewBounded[string](3)
	for _, s := range []string{"Item1", "Item2", "Item3"} {
		if err := q.Put(ctx, s); err != nil {
			t.Fatalf("Put(%s): %v", s, err)
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- q.Put(ctx, "Item4")
	}()

	retryWithTimeout(t, time.Second, func() bool {
		return q.Stats().PutWaits >= 1
	}, "producer did not park on full queue")

	select {
	case err := <-done:
		t.Fatalf("Put on full queue returned early: %v", err)
	case <-time.After(settle):
	}

	got, err := q.Take(ctx)
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	if got != "Item1" {
		t.Fatalf("Take: got %q, want Item1", got)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("parked Put: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("parked Put did not return after Take")
	}

	if q.Size() != 3 {
		t.Fatalf("Size: got %d, want 3", q.Size())
	}
	for _, want := range []string{"Item2", "Item3", "Item4"} {
		got, err := q.Take(ctx)
		if err != nil {
			t.Fatalf("Take: %v", err)
		}
		if got != want {
			t.Fatalf("Take: got %q, want %q", got, want)
		}
	}
}

// TestOneTakeReleasesOnePut verifies that with two producers parked on a full
// queue, a single Take lets exactly one of them through.
func TestOneTakeReleasesOnePut(t *testing.T) {
	ctx := context.Background()
	q := bq.NewBounded[int](3)
	for i := range 3 {
		if err := q.Put(ctx, i); err != nil {
			t.Fatalf("Put(%d): %v", i, err)
		}
	}

	done := make(chan error, 2)
	for v := range 2 {
		go func() {
			done <- q.Put(ctx, 100+v)
		}()
	}

	retryWithTimeout(t, time.Second, func() bool {
		return q.Stats().PutWaits >= 2
	}, "producers did not park on full queue")

	if _, err := q.Take(ctx); err != nil {
		t.Fatalf("Take: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("first released Put: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("no parked Put returned after Take")
	}

	select {
	case err := <-done:
		t.Fatalf("second Put returned without a free slot: %v", err)
	case <-time.After(settle):
	}
	if q.Size() != 3 {
		t.Fatalf("Size: got %d, want 3", q.Size())
	}

	if _, err := q.Take(ctx); err != nil {
		t.Fatalf("Take: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("second released Put: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("second parked Put did not return after Take")
	}
}

// =============================================================================
// Blocking on Empty
// =============================================================================

// TestTakeBlocksWhenEmpty verifies that a Take on an empty queue does not
// return until a Put supplies an item, and then returns that exact item.
func TestTakeBlocksWhenEmpty(t *testing.T) {
	ctx := context.Background()
	q := bq.NewBounded[string](3)

	type result struct {
		v   string
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := q.Take(ctx)
		done <- result{v, err}
	}()

	retryWithTimeout(t, time.Second, func() bool {
		return q.Stats().TakeWaits >= 1
	}, "consumer did not park on empty queue")

	select {
	case r := <-done:
		t.Fatalf("Take on empty queue returned early: %q, %v", r.v, r.err)
	case <-time.After(settle):
	}

	if err := q.Put(ctx, "Item1"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	select {
	case r := <-done:
		if r.err != nil {
			t.Fatalf("parked Take: %v", r.err)
		}
		if r.v != "Item1" {
			t.Fatalf("parked Take: got %q, want Item1", r.v)
		}
	case <-time.After(time.Second):
		t.Fatal("parked Take did not return after Put")
	}

	if q.Size() != 0 {
		t.Fatalf("Size: got %d, want 0", q.Size())
	}
}

// TestPutWakesAllParkedConsumers verifies that every parked consumer is
// eventually served when enough items arrive, one Put at a time.
func TestPutWakesAllParkedConsumers(t *testing.T) {
	const consumers = 4
	ctx := context.Background()
	q := bq.NewBounded[int](1)

	done := make(chan int, consumers)
	for range consumers {
		go func() {
			v, err := q.Take(ctx)
			if err != nil {
				done <- -1
				return
			}
			done <- v
		}()
	}

	retryWithTimeout(t, time.Second, func() bool {
		return q.Stats().TakeWaits >= consumers
	}, "consumers did not park on empty queue")

	seen := make(map[int]bool)
	for i := range consumers {
		if err := q.Put(ctx, i); err != nil {
			t.Fatalf("Put(%d): %v", i, err)
		}
		select {
		case v := <-done:
			if v < 0 || seen[v] {
				t.Fatalf("consumer got %d (seen=%v)", v, seen)
			}
			seen[v] = true
		case <-time.After(time.Second):
			t.Fatalf("no consumer woke for item %d", i)
		}
	}
}

// =============================================================================
// Cancellation
// =============================================================================

// TestTakeCancel verifies that a Take parked on an empty queue returns
// promptly when its context is cancelled, and that the queue still works.
func TestTakeCancel(t *testing.T) {
	q := bq.NewBounded[string](3)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := q.Take(ctx)
		done <- err
	}()

	retryWithTimeout(t, time.Second, func() bool {
		return q.Stats().TakeWaits >= 1
	}, "consumer did not park on empty queue")

	start := time.Now()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("cancelled Take: got %v, want context.Canceled", err)
		}
		if !bq.IsCanceled(err) {
			t.Fatalf("IsCanceled(%v): got false, want true", err)
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled Take did not return")
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("cancelled Take took %v", elapsed)
	}

	if q.Size() != 0 {
		t.Fatalf("Size after cancel: got %d, want 0", q.Size())
	}

	// Subsequent Put/Take pair behaves normally
	bg := context.Background()
	if err := q.Put(bg, "after"); err != nil {
		t.Fatalf("Put after cancel: %v", err)
	}
	got, err := q.Take(bg)
	if err != nil {
		t.Fatalf("Take after cancel: %v", err)
	}
	if got != "after" {
		t.Fatalf("Take after cancel: got %q, want after", got)
	}
}

// TestPutDeadline verifies that a Put parked on a full queue gives up at its
// deadline without enqueueing.
func TestPutDeadline(t *testing.T) {
	bg := context.Background()
	q := bq.NewBounded[int](2)
	_ = q.Put(bg, 1)
	_ = q.Put(bg, 2)

	ctx, cancel := context.WithTimeout(bg, 20*time.Millisecond)
	defer cancel()

	err := q.Put(ctx, 3)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Put past deadline: got %v, want context.DeadlineExceeded", err)
	}
	if !bq.IsCanceled(err) {
		t.Fatalf("IsCanceled(%v): got false, want true", err)
	}
	if q.Size() != 2 {
		t.Fatalf("Size after timed-out Put: got %d, want 2", q.Size())
	}
	if s := q.Stats(); s.Puts != 2 {
		t.Fatalf("Stats.Puts: got %d, want 2", s.Puts)
	}

	for _, want := range []int{1, 2} {
		got, err := q.Take(bg)
		if err != nil {
			t.Fatalf("Take: %v", err)
		}
		if got != want {
			t.Fatalf("Take: got %d, want %d", got, want)
		}
	}
}

// TestCanceledOnEntry verifies that a done context is reported even when the
// operation could proceed immediately.
func TestCanceledOnEntry(t *testing.T) {
	q := bq.NewBounded[int](2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := q.Put(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("Put with done ctx: got %v, want context.Canceled", err)
	}
	if q.Size() != 0 {
		t.Fatalf("Size: got %d, want 0", q.Size())
	}

	_ = q.TryPut(1)
	if _, err := q.Take(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Take with done ctx: got %v, want context.Canceled", err)
	}
	if q.Size() != 1 {
		t.Fatalf("Size: got %d, want 1", q.Size())
	}
}

// TestCancelOneOfManyWaiters verifies that cancelling one parked consumer
// leaves the others parked and servable.
func TestCancelOneOfManyWaiters(t *testing.T) {
	bg := context.Background()
	q := bq.NewBounded[int](2)

	ctx, cancel := context.WithCancel(bg)
	cancelled := make(chan error, 1)
	go func() {
		_, err := q.Take(ctx)
		cancelled <- err
	}()

	served := make(chan int, 1)
	go func() {
		v, err := q.Take(bg)
		if err != nil {
			served <- -1
			return
		}
		served <- v
	}()

	retryWithTimeout(t, time.Second, func() bool {
		return q.Stats().TakeWaits >= 2
	}, "consumers did not park on empty queue")

	cancel()
	select {
	case err := <-cancelled:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("cancelled Take: got %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled Take did not return")
	}

	if err := q.Put(bg, 42); err != nil {
		t.Fatalf("Put: %v", err)
	}
	select {
	case v := <-served:
		if v != 42 {
			t.Fatalf("remaining consumer: got %d, want 42", v)
		}
	case <-time.After(time.Second):
		t.Fatal("remaining consumer was not served")
	}
}
