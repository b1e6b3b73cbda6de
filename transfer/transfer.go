// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"code.hybscloud.com/bq"
)

// ErrImbalance indicates the destination did not end up with as many items
// as the source.
var ErrImbalance = errors.New("transfer: destination length differs from source")

// ImbalanceError reports an unbalanced run and the task error behind it,
// if any. It matches ErrImbalance with errors.Is and unwraps to Cause.
type ImbalanceError struct {
	Source      int
	Transferred int
	Cause       error
}

func (e *ImbalanceError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("transfer: moved %d of %d items", e.Transferred, e.Source)
	}
	return fmt.Sprintf("transfer: moved %d of %d items: %v", e.Transferred, e.Source, e.Cause)
}

func (e *ImbalanceError) Unwrap() error { return e.Cause }

func (e *ImbalanceError) Is(target error) bool { return target == ErrImbalance }

// Report describes a finished run.
type Report[T any] struct {
	RunID    string
	Source   int      // Source length
	Produced int      // Items the producer put
	Consumed int      // Items the consumer took
	Items    []T      // Destination contents in consumption order
	Queue    bq.Stats // Queue counters, including how often each side parked
	Err      error    // First task error, nil on a clean run
	Elapsed  time.Duration
}

// Balanced reports whether the destination holds as many items as the source.
func (r Report[T]) Balanced() bool {
	return len(r.Items) == r.Source
}

// Builder configures and runs a transfer.
//
// Example:
//
//	report, err := transfer.New(source).Capacity(3).Run(ctx)
type Builder[T any] struct {
	source []T
	opts   Options
	logger *zap.Logger
}

// New creates a transfer builder for source with DefaultOptions.
// The source slice is only read.
func New[T any](source []T) *Builder[T] {
	return &Builder[T]{
		source: source,
		opts:   DefaultOptions(),
		logger: zap.NewNop(),
	}
}

// Capacity sets the queue capacity.
func (b *Builder[T]) Capacity(n int) *Builder[T] {
	b.opts.Capacity = n
	return b
}

// ProduceDelay sets the producer's pause between items.
func (b *Builder[T]) ProduceDelay(d time.Duration) *Builder[T] {
	b.opts.ProduceDelay = d
	return b
}

// ConsumeDelay sets the consumer's pause between items.
func (b *Builder[T]) ConsumeDelay(d time.Duration) *Builder[T] {
	b.opts.ConsumeDelay = d
	return b
}

// WithOptions replaces all options, e.g. with the result of LoadOptions.
func (b *Builder[T]) WithOptions(o Options) *Builder[T] {
	b.opts = o
	return b
}

// Logger sets the run logger. A nil logger is ignored.
func (b *Builder[T]) Logger(l *zap.Logger) *Builder[T] {
	if l != nil {
		b.logger = l
	}
	return b
}

// Run wires one Producer and one Consumer to a fresh queue, runs them
// concurrently and waits for both to stop.
//
// The consumer takes exactly len(source) items. When the destination ends
// up shorter than the source, Run returns the report together with an
// *ImbalanceError wrapping the first task error. Invalid options are
// rejected before anything starts.
func (b *Builder[T]) Run(ctx context.Context) (Report[T], error) {
	if err := b.opts.Validate(); err != nil {
		return Report[T]{}, err
	}

	runID := uuid.NewString()
	log := b.logger.With(zap.String("run_id", runID))

	q := bq.NewBounded[T](b.opts.Capacity)
	dst := NewSink[T](len(b.source))
	producer := NewProducer(b.source, q,
		WithDelay(b.opts.ProduceDelay),
		WithLogger(log.Named("producer")))
	consumer := NewConsumer(q, dst, len(b.source),
		WithDelay(b.opts.ConsumeDelay),
		WithLogger(log.Named("consumer")))

	log.Info("transfer started",
		zap.Int("items", len(b.source)),
		zap.Int("capacity", b.opts.Capacity),
		zap.Duration("produce_delay", b.opts.ProduceDelay),
		zap.Duration("consume_delay", b.opts.ConsumeDelay))

	start := time.Now()
	var produced, consumed int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := producer.Run(gctx)
		produced = n
		return err
	})
	g.Go(func() error {
		n, err := consumer.Run(gctx)
		consumed = n
		return err
	})
	taskErr := g.Wait()

	r := Report[T]{
		RunID:    runID,
		Source:   len(b.source),
		Produced: produced,
		Consumed: consumed,
		Items:    dst.Items(),
		Queue:    q.Stats(),
		Err:      taskErr,
		Elapsed:  time.Since(start),
	}

	fields := []zap.Field{
		zap.Int("source", r.Source),
		zap.Int("produced", r.Produced),
		zap.Int("consumed", r.Consumed),
		zap.Int("destination", len(r.Items)),
		zap.Int64("put_waits", r.Queue.PutWaits),
		zap.Int64("take_waits", r.Queue.TakeWaits),
		zap.Duration("elapsed", r.Elapsed),
	}
	if !r.Balanced() {
		log.Error("transfer unbalanced", append(fields, zap.Error(taskErr))...)
		return r, &ImbalanceError{Source: r.Source, Transferred: len(r.Items), Cause: taskErr}
	}
	log.Info("transfer complete", fields...)
	return r, nil
}

// Labels returns n labels of the form "prefix-1" through "prefix-n".
func Labels(prefix string, n int) []string {
	out := make([]string, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		out = append(out, fmt.Sprintf("%s-%d", prefix, i))
	}
	return out
}
