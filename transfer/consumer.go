// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transfer

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"code.hybscloud.com/bq"
)

// Consumer takes a fixed number of items from a queue and appends each to a
// destination Sink.
type Consumer[T any] struct {
	task
	queue bq.Taker[T]
	dst   *Sink[T]
	count int
}

// NewConsumer creates a consumer that takes exactly count items.
// Panics if dst is nil or count < 0.
func NewConsumer[T any](queue bq.Taker[T], dst *Sink[T], count int, opts ...TaskOption) *Consumer[T] {
	if dst == nil {
		panic("transfer: nil destination sink")
	}
	if count < 0 {
		panic("transfer: items to consume must be >= 0")
	}
	return &Consumer[T]{
		task:  newTask(opts),
		queue: queue,
		dst:   dst,
		count: count,
	}
}

// Run takes count items, appending each to the destination and pausing
// between items.
//
// Returns the number of items consumed. If ctx is done while Run is parked
// in Take or pausing, Run stops immediately and returns the count so far
// with the wrapped context error.
func (c *Consumer[T]) Run(ctx context.Context) (int, error) {
	for i := range c.count {
		item, err := c.queue.Take(ctx)
		if err != nil {
			c.logger.Warn("consumer cancelled", zap.Int("consumed", i), zap.Int("total", c.count), zap.Error(err))
			return i, errors.Wrapf(err, "consumer: take item %d of %d", i+1, c.count)
		}
		c.dst.Append(item)
		c.logger.Debug("took", zap.Int("seq", i+1), zap.Any("item", item))
		if i == c.count-1 {
			break
		}
		if err := c.pause(ctx); err != nil {
			c.logger.Warn("consumer cancelled", zap.Int("consumed", i+1), zap.Int("total", c.count), zap.Error(err))
			return i + 1, errors.Wrapf(err, "consumer: pause after item %d of %d", i+1, c.count)
		}
	}
	c.logger.Info("consumer finished", zap.Int("consumed", c.count))
	return c.count, nil
}
