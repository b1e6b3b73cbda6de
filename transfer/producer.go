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

// Producer drains a fixed source sequence into a queue, one item at a time
// and in source order.
type Producer[T any] struct {
	task
	source []T
	queue  bq.Putter[T]
}

// NewProducer creates a producer for source. The source slice is only read.
func NewProducer[T any](source []T, queue bq.Putter[T], opts ...TaskOption) *Producer[T] {
	return &Producer[T]{
		task:   newTask(opts),
		source: source,
		queue:  queue,
	}
}

// Run puts every source item into the queue, pausing between items.
//
// Returns the number of items put. If ctx is done while Run is parked in
// Put or pausing, Run stops immediately and returns the count so far with
// the wrapped context error.
func (p *Producer[T]) Run(ctx context.Context) (int, error) {
	total := len(p.source)
	for i, item := range p.source {
		p.logger.Debug("put", zap.Int("seq", i+1), zap.Any("item", item))
		if err := p.queue.Put(ctx, item); err != nil {
			p.logger.Warn("producer cancelled", zap.Int("produced", i), zap.Int("total", total), zap.Error(err))
			return i, errors.Wrapf(err, "producer: put item %d of %d", i+1, total)
		}
		if i == total-1 {
			break
		}
		if err := p.pause(ctx); err != nil {
			p.logger.Warn("producer cancelled", zap.Int("produced", i+1), zap.Int("total", total), zap.Error(err))
			return i + 1, errors.Wrapf(err, "producer: pause after item %d of %d", i+1, total)
		}
	}
	p.logger.Info("producer finished", zap.Int("produced", total))
	return total, nil
}
