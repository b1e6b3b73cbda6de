// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transfer

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// task holds the settings shared by Producer and Consumer.
type task struct {
	delay  time.Duration
	logger *zap.Logger
}

// TaskOption configures a Producer or Consumer.
type TaskOption func(*task)

// WithDelay sets the pause between consecutive items, simulating per-item
// work. Zero or negative means no pause.
func WithDelay(d time.Duration) TaskOption {
	return func(t *task) {
		t.delay = d
	}
}

// WithLogger sets the task logger. A nil logger is ignored.
func WithLogger(l *zap.Logger) TaskOption {
	return func(t *task) {
		if l != nil {
			t.logger = l
		}
	}
}

func newTask(opts []TaskOption) task {
	t := task{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// pause sleeps for the task delay or until ctx is done.
func (t *task) pause(ctx context.Context) error {
	if t.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(t.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
