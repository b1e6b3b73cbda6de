// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq

import (
	"context"
	"sync"
)

// cond is a broadcast-only condition variable whose wait honours a context.
//
// sync.Cond cannot be abandoned mid-wait, so waiters park on a channel that
// broadcast closes and replaces. The zero value is ready to use. Both methods
// must be called with the associated lock held.
type cond struct {
	ch chan struct{}
}

// wait releases mu, parks until the next broadcast or until ctx is done, and
// reacquires mu before returning. The channel is captured while mu is held,
// so a broadcast issued after wait releases mu is never lost.
func (c *cond) wait(ctx context.Context, mu sync.Locker) error {
	if c.ch == nil {
		c.ch = make(chan struct{})
	}
	ch := c.ch
	mu.Unlock()

	select {
	case <-ch:
		mu.Lock()
		return nil
	case <-ctx.Done():
		mu.Lock()
		return ctx.Err()
	}
}

// broadcast wakes every goroutine parked in wait.
func (c *cond) broadcast() {
	if c.ch != nil {
		close(c.ch)
		c.ch = nil
	}
}
