// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package transfer moves a fixed source sequence through a [bq.Bounded]
// queue with one producer and one consumer goroutine.
//
// The producer puts every source item in order, pausing between items. The
// consumer takes a fixed number of items and appends each to a [Sink].
// The two never reference each other; the queue is their only link.
//
//	report, err := transfer.New(transfer.Labels("Item", 10)).
//	    Capacity(3).
//	    ProduceDelay(100 * time.Millisecond).
//	    ConsumeDelay(150 * time.Millisecond).
//	    Logger(logger).
//	    Run(ctx)
//	if errors.Is(err, transfer.ErrImbalance) {
//	    // destination length differs from source length
//	}
//
// Run joins both goroutines before it returns. A cancelled context stops
// both tasks at their next parking point or pause; the partial counts are
// reported, not hidden.
//
// Scenario settings can also come from YAML via [LoadOptions].
package transfer
