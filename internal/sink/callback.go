package sink

import (
	"context"
	"fmt"
	"runtime/debug"

	"framelog/internal/diag"
	"framelog/internal/global"
	"framelog/internal/record"
)

// Callback is a user-provided handler receiving a flushed batch.
type Callback func(batch []record.Record)

// CallbackSink adapts a Callback into a Sink, catching and reporting any
// panic raised by the callback once per flush cycle rather than letting
// it take down the drain routine.
type CallbackSink struct {
	ctx context.Context
	fn  Callback
}

// NewCallbackSink wraps fn. ctx is used only for diag reporting of a
// recovered panic.
func NewCallbackSink(ctx context.Context, fn Callback) *CallbackSink {
	return &CallbackSink{ctx: ctx, fn: fn}
}

// Write invokes the callback with the batch, recovering any panic.
func (s *CallbackSink) Write(batch []record.Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			diag.LogEvent(s.ctx, global.VerbosityStandard, global.ErrorLog,
				"panic in flush callback: %v\n%s", r, stack)
			err = fmt.Errorf("sink: callback panicked: %v", r)
		}
	}()

	s.fn(batch)
	return nil
}

// Close is a no-op; the caller owns the callback's lifetime.
func (s *CallbackSink) Close() error {
	return nil
}
