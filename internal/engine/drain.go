package engine

import (
	"time"

	"golang.org/x/sync/errgroup"

	"framelog/internal/diag"
	"framelog/internal/global"
)

// drainerLoop is the background drainer's state machine: Idle while
// waiting on either a periodic deadline or a forced-flush signal,
// Draining while a cycle runs, Stopping once told to exit. One periodic
// ticker goroutine turns the flush_interval deadline into the same
// signal path a forced flush uses, since sync.Cond has no timed wait.
func (e *Engine) drainerLoop() {
	defer close(e.drainerDone)

	tickerDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(e.cfg.FlushInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				e.mu.Lock()
				e.forceFlushRequested = true
				e.cond.Signal()
				e.mu.Unlock()
			case <-tickerDone:
				return
			}
		}
	}()
	defer close(tickerDone)

	for {
		e.mu.Lock()
		for !e.forceFlushRequested && !e.shutdown.Load() {
			e.cond.Wait()
		}
		if e.shutdown.Load() {
			e.state.Store(int32(stateStopping))
			e.mu.Unlock()
			return
		}
		e.forceFlushRequested = false
		e.mu.Unlock()

		e.state.Store(int32(stateDraining))
		e.drain()
		e.state.Store(int32(stateIdle))
	}
}

// drain implements one flush cycle: swap the active buffer, fan the
// batch out to every synchronous sink concurrently (collecting the
// first error), and hand the network sink's copy to its dedicated
// dispatch worker so its I/O latency never blocks the cycle.
func (e *Engine) drain() {
	batch := e.buf.SwapOut()
	if len(batch) == 0 {
		return
	}

	var g errgroup.Group
	if e.fileSink != nil {
		g.Go(func() error { return e.fileSink.Write(batch) })
	}
	if e.consoleSink != nil {
		g.Go(func() error { return e.consoleSink.Write(batch) })
	}
	if e.encryptedSink != nil {
		g.Go(func() error { return e.encryptedSink.Write(batch) })
	}
	if e.notifySink != nil {
		g.Go(func() error { return e.notifySink.Write(batch) })
	}
	if cb := e.callbackSink.Load(); cb != nil {
		g.Go(func() error { return cb.Write(batch) })
	}
	if e.netDispatch != nil {
		e.netDispatch.dispatch(batch)
	}

	if err := g.Wait(); err != nil {
		diag.LogEvent(e.diagCtx, global.VerbosityStandard, global.ErrorLog,
			"sink error during flush cycle: %v\n", err)
	}

	e.stats.emitted.Add(uint64(len(batch)))
	e.stats.flushCycles.Add(1)
	e.stats.lastFlush.Store(time.Now().UnixNano())
}

// closeSinks closes every configured sink concurrently, collecting the
// first error for a single diag report.
func (e *Engine) closeSinks() {
	var g errgroup.Group
	for _, s := range e.allSinks() {
		s := s
		g.Go(s.Close)
	}
	if e.netDispatch != nil {
		g.Go(e.netDispatch.shutdown)
	}
	if err := g.Wait(); err != nil {
		diag.LogEvent(e.diagCtx, global.VerbosityStandard, global.ErrorLog,
			"error closing sinks during shutdown: %v\n", err)
	}
}

func (e *Engine) allSinks() []sinkCloser {
	var sinks []sinkCloser
	if e.fileSink != nil {
		sinks = append(sinks, e.fileSink)
	}
	if e.consoleSink != nil {
		sinks = append(sinks, e.consoleSink)
	}
	if e.encryptedSink != nil {
		sinks = append(sinks, e.encryptedSink)
	}
	if e.notifySink != nil {
		sinks = append(sinks, e.notifySink)
	}
	if cb := e.callbackSink.Load(); cb != nil {
		sinks = append(sinks, cb)
	}
	return sinks
}

// sinkCloser narrows sink.Sink to the one method closeSinks needs.
type sinkCloser interface {
	Close() error
}
