package engine

import (
	"context"
	"time"

	"framelog/internal/atomics"
	"framelog/internal/diag"
	"framelog/internal/global"
	"framelog/internal/queue/mpmc"
	"framelog/internal/record"
	"framelog/internal/sink"
)

// networkDispatcher decouples the network sink's I/O latency from the
// drain cycle: a flushed batch destined for the beats endpoint is handed
// to a dedicated worker through an mpmc queue instead of being written
// inline alongside the other sinks, since shipping over the network is
// the slowest and most failure-prone of the sinks.
type networkDispatcher struct {
	queue  *mpmc.Queue[[]record.Record]
	sink   sink.Sink
	cancel context.CancelFunc
	done   chan struct{}
}

func newNetworkDispatcher(diagCtx context.Context, s sink.Sink) (*networkDispatcher, error) {
	q, err := mpmc.New[[]record.Record](
		[]string{global.NSSink, global.NSoNetwork},
		uint64(global.DefaultMinQueueSize),
		global.DefaultMinQueueSize,
		global.DefaultMaxQueueSize,
	)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(diagCtx)
	d := &networkDispatcher{
		queue:  q,
		sink:   s,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go d.run(ctx)
	go d.autoscale(ctx)
	return d, nil
}

// autoscalePeriod mirrors the poll interval the teacher's sender-side
// scaling instance used for its own output queue.
const autoscalePeriod = 30 * time.Second

// autoscale periodically grows or shrinks the dispatch queue's capacity
// between its configured min/max bounds, based on recent occupancy —
// the same decision mpmc.Queue.ScaleCapacity already makes for any queue.
func (d *networkDispatcher) autoscale(ctx context.Context) {
	ticker := time.NewTicker(autoscalePeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.queue.ScaleCapacity(ctx)
		}
	}
}

func (d *networkDispatcher) run(ctx context.Context) {
	defer close(d.done)
	for {
		batch, ok := d.queue.Pop(ctx)
		if !ok {
			return
		}
		if err := d.sink.Write(batch); err != nil {
			diag.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
				"network sink write failed, batch dropped: %v\n", err)
		}
	}
}

// dispatch hands batch to the worker, blocking briefly under back-pressure
// rather than dropping it outright.
func (d *networkDispatcher) dispatch(batch []record.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	d.queue.PushBlocking(ctx, batch, len(batch))
}

// shutdown waits briefly for the dispatch queue to drain, then stops the
// worker and closes the underlying sink.
func (d *networkDispatcher) shutdown() error {
	atomics.WaitUntilZero(&d.queue.ActiveWrite.Load().Metrics.Depth, 2*time.Second)
	d.cancel()
	<-d.done
	return d.sink.Close()
}
