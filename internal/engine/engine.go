// Package engine is the flush engine: the buffer/dedup-backed submission
// path, the background drainer and its sinks, and the process-facing
// lifecycle (Submit, Flush, ForceFlush, Shutdown).
package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pbnjay/memory"

	"framelog/internal/buffer"
	"framelog/internal/clock"
	"framelog/internal/diag"
	"framelog/internal/global"
	"framelog/internal/record"
	"framelog/internal/sink"
)

// drainState names the async drainer's state machine position.
type drainState int32

const (
	stateIdle drainState = iota
	stateDraining
	stateStopping
)

// Engine is a running instance of the logging core: one pair of record
// buffers, one dedup cache, a configured set of sinks, and (in async
// mode) one background drainer goroutine.
type Engine struct {
	cfg    Config
	anchor clock.Anchor
	buf    *buffer.Buffer

	fileSink      sink.Sink
	consoleSink   sink.Sink
	encryptedSink sink.Sink
	notifySink    sink.Sink
	netDispatch   *networkDispatcher
	callbackSink  atomic.Pointer[sink.CallbackSink]

	stats Stats

	mu                  sync.Mutex
	cond                *sync.Cond
	forceFlushRequested bool
	shutdown            atomic.Bool
	state               atomic.Int32
	drainerDone         chan struct{}

	diagCtx context.Context
}

// New constructs an Engine from cfg. Construction fails only on the
// config errors spec §7 kind 1 names as fatal (non-positive sizes);
// sink-open failures degrade with a single diag warning instead.
func New(diagCtx context.Context, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{cfg: cfg, anchor: clock.Default(), diagCtx: diagCtx}
	e.cond = sync.NewCond(&e.mu)
	e.state.Store(int32(stateIdle))

	e.applyMemoryGovernor()

	e.buf = buffer.New(buffer.Config{
		MaxCount:      e.cfg.BufferSize,
		MaxBytes:      e.cfg.MaxMemoryBytes,
		MinLevel:      e.cfg.MinLevel,
		DedupEnabled:  e.cfg.EnableDeduplication,
		DedupWindow:   e.cfg.DedupTimeWindow,
		DedupRingSize: e.cfg.DedupWindowSize,
	})

	e.openSinks()

	if e.cfg.AsyncFlush {
		e.drainerDone = make(chan struct{})
		go e.drainerLoop()
	}

	return e, nil
}

// openSinks constructs every configured sink, degrading with a diag
// warning on any individual open failure rather than failing
// construction (§7 kind 1: "engine degrades... or rejects construction").
func (e *Engine) openSinks() {
	if e.cfg.OutputFile != "" {
		fs, err := sink.NewFileSink(e.cfg.OutputFile)
		if err != nil {
			e.warnSinkOpen("file", err)
		} else {
			e.fileSink = fs
		}
	}

	if e.cfg.ConsoleOutput {
		e.consoleSink = sink.NewConsoleSink()
	}

	if e.cfg.EncryptedOutputFile != "" && len(e.cfg.EncryptionKey) > 0 {
		es, err := sink.NewEncryptedFileSink(e.cfg.EncryptedOutputFile, e.cfg.EncryptionKey)
		if err != nil {
			e.warnSinkOpen("encrypted file", err)
		} else {
			e.encryptedSink = es
		}
	}

	if e.cfg.DesktopNotify {
		ns, err := sink.NewNotifySink()
		if err != nil {
			e.warnSinkOpen("desktop notify", err)
		} else {
			e.notifySink = ns
		}
	}

	if e.cfg.NetworkEndpoint != "" {
		ns, err := sink.NewNetworkSink(e.cfg.NetworkEndpoint)
		if err != nil {
			e.warnSinkOpen("network", err)
		} else if ns != nil {
			dispatcher, err := newNetworkDispatcher(e.diagCtx, ns)
			if err != nil {
				e.warnSinkOpen("network dispatch queue", err)
			} else {
				e.netDispatch = dispatcher
			}
		}
	}
}

func (e *Engine) warnSinkOpen(kind string, err error) {
	diag.LogEvent(e.diagCtx, global.VerbosityStandard, global.WarnLog,
		"failed to open %s sink, continuing without it: %v\n", kind, err)
}

// applyMemoryGovernor clamps max_memory_bytes to a fraction of the host's
// free memory, matching the scaling caution the teacher's mpmc queue
// applies when growing its own ring.
func (e *Engine) applyMemoryGovernor() {
	free := memory.FreeMemory()
	if free == 0 {
		return
	}

	ceiling := uint64(float64(free) * e.cfg.MaxMemoryFraction)
	if ceiling > 0 && uint64(e.cfg.MaxMemoryBytes) > ceiling {
		diag.LogEvent(e.diagCtx, global.VerbosityStandard, global.WarnLog,
			"configured max_memory_bytes (%d) exceeds %.0f%% of free host memory (%d bytes); clamping to %d\n",
			e.cfg.MaxMemoryBytes, e.cfg.MaxMemoryFraction*100, free, ceiling)
		e.cfg.MaxMemoryBytes = int(ceiling)
	}
}

// Submit is the plain-string submission entry point.
func (e *Engine) Submit(level record.Level, message string) {
	if e.shutdown.Load() {
		return // §7 kind 5: silent drop after shutdown
	}

	rec := record.Record{
		Timestamp:  e.anchor.Now(),
		Level:      level,
		Message:    message,
		ProducerID: clock.ProducerID(),
	}

	outcome, flushRequested := e.buf.Submit(rec)
	switch outcome {
	case buffer.Filtered:
		return
	case buffer.Deduplicated:
		e.stats.deduplicated.Add(1)
		return
	case buffer.Accepted:
		e.stats.submitted.Add(1)
	}

	if flushRequested {
		e.requestFlush()
	}
}

// scratchSize bounds a printf-rendered submission, matching the 4096-byte
// thread-local scratch region the original implementation used.
const scratchSize = 4096

// Submitf renders format/args and falls through to Submit, truncating
// silently at scratchSize bytes.
func (e *Engine) Submitf(level record.Level, format string, args ...any) {
	if e.shutdown.Load() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if len(msg) > scratchSize {
		msg = msg[:scratchSize]
	}
	e.Submit(level, msg)
}

// requestFlush implements step 6 of §4.1: signal the drainer in async
// mode, or drain inline in sync mode.
func (e *Engine) requestFlush() {
	if e.cfg.AsyncFlush {
		e.mu.Lock()
		e.forceFlushRequested = true
		e.mu.Unlock()
		e.cond.Signal()
		return
	}
	e.drain()
}

// Flush requests a drain through the normal trigger path: async in async
// mode, inline in sync mode.
func (e *Engine) Flush() {
	e.requestFlush()
}

// ForceFlush always drains inline, regardless of mode.
func (e *Engine) ForceFlush() {
	e.drain()
}

// SetMinimumLevel changes the minimum accepted level at runtime.
func (e *Engine) SetMinimumLevel(level record.Level) {
	e.buf.SetMinLevel(level)
}

// SetDeduplication enables or disables the dedup cache at runtime,
// clearing suppression state either way.
func (e *Engine) SetDeduplication(enabled bool) {
	e.buf.SetDeduplication(enabled)
}

// SetCallbackSink (re)attaches the callback sink. A nil fn detaches it.
// Like the rest of engine reconfiguration, this is not meant to race
// with an in-flight drain; callers should quiesce producers first.
func (e *Engine) SetCallbackSink(fn sink.Callback) {
	if fn == nil {
		e.callbackSink.Store(nil)
		return
	}
	e.callbackSink.Store(sink.NewCallbackSink(e.diagCtx, fn))
}

// Stats returns a point-in-time snapshot of the engine's counters.
func (e *Engine) Stats() Snapshot {
	return e.stats.Snapshot()
}

// Shutdown stops the drainer (if running), performs a final inline
// drain, and closes every sink. Idempotent: calling it more than once
// has the same observable effect as calling it once.
func (e *Engine) Shutdown() {
	if !e.shutdown.CompareAndSwap(false, true) {
		return
	}

	if e.cfg.AsyncFlush {
		e.mu.Lock()
		e.cond.Broadcast()
		e.mu.Unlock()
		<-e.drainerDone
	}

	e.drain()
	e.closeSinks()
}

// State reports the drainer's current state-machine position. Always
// Idle in synchronous mode, since there is no background drainer.
func (e *Engine) State() string {
	switch drainState(e.state.Load()) {
	case stateDraining:
		return "Draining"
	case stateStopping:
		return "Stopping"
	default:
		return "Idle"
	}
}
