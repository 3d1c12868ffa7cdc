// Package buffer implements the double-buffered (A/B) record store the
// engine submits into and drains from, plus the submission-path logic
// (level filter, dedup probe, back-pressure) that shares its critical
// section with the dedup cache by design: both are short, and collapsing
// them avoids a two-lock ordering problem.
package buffer

import (
	"sync"
	"sync/atomic"
	"time"

	"framelog/internal/dedup"
	"framelog/internal/record"
)

// fixedOverhead approximates the non-message bytes of a Record (struct
// header, timestamp, level, producer id, fingerprint, count) for the
// byte-usage back-pressure estimate. Exactness is not required.
const fixedOverhead = 64

// Outcome describes what became of a submitted record.
type Outcome int

const (
	// Accepted means the record was appended to the active buffer.
	Accepted Outcome = iota
	// Filtered means the record's level was below the minimum.
	Filtered
	// Deduplicated means the dedup cache suppressed the record.
	Deduplicated
)

// Buffer holds the two record slices, the active-buffer selector, and the
// dedup cache that shares its mutex.
type Buffer struct {
	mu     sync.Mutex
	slots  [2][]record.Record
	active int
	bytes  int

	maxCount int
	maxBytes int

	minLevel     atomic.Int32
	dedupEnabled atomic.Bool
	dedup        *dedup.Cache

	depth atomic.Int64 // active_buffer_depth gauge
}

// Config bundles the tunables buffer.New needs.
type Config struct {
	MaxCount      int
	MaxBytes      int
	MinLevel      record.Level
	DedupEnabled  bool
	DedupWindow   time.Duration
	DedupRingSize int
}

// New builds a Buffer from Config. Buffer capacity is nominal: Submit
// signals back-pressure once the active buffer reaches MaxCount records
// or MaxBytes estimated bytes, and keeps appending past that until the
// buffer is swapped out.
func New(cfg Config) *Buffer {
	b := &Buffer{
		maxCount: cfg.MaxCount,
		maxBytes: cfg.MaxBytes,
		dedup:    dedup.New(cfg.DedupWindow, cfg.DedupRingSize),
	}
	b.minLevel.Store(int32(cfg.MinLevel))
	b.dedupEnabled.Store(cfg.DedupEnabled)
	return b
}

// MinLevel returns the current minimum accepted level.
func (b *Buffer) MinLevel() record.Level {
	return record.Level(b.minLevel.Load())
}

// SetMinLevel changes the minimum accepted level at runtime.
func (b *Buffer) SetMinLevel(level record.Level) {
	b.minLevel.Store(int32(level))
}

// SetDeduplication enables or disables the dedup cache. Disabling clears
// all suppression state; re-enabling starts empty.
func (b *Buffer) SetDeduplication(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dedupEnabled.Store(enabled)
	b.dedup.Reset()
}

// Submit runs the level filter, dedup probe, and append+back-pressure
// steps of the submission path. rec.Timestamp is the caller's
// monotonic-derived timestamp, used both as the dedup probe time and as
// the stored record's Timestamp so both observe the identical instant.
func (b *Buffer) Submit(rec record.Record) (outcome Outcome, flushRequested bool) {
	if rec.Level < b.MinLevel() {
		return Filtered, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.dedupEnabled.Load() {
		rec.Fingerprint = record.Fingerprint(rec.Level, rec.Message)
		if b.dedup.Probe(rec.Fingerprint, rec.Timestamp) {
			return Deduplicated, false
		}
	}

	rec.Count = 1
	b.slots[b.active] = append(b.slots[b.active], rec)
	b.bytes += fixedOverhead + len(rec.Message)
	b.depth.Store(int64(len(b.slots[b.active])))

	if len(b.slots[b.active]) >= b.maxCount || b.bytes >= b.maxBytes {
		flushRequested = true
	}
	return Accepted, flushRequested
}

// SwapOut moves the active buffer's contents out and flips the selector
// to the other (guaranteed-empty) buffer, per the drain routine's
// move-and-flip protocol. Returns nil if the active buffer is empty.
func (b *Buffer) SwapOut() []record.Record {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.slots[b.active]) == 0 {
		return nil
	}

	batch := b.slots[b.active]
	b.slots[b.active] = nil
	b.active = 1 - b.active
	b.bytes = 0
	b.depth.Store(0)
	return batch
}

// Depth returns the active buffer's current record count.
func (b *Buffer) Depth() int64 {
	return b.depth.Load()
}
