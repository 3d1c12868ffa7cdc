package buffer

import (
	"testing"
	"time"

	"framelog/internal/record"
)

func newTestBuffer(cfg Config) *Buffer {
	if cfg.DedupWindow == 0 {
		cfg.DedupWindow = 5 * time.Second
	}
	if cfg.DedupRingSize == 0 && cfg.DedupEnabled {
		cfg.DedupRingSize = 8
	}
	return New(cfg)
}

func rec(level record.Level, msg string) record.Record {
	return record.Record{Timestamp: time.Now(), Level: level, Message: msg}
}

func TestSubmitFiltersBelowMinLevel(t *testing.T) {
	b := newTestBuffer(Config{MaxCount: 100, MaxBytes: 1 << 20, MinLevel: record.Warning})

	outcome, flush := b.Submit(rec(record.Debug, "quiet"))
	if outcome != Filtered || flush {
		t.Fatalf("expected Filtered/no-flush, got %v/%v", outcome, flush)
	}
	if b.Depth() != 0 {
		t.Fatalf("filtered record must not enter the buffer")
	}
}

func TestSubmitAcceptsAndCounts(t *testing.T) {
	b := newTestBuffer(Config{MaxCount: 100, MaxBytes: 1 << 20, MinLevel: record.Trace})

	outcome, flush := b.Submit(rec(record.Info, "hello"))
	if outcome != Accepted || flush {
		t.Fatalf("expected Accepted/no-flush, got %v/%v", outcome, flush)
	}
	if b.Depth() != 1 {
		t.Fatalf("expected depth 1, got %d", b.Depth())
	}
}

func TestCountTriggeredFlush(t *testing.T) {
	b := newTestBuffer(Config{MaxCount: 10, MaxBytes: 1 << 20, MinLevel: record.Trace})

	var lastFlush bool
	for i := 0; i < 10; i++ {
		_, lastFlush = b.Submit(rec(record.Info, "m"))
	}
	if !lastFlush {
		t.Fatal("expected back-pressure once buffer length reaches MaxCount")
	}
}

func TestBytesTriggeredFlush(t *testing.T) {
	b := newTestBuffer(Config{MaxCount: 1 << 20, MaxBytes: 1024, MinLevel: record.Trace})

	big := make([]byte, 900)
	for i := range big {
		big[i] = 'x'
	}

	_, flush1 := b.Submit(rec(record.Info, string(big)))
	if flush1 {
		t.Fatal("single record under byte budget should not flush yet")
	}
	_, flush2 := b.Submit(rec(record.Info, string(big)))
	if !flush2 {
		t.Fatal("expected byte-budget back-pressure on second large record")
	}
}

func TestSwapOutFlipsActiveBuffer(t *testing.T) {
	b := newTestBuffer(Config{MaxCount: 100, MaxBytes: 1 << 20, MinLevel: record.Trace})

	b.Submit(rec(record.Info, "one"))
	b.Submit(rec(record.Info, "two"))

	batch := b.SwapOut()
	if len(batch) != 2 {
		t.Fatalf("expected batch of 2, got %d", len(batch))
	}
	if batch[0].Message != "one" || batch[1].Message != "two" {
		t.Fatal("expected submission order preserved in batch")
	}
	if b.Depth() != 0 {
		t.Fatal("expected depth reset to 0 after swap")
	}

	if empty := b.SwapOut(); empty != nil {
		t.Fatal("expected nil batch when active buffer is empty")
	}

	b.Submit(rec(record.Info, "three"))
	batch2 := b.SwapOut()
	if len(batch2) != 1 || batch2[0].Message != "three" {
		t.Fatal("expected the other buffer to receive subsequent submissions")
	}
}

func TestDedupSuppressesWithinWindow(t *testing.T) {
	b := newTestBuffer(Config{
		MaxCount: 100, MaxBytes: 1 << 20, MinLevel: record.Trace,
		DedupEnabled: true, DedupWindow: time.Hour, DedupRingSize: 8,
	})

	r := rec(record.Error, "disk read failed")
	outcome1, _ := b.Submit(r)
	if outcome1 != Accepted {
		t.Fatalf("first occurrence must pass, got %v", outcome1)
	}

	outcome2, _ := b.Submit(r)
	if outcome2 != Deduplicated {
		t.Fatalf("repeat within window must be deduplicated, got %v", outcome2)
	}
	if b.Depth() != 1 {
		t.Fatalf("suppressed record must not enter buffer, depth=%d", b.Depth())
	}
}

func TestSetDeduplicationResetsCache(t *testing.T) {
	b := newTestBuffer(Config{
		MaxCount: 100, MaxBytes: 1 << 20, MinLevel: record.Trace,
		DedupEnabled: true, DedupWindow: time.Hour, DedupRingSize: 8,
	})

	r := rec(record.Error, "boom")
	b.Submit(r)
	b.SetDeduplication(false)

	outcome, _ := b.Submit(r)
	if outcome != Accepted {
		t.Fatalf("dedup disabled must accept repeats, got %v", outcome)
	}

	b.SetDeduplication(true)
	outcome2, _ := b.Submit(r)
	if outcome2 != Accepted {
		t.Fatalf("re-enabling dedup must start from an empty cache, got %v", outcome2)
	}
}

func TestSetMinLevel(t *testing.T) {
	b := newTestBuffer(Config{MaxCount: 100, MaxBytes: 1 << 20, MinLevel: record.Info})

	outcome, _ := b.Submit(rec(record.Debug, "below"))
	if outcome != Filtered {
		t.Fatal("expected Filtered before raising level")
	}

	b.SetMinLevel(record.Trace)
	outcome2, _ := b.Submit(rec(record.Debug, "now allowed"))
	if outcome2 != Accepted {
		t.Fatal("expected Accepted after lowering min level")
	}
}
