package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"framelog/internal/record"
)

func syncConfig(t *testing.T) (Config, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.log")
	cfg := DefaultConfig()
	cfg.AsyncFlush = false
	cfg.ConsoleOutput = false
	cfg.OutputFile = path
	cfg.BufferSize = 10_000
	cfg.MaxMemoryBytes = 10 * 1024 * 1024
	cfg.EnableDeduplication = false
	cfg.MinLevel = record.Trace
	return cfg, path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	trimmed := strings.TrimRight(string(data), "\n")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

// Scenario 1: basic emission, submission order preserved.
func TestScenarioBasicEmission(t *testing.T) {
	cfg, path := syncConfig(t)
	eng, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer eng.Shutdown()

	levels := []record.Level{record.Trace, record.Debug, record.Info, record.Warning, record.Error, record.Critical}
	for i, lvl := range levels {
		eng.Submit(lvl, fmt.Sprintf("m%d", i))
	}
	eng.ForceFlush()

	lines := readLines(t, path)
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d: %v", len(lines), lines)
	}
	for i, lvl := range levels {
		if !strings.Contains(lines[i], lvl.String()) {
			t.Errorf("line %d missing level tag %q: %q", i, lvl.String(), lines[i])
		}
		if !strings.Contains(lines[i], fmt.Sprintf("m%d", i)) {
			t.Errorf("line %d missing message m%d: %q", i, i, lines[i])
		}
	}
}

// Scenario 2: level filter drops everything below min_level.
func TestScenarioLevelFilter(t *testing.T) {
	cfg, path := syncConfig(t)
	cfg.MinLevel = record.Warning
	eng, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer eng.Shutdown()

	for _, lvl := range []record.Level{record.Trace, record.Debug, record.Info, record.Warning, record.Error, record.Critical} {
		eng.Submit(lvl, "x")
	}
	eng.ForceFlush()

	lines := readLines(t, path)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %v", len(lines), lines)
	}
	if got := eng.Stats().Submitted; got != 3 {
		t.Errorf("expected submitted == 3, got %d", got)
	}
}

// Scenario 3: dedup suppression within the time window, then recovery.
func TestScenarioDedupSuppression(t *testing.T) {
	cfg, path := syncConfig(t)
	cfg.EnableDeduplication = true
	cfg.DedupTimeWindow = 100 * time.Millisecond
	cfg.DedupWindowSize = 64
	eng, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer eng.Shutdown()

	for i := 0; i < 10; i++ {
		eng.Submit(record.Info, "dup")
	}
	eng.ForceFlush()

	time.Sleep(150 * time.Millisecond)
	eng.Submit(record.Info, "dup")
	eng.ForceFlush()

	lines := readLines(t, path)
	if len(lines) != 2 {
		t.Fatalf("expected 2 emitted lines, got %d: %v", len(lines), lines)
	}
	if got := eng.Stats().Deduplicated; got != 9 {
		t.Errorf("expected deduplicated == 9, got %d", got)
	}
}

// Scenario 4: count-triggered flush under async mode.
func TestScenarioCountTriggeredFlush(t *testing.T) {
	cfg, path := syncConfig(t)
	cfg.AsyncFlush = true
	cfg.BufferSize = 10
	cfg.FlushInterval = time.Hour // disable the periodic path for this test
	eng, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer eng.Shutdown()

	for i := 0; i < 25; i++ {
		eng.Submit(record.Info, "m"+strconv.Itoa(i))
	}

	deadline := time.Now().Add(2 * time.Second)
	for eng.Stats().FlushCycles < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := eng.Stats().FlushCycles; got < 2 {
		t.Fatalf("expected flush_cycles >= 2 before force flush, got %d", got)
	}

	eng.ForceFlush()
	if got := eng.Stats().Emitted; got != 25 {
		t.Fatalf("expected emitted == 25 after force flush, got %d", got)
	}
	_ = path
}

// Scenario 5: bytes-triggered flush.
func TestScenarioBytesTriggeredFlush(t *testing.T) {
	cfg, path := syncConfig(t)
	cfg.AsyncFlush = true
	cfg.BufferSize = 1_000_000
	cfg.MaxMemoryBytes = 1024
	cfg.FlushInterval = time.Hour
	eng, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer eng.Shutdown()

	payload := strings.Repeat("x", 200)
	for i := 0; i < 10; i++ {
		eng.Submit(record.Info, payload)
	}

	deadline := time.Now().Add(2 * time.Second)
	for eng.Stats().FlushCycles < 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := eng.Stats().FlushCycles; got < 1 {
		t.Fatalf("expected flush_cycles >= 1, got %d", got)
	}
	_ = path
}

// Scenario 6: shutdown drains every in-flight record.
func TestScenarioShutdownDrains(t *testing.T) {
	cfg, _ := syncConfig(t)
	cfg.AsyncFlush = true
	cfg.BufferSize = 10_000
	cfg.FlushInterval = 10 * time.Millisecond
	eng, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		deadline := time.Now().Add(50 * time.Millisecond)
		for time.Now().Before(deadline) {
			eng.Submit(record.Info, "burst")
			time.Sleep(time.Millisecond)
		}
	}()
	wg.Wait()

	eng.Shutdown()

	snap := eng.Stats()
	if snap.Emitted != snap.Submitted-snap.Deduplicated {
		t.Fatalf("no-loss invariant violated: emitted=%d submitted=%d deduplicated=%d",
			snap.Emitted, snap.Submitted, snap.Deduplicated)
	}
}

// Idempotent shutdown: a second call has no additional observable effect.
func TestShutdownIsIdempotent(t *testing.T) {
	cfg, _ := syncConfig(t)
	eng, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	eng.Submit(record.Info, "hello")
	eng.Shutdown()
	before := eng.Stats()

	eng.Shutdown()
	after := eng.Stats()

	if before != after {
		t.Fatalf("shutdown was not idempotent: before=%+v after=%+v", before, after)
	}
}

// Submitting after shutdown is a silent no-op.
func TestSubmitAfterShutdownIsDropped(t *testing.T) {
	cfg, path := syncConfig(t)
	eng, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	eng.Shutdown()

	eng.Submit(record.Critical, "too late")

	lines := readLines(t, path)
	if len(lines) != 0 {
		t.Fatalf("expected no output after shutdown, got %v", lines)
	}
}

// Ordering within a buffer: records from one producer preserve submission
// order through a single flush cycle.
func TestOrderingWithinABuffer(t *testing.T) {
	cfg, path := syncConfig(t)
	eng, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer eng.Shutdown()

	for i := 0; i < 50; i++ {
		eng.Submit(record.Info, "seq"+strconv.Itoa(i))
	}
	eng.ForceFlush()

	lines := readLines(t, path)
	if len(lines) != 50 {
		t.Fatalf("expected 50 lines, got %d", len(lines))
	}
	for i, line := range lines {
		want := "seq" + strconv.Itoa(i)
		if !strings.Contains(line, want) {
			t.Fatalf("line %d out of order: expected %q in %q", i, want, line)
		}
	}
}

func TestSetMinimumLevelAndDeduplicationMutators(t *testing.T) {
	cfg, path := syncConfig(t)
	cfg.MinLevel = record.Info
	cfg.EnableDeduplication = false
	eng, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer eng.Shutdown()

	eng.Submit(record.Debug, "filtered")
	eng.SetMinimumLevel(record.Trace)
	eng.Submit(record.Debug, "allowed")

	eng.SetDeduplication(true)
	eng.Submit(record.Info, "twice")
	eng.Submit(record.Info, "twice")
	eng.ForceFlush()

	lines := readLines(t, path)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines (allowed + one of twice), got %d: %v", len(lines), lines)
	}
}

func TestSetCallbackSinkReceivesBatches(t *testing.T) {
	cfg, _ := syncConfig(t)
	cfg.OutputFile = ""
	eng, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer eng.Shutdown()

	var mu sync.Mutex
	var seen []record.Record
	eng.SetCallbackSink(func(batch []record.Record) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, batch...)
	})

	eng.Submit(record.Info, "a")
	eng.Submit(record.Info, "b")
	eng.ForceFlush()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 {
		t.Fatalf("expected callback to observe 2 records, got %d", len(seen))
	}
}
