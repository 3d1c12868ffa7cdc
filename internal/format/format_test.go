package format

import (
	"strings"
	"testing"
	"time"

	"framelog/internal/record"
)

func TestLineBasicShape(t *testing.T) {
	ts := time.Date(2026, 3, 4, 9, 5, 1, 7*1_000_000, time.UTC)
	rec := record.Record{
		Timestamp:  ts,
		Level:      record.Warning,
		Message:    "queue depth high",
		ProducerID: 0xabc,
		Count:      1,
	}

	got := Line(rec)
	want := "[2026-03-04 09:05:01.007] [WARN ] [T:abc] queue depth high"
	if got != want {
		t.Fatalf("Line() = %q, want %q", got, want)
	}
}

func TestLineOmitsRepeatSuffixWhenCountIsOne(t *testing.T) {
	rec := record.Record{Timestamp: time.Now(), Level: record.Info, Message: "m", Count: 1}
	if strings.Contains(Line(rec), "repeated") {
		t.Fatal("count=1 must not render a repeat suffix")
	}
}

func TestLineIncludesRepeatSuffixWhenCountAboveOne(t *testing.T) {
	rec := record.Record{Timestamp: time.Now(), Level: record.Info, Message: "m", Count: 5}
	got := Line(rec)
	if !strings.HasSuffix(got, "m (repeated 5 times)") {
		t.Fatalf("Line() = %q, want suffix '(repeated 5 times)'", got)
	}
}

func TestLineLevelColumnsAlign(t *testing.T) {
	levels := []record.Level{record.Trace, record.Debug, record.Info, record.Warning, record.Error, record.Critical}
	var bracketPositions []int
	for _, lvl := range levels {
		rec := record.Record{Timestamp: time.Now(), Level: lvl, Message: "x", Count: 1}
		line := Line(rec)
		idx := strings.Index(line, "] [T:")
		bracketPositions = append(bracketPositions, idx)
	}
	for i := 1; i < len(bracketPositions); i++ {
		if bracketPositions[i] != bracketPositions[0] {
			t.Fatalf("level column not aligned across levels: %v", bracketPositions)
		}
	}
}
