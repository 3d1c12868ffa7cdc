// Package clock anchors a monotonic timebase against wall-clock time once
// at startup, so every later timestamp is derived by adding an elapsed
// monotonic delta to a fixed wallclock offset rather than calling
// time.Now() (and its leap-second/clock-adjustment exposure) on every
// record.
package clock

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// Anchor is a single (monotonic, wallclock) pair captured once. Later
// timestamps are wallclock + (now_monotonic - monotonic).
type Anchor struct {
	monotonic time.Duration
	wallclock time.Time
}

var (
	defaultOnce   sync.Once
	defaultAnchor Anchor
)

// NewAnchor captures the current monotonic clock (CLOCK_MONOTONIC) and
// wall-clock time as a matched pair.
func NewAnchor() (Anchor, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return Anchor{}, err
	}
	return Anchor{
		monotonic: time.Duration(ts.Sec)*time.Second + time.Duration(ts.Nsec),
		wallclock: time.Now(),
	}, nil
}

// Default returns a process-wide anchor, captured lazily on first use.
// Falls back to a pair of (monotonic 0, time.Now()) if the monotonic
// clock read fails (never observed on Linux, kept for robustness on
// platforms without CLOCK_MONOTONIC).
func Default() Anchor {
	defaultOnce.Do(func() {
		anchor, err := NewAnchor()
		if err != nil {
			now := time.Now()
			anchor = Anchor{monotonic: 0, wallclock: now}
		}
		defaultAnchor = anchor
	})
	return defaultAnchor
}

// Now converts the current monotonic reading into a wall-clock timestamp
// via the anchor, instead of calling time.Now() directly.
func (a Anchor) Now() time.Time {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return time.Now()
	}
	elapsed := time.Duration(ts.Sec)*time.Second + time.Duration(ts.Nsec) - a.monotonic
	return a.wallclock.Add(elapsed)
}

// ProducerID returns an opaque identifier for the calling OS thread,
// stable for the life of the goroutine's current thread binding. Used to
// tag records with which producer submitted them without requiring
// callers to pass an explicit id.
func ProducerID() uint64 {
	return uint64(unix.Gettid())
}
