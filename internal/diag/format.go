package diag

import (
	"fmt"
	"strings"
	"time"
)

// Stringify full event
func (event Event) Format() (text string) {
	// Only print parts that are present
	var parts []string
	if !event.Timestamp.IsZero() {
		parts = append(parts, fmt.Sprintf("[%s]", padTimestamp(event.Timestamp)))
	}

	if len(event.Tags) > 0 {
		tagPrefixes := "["
		tagPrefixes += strings.Join(event.Tags, "/")
		tagPrefixes += "]"
		parts = append(parts, tagPrefixes)
	}

	if event.Severity != "" {
		parts = append(parts, fmt.Sprintf("[%s]", event.Severity))
	}

	if event.Message != "" {
		parts = append(parts, event.Message)
	}

	text = strings.Join(parts, " ")
	// No newline, message creator determines newlines
	return
}

// Ensures fixed length strings for timestamps with a fractional second.
// A timestamp with zero nanoseconds has no fraction and is returned as
// RFC3339Nano formats it.
func padTimestamp(timestamp time.Time) (formatted string) {
	formatted = timestamp.Format(time.RFC3339Nano)

	majorFields := strings.Split(formatted, ".")
	if len(majorFields) != 2 {
		return
	}

	// The fraction ends where the zone designator (Z, + or -) starts
	zoneStart := strings.IndexAny(majorFields[1], "Z+-")
	if zoneStart < 0 {
		return
	}

	tsPrefix := majorFields[0]
	nanoseconds := majorFields[1][:zoneStart]
	timezoneOffset := majorFields[1][zoneStart:]

	// Pad the nanoseconds part to ensure it's 9 digits long (RFC3339Nano drops trailing zeros)
	for len(nanoseconds) < 9 {
		nanoseconds = nanoseconds + "0"
	}

	// Rebuild the timestamp with padded nanoseconds and the original timezone offset
	formatted = fmt.Sprintf("%s.%s%s", tsPrefix, nanoseconds, timezoneOffset)
	return
}
