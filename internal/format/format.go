// Package format renders a Record into the single-line text shape the
// file and console sinks write.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"framelog/internal/record"
)

// Line renders one Record as:
//
//	[YYYY-MM-DD HH:MM:SS.mmm] [LEVEL] [T:<hex thread id>] message (repeated N times)
//
// The repetition suffix is present only when rec.Count > 1.
func Line(rec record.Record) string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(rec.Timestamp.Format("2006-01-02 15:04:05"))
	b.WriteByte('.')
	writePaddedMillis(&b, rec.Timestamp.Nanosecond()/1_000_000)
	b.WriteString("] [")
	b.WriteString(rec.Level.String())
	b.WriteString("] [T:")
	b.WriteString(strconv.FormatUint(rec.ProducerID, 16))
	b.WriteString("] ")
	b.WriteString(rec.Message)

	if rec.Count > 1 {
		fmt.Fprintf(&b, " (repeated %d times)", rec.Count)
	}

	return b.String()
}

func writePaddedMillis(b *strings.Builder, ms int) {
	switch {
	case ms < 10:
		b.WriteString("00")
	case ms < 100:
		b.WriteString("0")
	}
	b.WriteString(strconv.Itoa(ms))
}
