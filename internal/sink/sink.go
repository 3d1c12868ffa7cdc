// Package sink implements the drainer's output collaborators: file,
// console, callback, plus optional network, desktop-notify, and
// encrypted-file enrichments. Sinks are invoked only from the drainer.
// Different sinks may write the same batch concurrently; each sink
// receives its batches one at a time, in flush order.
package sink

import "framelog/internal/record"

// Sink receives one flushed batch at a time, in submission order.
type Sink interface {
	Write(batch []record.Record) error
	Close() error
}
