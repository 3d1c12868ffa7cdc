package sink

import (
	"fmt"
	"os"

	"framelog/internal/format"
	"framelog/internal/record"
)

// FileSink appends formatted lines to a text file, syncing at the end of
// every batch.
type FileSink struct {
	file *os.File
}

// NewFileSink opens path in append mode, creating it if needed. If open
// fails, the engine is expected to continue without a file sink and
// surface the failure once via diag (§7 kind: sink-open failure).
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("sink: open log file %q: %w", path, err)
	}
	return &FileSink{file: f}, nil
}

// Write renders and appends every record in the batch, then syncs the
// underlying file once.
func (s *FileSink) Write(batch []record.Record) error {
	for _, rec := range batch {
		if err := writePartial(s.file, []byte(format.Line(rec)+"\n")); err != nil {
			return fmt.Errorf("sink: write to file: %w", err)
		}
	}
	return s.file.Sync()
}

// Close closes the underlying file.
func (s *FileSink) Close() error {
	return s.file.Close()
}

// writePartial loops on partial writes, which a plain os.File can produce
// under memory pressure or against certain filesystems.
func writePartial(f *os.File, data []byte) error {
	for len(data) > 0 {
		n, err := f.Write(data)
		if err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}
