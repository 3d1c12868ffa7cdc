package sink

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"framelog/internal/format"
	"framelog/internal/record"
)

// ConsoleSink writes formatted lines to standard output. Level coloring is
// applied only when stdout is an interactive terminal, so redirected
// output (files, pipes) stays plain text.
type ConsoleSink struct {
	w     io.Writer
	color bool
}

// NewConsoleSink builds a console sink bound to os.Stdout.
func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{
		w:     os.Stdout,
		color: term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// Write prints every record in the batch as one line each.
func (s *ConsoleSink) Write(batch []record.Record) error {
	for _, rec := range batch {
		line := format.Line(rec)
		if s.color {
			line = colorize(rec.Level, line)
		}
		if _, err := fmt.Fprintln(s.w, line); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op; the console sink does not own os.Stdout.
func (s *ConsoleSink) Close() error {
	return nil
}

func colorize(level record.Level, line string) string {
	const reset = "\x1b[0m"

	var code string
	switch level {
	case record.Trace, record.Debug:
		code = "\x1b[90m"
	case record.Info:
		code = "\x1b[36m"
	case record.Warning:
		code = "\x1b[33m"
	case record.Error:
		code = "\x1b[31m"
	case record.Critical:
		code = "\x1b[1;31m"
	default:
		return line
	}
	return code + line + reset
}
