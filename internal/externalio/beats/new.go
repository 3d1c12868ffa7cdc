// Package beats ships flushed log batches to a Logstash/Beats-compatible
// endpoint using the lumberjack v2 wire protocol.
package beats

import (
	"fmt"
	"time"

	lumberjack "github.com/elastic/go-lumber/client/v2"
)

// client is the subset of *lumberjack.SyncClient this package depends on,
// narrowed so tests can substitute a fake sink.
type client interface {
	Send(events []interface{}) (int, error)
	Close() error
}

// OutModule is a dialed connection to a beats/Logstash endpoint.
type OutModule struct {
	sink client
}

// NewOutput dials a beats endpoint. Returns nil, nil if no endpoint is
// configured, so callers can treat an unconfigured network sink as a no-op.
func NewOutput(endpoint string) (module *OutModule, err error) {
	if endpoint == "" {
		return
	}

	compression := lumberjack.CompressionLevel(3)
	timeout := lumberjack.Timeout(3 * time.Second)

	ljClient, err := lumberjack.SyncDial(endpoint, compression, timeout)
	if err != nil {
		err = fmt.Errorf("failed connection to beats server: %w", err)
		return
	}

	module = &OutModule{
		sink: ljClient,
	}
	return
}
