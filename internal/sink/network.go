package sink

import (
	"fmt"

	"framelog/internal/externalio/beats"
	"framelog/internal/record"
)

// NetworkSink ships every record in a flushed batch to a Logstash/Beats
// endpoint via the lumberjack protocol.
type NetworkSink struct {
	mod *beats.OutModule
}

// NewNetworkSink dials endpoint. Returns nil, nil if endpoint is empty, so
// callers can treat network shipping as an optional sink.
func NewNetworkSink(endpoint string) (*NetworkSink, error) {
	mod, err := beats.NewOutput(endpoint)
	if err != nil {
		return nil, fmt.Errorf("sink: dial beats endpoint: %w", err)
	}
	if mod == nil {
		return nil, nil
	}
	return &NetworkSink{mod: mod}, nil
}

// Write sends each record as a separate structured event.
func (s *NetworkSink) Write(batch []record.Record) error {
	for _, rec := range batch {
		if _, err := s.mod.Write(rec); err != nil {
			return fmt.Errorf("sink: send to beats endpoint: %w", err)
		}
	}
	return nil
}

// Close disconnects from the beats endpoint.
func (s *NetworkSink) Close() error {
	return s.mod.Shutdown()
}
