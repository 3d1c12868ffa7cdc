package beats

import (
	"os"

	"framelog/internal/global"
	"framelog/internal/record"
)

// Write ships a single flushed record to the configured beats endpoint as a
// structured event. A nil module is a valid no-op network sink.
func (mod *OutModule) Write(rec record.Record) (logsSent int, err error) {
	if mod == nil {
		return
	}

	fields := map[string]interface{}{
		"@timestamp": rec.Timestamp,
		"message":    rec.Message,

		"log": map[string]interface{}{
			"level": rec.Level.String(),
		},
		"agent": map[string]interface{}{
			"name":    global.ProgName,
			"version": global.ProgVersion,
			"type":    "filebeat",
			"pid":     os.Getpid(),
		},
		"process": map[string]interface{}{
			"producer_id": rec.ProducerID,
		},
	}

	if rec.Count > 1 {
		fields["repeated"] = rec.Count
	}

	events := []interface{}{fields}

	logsSent, err = mod.sink.Send(events)
	return
}
