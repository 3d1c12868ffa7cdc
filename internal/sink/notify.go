package sink

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"framelog/internal/format"
	"framelog/internal/record"
)

const (
	notifyDest = "org.freedesktop.Notifications"
	notifyPath = "/org/freedesktop/Notifications"
	notifyIfc  = "org.freedesktop.Notifications.Notify"
)

// NotifySink emits a desktop notification for every CRITICAL record in a
// batch, for interactive hosts running the driver. Records below
// CRITICAL are ignored.
type NotifySink struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewNotifySink connects to the session bus. Returns an error if no
// session bus is reachable (headless hosts), which the engine treats the
// same as any other sink-open failure.
func NewNotifySink() (*NotifySink, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("sink: connect to session bus: %w", err)
	}
	return &NotifySink{
		conn: conn,
		obj:  conn.Object(notifyDest, dbus.ObjectPath(notifyPath)),
	}, nil
}

// Write sends one notification per CRITICAL record in the batch.
func (s *NotifySink) Write(batch []record.Record) error {
	for _, rec := range batch {
		if rec.Level != record.Critical {
			continue
		}
		call := s.obj.Call(notifyIfc, 0,
			"framelog",             // app_name
			uint32(0),              // replaces_id
			"dialog-error",         // app_icon
			"Critical log entry",   // summary
			format.Line(rec),       // body
			[]string{},             // actions
			map[string]dbus.Variant{}, // hints
			int32(5000),            // expire_timeout (ms)
		)
		if call.Err != nil {
			return fmt.Errorf("sink: dbus notify: %w", call.Err)
		}
	}
	return nil
}

// Close disconnects from the session bus.
func (s *NotifySink) Close() error {
	return s.conn.Close()
}
