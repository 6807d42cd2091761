package xmsg

import (
	"time"
)

// EventType enumerates router lifecycle events for the Observer pattern.
type EventType string

const (
	EventSent     EventType = "sent"
	EventDelayed  EventType = "delayed"
	EventPromoted EventType = "promoted"
	EventReceived EventType = "received"
	EventDropped  EventType = "dropped"
	EventError    EventType = "error"
)

// Event carries telemetry for observers.
type Event struct {
	Type      EventType
	Name      string
	MessageID string
	Kind      Kind
	Delay     time.Duration
	Err       error

	// Internal: attached for async dispatch
	observers []Observer
}
