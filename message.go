package xmsg

import (
	"time"
)

// Message is the envelope routed by name. Only the delivered flag changes
// after construction; it is set by the Router when Receive pops the message.
type Message struct {
	// ID is a unique message identifier assigned on acceptance.
	ID string
	// Name is the registered message-type name used for routing.
	Name string
	// Payload is the typed value carried by the message.
	Payload Payload
	// ProducedAt is the acceptance timestamp (from injected clock).
	ProducedAt time.Time

	delivered bool
}

// Delivered reports whether the message has been popped by Receive.
func (m *Message) Delivered() bool { return m.delivered }

// waitingEntry is a delayed message that has not been promoted yet.
type waitingEntry struct {
	msg       *Message
	submitted time.Time
	delay     time.Duration
}
