package xmsg

import (
	"time"
)

// PoolStats returns telemetry about the observer pool.
type PoolStats struct {
	Dropped      uint64 // Events dropped due to full buffer
	Processed    uint64 // Events successfully processed
	ActiveEvents int    // Current queue depth
	Workers      int    // Number of dispatch goroutines
	BufferSize   int    // Channel capacity
}

// Metrics defines observable telemetry for the router.
type Metrics struct {
	Sent          uint64 // accepted by Send
	Delayed       uint64 // accepted by SendDelayed
	Promoted      uint64 // moved from the waiting list by Tick
	Received      uint64 // popped by Receive/TryReceive
	Dropped       uint64 // rejected: unregistered type or invalid payload
	Errors        uint64 // rejected caller errors such as a negative delay
	EventsDropped uint64
	Queued        int // messages currently queued across all names
	Pending       int // delayed messages not yet promoted
}

// HealthStatus indicates router health for probes.
type HealthStatus struct {
	Status    string // "healthy", "degraded", "unhealthy"
	Metrics   Metrics
	Timestamp time.Time
	Message   string
}
