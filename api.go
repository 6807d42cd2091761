package xmsg

import (
	"context"
	"time"
)

// Clock is the time source used for delays and timestamps.
// xclock.Clock satisfies it; tests substitute a manual clock.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// Sleeper is an optional Clock extension used for retry backoff waits.
type Sleeper interface {
	After(d time.Duration) <-chan time.Time
}

// Observer receives router lifecycle events. Implementations should be non-blocking.
type Observer interface {
	OnEvent(e Event)
}

// HealthChecker provides health status for production monitoring.
type HealthChecker interface {
	Health(ctx context.Context) HealthStatus
}

// Producer is the sending side of the router.
type Producer interface {
	Send(name string, p Payload) error
	SendDelayed(name string, p Payload, delay time.Duration) error
}

// Consumer is the receiving side of the router.
type Consumer interface {
	IsEmpty(name string) bool
	Receive(name string) (*Message, error)
	TryReceive(name string) (*Message, bool)
}

// Ticker promotes due delayed messages. It must be driven by an external loop.
type Ticker interface {
	Tick() int
}

// API represents the complete xmsg surface for extensibility.
type API interface {
	Producer
	Consumer
	Ticker
	RegisterType(name string) error
	IsRegistered(name string) bool
	Types() []string
	Len(name string) int
	Pending() int
	GetMetrics() Metrics
	Health(ctx context.Context) HealthStatus
	AddObserver(obs Observer)
	RemoveObserver(obs Observer)
	Close(ctx context.Context) error
}
