package xmsg

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/trickstertwo/xlog"
)

var _ API = (*Router)(nil)
var _ HealthChecker = (*Router)(nil)

// Router owns the per-name message queues, the registry of valid type names
// and the waiting list of delayed messages.
//
// Lock order: waitMu before mu. The registry lock is never held while either
// of the others is acquired.
type Router struct {
	clock  Clock
	logger *xlog.Logger
	types  *typeRegistry

	mu     sync.Mutex
	queues map[string]*messageQueue

	waitMu  sync.Mutex
	waiting []waitingEntry

	observerPool *ObserverPool
	observersMu  sync.RWMutex
	observers    []Observer

	metrics   *routerMetrics
	closed    atomic.Bool
	closeOnce sync.Once
}

// routerMetrics uses lock-free atomics for telemetry.
type routerMetrics struct {
	sentCount     atomic.Uint64
	delayedCount  atomic.Uint64
	promotedCount atomic.Uint64
	receivedCount atomic.Uint64
	droppedCount  atomic.Uint64
	errorCount    atomic.Uint64
}

func newRouter(clock Clock, logger *xlog.Logger) *Router {
	return &Router{
		clock:   clock,
		logger:  logger,
		types:   newTypeRegistry(),
		queues:  make(map[string]*messageQueue),
		metrics: &routerMetrics{},
	}
}

// Clock returns the configured time source.
func (r *Router) Clock() Clock { return r.clock }

// Logger returns the configured logger.
func (r *Router) Logger() *xlog.Logger { return r.logger }

// RegisterType adds name to the set of valid message types.
// Registering an already known name is a no-op.
func (r *Router) RegisterType(name string) error {
	if r.closed.Load() {
		return ErrRouterClosed
	}
	added, err := r.types.add(name)
	if err != nil {
		return err
	}
	if added {
		r.logger.With(xlog.Str("name", name)).Debug().Msg("xmsg: message type registered")
	}
	return nil
}

// IsRegistered reports whether name is a valid message type.
func (r *Router) IsRegistered(name string) bool { return r.types.has(name) }

// Types returns the registered names in sorted order.
func (r *Router) Types() []string { return r.types.list() }

// Send queues p under name for immediate delivery.
// An unregistered name drops the message, logs a diagnostic and returns
// ErrUnregisteredType.
func (r *Router) Send(name string, p Payload) error {
	msg, err := r.accept(name, p)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.queueLocked(name).push(msg)
	r.mu.Unlock()

	r.metrics.sentCount.Add(1)
	r.notify(Event{Type: EventSent, Name: name, MessageID: msg.ID, Kind: p.Kind()})
	return nil
}

// SendDelayed records p under name for delivery once delay has elapsed, as
// observed by a later Tick. A zero delay is promoted by the next Tick.
func (r *Router) SendDelayed(name string, p Payload, delay time.Duration) error {
	msg, err := r.accept(name, p)
	if err != nil {
		return err
	}
	if delay < 0 {
		err := fmt.Errorf("%w: %v", ErrNegativeDelay, delay)
		r.metrics.errorCount.Add(1)
		r.notify(Event{Type: EventError, Name: name, MessageID: msg.ID, Kind: p.Kind(), Err: err})
		return err
	}

	r.waitMu.Lock()
	r.waiting = append(r.waiting, waitingEntry{msg: msg, submitted: msg.ProducedAt, delay: delay})
	r.waitMu.Unlock()

	r.metrics.delayedCount.Add(1)
	r.notify(Event{Type: EventDelayed, Name: name, MessageID: msg.ID, Kind: p.Kind(), Delay: delay})
	return nil
}

// accept validates a send and wraps the payload in a new Message.
func (r *Router) accept(name string, p Payload) (*Message, error) {
	if r.closed.Load() {
		return nil, ErrRouterClosed
	}
	if !r.types.has(name) {
		r.metrics.droppedCount.Add(1)
		r.logger.With(xlog.Str("name", name)).Warn().Msg("xmsg: message type not registered, message not sent")
		r.notify(Event{Type: EventDropped, Name: name, Kind: p.Kind(), Err: ErrUnregisteredType})
		return nil, fmt.Errorf("%w: %q", ErrUnregisteredType, name)
	}
	if !p.IsValid() {
		r.metrics.droppedCount.Add(1)
		r.notify(Event{Type: EventDropped, Name: name, Err: ErrInvalidPayload})
		return nil, fmt.Errorf("%w: %q", ErrInvalidPayload, name)
	}
	return &Message{
		ID:         uuid.NewString(),
		Name:       name,
		Payload:    p,
		ProducedAt: r.clock.Now(),
	}, nil
}

// Receive pops the oldest message queued under name and marks it delivered.
// It returns ErrEmptyQueue when nothing is queued; check IsEmpty first or use
// TryReceive.
func (r *Router) Receive(name string) (*Message, error) {
	msg, ok := r.TryReceive(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrEmptyQueue, name)
	}
	return msg, nil
}

// TryReceive pops the oldest message queued under name, if any.
func (r *Router) TryReceive(name string) (*Message, bool) {
	r.mu.Lock()
	var (
		msg *Message
		ok  bool
	)
	if q, found := r.queues[name]; found {
		msg, ok = q.pop()
	}
	if ok {
		msg.delivered = true
	}
	r.mu.Unlock()

	if !ok {
		return nil, false
	}
	r.metrics.receivedCount.Add(1)
	r.notify(Event{Type: EventReceived, Name: name, MessageID: msg.ID, Kind: msg.Payload.Kind()})
	return msg, true
}

// IsEmpty reports whether no message is queued under name. Unknown names are empty.
func (r *Router) IsEmpty(name string) bool {
	return r.Len(name) == 0
}

// Len returns the number of messages queued under name.
func (r *Router) Len(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q, ok := r.queues[name]; ok {
		return q.len()
	}
	return 0
}

// queueLocked returns the queue for name, creating it on first use.
// Callers must hold r.mu.
func (r *Router) queueLocked(name string) *messageQueue {
	q, ok := r.queues[name]
	if !ok {
		q = &messageQueue{}
		r.queues[name] = q
	}
	return q
}

// GetMetrics returns current router metrics.
func (r *Router) GetMetrics() Metrics {
	m := Metrics{
		Sent:     r.metrics.sentCount.Load(),
		Delayed:  r.metrics.delayedCount.Load(),
		Promoted: r.metrics.promotedCount.Load(),
		Received: r.metrics.receivedCount.Load(),
		Dropped:  r.metrics.droppedCount.Load(),
		Errors:   r.metrics.errorCount.Load(),
		Pending:  r.Pending(),
	}
	if r.observerPool != nil {
		m.EventsDropped = r.observerPool.Stats().Dropped
	}

	r.mu.Lock()
	for _, q := range r.queues {
		m.Queued += q.len()
	}
	r.mu.Unlock()
	return m
}

// Health checks router health.
// Implements HealthChecker interface.
func (r *Router) Health(ctx context.Context) HealthStatus {
	if r.closed.Load() {
		return HealthStatus{
			Status:    "unhealthy",
			Timestamp: r.clock.Now(),
			Message:   "router is closed",
		}
	}

	metrics := r.GetMetrics()
	status := "healthy"
	var msg string

	// Degraded if more than 5% of send attempts were dropped
	attempts := metrics.Sent + metrics.Delayed + metrics.Dropped
	if metrics.Dropped > 0 && attempts > 0 {
		if float64(metrics.Dropped)/float64(attempts) > 0.05 {
			status = "degraded"
			msg = "high drop rate"
		}
	}

	return HealthStatus{
		Status:    status,
		Metrics:   metrics,
		Timestamp: r.clock.Now(),
		Message:   msg,
	}
}

// minPoolCloseTimeout lets an idle observer pool stop even when ctx has
// already expired.
const minPoolCloseTimeout = 50 * time.Millisecond

// Close stops accepting new messages and drains the observer pool.
// Queued and pending messages stay receivable and promotable.
func (r *Router) Close(ctx context.Context) error {
	var closeErr error

	r.closeOnce.Do(func() {
		r.closed.Store(true)

		if r.observerPool != nil {
			timeout := 5 * time.Second
			if dl, ok := ctx.Deadline(); ok {
				timeout = max(time.Until(dl), minPoolCloseTimeout)
			}
			if err := r.observerPool.Close(timeout); err != nil {
				r.logger.Warn().Err(err).Msg("xmsg: observer pool shutdown timeout")
				closeErr = err
			}
		}
	})

	return closeErr
}

// AddObserver registers an observer (thread-safe).
func (r *Router) AddObserver(obs Observer) {
	if obs == nil {
		return
	}
	r.observersMu.Lock()
	r.observers = append(r.observers, obs)
	r.observersMu.Unlock()
}

// RemoveObserver removes an observer.
func (r *Router) RemoveObserver(obs Observer) {
	if obs == nil {
		return
	}
	r.observersMu.Lock()
	defer r.observersMu.Unlock()

	for i, o := range r.observers {
		if o == obs {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			break
		}
	}
}

// notify dispatches e to observers, through the pool when one is configured.
// Never called with r.mu or r.waitMu held.
func (r *Router) notify(e Event) {
	r.observersMu.RLock()
	if len(r.observers) == 0 {
		r.observersMu.RUnlock()
		return
	}
	observers := make([]Observer, len(r.observers))
	copy(observers, r.observers)
	r.observersMu.RUnlock()

	if r.observerPool != nil {
		if !r.observerPool.closed.Load() {
			r.observerPool.Notify(e, observers)
		}
		return
	}
	for _, o := range observers {
		o.OnEvent(e)
	}
}
