// Package driver runs the periodic loop that an xmsg.Router needs: it calls
// Tick at a fixed interval and hands received messages to registered handlers.
//
// The router itself never spawns goroutines; the driver is the external
// scheduler owned by the application.
package driver

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xlog"
	"github.com/trickstertwo/xmsg"
)

var (
	ErrNilHandler     = errors.New("driver: handler must not be nil")
	ErrInvalidName    = errors.New("driver: message name must not be empty")
	ErrAlreadyRunning = errors.New("driver: already running")
)

// Source is the part of the router the driver depends on.
type Source interface {
	xmsg.Ticker
	TryReceive(name string) (*xmsg.Message, bool)
	Len(name string) int
}

// Driver ticks a Source and dispatches its messages to handlers.
type Driver struct {
	src         Source
	cfg         Config
	logger      *xlog.Logger
	clock       xmsg.Clock
	middlewares []xmsg.Middleware
	retry       *xmsg.RetryConfig

	mu       sync.RWMutex
	handlers map[string]xmsg.Handler

	running atomic.Bool
	metrics *driverMetrics
}

type driverMetrics struct {
	ticks    atomic.Uint64
	promoted atomic.Uint64
	handled  atomic.Uint64
	failed   atomic.Uint64
}

// Stats returns driver telemetry.
type Stats struct {
	Ticks    uint64
	Promoted uint64
	Handled  uint64
	Failed   uint64
}

// New creates a driver for src.
func New(src Source, cfg Config, opts ...Option) *Driver {
	d := &Driver{
		src:      src,
		cfg:      cfg.normalize(),
		logger:   xlog.Default(),
		clock:    xclock.Default(),
		handlers: make(map[string]xmsg.Handler),
		metrics:  &driverMetrics{},
	}
	for _, o := range opts {
		if o != nil {
			o(d)
		}
	}
	return d
}

// Handle registers h for messages under name, replacing any previous handler.
// The chain is recovery (outermost), retry, per-attempt timeout, then the
// middlewares given with WithMiddleware.
func (d *Driver) Handle(name string, h xmsg.Handler) error {
	if name == "" {
		return ErrInvalidName
	}
	if h == nil {
		return ErrNilHandler
	}

	mws := make([]xmsg.Middleware, 0, len(d.middlewares)+3)
	mws = append(mws, xmsg.RecoveryMiddleware())
	if rc, ok := d.retryConfig(); ok {
		mws = append(mws, xmsg.RetryMiddleware(rc))
	}
	if d.cfg.HandlerTimeout > 0 {
		mws = append(mws, xmsg.TimeoutMiddleware(d.cfg.HandlerTimeout))
	}
	mws = append(mws, d.middlewares...)
	wh := xmsg.Chain(h, mws...)

	d.mu.Lock()
	d.handlers[name] = wh
	d.mu.Unlock()
	return nil
}

// Run ticks every TickInterval until ctx is done and returns ctx.Err().
func (d *Driver) Run(ctx context.Context) error {
	if d.running.Swap(true) {
		return ErrAlreadyRunning
	}
	defer d.running.Store(false)

	d.logger.With(
		xlog.Dur("tick_interval", d.cfg.TickInterval),
		xlog.Str("concurrency", strconv.Itoa(d.cfg.Concurrency)),
	).Debug().Msg("xmsg/driver: started")

	t := time.NewTicker(d.cfg.TickInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Debug().Msg("xmsg/driver: stopped")
			return ctx.Err()
		case <-t.C:
			d.Step(ctx)
		}
	}
}

// Step performs one Tick and drains every handled name. It returns the
// number of messages handled.
func (d *Driver) Step(ctx context.Context) int {
	d.metrics.ticks.Add(1)
	if n := d.src.Tick(); n > 0 {
		d.metrics.promoted.Add(uint64(n))
	}

	d.mu.RLock()
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	d.mu.RUnlock()
	if len(names) == 0 {
		return 0
	}
	sort.Strings(names)

	hctx := xmsg.InjectAll(ctx, d.logger, d.clock)

	var (
		handled atomic.Int64
		wg      sync.WaitGroup
		sem     = make(chan struct{}, d.cfg.Concurrency)
	)
	for _, name := range names {
		if ctx.Err() != nil {
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			defer func() { <-sem }()
			handled.Add(int64(d.drain(hctx, name)))
		}(name)
	}
	wg.Wait()
	return int(handled.Load())
}

// retryConfig returns the WithRetry settings, or a constant backoff built
// from Config.MaxAttempts and Config.RetryBackoff.
func (d *Driver) retryConfig() (xmsg.RetryConfig, bool) {
	if d.retry != nil {
		return *d.retry, d.retry.MaxAttempts > 1
	}
	if d.cfg.MaxAttempts <= 1 {
		return xmsg.RetryConfig{}, false
	}
	backoff := d.cfg.RetryBackoff
	return xmsg.RetryConfig{
		MaxAttempts: d.cfg.MaxAttempts,
		Backoff:     func(int) time.Duration { return backoff },
	}, true
}

// drain handles the messages queued under name when it starts, so messages
// sent while draining wait for the next Step.
func (d *Driver) drain(ctx context.Context, name string) int {
	d.mu.RLock()
	h := d.handlers[name]
	d.mu.RUnlock()
	if h == nil {
		return 0
	}

	limit := d.src.Len(name)
	n := 0
	for n < limit && ctx.Err() == nil {
		msg, ok := d.src.TryReceive(name)
		if !ok {
			break
		}
		n++
		d.metrics.handled.Add(1)
		if err := h(ctx, msg); err != nil {
			d.metrics.failed.Add(1)
			d.logger.Warn().
				Str("name", name).
				Str("message_id", msg.ID).
				Err(err).
				Msg("xmsg/driver: handler failed")
		}
	}
	return n
}

// Stats returns current driver metrics.
func (d *Driver) Stats() Stats {
	return Stats{
		Ticks:    d.metrics.ticks.Load(),
		Promoted: d.metrics.promoted.Load(),
		Handled:  d.metrics.handled.Load(),
		Failed:   d.metrics.failed.Load(),
	}
}
