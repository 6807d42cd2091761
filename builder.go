package xmsg

import (
	"context"

	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xlog"
)

// RouterBuilder constructs Router instances (Builder pattern).
// The application's composition root builds one Router and passes it to
// producers and consumers.
type RouterBuilder struct {
	types     []string
	observers []Observer
	logger    *xlog.Logger
	clock     Clock

	poolWorkers int
	poolBuffer  int
}

// NewRouterBuilder returns a new builder with sensible defaults.
func NewRouterBuilder() *RouterBuilder {
	return &RouterBuilder{}
}

// WithTypes pre-registers message-type names.
func (rb *RouterBuilder) WithTypes(names ...string) *RouterBuilder {
	rb.types = append(rb.types, names...)
	return rb
}

func (rb *RouterBuilder) WithObserver(obs ...Observer) *RouterBuilder {
	for _, o := range obs {
		if o != nil {
			rb.observers = append(rb.observers, o)
		}
	}
	return rb
}

func (rb *RouterBuilder) WithLogger(l *xlog.Logger) *RouterBuilder {
	rb.logger = l
	return rb
}

// WithClock overrides the time source (default: xclock.Default()).
func (rb *RouterBuilder) WithClock(c Clock) *RouterBuilder {
	rb.clock = c
	return rb
}

// WithObserverPool dispatches observer events asynchronously on workers
// goroutines with a bufferSize event channel. Events are dropped when full.
func (rb *RouterBuilder) WithObserverPool(workers, bufferSize int) *RouterBuilder {
	rb.poolWorkers = workers
	rb.poolBuffer = bufferSize
	return rb
}

func (rb *RouterBuilder) Build() (*Router, error) {
	var clk Clock
	if rb.clock != nil {
		clk = rb.clock
	} else {
		clk = xclock.Default()
	}
	var lg *xlog.Logger
	if rb.logger != nil {
		lg = rb.logger
	} else {
		lg = xlog.Default()
	}

	r := newRouter(clk, lg)
	for _, name := range rb.types {
		if err := r.RegisterType(name); err != nil {
			return nil, err
		}
	}

	if rb.poolWorkers > 0 || rb.poolBuffer > 0 {
		r.observerPool = NewObserverPool(context.Background(), rb.poolWorkers, rb.poolBuffer)
	}

	// Attach logging observer first unless already supplied externally.
	hasLoggingObserver := false
	for _, o := range rb.observers {
		if _, ok := o.(LoggingObserver); ok {
			hasLoggingObserver = true
			break
		}
	}
	if !hasLoggingObserver {
		r.AddObserver(LoggingObserver{Logger: lg})
	}
	for _, o := range rb.observers {
		r.AddObserver(o)
	}

	return r, nil
}

// New constructs a Router via Builder and returns a close func for convenience.
func New(init func(b *RouterBuilder)) (*Router, func() error, error) {
	b := NewRouterBuilder()
	if init != nil {
		init(b)
	}
	r, err := b.Build()
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() error { return r.Close(context.Background()) }
	return r, closeFn, nil
}
