package driver

import (
	"github.com/trickstertwo/xlog"
	"github.com/trickstertwo/xmsg"
)

// Option configures a Driver.
type Option func(*Driver)

// WithLogger injects a custom xlog logger.
func WithLogger(l *xlog.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithClock injects the clock handed to handlers through their context.
func WithClock(c xmsg.Clock) Option {
	return func(d *Driver) {
		if c != nil {
			d.clock = c
		}
	}
}

// WithMiddleware adds processing middlewares (timeout, logging, etc).
func WithMiddleware(mw ...xmsg.Middleware) Option {
	return func(d *Driver) { d.middlewares = append(d.middlewares, mw...) }
}

// WithRetry retries failed handler calls per cfg. It takes precedence over
// Config.MaxAttempts.
func WithRetry(cfg xmsg.RetryConfig) Option {
	return func(d *Driver) { d.retry = &cfg }
}
