package driver

import (
	"time"
)

// Config controls driver behavior.
type Config struct {
	// TickInterval is the period between Tick calls; it bounds delayed-delivery
	// granularity (default: 10ms).
	TickInterval time.Duration
	// Concurrency is the number of message names drained in parallel (default: 1).
	// Messages under one name are always handled in order by a single goroutine.
	Concurrency int
	// HandlerTimeout bounds a single handler attempt (default: 0 = none).
	HandlerTimeout time.Duration
	// MaxAttempts is the number of handler attempts per message, including
	// the first (default: 1 = no retry).
	MaxAttempts int
	// RetryBackoff is the wait between attempts (default: 0).
	RetryBackoff time.Duration
}

// Defaults returns a Config with the default settings.
func Defaults() Config {
	return Config{
		TickInterval: 10 * time.Millisecond,
		Concurrency:  1,
		MaxAttempts:  1,
	}
}

// ConfigFromMap safely converts cfg into Config with defaults.
func ConfigFromMap(cfg map[string]any) Config {
	getInt := func(k string, d int) int {
		switch v := cfg[k].(type) {
		case int:
			return v
		case int32:
			return int(v)
		case int64:
			return int(v)
		case float64:
			return int(v)
		default:
			return d
		}
	}

	getDur := func(k string, d time.Duration) time.Duration {
		switch v := cfg[k].(type) {
		case time.Duration:
			return v
		case string:
			if p, err := time.ParseDuration(v); err == nil {
				return p
			}
		case float64:
			return time.Duration(v)
		}
		return d
	}

	def := Defaults()
	c := Config{
		TickInterval:   getDur("tick_interval", def.TickInterval),
		Concurrency:    getInt("concurrency", def.Concurrency),
		HandlerTimeout: getDur("handler_timeout", def.HandlerTimeout),
		MaxAttempts:    getInt("max_attempts", def.MaxAttempts),
		RetryBackoff:   getDur("retry_backoff", def.RetryBackoff),
	}
	return c.normalize()
}

func (c Config) normalize() Config {
	def := Defaults()
	if c.TickInterval <= 0 {
		c.TickInterval = def.TickInterval
	}
	if c.Concurrency < 1 {
		c.Concurrency = def.Concurrency
	}
	if c.HandlerTimeout < 0 {
		c.HandlerTimeout = 0
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.RetryBackoff < 0 {
		c.RetryBackoff = 0
	}
	return c
}

