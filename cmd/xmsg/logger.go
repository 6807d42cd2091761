package main

import (
	"strings"
	"time"

	"github.com/trickstertwo/xlog"
	"github.com/trickstertwo/xlog/adapter/zerolog"

	"github.com/trickstertwo/xmsg/config"
)

// newLogger installs the zerolog-backed xlog logger described by cfg.
func newLogger(cfg config.LoggingConfig) *xlog.Logger {
	minLevel := xlog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		minLevel = xlog.LevelDebug
	case "warn":
		minLevel = xlog.LevelWarn
	case "error":
		minLevel = xlog.LevelError
	}

	return zerolog.Use(zerolog.Config{
		MinLevel:          minLevel,
		Console:           cfg.Console,
		ConsoleTimeFormat: time.RFC3339Nano,
	}).With(xlog.Str("app", "xmsg"))
}
