package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trickstertwo/xmsg/driver"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xmsg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Console)
	assert.Empty(t, cfg.Router.Types)
	assert.Equal(t, driver.Defaults(), cfg.Driver.ToDriver())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
router:
  types: [player.moved, door.opened]
  observer_workers: 2
  observer_buffer: 256
driver:
  tick_interval: 5ms
  concurrency: 4
  handler_timeout: 1s
  max_attempts: 3
  retry_backoff: 100ms
logging:
  level: debug
  console: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"player.moved", "door.opened"}, cfg.Router.Types)
	assert.Equal(t, 2, cfg.Router.ObserverWorkers)
	assert.Equal(t, 256, cfg.Router.ObserverBuffer)
	assert.Equal(t, 5*time.Millisecond, cfg.Driver.TickInterval)
	assert.Equal(t, 4, cfg.Driver.Concurrency)
	assert.Equal(t, time.Second, cfg.Driver.HandlerTimeout)

	dc := cfg.Driver.ToDriver()
	assert.Equal(t, 3, dc.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, dc.RetryBackoff)
	assert.Equal(t, 4, dc.Concurrency)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Console)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "driver:\n  concurrency: 2\n")
	t.Setenv("XMSG_DRIVER_CONCURRENCY", "8")
	t.Setenv("XMSG_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Driver.Concurrency)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, driver.Defaults().TickInterval, cfg.Driver.TickInterval)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeConfig(t, "driver:\n  concurrency: 0\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "driver.concurrency")

	path = writeConfig(t, "logging:\n  level: loud\n")
	_, err = Load(path)
	assert.ErrorContains(t, err, "logging.level")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty type", func(c *Config) { c.Router.Types = []string{"ok", " "} }, "router.types"},
		{"negative pool", func(c *Config) { c.Router.ObserverWorkers = -1 }, "observer pool"},
		{"zero tick", func(c *Config) { c.Driver.TickInterval = 0 }, "driver.tick_interval"},
		{"zero attempts", func(c *Config) { c.Driver.MaxAttempts = 0 }, "driver.max_attempts"},
		{"negative timeout", func(c *Config) { c.Driver.HandlerTimeout = -time.Second }, "driver.handler_timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
