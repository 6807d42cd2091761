package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/trickstertwo/xmsg/driver"
)

// Config represents the application configuration
type Config struct {
	Router  RouterConfig  `mapstructure:"router"`
	Driver  DriverConfig  `mapstructure:"driver"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// RouterConfig contains router construction settings
type RouterConfig struct {
	Types           []string `mapstructure:"types"`
	ObserverWorkers int      `mapstructure:"observer_workers"`
	ObserverBuffer  int      `mapstructure:"observer_buffer"`
}

// DriverConfig contains tick loop settings
type DriverConfig struct {
	TickInterval   time.Duration `mapstructure:"tick_interval"`
	Concurrency    int           `mapstructure:"concurrency"`
	HandlerTimeout time.Duration `mapstructure:"handler_timeout"`
	MaxAttempts    int           `mapstructure:"max_attempts"`
	RetryBackoff   time.Duration `mapstructure:"retry_backoff"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

// EnvPrefix is the prefix for environment overrides, e.g. XMSG_DRIVER_TICK_INTERVAL.
const EnvPrefix = "XMSG"

// Load reads configuration from configPath (optional) and the environment.
// A missing default config file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("xmsg")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/xmsg")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := driver.Defaults()

	v.SetDefault("router.types", []string{})
	v.SetDefault("router.observer_workers", 0)
	v.SetDefault("router.observer_buffer", 0)

	v.SetDefault("driver.tick_interval", d.TickInterval)
	v.SetDefault("driver.concurrency", d.Concurrency)
	v.SetDefault("driver.handler_timeout", d.HandlerTimeout)
	v.SetDefault("driver.max_attempts", d.MaxAttempts)
	v.SetDefault("driver.retry_backoff", d.RetryBackoff)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
}

// Validate checks the configuration
func (c *Config) Validate() error {
	for _, t := range c.Router.Types {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("config: router.types must not contain empty names")
		}
	}
	if c.Router.ObserverWorkers < 0 || c.Router.ObserverBuffer < 0 {
		return fmt.Errorf("config: router observer pool settings must be >= 0")
	}
	if c.Driver.TickInterval <= 0 {
		return fmt.Errorf("config: driver.tick_interval must be > 0, got %v", c.Driver.TickInterval)
	}
	if c.Driver.Concurrency < 1 {
		return fmt.Errorf("config: driver.concurrency must be >= 1, got %d", c.Driver.Concurrency)
	}
	if c.Driver.HandlerTimeout < 0 {
		return fmt.Errorf("config: driver.handler_timeout must be >= 0, got %v", c.Driver.HandlerTimeout)
	}
	if c.Driver.MaxAttempts < 1 {
		return fmt.Errorf("config: driver.max_attempts must be >= 1, got %d", c.Driver.MaxAttempts)
	}
	if c.Driver.RetryBackoff < 0 {
		return fmt.Errorf("config: driver.retry_backoff must be >= 0, got %v", c.Driver.RetryBackoff)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown logging.level %q", c.Logging.Level)
	}
	return nil
}

// ToDriver converts the driver section into a driver.Config.
func (c DriverConfig) ToDriver() driver.Config {
	return driver.ConfigFromMap(map[string]any{
		"tick_interval":   c.TickInterval,
		"concurrency":     c.Concurrency,
		"handler_timeout": c.HandlerTimeout,
		"max_attempts":    c.MaxAttempts,
		"retry_backoff":   c.RetryBackoff,
	})
}
