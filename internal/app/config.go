package app

import (
	"fmt"
	"time"
)

// Config holds everything an App instance needs to run.
type Config struct {
	ListenAddr   string
	TickInterval time.Duration

	LogFormat string
	LogLevel  string

	// SampleRate of the audio runtime; 0 uses the runtime default.
	SampleRate int

	// Assets is the externally declared preload list.
	Assets []string

	// GraphFile optionally names a wire-format JSON document applied at
	// startup.
	GraphFile string
}

// NewConfig validates a Config and fills defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8040"
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 40 * time.Millisecond
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn' or 'error'", cfg.LogLevel)
	}
	return &cfg, nil
}
