package logger

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Config holds logger configuration
type Config struct {
	output       io.Writer
	level        zerolog.Level
	excludeParts []string
	console      bool
	noColor      bool
	timestamp    bool
}

// Option configures the logger
type Option interface {
	apply(*Config)
}

type optionFunc func(*Config)

func (f optionFunc) apply(cfg *Config) {
	f(cfg)
}

// WithLevel sets the minimum level. Unknown names fall back to info.
func WithLevel(level string) Option {
	return optionFunc(func(cfg *Config) {
		cfg.level = ParseLevel(level)
	})
}

// WithConsoleWriter switches between human readable output and JSON lines.
func WithConsoleWriter(console bool) Option {
	return optionFunc(func(cfg *Config) {
		cfg.console = console
	})
}

func WithOutput(output io.Writer) Option {
	return optionFunc(func(cfg *Config) {
		cfg.output = output
	})
}

func WithColor(enabled bool) Option {
	return optionFunc(func(cfg *Config) {
		cfg.noColor = !enabled
	})
}

// WithTimestamp adds a time field to every event and shows it in console
// output.
func WithTimestamp(enabled bool) Option {
	return optionFunc(func(cfg *Config) {
		cfg.timestamp = enabled
		parts := cfg.excludeParts[:0]
		for _, p := range cfg.excludeParts {
			if p != zerolog.TimestampFieldName {
				parts = append(parts, p)
			}
		}
		if !enabled {
			parts = append(parts, zerolog.TimestampFieldName)
		}
		cfg.excludeParts = parts
	})
}

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
