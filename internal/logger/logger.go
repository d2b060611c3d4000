package logger

import (
	"os"

	"github.com/rs/zerolog"
)

const (
	DefaultLogLevel = "info"
	VerboseLogLevel = "debug"
)

// New creates a logger. Without options it writes human readable lines to
// stdout at info level.
func New(opts ...Option) *zerolog.Logger {
	cfg := &Config{
		output:       os.Stdout,
		level:        zerolog.InfoLevel,
		excludeParts: []string{zerolog.TimestampFieldName, zerolog.LevelFieldName},
		console:      true,
	}
	for _, opt := range opts {
		opt.apply(cfg)
	}

	ctx := zerolog.New(cfg.output).Level(cfg.level).With()
	if cfg.timestamp {
		ctx = ctx.Timestamp()
	}
	l := ctx.Logger()

	if cfg.console {
		l = l.Output(zerolog.ConsoleWriter{
			Out:          cfg.output,
			NoColor:      cfg.noColor,
			PartsExclude: cfg.excludeParts,
		})
	}
	return &l
}

// NewConsoleLogger is the logger used by the CLI. It writes to stderr so
// command output on stdout stays machine readable.
func NewConsoleLogger(verbose bool) *zerolog.Logger {
	level := DefaultLogLevel
	if verbose {
		level = VerboseLogLevel
	}
	return New(
		WithLevel(level),
		WithOutput(os.Stderr),
		WithConsoleWriter(true),
		WithColor(colorEnabled()),
	)
}

func colorEnabled() bool {
	_, set := os.LookupEnv("NO_COLOR")
	return !set
}
