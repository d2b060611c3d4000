package testutil

import (
	"bytes"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/lokal-dev/lokal/internal/logger"
)

// NewTestLogger logs everything down to debug level to stdout so failing
// tests show what happened.
func NewTestLogger() *zerolog.Logger {
	return logger.New(
		logger.WithOutput(os.Stdout),
		logger.WithLevel(logger.VerboseLogLevel),
		logger.WithColor(false),
		logger.WithTimestamp(true),
	)
}

// NewBufferedLogger is NewTestLogger that also records plain JSON lines in
// the returned buffer for assertions.
func NewBufferedLogger() (*zerolog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	console := zerolog.ConsoleWriter{Out: os.Stdout, NoColor: true}
	l := logger.New(
		logger.WithOutput(io.MultiWriter(console, &buf)),
		logger.WithLevel(logger.VerboseLogLevel),
		logger.WithConsoleWriter(false),
	)
	return l, &buf
}
