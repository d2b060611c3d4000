package environment

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"
)

const (
	VenvDirName = ".venv"

	DefaultPython   = "python3"
	DefaultAttempts = 3
)

var ErrVenvUnavailable = errors.New("python venv module not available")

// Manager creates project virtual environments and installs dependencies
// into them.
type Manager struct {
	log        *zerolog.Logger
	runner     Runner
	python     string
	attempts   uint
	delay      time.Duration
	onProgress func(string)
}

type Option func(*Manager)

func WithPython(python string) Option {
	return func(m *Manager) {
		if python != "" {
			m.python = python
		}
	}
}

// WithAttempts sets how often a failing install is tried.
func WithAttempts(n uint) Option {
	return func(m *Manager) {
		if n > 0 {
			m.attempts = n
		}
	}
}

func WithRetryDelay(d time.Duration) Option {
	return func(m *Manager) {
		m.delay = d
	}
}

// WithProgress registers a callback receiving short status messages.
func WithProgress(fn func(string)) Option {
	return func(m *Manager) {
		m.onProgress = fn
	}
}

func NewManager(log *zerolog.Logger, runner Runner, opts ...Option) *Manager {
	m := &Manager{
		log:      log,
		runner:   runner,
		python:   DefaultPython,
		attempts: DefaultAttempts,
		delay:    time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// VenvDir returns the virtual environment location for projectDir.
func VenvDir(projectDir string) string {
	return filepath.Join(projectDir, VenvDirName)
}

// Pip returns the pip executable inside the virtual environment of
// projectDir.
func Pip(projectDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(VenvDir(projectDir), "Scripts", "pip.exe")
	}
	return filepath.Join(VenvDir(projectDir), "bin", "pip")
}

// CreateVenv creates projectDir/.venv. An existing environment is left as it
// is. A failed creation removes whatever was written.
func (m *Manager) CreateVenv(ctx context.Context, projectDir string) error {
	venv := VenvDir(projectDir)
	if _, err := os.Stat(venv); err == nil {
		m.log.Warn().Str("path", venv).Msg("Virtual environment already exists")
		return nil
	}

	if _, err := m.runner.Run(ctx, projectDir, m.python, "-c", "import venv"); err != nil {
		return fmt.Errorf("%w: %w", ErrVenvUnavailable, err)
	}

	m.progress("Creating virtual environment...")
	if _, err := m.runner.Run(ctx, projectDir, m.python, "-m", "venv", venv); err != nil {
		if rmErr := os.RemoveAll(venv); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			m.log.Warn().Err(rmErr).Str("path", venv).Msg("Failed to remove partial virtual environment")
		}
		return fmt.Errorf("failed to create virtual environment: %w", err)
	}

	m.log.Debug().Str("path", venv).Msg("Virtual environment created")
	m.progress("Virtual environment ready")
	return nil
}

// Install installs deps into the virtual environment of projectDir, creating
// it first when needed. Failed installs are retried.
func (m *Manager) Install(ctx context.Context, projectDir string, deps []string) error {
	if len(deps) == 0 {
		return nil
	}
	return m.pipInstall(ctx, projectDir, append([]string{"install"}, deps...))
}

// InstallRequirements runs pip install -r for every requirements file that
// exists. Paths are relative to projectDir.
func (m *Manager) InstallRequirements(ctx context.Context, projectDir string, files []string) error {
	for _, f := range files {
		full := f
		if !filepath.IsAbs(full) {
			full = filepath.Join(projectDir, f)
		}
		if _, err := os.Stat(full); err != nil {
			m.log.Debug().Str("file", full).Msg("Requirements file not found, skipping")
			continue
		}
		if err := m.pipInstall(ctx, projectDir, []string{"install", "-r", full}); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) pipInstall(ctx context.Context, projectDir string, args []string) error {
	if err := m.CreateVenv(ctx, projectDir); err != nil {
		return err
	}

	pip := Pip(projectDir)
	m.progress("Installing dependencies...")
	err := retry.Do(
		func() error {
			_, err := m.runner.Run(ctx, projectDir, pip, args...)
			return err
		},
		retry.Attempts(m.attempts),
		retry.Delay(m.delay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			m.log.Debug().Err(err).Uint("attempt", n+1).Msg("pip install failed, retrying")
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to install dependencies: %w", err)
	}
	m.progress("Dependencies installed")
	return nil
}

func (m *Manager) progress(msg string) {
	if m.onProgress != nil {
		m.onProgress(msg)
	}
}
