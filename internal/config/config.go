package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/lokal-dev/lokal/internal/constants"
	"github.com/lokal-dev/lokal/internal/materialize"
)

// Config is the user configuration stored at ~/.lokal/config.yaml.
type Config struct {
	TemplatesDir    string `yaml:"templatesDir" validate:"required"`
	Python          string `yaml:"python" validate:"required"`
	InstallAttempts uint   `yaml:"installAttempts" validate:"gte=1,lte=10"`
	Scan            Scan   `yaml:"scan"`
}

// Scan holds the policies used when reading template directories.
type Scan struct {
	Symlinks         string `yaml:"symlinks" validate:"symlink_policy"`
	PermissionDenied string `yaml:"permissionDenied" validate:"permission_policy"`
}

// Dir returns ~/.lokal.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, constants.ConfigDirName), nil
}

// DefaultPath returns ~/.lokal/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.ConfigFileName), nil
}

// Default returns the configuration used when no file exists.
func Default() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		TemplatesDir:    filepath.Join(dir, constants.TemplatesDirName),
		Python:          constants.DefaultPython,
		InstallAttempts: constants.DefaultInstallTries,
		Scan: Scan{
			Symlinks:         materialize.SymlinkFollow.String(),
			PermissionDenied: materialize.PermissionError.String(),
		},
	}, nil
}

// Load reads the configuration at path. A missing file yields the defaults;
// fields left out of the file keep their default values.
func Load(logger *zerolog.Logger, path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug().Str("path", path).Msg("No config file found, using defaults")
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.TemplatesDir = expandHome(cfg.TemplatesDir)
	return cfg, nil
}

// Save writes cfg to path, replacing any existing file atomically.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// EnsureDefault writes the default configuration to path unless a file is
// already there.
func EnsureDefault(logger *zerolog.Logger, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	cfg, err := Default()
	if err != nil {
		return err
	}
	logger.Debug().Str("path", path).Msg("Creating default config")
	return Save(path, cfg)
}

// MaterializeOptions turns the scan policies into materializer options.
func (c Config) MaterializeOptions() ([]materialize.Option, error) {
	symlinks, err := materialize.ParseSymlinkPolicy(c.Scan.Symlinks)
	if err != nil {
		return nil, err
	}
	denied, err := materialize.ParsePermissionPolicy(c.Scan.PermissionDenied)
	if err != nil {
		return nil, err
	}
	return []materialize.Option{
		materialize.WithSymlinks(symlinks),
		materialize.WithPermissionDenied(denied),
	}, nil
}

func expandHome(p string) string {
	if p != "~" && !hasHomePrefix(p) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	return filepath.Join(home, p[2:])
}

func hasHomePrefix(p string) bool {
	return len(p) > 1 && p[0] == '~' && (p[1] == '/' || p[1] == filepath.Separator)
}
