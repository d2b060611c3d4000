package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/lokal-dev/lokal/internal/config"
	"github.com/lokal-dev/lokal/internal/constants"
	"github.com/lokal-dev/lokal/internal/validation"
)

var errEnvFileNotFound = errors.New("env file not found")

// Settings is the effective configuration of one command run: the config
// file overlaid with LOKAL_ environment variables and command line flags.
type Settings struct {
	Config     config.Config
	ConfigPath string
	EnvFile    string
}

// New loads the .env file, the config file and the overrides bound to v.
func New(logger *zerolog.Logger, v *viper.Viper) (*Settings, error) {
	envFile, err := LoadEnv(v.GetString(Flags.CliEnvFile.Name))
	if err != nil {
		logger.Debug().Err(err).Msg("No .env file loaded")
	}

	BindEnv(v)

	path := v.GetString(Flags.ConfigFile.Name)
	if path == "" {
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
		if err := config.EnsureDefault(logger, path); err != nil {
			logger.Debug().Err(err).Msg("Could not write default config")
		}
	}

	validator, err := validation.NewValidator()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr == nil {
		if err := validator.Var(path, "yaml"); err != nil {
			return nil, fmt.Errorf("config file %s must hold a YAML mapping", path)
		}
	}

	cfg, err := config.Load(logger, path)
	if err != nil {
		return nil, err
	}
	applyOverrides(v, &cfg)

	if err := validator.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	logger.Debug().
		Str("config", path).
		Str("templatesDir", cfg.TemplatesDir).
		Str("symlinks", cfg.Scan.Symlinks).
		Msg("Settings loaded")

	return &Settings{Config: cfg, ConfigPath: path, EnvFile: envFile}, nil
}

// BindEnv makes every flag settable through a LOKAL_ variable, e.g.
// LOKAL_TEMPLATES_DIR for --templates-dir.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

func applyOverrides(v *viper.Viper, cfg *config.Config) {
	if v.IsSet(Flags.TemplatesDir.Name) {
		cfg.TemplatesDir = v.GetString(Flags.TemplatesDir.Name)
	}
	if v.IsSet(Flags.Python.Name) {
		cfg.Python = v.GetString(Flags.Python.Name)
	}
	if v.IsSet(Flags.InstallAttempts.Name) {
		cfg.InstallAttempts = v.GetUint(Flags.InstallAttempts.Name)
	}
	if v.IsSet(Flags.Symlinks.Name) {
		cfg.Scan.Symlinks = v.GetString(Flags.Symlinks.Name)
	}
	if v.IsSet(Flags.PermissionDenied.Name) {
		cfg.Scan.PermissionDenied = v.GetString(Flags.PermissionDenied.Name)
	}
}

// LoadEnv loads envPath, or the nearest .env file found from the working
// directory upwards when envPath is empty or missing. Variables already set
// in the environment win. It returns the file that was loaded.
func LoadEnv(envPath string) (string, error) {
	if envPath != "" {
		if info, err := os.Stat(envPath); err == nil && !info.IsDir() {
			if err := godotenv.Load(envPath); err != nil {
				return "", fmt.Errorf("error loading file from %s: %w", envPath, err)
			}
			return envPath, nil
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("error getting working directory: %w", err)
	}
	found, err := findEnvFile(cwd, constants.DefaultEnvFileName)
	if err != nil {
		return "", err
	}
	if err := godotenv.Load(found); err != nil {
		return "", fmt.Errorf("error loading file from %s: %w", found, err)
	}
	return found, nil
}

func findEnvFile(startDir, fileName string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, fileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no %s in %s or its parents", errEnvFileNotFound, fileName, startDir)
		}
		dir = parent
	}
}
