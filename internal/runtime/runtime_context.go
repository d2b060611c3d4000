package runtime

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/lokal-dev/lokal/internal/environment"
	"github.com/lokal-dev/lokal/internal/library"
	"github.com/lokal-dev/lokal/internal/materialize"
	"github.com/lokal-dev/lokal/internal/registry"
	"github.com/lokal-dev/lokal/internal/settings"
)

// Context carries what commands share during one invocation.
type Context struct {
	Logger       *zerolog.Logger
	Viper        *viper.Viper
	Registry     *registry.Registry
	Settings     *settings.Settings
	Materializer *materialize.Materializer
	Library      *library.Library
	Runner       environment.Runner
}

func NewContext(logger *zerolog.Logger, viper *viper.Viper, reg *registry.Registry) *Context {
	return &Context{
		Logger:   logger,
		Viper:    viper,
		Registry: reg,
		Runner:   environment.ExecRunner{},
	}
}

// AttachSettings loads the effective configuration.
func (ctx *Context) AttachSettings() error {
	var err error

	ctx.Settings, err = settings.New(ctx.Logger, ctx.Viper)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	return nil
}

// AttachLibrary builds the materializer from the scan settings and opens the
// template library. Settings must be attached first.
func (ctx *Context) AttachLibrary() error {
	if ctx.Settings == nil {
		return fmt.Errorf("settings not loaded")
	}

	opts, err := ctx.Settings.Config.MaterializeOptions()
	if err != nil {
		return fmt.Errorf("invalid scan settings: %w", err)
	}
	ctx.Materializer = materialize.NewOS(opts...)

	ctx.Library, err = library.New(ctx.Logger, ctx.Materializer, ctx.Settings.Config.TemplatesDir)
	if err != nil {
		return fmt.Errorf("failed to open template library: %w", err)
	}
	return nil
}

// EnvironmentManager returns a virtual environment manager configured from
// the settings.
func (ctx *Context) EnvironmentManager(opts ...environment.Option) *environment.Manager {
	if ctx.Settings != nil {
		cfg := ctx.Settings.Config
		opts = append([]environment.Option{
			environment.WithPython(cfg.Python),
			environment.WithAttempts(cfg.InstallAttempts),
		}, opts...)
	}
	return environment.NewManager(ctx.Logger, ctx.Runner, opts...)
}
