// Package cmdtest runs cobra commands against an isolated runtime context.
package cmdtest

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/lokal-dev/lokal/internal/registry"
	"github.com/lokal-dev/lokal/internal/runtime"
	"github.com/lokal-dev/lokal/internal/settings"
	"github.com/lokal-dev/lokal/internal/testutil"
)

// NewContext returns a runtime context with the built-in registry, a config
// file and a template library inside a temporary home directory.
func NewContext(t testing.TB) *runtime.Context {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("NO_COLOR", "1")

	reg, err := registry.NewDefault()
	require.NoError(t, err)

	v := viper.New()
	v.Set(settings.Flags.ConfigFile.Name, filepath.Join(home, "config.yaml"))
	v.Set(settings.Flags.TemplatesDir.Name, filepath.Join(home, "templates"))

	ctx := runtime.NewContext(testutil.NewTestLogger(), v, reg)
	require.NoError(t, ctx.AttachSettings())
	require.NoError(t, ctx.AttachLibrary())
	return ctx
}

// Execute runs cmd with args and returns everything it printed.
func Execute(t testing.TB, ctx *runtime.Context, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		return ctx.Viper.BindPFlags(c.Flags())
	}

	err := cmd.Execute()
	return out.String(), err
}
