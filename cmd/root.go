package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lokal-dev/lokal/cmd/generate"
	"github.com/lokal-dev/lokal/cmd/info"
	"github.com/lokal-dev/lokal/cmd/list"
	"github.com/lokal-dev/lokal/cmd/preview"
	"github.com/lokal-dev/lokal/cmd/templateimport"
	"github.com/lokal-dev/lokal/cmd/version"
	"github.com/lokal-dev/lokal/internal/constants"
	"github.com/lokal-dev/lokal/internal/library"
	"github.com/lokal-dev/lokal/internal/logger"
	"github.com/lokal-dev/lokal/internal/materialize"
	"github.com/lokal-dev/lokal/internal/registry"
	"github.com/lokal-dev/lokal/internal/runtime"
	"github.com/lokal-dev/lokal/internal/settings"
	"github.com/lokal-dev/lokal/internal/ui"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = newRootCommand()

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError maps the errors users can act on to short messages.
func printError(w io.Writer, err error) {
	out := ui.NewOutput(w)
	switch {
	case errors.Is(err, registry.ErrNotFound), errors.Is(err, library.ErrNotFound):
		out.Error(err.Error())
		out.Dim("Run 'lokal list' or 'lokal list --library' to see the available templates")
	case errors.Is(err, materialize.ErrFilesystem):
		out.Error("Filesystem operation failed")
		out.Dim(err.Error())
	default:
		out.Error(err.Error())
	}
}

func newRootCommand() *cobra.Command {
	rootLogger := logger.NewConsoleLogger(false)
	rootViper := viper.New()
	reg, regErr := registry.NewDefault()
	runtimeContext := runtime.NewContext(rootLogger, rootViper, reg)

	helpRunE := func(cmd *cobra.Command, args []string) error {
		if err := cmd.Help(); err != nil {
			return fmt.Errorf("fail to show help: %w", err)
		}
		return nil
	}

	rootCmd := &cobra.Command{
		Use:   constants.AppName,
		Short: "Project scaffolding from templates",
		Long: `lokal creates project directories from built-in templates for smart home,
automation, game and microcontroller projects, or from your own templates kept
in a local template library.`,
		DisableAutoGenTag: true,
		SilenceErrors:     true,
		SilenceUsage:      true,
		RunE:              helpRunE,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if regErr != nil {
				return regErr
			}

			v := runtimeContext.Viper
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}

			if v.GetBool(settings.Flags.Verbose.Name) {
				newLogger := runtimeContext.Logger.Level(zerolog.DebugLevel)
				runtimeContext.Logger = &newLogger
			}

			if !needsSettings(cmd) {
				return nil
			}
			if err := runtimeContext.AttachSettings(); err != nil {
				return err
			}
			return runtimeContext.AttachLibrary()
		},
	}

	cobra.AddTemplateFunc("wrappedFlagUsages", func(fs *pflag.FlagSet) string {
		// 100 = wrap width
		return strings.TrimRight(fs.FlagUsagesWrapped(100), "\n")
	})

	rootCmd.SetHelpTemplate(`
{{- with (or .Long .Short)}}{{.}}{{end}}

Usage:
{{- if .Runnable}}
  {{.UseLine}}
{{- else if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]
{{- end}}

{{- if .HasAvailableSubCommands}}

Available Commands:
  {{- range $grp := .Groups}}

  {{printf "%s:" $grp.Title}}
    {{- range $.Commands}}
      {{- if (and (not .Hidden) (.IsAvailableCommand) (eq .GroupID $grp.ID))}}
    {{rpad .Name .NamePadding}}  {{.Short}}
      {{- end}}
    {{- end}}
  {{- end}}
  {{- range .Commands}}
    {{- if (and (not .Hidden) (.IsAvailableCommand) (eq .GroupID ""))}}
    {{rpad .Name .NamePadding}}  {{.Short}}
    {{- end}}
  {{- end}}
{{- end }}

{{- if .HasExample}}

Examples:
{{.Example}}
{{- end }}

{{- $local := (.LocalFlags | wrappedFlagUsages) -}}
{{- if $local }}

Flags:
{{$local}}
{{- end }}

{{- $inherited := (.InheritedFlags | wrappedFlagUsages) -}}
{{- if $inherited }}

Global Flags:
{{$inherited}}
{{- end }}

{{- if .HasAvailableSubCommands }}

Use "{{.CommandPath}} [command] --help" for more information about a command.
{{- end }}

Tip: New here? Run:
  $ lokal list
    to see the built-in templates, then:
  $ lokal generate
    to create your first project.
`)

	rootCmd.PersistentFlags().StringP(
		settings.Flags.CliEnvFile.Name,
		settings.Flags.CliEnvFile.Short,
		constants.DefaultEnvFileName,
		fmt.Sprintf("Path to a %s file with LOKAL_ variables", constants.DefaultEnvFileName),
	)
	rootCmd.PersistentFlags().BoolP(
		settings.Flags.Verbose.Name,
		settings.Flags.Verbose.Short,
		false,
		"Run command in VERBOSE mode",
	)
	rootCmd.PersistentFlags().String(
		settings.Flags.ConfigFile.Name,
		"",
		"Path to the config file (default ~/"+constants.ConfigDirName+"/"+constants.ConfigFileName+")",
	)
	rootCmd.PersistentFlags().String(
		settings.Flags.TemplatesDir.Name,
		"",
		"Directory of the local template library",
	)
	// --help must be known before command lookup, or it takes the next
	// argument as its value
	rootCmd.InitDefaultHelpFlag()
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	generateCmd := generate.New(runtimeContext)
	listCmd := list.New(runtimeContext)
	infoCmd := info.New(runtimeContext)
	previewCmd := preview.New(runtimeContext)
	importCmd := templateimport.New(runtimeContext)
	versionCmd := version.New(runtimeContext)

	rootCmd.AddGroup(&cobra.Group{ID: "getting-started", Title: "Getting Started"})
	rootCmd.AddGroup(&cobra.Group{ID: "templates", Title: "Templates"})

	generateCmd.GroupID = "getting-started"
	listCmd.GroupID = "getting-started"
	infoCmd.GroupID = "templates"
	previewCmd.GroupID = "templates"
	importCmd.GroupID = "templates"

	rootCmd.AddCommand(
		generateCmd,
		listCmd,
		infoCmd,
		previewCmd,
		importCmd,
		versionCmd,
	)

	return rootCmd
}

// needsSettings reports whether cmd reads the config file and the library.
func needsSettings(cmd *cobra.Command) bool {
	var excludedCommands = map[string]struct{}{
		"version":         {},
		"bash":            {},
		"fish":            {},
		"powershell":      {},
		"zsh":             {},
		"help":            {},
		"completion":      {},
		constants.AppName: {},
	}

	_, exists := excludedCommands[cmd.Name()]
	return !exists
}
