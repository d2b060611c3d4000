package templateimport

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lokal-dev/lokal/internal/library"
	"github.com/lokal-dev/lokal/internal/runtime"
	"github.com/lokal-dev/lokal/internal/settings"
	"github.com/lokal-dev/lokal/internal/ui"
	"github.com/lokal-dev/lokal/internal/validation"
)

type Inputs struct {
	Source string `validate:"required,path_read,dir" cli:"--source"`
}

func New(runtimeContext *runtime.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Imports a directory into the local template library",
		Long: `Copies a directory into the local template library. The template is named after
the directory and can then be used with 'lokal generate --template <name>'.`,
		Example: "  lokal import --source ./my-template",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h := newHandler(runtimeContext, ui.NewOutput(cmd.OutOrStdout()))
			inputs := h.ResolveInputs(runtimeContext.Viper)
			if err := h.ValidateInputs(inputs); err != nil {
				return err
			}
			return h.Execute(inputs)
		},
	}

	cmd.Flags().StringP(settings.Flags.Source.Name, settings.Flags.Source.Short, "", "Directory to import")
	_ = cmd.MarkFlagRequired(settings.Flags.Source.Name)
	settings.AddScanFlags(cmd)

	return cmd
}

type handler struct {
	log     *zerolog.Logger
	out     *ui.Output
	library *library.Library
}

func newHandler(ctx *runtime.Context, out *ui.Output) *handler {
	return &handler{log: ctx.Logger, out: out, library: ctx.Library}
}

func (h *handler) ResolveInputs(v *viper.Viper) Inputs {
	return Inputs{Source: v.GetString(settings.Flags.Source.Name)}
}

func (h *handler) ValidateInputs(inputs Inputs) error {
	validate, err := validation.NewValidator()
	if err != nil {
		return fmt.Errorf("failed to initialize validator: %w", err)
	}
	return validate.Struct(inputs)
}

func (h *handler) Execute(inputs Inputs) error {
	if h.library == nil {
		return fmt.Errorf("template library not available")
	}

	dest, err := h.library.Import(inputs.Source)
	if err != nil {
		return err
	}
	name := filepath.Base(dest)

	tree, err := h.library.Structure(name)
	if err != nil {
		return err
	}
	h.log.Info().Str("template", name).Str("path", dest).Int("files", tree.FileCount()).Msg("Template imported")

	h.out.Success(fmt.Sprintf("Imported template %q (%d files)", name, tree.FileCount()))
	h.out.Dim(dest)
	h.out.Line()
	h.out.Dim("Create a project with:")
	h.out.Command(fmt.Sprintf("  lokal generate --template %s --output <dir>", name))
	return nil
}
