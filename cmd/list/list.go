package list

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lokal-dev/lokal/cmd/utils"
	"github.com/lokal-dev/lokal/internal/constants"
	"github.com/lokal-dev/lokal/internal/library"
	"github.com/lokal-dev/lokal/internal/registry"
	"github.com/lokal-dev/lokal/internal/runtime"
	"github.com/lokal-dev/lokal/internal/settings"
	"github.com/lokal-dev/lokal/internal/ui"
)

type Inputs struct {
	Library bool
	Format  string
}

func New(runtimeContext *runtime.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lists available templates",
		Long: `Lists the built-in templates with their name, description and number of files.
With --library the templates imported into the local template library are listed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h := newHandler(runtimeContext, ui.NewOutput(cmd.OutOrStdout()))
			inputs, err := h.ResolveInputs(runtimeContext.Viper)
			if err != nil {
				return err
			}
			return h.Execute(inputs)
		},
	}

	cmd.Flags().BoolP(settings.Flags.Library.Name, settings.Flags.Library.Short, false, "List the templates of the local library")
	cmd.Flags().StringP(settings.Flags.Output.Name, settings.Flags.Output.Short, constants.OutputTable, "Output format: table or json")

	return cmd
}

type handler struct {
	log      *zerolog.Logger
	out      *ui.Output
	registry *registry.Registry
	library  *library.Library
}

func newHandler(ctx *runtime.Context, out *ui.Output) *handler {
	return &handler{
		log:      ctx.Logger,
		out:      out,
		registry: ctx.Registry,
		library:  ctx.Library,
	}
}

func (h *handler) ResolveInputs(v *viper.Viper) (Inputs, error) {
	format, err := utils.CheckFormat(v.GetString(settings.Flags.Output.Name), constants.OutputTable, constants.OutputJSON)
	if err != nil {
		return Inputs{}, err
	}
	return Inputs{
		Library: v.GetBool(settings.Flags.Library.Name),
		Format:  format,
	}, nil
}

func (h *handler) Execute(inputs Inputs) error {
	if inputs.Library {
		return h.listLibrary(inputs.Format)
	}

	summaries, err := h.registry.Summaries()
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}
	h.log.Debug().Int("count", len(summaries)).Msg("Listing built-in templates")

	if inputs.Format == constants.OutputJSON {
		return utils.Write(h.out.Writer(), constants.OutputJSON, summaries)
	}

	h.out.Title("Available Templates")
	h.out.Line()
	h.out.Print(utils.FormatTemplatesTable(summaries))
	h.out.Line()
	h.out.Dim("Create a project with:")
	h.out.Command("  lokal generate --template <id> --output <dir>")
	return nil
}

func (h *handler) listLibrary(format string) error {
	if h.library == nil {
		return fmt.Errorf("template library not available")
	}
	entries, err := h.library.List()
	if err != nil {
		return fmt.Errorf("failed to list library %s: %w", h.library.Root(), err)
	}

	if format == constants.OutputJSON {
		if entries == nil {
			entries = []library.Entry{}
		}
		return utils.Write(h.out.Writer(), constants.OutputJSON, entries)
	}

	h.out.Title("Library Templates")
	h.out.Dim(h.library.Root())
	h.out.Line()
	h.out.Print(utils.FormatLibraryTable(entries))
	if len(entries) == 0 {
		h.out.Line()
		h.out.Dim("Add one with:")
		h.out.Command("  lokal import --source <dir>")
	}
	return nil
}
