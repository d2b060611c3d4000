package preview

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lokal-dev/lokal/cmd/utils"
	"github.com/lokal-dev/lokal/internal/constants"
	"github.com/lokal-dev/lokal/internal/library"
	"github.com/lokal-dev/lokal/internal/logger"
	"github.com/lokal-dev/lokal/internal/materialize"
	"github.com/lokal-dev/lokal/internal/registry"
	"github.com/lokal-dev/lokal/internal/runtime"
	"github.com/lokal-dev/lokal/internal/settings"
	"github.com/lokal-dev/lokal/internal/structure"
	"github.com/lokal-dev/lokal/internal/ui"
	"github.com/lokal-dev/lokal/internal/validation"
)

var errNothingToPreview = errors.New("one of --template or --source is required")

type Inputs struct {
	Template string `validate:"omitempty,template_id" cli:"--template"`
	Library  bool
	Source   string `validate:"omitempty,path_read,dir" cli:"--source"`
	Format   string
}

func New(runtimeContext *runtime.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Shows the directory layout a template would produce",
		Long: `Prints the directory tree of a built-in template, of a template in the local
library (--library) or of any directory on disk (--source).`,
		Example: `  lokal preview --template esp32_sht41
  lokal preview --template web_app --library
  lokal preview --source ./my-project --symlinks skip`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h := newHandler(runtimeContext, ui.NewOutput(cmd.OutOrStdout()))
			inputs, err := h.ResolveInputs(runtimeContext.Viper)
			if err != nil {
				return err
			}
			if err := h.ValidateInputs(inputs); err != nil {
				return err
			}
			return h.Execute(inputs)
		},
	}

	cmd.Flags().StringP(settings.Flags.Template.Name, settings.Flags.Template.Short, "", "Template id, or library template name with --library")
	cmd.Flags().BoolP(settings.Flags.Library.Name, settings.Flags.Library.Short, false, "Look the template up in the local library")
	cmd.Flags().StringP(settings.Flags.Source.Name, settings.Flags.Source.Short, "", "Directory to scan instead of a template")
	cmd.Flags().StringP(settings.Flags.Output.Name, settings.Flags.Output.Short, constants.OutputText, "Output format: text, json or yaml")
	cmd.MarkFlagsMutuallyExclusive(settings.Flags.Template.Name, settings.Flags.Source.Name)
	settings.AddScanFlags(cmd)

	return cmd
}

type handler struct {
	log          *zerolog.Logger
	out          *ui.Output
	registry     *registry.Registry
	library      *library.Library
	materializer *materialize.Materializer
}

func newHandler(ctx *runtime.Context, out *ui.Output) *handler {
	return &handler{
		log:          ctx.Logger,
		out:          out,
		registry:     ctx.Registry,
		library:      ctx.Library,
		materializer: ctx.Materializer,
	}
}

func (h *handler) ResolveInputs(v *viper.Viper) (Inputs, error) {
	format, err := utils.CheckFormat(v.GetString(settings.Flags.Output.Name),
		constants.OutputText, constants.OutputJSON, constants.OutputYAML)
	if err != nil {
		return Inputs{}, err
	}
	return Inputs{
		Template: v.GetString(settings.Flags.Template.Name),
		Library:  v.GetBool(settings.Flags.Library.Name),
		Source:   v.GetString(settings.Flags.Source.Name),
		Format:   format,
	}, nil
}

func (h *handler) ValidateInputs(inputs Inputs) error {
	if inputs.Template == "" && inputs.Source == "" {
		return errNothingToPreview
	}
	validate, err := validation.NewValidator()
	if err != nil {
		return fmt.Errorf("failed to initialize validator: %w", err)
	}
	return validate.Struct(inputs)
}

func (h *handler) Execute(inputs Inputs) error {
	root, tree, err := h.resolveTree(inputs)
	if err != nil {
		return err
	}
	h.log.Debug().Str("root", root).Object("tree", logger.TreeSummary{Tree: tree}).Msg("Previewing structure")

	if inputs.Format != constants.OutputText {
		return utils.Write(h.out.Writer(), inputs.Format, tree)
	}

	if err := h.out.Tree(root, tree); err != nil {
		return err
	}
	h.out.Line()
	h.out.Dim(fmt.Sprintf("%d files", tree.FileCount()))
	return nil
}

func (h *handler) resolveTree(inputs Inputs) (string, structure.Node, error) {
	switch {
	case inputs.Source != "":
		tree, err := h.materializer.Scan(inputs.Source)
		if err != nil {
			return "", structure.Node{}, err
		}
		return filepath.Base(filepath.Clean(inputs.Source)), tree, nil

	case inputs.Library:
		if h.library == nil {
			return "", structure.Node{}, fmt.Errorf("template library not available")
		}
		// the library tree already carries the template directory
		tree, err := h.library.Preview(inputs.Template)
		if err != nil {
			return "", structure.Node{}, err
		}
		return "", tree, nil

	default:
		tmpl, err := h.registry.Get(inputs.Template)
		if err != nil {
			return "", structure.Node{}, err
		}
		return inputs.Template, tmpl.Structure(), nil
	}
}
