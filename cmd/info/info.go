package info

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lokal-dev/lokal/cmd/utils"
	"github.com/lokal-dev/lokal/internal/constants"
	"github.com/lokal-dev/lokal/internal/registry"
	"github.com/lokal-dev/lokal/internal/runtime"
	"github.com/lokal-dev/lokal/internal/settings"
	"github.com/lokal-dev/lokal/internal/ui"
	"github.com/lokal-dev/lokal/internal/validation"
)

type Inputs struct {
	TemplateID string `validate:"required,template_id" cli:"template-id"`
	Format     string
}

func New(runtimeContext *runtime.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <template-id>",
		Short: "Shows the details of a built-in template",
		Long:  `Shows the name, description, directory layout and metadata of a built-in template.`,
		Example: `  lokal info taupunkt
  lokal info esp32_bme680 --output yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h := newHandler(runtimeContext, ui.NewOutput(cmd.OutOrStdout()))
			inputs, err := h.ResolveInputs(args, runtimeContext.Viper)
			if err != nil {
				return err
			}
			if err := h.ValidateInputs(inputs); err != nil {
				return err
			}
			return h.Execute(inputs)
		},
	}

	cmd.Flags().StringP(settings.Flags.Output.Name, settings.Flags.Output.Short, constants.OutputText, "Output format: text, json or yaml")

	return cmd
}

type handler struct {
	log      *zerolog.Logger
	out      *ui.Output
	registry *registry.Registry
}

func newHandler(ctx *runtime.Context, out *ui.Output) *handler {
	return &handler{log: ctx.Logger, out: out, registry: ctx.Registry}
}

func (h *handler) ResolveInputs(args []string, v *viper.Viper) (Inputs, error) {
	format, err := utils.CheckFormat(v.GetString(settings.Flags.Output.Name),
		constants.OutputText, constants.OutputJSON, constants.OutputYAML)
	if err != nil {
		return Inputs{}, err
	}
	return Inputs{TemplateID: strings.TrimSpace(args[0]), Format: format}, nil
}

func (h *handler) ValidateInputs(inputs Inputs) error {
	validate, err := validation.NewValidator()
	if err != nil {
		return fmt.Errorf("failed to initialize validator: %w", err)
	}
	return validate.Struct(inputs)
}

func (h *handler) Execute(inputs Inputs) error {
	info, err := h.registry.Info(inputs.TemplateID)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return fmt.Errorf("%w: run 'lokal list' to see the available templates", err)
		}
		return err
	}
	h.log.Debug().Str("template", info.ID).Msg("Showing template info")

	if inputs.Format != constants.OutputText {
		return utils.Write(h.out.Writer(), inputs.Format, info)
	}

	h.out.Title(info.Name)
	h.out.Dim(info.Description)
	h.out.Line()
	h.out.Step("Structure")
	if err := h.out.Tree(info.ID, info.Structure); err != nil {
		return err
	}

	if info.Metadata.Len() > 0 {
		h.out.Line()
		h.out.Step("Metadata")
		data, err := utils.Encode(constants.OutputYAML, info.Metadata)
		if err != nil {
			return err
		}
		for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
			h.out.Print(ui.Indent(line, 1))
		}
	}

	h.out.Line()
	h.out.Dim("Create a project with:")
	h.out.Command(fmt.Sprintf("  lokal generate --template %s --output <dir>", info.ID))
	return nil
}
