package generate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lokal-dev/lokal/internal/constants"
	"github.com/lokal-dev/lokal/internal/environment"
	"github.com/lokal-dev/lokal/internal/logger"
	"github.com/lokal-dev/lokal/internal/materialize"
	"github.com/lokal-dev/lokal/internal/projectfile"
	"github.com/lokal-dev/lokal/internal/registry"
	"github.com/lokal-dev/lokal/internal/runtime"
	"github.com/lokal-dev/lokal/internal/settings"
	"github.com/lokal-dev/lokal/internal/ui"
	"github.com/lokal-dev/lokal/internal/validation"
)

var ErrOutputNotEmpty = errors.New("output directory is not empty")

// requirementsFiles are installed after the template dependencies when the
// generated project contains them.
var requirementsFiles = []string{"requirements.txt", "requirements-dev.txt"}

type Inputs struct {
	Template       string `validate:"required,template_id" cli:"--template"`
	Output         string `validate:"required,project_dir" cli:"--output"`
	Venv           bool
	Install        bool
	NonInteractive bool
}

func New(runtimeContext *runtime.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generates a new project from a template",
		Long: `Generates a new project directory from a built-in template or from a template
in the local library. Built-in templates get a README.md describing the template
and a lokal.toml recording where the project came from.

Without --template or --output, lokal asks for them when run in a terminal.`,
		Example: `  lokal generate --template taupunkt --output ./weather-station --install
  lokal generate -t web_app -o ./site`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h := newHandler(runtimeContext, cmd)
			inputs, err := h.ResolveInputs(runtimeContext.Viper)
			if err != nil {
				return err
			}
			if err := h.ValidateInputs(inputs); err != nil {
				return err
			}
			return h.Execute(cmd.Context(), inputs)
		},
	}

	cmd.Flags().StringP(settings.Flags.Template.Name, settings.Flags.Template.Short, "", "Template id or library template name")
	cmd.Flags().StringP(settings.Flags.Output.Name, settings.Flags.Output.Short, "", "Directory to create the project in")
	cmd.Flags().Bool(settings.Flags.NonInteractive.Name, false, "Fail instead of prompting for missing inputs")
	settings.AddEnvironmentFlags(cmd)
	settings.AddScanFlags(cmd)

	return cmd
}

type handler struct {
	log     *zerolog.Logger
	out     *ui.Output
	spinner *ui.Spinner
	runtime *runtime.Context
}

func newHandler(ctx *runtime.Context, cmd *cobra.Command) *handler {
	return &handler{
		log:     ctx.Logger,
		out:     ui.NewOutput(cmd.OutOrStdout()),
		spinner: ui.NewSpinnerTo(cmd.ErrOrStderr(), cmd.ErrOrStderr() == os.Stderr && ui.IsInteractive()),
		runtime: ctx,
	}
}

func (h *handler) ResolveInputs(v *viper.Viper) (Inputs, error) {
	inputs := Inputs{
		Template:       strings.TrimSpace(v.GetString(settings.Flags.Template.Name)),
		Output:         strings.TrimSpace(v.GetString(settings.Flags.Output.Name)),
		Venv:           v.GetBool(settings.Flags.Venv.Name),
		Install:        v.GetBool(settings.Flags.Install.Name),
		NonInteractive: v.GetBool(settings.Flags.NonInteractive.Name),
	}
	if inputs.Install {
		inputs.Venv = true
	}

	if inputs.NonInteractive || !ui.IsInteractive() {
		return inputs, nil
	}

	wizard := inputs.Template == "" || inputs.Output == ""
	var err error
	if inputs.Template == "" {
		if inputs.Template, err = h.promptTemplate(); err != nil {
			return Inputs{}, err
		}
	}
	if inputs.Output == "" {
		if inputs.Output, err = ui.Input("Project directory",
			ui.WithPlaceholder("./"+inputs.Template),
			ui.WithValidation(validation.IsValidProjectDir),
		); err != nil {
			return Inputs{}, err
		}
	}
	if wizard && !inputs.Venv && h.offersVenv(inputs.Template) {
		if inputs.Venv, err = ui.Confirm("Create a Python virtual environment?",
			ui.WithLabels("Create", "Skip"),
			ui.WithDescription("Creates "+environment.VenvDirName+" in the project"),
			ui.WithDefault(true),
		); err != nil {
			return Inputs{}, err
		}
	}
	return inputs, nil
}

func (h *handler) offersVenv(id string) bool {
	if !h.runtime.Registry.Has(id) {
		return false
	}
	t, err := h.runtime.Registry.Get(id)
	return err == nil && isPython(t.Metadata())
}

func (h *handler) promptTemplate() (string, error) {
	summaries, err := h.runtime.Registry.Summaries()
	if err != nil {
		return "", err
	}
	options := make([]ui.SelectOption[string], 0, len(summaries))
	for _, s := range summaries {
		options = append(options, ui.SelectOption[string]{Label: fmt.Sprintf("%s  %s", s.ID, s.Name), Value: s.ID})
	}
	if h.runtime.Library != nil {
		entries, err := h.runtime.Library.List()
		if err != nil {
			h.log.Debug().Err(err).Msg("Could not list library templates")
		}
		for _, e := range entries {
			if h.runtime.Registry.Has(e.Name) {
				continue
			}
			options = append(options, ui.SelectOption[string]{Label: e.Name + "  (library)", Value: e.Name})
		}
	}
	return ui.Select("Choose a template", options, 12)
}

func (h *handler) ValidateInputs(inputs Inputs) error {
	validate, err := validation.NewValidator()
	if err != nil {
		return fmt.Errorf("failed to initialize validator: %w", err)
	}
	return validate.Struct(inputs)
}

func (h *handler) Execute(ctx context.Context, inputs Inputs) error {
	dest, err := filepath.Abs(inputs.Output)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", inputs.Output, err)
	}
	existed, err := checkOutput(dest)
	if err != nil {
		return err
	}
	project := filepath.Base(dest)

	var generate func() (projectfile.Manifest, error)
	switch {
	case h.runtime.Registry.Has(inputs.Template):
		generate = func() (projectfile.Manifest, error) {
			return h.fromRegistry(inputs.Template, project, dest)
		}
	case h.runtime.Library != nil && h.runtime.Library.Has(inputs.Template):
		generate = func() (projectfile.Manifest, error) {
			if existed {
				// Library.Generate refuses any existing destination
				if err := os.Remove(dest); err != nil {
					return projectfile.Manifest{}, fmt.Errorf("failed to prepare %s: %w", dest, err)
				}
			}
			return h.fromLibrary(inputs.Template, project, dest)
		}
	default:
		return fmt.Errorf("%w: %q is neither a built-in template nor in the library at %s",
			registry.ErrNotFound, inputs.Template, h.libraryRoot())
	}

	manifest, err := h.build(dest, existed, generate)
	if err != nil {
		return err
	}

	if err := manifest.Save(dest); err != nil {
		return err
	}

	tree, err := h.runtime.Materializer.Scan(dest)
	if err != nil {
		return err
	}
	h.log.Info().
		Str("template", manifest.Template.ID).
		Str("source", manifest.Template.Source).
		Str("path", dest).
		Object("tree", logger.TreeSummary{Tree: tree}).
		Msg("Project generated")

	h.out.Success(fmt.Sprintf("Project %s created from %s", project, inputs.Template))
	if err := h.out.Tree(project, tree); err != nil {
		return err
	}

	if inputs.Venv {
		if err := h.setupEnvironment(ctx, dest, manifest, inputs.Install); err != nil {
			return err
		}
	}

	h.printNextSteps(inputs.Output, inputs.Venv)
	return nil
}

// checkOutput reports whether dest exists. An existing dest must be an empty
// directory.
func checkOutput(dest string) (bool, error) {
	entries, err := os.ReadDir(dest)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read output directory %s: %w", dest, err)
	}
	if len(entries) > 0 {
		return false, fmt.Errorf("%w: %s", ErrOutputNotEmpty, dest)
	}
	return true, nil
}

func (h *handler) fromRegistry(id, project, dest string) (projectfile.Manifest, error) {
	tmpl, err := h.runtime.Registry.Get(id)
	if err != nil {
		return projectfile.Manifest{}, err
	}
	key := strings.ToLower(id)

	content, err := projectContent(project, key, tmpl)
	if err != nil {
		return projectfile.Manifest{}, err
	}
	m := h.runtime.Materializer.With(materialize.WithContent(content))

	h.log.Debug().Str("template", key).Str("dest", dest).Msg("Realizing built-in template")
	if err := m.Realize(projectTree(tmpl), dest); err != nil {
		return projectfile.Manifest{}, fmt.Errorf("failed to create project: %w", err)
	}
	return projectfile.New(project, key, tmpl.Name(), tmpl.Metadata()), nil
}

func (h *handler) fromLibrary(name, project, dest string) (projectfile.Manifest, error) {
	if _, err := h.runtime.Library.Generate(name, dest); err != nil {
		return projectfile.Manifest{}, err
	}
	return projectfile.NewFromLibrary(project, name), nil
}

// build runs generate for dest. When it fails dest is put back the way it
// was: removed if it did not exist, otherwise left as an empty directory.
func (h *handler) build(dest string, existed bool, generate func() (projectfile.Manifest, error)) (projectfile.Manifest, error) {
	mode := os.FileMode(0o755)
	if info, err := os.Stat(dest); err == nil {
		mode = info.Mode().Perm()
	}

	manifest, err := generate()
	if err == nil {
		return manifest, nil
	}

	if rmErr := os.RemoveAll(dest); rmErr != nil {
		h.log.Warn().Err(rmErr).Str("path", dest).Msg("Failed to remove partially generated project")
		return projectfile.Manifest{}, err
	}
	if existed {
		if mkErr := os.Mkdir(dest, mode); mkErr != nil {
			h.log.Warn().Err(mkErr).Str("path", dest).Msg("Failed to restore output directory")
		}
	}
	return projectfile.Manifest{}, err
}

func (h *handler) setupEnvironment(ctx context.Context, dest string, manifest projectfile.Manifest, install bool) error {
	defer h.spinner.Stop()
	env := h.runtime.EnvironmentManager(environment.WithProgress(h.spinner.Update))

	if err := env.CreateVenv(ctx, dest); err != nil {
		return err
	}
	if !install {
		h.spinner.Stop()
		h.out.Success("Virtual environment created in " + environment.VenvDirName)
		return nil
	}

	if manifest.Template.Source == projectfile.SourceRegistry {
		tmpl, err := h.runtime.Registry.Get(manifest.Template.ID)
		if err != nil {
			return err
		}
		if isPython(tmpl.Metadata()) {
			if err := env.Install(ctx, dest, manifest.Dependencies); err != nil {
				return err
			}
		} else if len(manifest.Dependencies) > 0 {
			h.spinner.Stop()
			h.out.Warning(fmt.Sprintf("%s dependencies are not Python packages; install them with your toolchain:", tmpl.Name()))
			for _, dep := range manifest.Dependencies {
				h.out.Dim("- " + dep)
			}
		}
	}

	if err := env.InstallRequirements(ctx, dest, requirementsFiles); err != nil {
		return err
	}
	h.spinner.Stop()
	h.out.Success("Dependencies installed in " + environment.VenvDirName)
	return nil
}

func (h *handler) printNextSteps(output string, venv bool) {
	h.out.Line()
	h.out.Step("Next steps")
	h.out.Command("  cd " + output)
	if venv {
		h.out.Command("  source " + filepath.Join(environment.VenvDirName, "bin", "activate"))
	}
	h.out.Dim("Read " + constants.ReadmeFileName + " to get started")
}

func (h *handler) libraryRoot() string {
	if h.runtime.Library == nil {
		return "<unavailable>"
	}
	return h.runtime.Library.Root()
}
