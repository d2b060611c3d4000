package generate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokal-dev/lokal/internal/environment"
	"github.com/lokal-dev/lokal/internal/projectfile"
	"github.com/lokal-dev/lokal/internal/registry"
	"github.com/lokal-dev/lokal/internal/testutil"
	"github.com/lokal-dev/lokal/internal/testutil/cmdtest"
)

// recordingRunner pretends to run python and pip.
type recordingRunner struct {
	commands []string
	failPip  bool
}

func (r *recordingRunner) Run(_ context.Context, _ string, name string, args ...string) (environment.Result, error) {
	r.commands = append(r.commands, strings.Join(append([]string{filepath.Base(name)}, args...), " "))
	if len(args) == 3 && args[0] == "-m" && args[1] == "venv" {
		if err := os.MkdirAll(args[2], 0o755); err != nil {
			return environment.Result{}, err
		}
	}
	if r.failPip && filepath.Base(name) == "pip" {
		return environment.Result{ExitCode: 1}, &environment.CommandError{
			Command: name,
			Result:  environment.Result{ExitCode: 1, Stderr: "no matching distribution"},
			Err:     errors.New("exit status 1"),
		}
	}
	return environment.Result{}, nil
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestGenerateBuiltin(t *testing.T) {
	ctx := cmdtest.NewContext(t)
	dest := filepath.Join(t.TempDir(), "porch-lights")

	out, err := cmdtest.Execute(t, ctx, New(ctx), "--template", "smart_home", "--output", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "Project porch-lights created from smart_home")
	assert.Contains(t, out, "cd "+dest)

	assert.FileExists(t, filepath.Join(dest, "src", "main.py"))
	assert.DirExists(t, filepath.Join(dest, "assets"))
	assert.FileExists(t, filepath.Join(dest, "config", "wled_config.json"))
	assert.NoFileExists(t, filepath.Join(dest, ".gitignore"))

	readme := readFile(t, filepath.Join(dest, "README.md"))
	assert.True(t, strings.HasPrefix(readme, "# porch-lights\n"))
	assert.Contains(t, readme, "Smart Home Controller template (smart_home)")
	assert.Contains(t, readme, "## Dependencies\n\n- wled\n- fastled\n")
	assert.Contains(t, readme, "- `config/wled_config.json`")
	assert.Empty(t, readFile(t, filepath.Join(dest, "docs", "hardware", "README.md")))

	manifest, err := projectfile.Load(dest)
	require.NoError(t, err)
	assert.Equal(t, "porch-lights", manifest.Project.Name)
	assert.Equal(t, projectfile.Template{ID: "smart_home", Name: "Smart Home Controller", Source: projectfile.SourceRegistry}, manifest.Template)
	assert.Equal(t, []string{"wled", "fastled"}, manifest.Dependencies)
}

func TestGeneratePythonTemplate(t *testing.T) {
	ctx := cmdtest.NewContext(t)
	dest := filepath.Join(t.TempDir(), "station")

	_, err := cmdtest.Execute(t, ctx, New(ctx), "-t", "TAUPUNKT", "-o", dest)
	require.NoError(t, err)

	assert.Equal(t, gitignoreContent, readFile(t, filepath.Join(dest, ".gitignore")))
	readme := readFile(t, filepath.Join(dest, "README.md"))
	assert.Contains(t, readme, "Language: Python 3")
	assert.Contains(t, readme, "Framework: MicroPython")

	manifest, err := projectfile.Load(dest)
	require.NoError(t, err)
	assert.Equal(t, "taupunkt", manifest.Template.ID)
}

func TestGenerateIntoEmptyDirectory(t *testing.T) {
	ctx := cmdtest.NewContext(t)
	dest := t.TempDir()

	_, err := cmdtest.Execute(t, ctx, New(ctx), "-t", "automation", "-o", dest)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dest, ".github", "workflows", "ci.yml"))
}

func TestGenerateRefusesNonEmptyOutput(t *testing.T) {
	ctx := cmdtest.NewContext(t)
	dest := t.TempDir()
	testutil.WriteFiles(t, dest, map[string]string{"keep.txt": "mine"})

	_, err := cmdtest.Execute(t, ctx, New(ctx), "-t", "automation", "-o", dest)
	require.ErrorIs(t, err, ErrOutputNotEmpty)
	assert.Equal(t, "mine", readFile(t, filepath.Join(dest, "keep.txt")))
	assert.NoFileExists(t, filepath.Join(dest, projectfile.FileName))
}

func TestGenerateUnknownTemplate(t *testing.T) {
	ctx := cmdtest.NewContext(t)
	dest := filepath.Join(t.TempDir(), "nothing")

	_, err := cmdtest.Execute(t, ctx, New(ctx), "-t", "does_not_exist", "-o", dest)
	require.ErrorIs(t, err, registry.ErrNotFound)
	assert.NoDirExists(t, dest)
}

func TestGenerateFromLibrary(t *testing.T) {
	ctx := cmdtest.NewContext(t)
	testutil.WriteFiles(t, filepath.Join(ctx.Library.Root(), "web_app"), map[string]string{
		"index.html":    "<h1>hi</h1>",
		"static/app.js": "",
	})
	dest := t.TempDir()

	out, err := cmdtest.Execute(t, ctx, New(ctx), "-t", "web_app", "-o", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "created from web_app")

	assert.Equal(t, "<h1>hi</h1>", readFile(t, filepath.Join(dest, "index.html")))
	assert.FileExists(t, filepath.Join(dest, "static", "app.js"))

	manifest, err := projectfile.Load(dest)
	require.NoError(t, err)
	assert.Equal(t, projectfile.SourceLibrary, manifest.Template.Source)
	assert.Equal(t, "web_app", manifest.Template.ID)
}

func TestGenerateFromLibraryWithDottedName(t *testing.T) {
	ctx := cmdtest.NewContext(t)
	testutil.WriteFiles(t, filepath.Join(ctx.Library.Root(), "site.v2"), map[string]string{
		"index.html": "",
	})
	dest := filepath.Join(t.TempDir(), "site")

	_, err := cmdtest.Execute(t, ctx, New(ctx), "--non-interactive", "-t", "site.v2", "-o", dest)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dest, "index.html"))
}

func TestGenerateRequiresInputs(t *testing.T) {
	ctx := cmdtest.NewContext(t)

	_, err := cmdtest.Execute(t, ctx, New(ctx), "--non-interactive", "-t", "taupunkt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output")
}

func TestGenerateInstallsPythonDependencies(t *testing.T) {
	ctx := cmdtest.NewContext(t)
	runner := &recordingRunner{}
	ctx.Runner = runner
	dest := filepath.Join(t.TempDir(), "station")

	out, err := cmdtest.Execute(t, ctx, New(ctx), "-t", "taupunkt", "-o", dest, "--install")
	require.NoError(t, err)
	assert.Contains(t, out, "Dependencies installed")
	assert.Contains(t, out, "source .venv/bin/activate")

	require.Len(t, runner.commands, 3)
	assert.Equal(t, "python3 -c import venv", runner.commands[0])
	assert.Equal(t, "python3 -m venv "+environment.VenvDir(dest), runner.commands[1])
	assert.True(t, strings.HasPrefix(runner.commands[2], "pip install MicroPython micropython-st7789"), runner.commands[2])
}

func TestGenerateVenvOnly(t *testing.T) {
	ctx := cmdtest.NewContext(t)
	runner := &recordingRunner{}
	ctx.Runner = runner
	dest := filepath.Join(t.TempDir(), "station")

	out, err := cmdtest.Execute(t, ctx, New(ctx), "-t", "taupunkt", "-o", dest, "--venv")
	require.NoError(t, err)
	assert.Contains(t, out, "Virtual environment created")
	assert.Len(t, runner.commands, 2)
}

func TestGenerateSkipsNonPythonDependencies(t *testing.T) {
	ctx := cmdtest.NewContext(t)
	runner := &recordingRunner{}
	ctx.Runner = runner
	dest := filepath.Join(t.TempDir(), "sensor")

	out, err := cmdtest.Execute(t, ctx, New(ctx), "-t", "esp32_sht41", "-o", dest, "--install")
	require.NoError(t, err)
	assert.Contains(t, out, "not Python packages")
	assert.Contains(t, out, "- PlatformIO")
	for _, c := range runner.commands {
		assert.False(t, strings.HasPrefix(c, "pip"), c)
	}
}

func TestGenerateInstallFailure(t *testing.T) {
	ctx := cmdtest.NewContext(t)
	ctx.Settings.Config.InstallAttempts = 1
	ctx.Runner = &recordingRunner{failPip: true}
	dest := filepath.Join(t.TempDir(), "station")

	_, err := cmdtest.Execute(t, ctx, New(ctx), "-t", "taupunkt", "-o", dest, "--install")
	require.ErrorIs(t, err, environment.ErrCommandFailed)
	assert.FileExists(t, filepath.Join(dest, projectfile.FileName))
}

func TestGenerateLogsSummary(t *testing.T) {
	ctx := cmdtest.NewContext(t)
	log, buf := testutil.NewBufferedLogger()
	ctx.Logger = log
	dest := filepath.Join(t.TempDir(), "cards")

	_, err := cmdtest.Execute(t, ctx, New(ctx), "-t", "game_dev", "-o", dest)
	require.NoError(t, err)

	logs := buf.String()
	assert.Contains(t, logs, `"message":"Project generated"`)
	assert.Contains(t, logs, `"template":"game_dev"`)
	assert.Contains(t, logs, `"source":"registry"`)
}

func TestFailedGenerationRestoresOutput(t *testing.T) {
	failing := func(dest string) func() (projectfile.Manifest, error) {
		return func() (projectfile.Manifest, error) {
			// the library path removes an existing empty output first
			if err := os.RemoveAll(dest); err != nil {
				return projectfile.Manifest{}, err
			}
			testutil.WriteFiles(t, dest, map[string]string{"partial.txt": "half"})
			return projectfile.Manifest{}, errors.New("copy interrupted")
		}
	}
	h := &handler{log: testutil.NewTestLogger()}

	t.Run("existing empty directory", func(t *testing.T) {
		dest := t.TempDir()
		_, err := h.build(dest, true, failing(dest))
		require.EqualError(t, err, "copy interrupted")

		assert.DirExists(t, dest)
		entries, err := os.ReadDir(dest)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("new directory", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "project")
		_, err := h.build(dest, false, failing(dest))
		require.Error(t, err)
		assert.NoDirExists(t, dest)
	})
}
