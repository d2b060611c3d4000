package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokal-dev/lokal/internal/structure"
)

func TestConfirmOptions(t *testing.T) {
	cfg := confirmConfig{}
	for _, o := range []ConfirmOption{
		WithLabels("Create", "Skip"),
		WithDescription("Creates .venv in the project"),
		WithDefault(true),
	} {
		o(&cfg)
	}

	assert.Equal(t, "Create", cfg.affirmative)
	assert.Equal(t, "Skip", cfg.negative)
	assert.Equal(t, "Creates .venv in the project", cfg.description)
	assert.True(t, cfg.initial)
}

func TestInputOptions(t *testing.T) {
	cfg := inputConfig{}
	for _, o := range []InputOption{
		WithInputDescription("Where the project is created"),
		WithPlaceholder("./my-project"),
		WithValidation(func(s string) error {
			if s == "" {
				return errors.New("required")
			}
			return nil
		}),
	} {
		o(&cfg)
	}

	assert.Equal(t, "Where the project is created", cfg.description)
	assert.Equal(t, "./my-project", cfg.placeholder)
	require.NotNil(t, cfg.validate)
	assert.Error(t, cfg.validate(""))
	assert.NoError(t, cfg.validate("demo"))
}

func TestOutputWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput(&buf)

	out.Success("Project created")
	out.Dim("lokal.toml")
	out.Warning("Virtual environment already exists")

	text := buf.String()
	assert.Contains(t, text, "✓ Project created")
	assert.Contains(t, text, "  lokal.toml")
	assert.Contains(t, text, "! Virtual environment already exists")
}

func TestOutputTree(t *testing.T) {
	tree, err := structure.FromPaths("src/main.py", "config/")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewOutput(&buf).Tree("demo", tree))

	assert.Equal(t, "demo/\n├── config/\n└── src/\n    └── main.py\n", buf.String())
}

func TestSpinnerWithoutTerminal(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinnerTo(&buf, false)

	err := s.Run("Installing dependencies...", func() error {
		s.Update("Retrying pip install")
		return nil
	})
	require.NoError(t, err)
	s.Stop()

	assert.Equal(t, "Installing dependencies...\nRetrying pip install\n", buf.String())
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "    x", Indent("x", 2))
	assert.Equal(t, "x", Indent("x", 0))
}
