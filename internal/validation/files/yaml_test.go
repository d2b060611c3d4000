package files_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokal-dev/lokal/internal/validation"
)

func TestIsValidYAML(t *testing.T) {
	v, err := validation.NewValidator()
	require.NoError(t, err)

	type input struct {
		Config string `validate:"yaml"`
	}

	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	tests := []struct {
		name    string
		content string
		valid   bool
	}{
		{"mapping", "templatesDir: /tmp/templates\nscan:\n  symlinks: skip\n", true},
		{"empty", "", true},
		{"list", "- a\n- b\n", false},
		{"scalar", "just text\n", false},
		{"broken", "scan: [follow\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := write(t, tt.content)
			err := v.Struct(input{Config: path})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, "Config must be a valid YAML file: "+path)
			}
		})
	}

	t.Run("directory", func(t *testing.T) {
		dir := t.TempDir()
		assert.Error(t, v.Struct(input{Config: dir}))
	})

	t.Run("missing", func(t *testing.T) {
		assert.ErrorContains(t, v.Struct(input{Config: "nope.yaml"}), "Config must be a valid YAML file: nope.yaml")
	})
}
