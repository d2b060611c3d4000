package validation

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type generateInputs struct {
	Template string `validate:"required,template_id" cli:"--template"`
	Output   string `validate:"required,project_dir" cli:"--output"`
	Symlinks string `validate:"symlink_policy" cli:"--symlinks"`
}

func TestNewValidator(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)
	assert.NotNil(t, v.Validate())
	assert.NotNil(t, v.Translator())
}

func TestValidatorStruct(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "taken")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	tests := []struct {
		name    string
		setup   func(*Validator) error
		input   generateInputs
		wantErr map[string]string
	}{
		{
			name:  "valid",
			input: generateInputs{Template: "ESP32_sht41", Output: filepath.Join(dir, "porch"), Symlinks: "skip"},
		},
		{
			name:  "empty policy means default",
			input: generateInputs{Template: "smart_home", Output: filepath.Join(dir, "house")},
		},
		{
			name:  "missing values use flag names",
			input: generateInputs{},
			wantErr: map[string]string{
				"generateInputs.Template": "--template is a required field",
				"generateInputs.Output":   "--output is a required field",
			},
		},
		{
			name:  "bad template id",
			input: generateInputs{Template: "esp32/sht41", Output: filepath.Join(dir, "x")},
			wantErr: map[string]string{
				"generateInputs.Template": "--template must be a template id or a library template name: esp32/sht41",
			},
		},
		{
			name:  "output is a file",
			input: generateInputs{Template: "automation", Output: file},
			wantErr: map[string]string{
				"generateInputs.Output": "--output must be a directory path ending in a valid name: " + file,
			},
		},
		{
			name:  "unknown symlink policy",
			input: generateInputs{Template: "automation", Output: filepath.Join(dir, "y"), Symlinks: "ignore"},
			wantErr: map[string]string{
				"generateInputs.Symlinks": "--symlinks must be one of follow, skip, error: ignore",
			},
		},
		{
			name: "custom translation",
			setup: func(v *Validator) error {
				return v.RegisterCustomTranslation("required", "{0} is mandatory")
			},
			input: generateInputs{Output: filepath.Join(dir, "z")},
			wantErr: map[string]string{
				"generateInputs.Template": "--template is mandatory",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewValidator()
			require.NoError(t, err)
			if tt.setup != nil {
				require.NoError(t, tt.setup(v))
			}

			err = v.Struct(tt.input)
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}

			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Len(t, v.ParseValidationErrors(err), len(tt.wantErr))
			for key, detail := range tt.wantErr {
				AssertErrors(t, err, key, detail, v)
			}
		})
	}
}

func TestValidationErrorsString(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	err = v.Struct(generateInputs{Output: t.TempDir()})
	assert.Equal(t, "validation error\n--template is a required field\n", v.ParseValidationErrors(err).Error())
}

func TestVar(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	assert.NoError(t, v.Var("skip", "permission_policy"))
	assert.Error(t, v.Var("follow", "permission_policy"))
	assert.NoError(t, v.Var("site.v2", "template_id"))
	assert.Error(t, v.Var("a/b", "template_id"))
}

func TestIsValidTemplateID(t *testing.T) {
	for _, id := range []string{"smart_home", "ESP32_SHT41", "web-app", " padded ", "site.v2", "my app"} {
		assert.NoError(t, IsValidTemplateID(id), id)
	}
	for _, id := range []string{"", "  ", "a/b", "..", `a\b`, strings.Repeat("x", 129)} {
		assert.Error(t, IsValidTemplateID(id), id)
	}
}

func TestIsValidProjectDir(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, IsValidProjectDir(dir))
	assert.NoError(t, IsValidProjectDir(filepath.Join(dir, "new", "project")))
	assert.Error(t, IsValidProjectDir(""))

	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	assert.ErrorContains(t, IsValidProjectDir(file), "is not a directory")
}
