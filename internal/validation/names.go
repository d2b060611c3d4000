package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lokal-dev/lokal/internal/materialize"
	"github.com/lokal-dev/lokal/internal/structure"
)

const maxTemplateIDLength = 128

func stringField(fl validator.FieldLevel) string {
	field := fl.Field()
	if field.Kind() != reflect.String {
		panic(fmt.Sprintf("input field name is not a string: %s", fl.FieldName()))
	}
	return field.String()
}

func isTemplateID(fl validator.FieldLevel) bool {
	return IsValidTemplateID(stringField(fl)) == nil
}

func isProjectDir(fl validator.FieldLevel) bool {
	return IsValidProjectDir(stringField(fl)) == nil
}

func isSymlinkPolicy(fl validator.FieldLevel) bool {
	_, err := materialize.ParseSymlinkPolicy(stringField(fl))
	return err == nil
}

func isPermissionPolicy(fl validator.FieldLevel) bool {
	_, err := materialize.ParsePermissionPolicy(stringField(fl))
	return err == nil
}

// IsValidTemplateID accepts registry ids and library template names. Any
// name usable as a single path segment is allowed; registry lookups ignore
// case.
func IsValidTemplateID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("template id can't be an empty string")
	}
	if len(id) > maxTemplateIDLength {
		return fmt.Errorf("template id is too long, limit is %d characters", maxTemplateIDLength)
	}
	if err := structure.ValidateName(id); err != nil {
		return fmt.Errorf("invalid template id %q: %w", id, err)
	}
	return nil
}

// IsValidProjectDir checks an output directory: its last element must be a
// usable path segment and, if the path exists, it must be a directory.
func IsValidProjectDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("project directory can't be an empty string")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("invalid project directory %q: %w", dir, err)
	}
	if err := structure.ValidateName(filepath.Base(abs)); err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err == nil && !info.IsDir() {
		return fmt.Errorf("%s exists and is not a directory", dir)
	}
	return nil
}
