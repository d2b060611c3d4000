package files

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// IsValidYAML reports whether the path is a file holding a single YAML
// mapping. An empty file counts as an empty mapping.
func IsValidYAML(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		panic(fmt.Sprintf("input field name is not a string: %s", fl.FieldName()))
	}
	return isYAMLMapping(field.String())
}

func isYAMLMapping(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	if info, err := f.Stat(); err != nil || info.IsDir() {
		return false
	}

	var doc yaml.Node
	if err := yaml.NewDecoder(f).Decode(&doc); err != nil {
		return errors.Is(err, io.EOF)
	}
	if len(doc.Content) == 0 {
		return true
	}
	return doc.Content[0].Kind == yaml.MappingNode
}
