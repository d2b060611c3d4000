package files

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// HasReadAccessToPath reports whether the path can be read. Directories must
// also be listable, since imports and scans walk them.
func HasReadAccessToPath(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		panic(fmt.Sprintf("input field name is not a string: %s", fl.FieldName()))
	}
	return readable(field.String())
}

func readable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return true
	}
	_, err = f.Readdirnames(1)
	return err == nil || errors.Is(err, io.EOF)
}
