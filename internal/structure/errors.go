package structure

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStructuralAmbiguity is matched by errors reporting a name that is
	// used both as a directory and as a file at the same level.
	ErrStructuralAmbiguity = errors.New("structural ambiguity")

	// ErrInvalidName is matched by errors reporting a name that cannot be used
	// as a path segment.
	ErrInvalidName = errors.New("invalid name")
)

// AmbiguityError identifies a path declared both as a directory and as a file.
type AmbiguityError struct {
	Path string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("%s: %q is declared both as a directory and as a file", ErrStructuralAmbiguity, e.Path)
}

func (e *AmbiguityError) Is(target error) bool {
	return target == ErrStructuralAmbiguity
}

// InvalidNameError identifies a tree entry whose name is not a valid path
// segment.
type InvalidNameError struct {
	Path   string
	Name   string
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("%s %q at %q: %s", ErrInvalidName, e.Name, e.Path, e.Reason)
}

func (e *InvalidNameError) Is(target error) bool {
	return target == ErrInvalidName
}

// ValidateName checks a single path segment.
func ValidateName(name string) error {
	switch {
	case name == "":
		return errors.New("name is empty")
	case name == "." || name == "..":
		return errors.New("name is a relative path reference")
	case strings.ContainsAny(name, "/\\"):
		return errors.New("name contains a path separator")
	case strings.ContainsRune(name, 0):
		return errors.New("name contains a NUL byte")
	}
	return nil
}
