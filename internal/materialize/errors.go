package materialize

import (
	"errors"
	"fmt"
)

var (
	// ErrFilesystem is matched by every *FilesystemError.
	ErrFilesystem = errors.New("filesystem error")

	ErrSymlink      = errors.New("symbolic links are not allowed")
	ErrSymlinkCycle = errors.New("symbolic link cycle")
)

// FilesystemError reports a failed filesystem operation and the path it was
// applied to.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

func (e *FilesystemError) Is(target error) bool {
	return target == ErrFilesystem
}

func fsError(op, path string, err error) error {
	return &FilesystemError{Op: op, Path: path, Err: err}
}
