package library

import (
	"io"
	"os"
)

// excludedNames are never copied into or out of the library.
var excludedNames = map[string]bool{
	".git":         true,
	"node_modules": true,
	".DS_Store":    true,
	"__pycache__":  true,
	".venv":        true,
}

func shouldExclude(name string) bool {
	return excludedNames[name]
}

// copyDir recursively copies src to dst. Symlinks and special files are
// skipped.
func (l *Library) copyDir(src, dst string) error {
	srcInfo, err := l.fs.Stat(src)
	if err != nil {
		return err
	}
	if err := l.fs.MkdirAll(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return err
	}

	infos, err := l.fs.ReadDir(src)
	if err != nil {
		return err
	}
	for _, info := range infos {
		if shouldExclude(info.Name()) {
			continue
		}
		srcPath := l.fs.Join(src, info.Name())
		dstPath := l.fs.Join(dst, info.Name())

		switch {
		case info.IsDir():
			if err := l.copyDir(srcPath, dstPath); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			l.log.Debug().Msgf("Copying file: %s -> %s", srcPath, dstPath)
			if err := l.copyFile(srcPath, dstPath, info.Mode().Perm()); err != nil {
				return err
			}
		default:
			l.log.Debug().Msgf("Skipping non-regular file: %s", srcPath)
		}
	}
	return nil
}

func (l *Library) copyFile(src, dst string, perm os.FileMode) error {
	in, err := l.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := l.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
