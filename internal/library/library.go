package library

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"

	"github.com/lokal-dev/lokal/internal/materialize"
	"github.com/lokal-dev/lokal/internal/structure"
)

var (
	ErrNotFound      = errors.New("template not found in library")
	ErrAlreadyExists = errors.New("already exists")
	ErrNotDirectory  = errors.New("only directories can be imported as templates")
	ErrContainsRoot  = errors.New("source contains the templates directory")
)

// Library is a directory holding one subdirectory per template.
type Library struct {
	log  *zerolog.Logger
	fs   billy.Filesystem
	m    *materialize.Materializer
	root string
}

// Entry describes one template directory.
type Entry struct {
	Name  string `json:"name" yaml:"name"`
	Files int    `json:"files" yaml:"files"`
}

// New opens the library at root, creating the directory when missing. m
// provides the filesystem and the scan policies.
func New(log *zerolog.Logger, m *materialize.Materializer, root string) (*Library, error) {
	resolved, err := m.Resolve(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve templates directory %s: %w", root, err)
	}
	fsys := m.Filesystem()
	if err := fsys.MkdirAll(resolved, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create templates directory %s: %w", resolved, err)
	}
	return &Library{log: log, fs: fsys, m: m, root: resolved}, nil
}

// Root returns the resolved templates directory.
func (l *Library) Root() string {
	return l.root
}

// List returns the template directories sorted by name.
func (l *Library) List() ([]Entry, error) {
	infos, err := l.fs.ReadDir(l.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates directory: %w", err)
	}

	var entries []Entry
	for _, info := range infos {
		if !info.IsDir() {
			continue
		}
		tree, err := l.m.Scan(l.fs.Join(l.root, info.Name()))
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Name: info.Name(), Files: tree.FileCount()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Has reports whether a template directory called name exists.
func (l *Library) Has(name string) bool {
	_, err := l.templateDir(name)
	return err == nil
}

// Structure scans the template called name.
func (l *Library) Structure(name string) (structure.Node, error) {
	dir, err := l.templateDir(name)
	if err != nil {
		return structure.Node{}, err
	}
	return l.m.Scan(dir)
}

// Preview returns the template tree wrapped in a directory named after it.
func (l *Library) Preview(name string) (structure.Node, error) {
	tree, err := l.Structure(name)
	if err != nil {
		return structure.Node{}, err
	}
	return structure.Dir(structure.Entries{name: tree}), nil
}

// Import copies the directory src into the library under its base name and
// returns the new template directory.
func (l *Library) Import(src string) (string, error) {
	source, err := l.m.Resolve(src)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", src, err)
	}
	info, err := l.fs.Stat(source)
	if err != nil {
		return "", fmt.Errorf("failed to read source %s: %w", src, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, src)
	}
	if within(l.root, source) {
		return "", fmt.Errorf("%w: %s holds %s", ErrContainsRoot, src, l.root)
	}

	name := filepath.Base(source)
	dest := l.fs.Join(l.root, name)
	if l.exists(dest) {
		return "", fmt.Errorf("template %q %w", name, ErrAlreadyExists)
	}

	l.log.Debug().Str("source", source).Str("dest", dest).Msg("Importing template")
	if err := l.copyDir(source, dest); err != nil {
		return "", fmt.Errorf("failed to import %s: %w", src, err)
	}
	return dest, nil
}

// Generate copies the template called name to dest, which must not exist.
func (l *Library) Generate(name, dest string) (string, error) {
	dir, err := l.templateDir(name)
	if err != nil {
		return "", err
	}
	target, err := l.m.Resolve(dest)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dest, err)
	}
	if l.exists(target) {
		return "", fmt.Errorf("output directory %s %w", dest, ErrAlreadyExists)
	}

	l.log.Debug().Str("template", name).Str("dest", target).Msg("Generating project from library")
	if err := l.copyDir(dir, target); err != nil {
		return "", fmt.Errorf("failed to generate project: %w", err)
	}
	return target, nil
}

func (l *Library) templateDir(name string) (string, error) {
	if err := structure.ValidateName(name); err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrNotFound, name, err)
	}
	dir := l.fs.Join(l.root, name)
	info, err := l.fs.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return dir, nil
}

// within reports whether p is dir or lies below it.
func within(p, dir string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (l *Library) exists(p string) bool {
	_, err := l.fs.Lstat(p)
	return !errors.Is(err, fs.ErrNotExist)
}
