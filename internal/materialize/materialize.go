package materialize

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/lokal-dev/lokal/internal/structure"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644

	// maxLinkDepth bounds nested symlink follows on filesystems where
	// directory identity cannot be compared.
	maxLinkDepth = 40
)

// Materializer writes structure trees to a filesystem and scans them back.
// It never removes anything it created: a failed Realize leaves partial
// output behind for the caller to clean up.
type Materializer struct {
	fs      billy.Filesystem
	resolve func(string) (string, error)
	cfg     config
}

// New returns a materializer working on fsys. Paths are passed to fsys
// unchanged.
func New(fsys billy.Filesystem, opts ...Option) *Materializer {
	m := &Materializer{
		fs:      fsys,
		resolve: func(p string) (string, error) { return p, nil },
	}
	for _, opt := range opts {
		opt(&m.cfg)
	}
	return m
}

// NewOS returns a materializer on the host filesystem. Relative paths are
// resolved against the working directory.
func NewOS(opts ...Option) *Materializer {
	m := New(osfs.New(string(filepath.Separator)), opts...)
	m.resolve = filepath.Abs
	return m
}

// With returns a copy of m with opts applied on top of its options.
func (m *Materializer) With(opts ...Option) *Materializer {
	c := *m
	for _, opt := range opts {
		opt(&c.cfg)
	}
	return &c
}

// Filesystem returns the underlying filesystem.
func (m *Materializer) Filesystem() billy.Filesystem {
	return m.fs
}

// Resolve maps p to the path used on the underlying filesystem.
func (m *Materializer) Resolve(p string) (string, error) {
	return m.resolve(p)
}

// Realize creates tree under dest. Directories are created with their
// parents and may already exist. A file root writes a single file at dest.
func (m *Materializer) Realize(tree structure.Node, dest string) error {
	if err := tree.Validate(); err != nil {
		return err
	}
	root, err := m.resolve(dest)
	if err != nil {
		return fsError("resolve", dest, err)
	}

	if tree.IsFile() {
		return m.writeFile(root, filepath.Base(root))
	}
	if err := m.fs.MkdirAll(root, dirPerm); err != nil {
		return fsError("mkdir", root, err)
	}
	return tree.Walk(func(p string, n structure.Node) error {
		full := m.fs.Join(root, filepath.FromSlash(p))
		if n.IsDir() {
			if err := m.fs.MkdirAll(full, dirPerm); err != nil {
				return fsError("mkdir", full, err)
			}
			return nil
		}
		return m.writeFile(full, p)
	})
}

func (m *Materializer) writeFile(full, rel string) error {
	if m.cfg.skipExisting {
		if info, err := m.fs.Lstat(full); err == nil && !info.IsDir() {
			return nil
		}
	}

	var data []byte
	if m.cfg.content != nil {
		var err error
		data, err = m.cfg.content(rel)
		if err != nil {
			return fsError("render", full, err)
		}
	}

	f, err := m.fs.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return fsError("create", full, err)
	}
	if len(data) > 0 {
		if _, err := f.Write(data); err != nil {
			f.Close()
			return fsError("write", full, err)
		}
	}
	if err := f.Close(); err != nil {
		return fsError("close", full, err)
	}
	return nil
}

// Scan builds the tree found under src. Directories become directory nodes,
// everything else a file leaf. Symlinks and unreadable entries follow the
// configured policies.
func (m *Materializer) Scan(src string) (structure.Node, error) {
	root, err := m.resolve(src)
	if err != nil {
		return structure.Node{}, fsError("resolve", src, err)
	}
	info, err := m.fs.Stat(root)
	if err != nil {
		return structure.Node{}, fsError("stat", root, err)
	}
	if !info.IsDir() {
		return structure.File(), nil
	}
	n, ok, err := m.scanDir(root, []os.FileInfo{info}, 0)
	if err != nil {
		return structure.Node{}, err
	}
	if !ok {
		// a skipped root is still a directory
		return structure.EmptyDir(), nil
	}
	return n, nil
}

// scanDir returns false when the directory was skipped.
func (m *Materializer) scanDir(dir string, ancestors []os.FileInfo, links int) (structure.Node, bool, error) {
	infos, err := m.fs.ReadDir(dir)
	if err != nil {
		if m.skipDenied(err) {
			return structure.Node{}, false, nil
		}
		return structure.Node{}, false, fsError("readdir", dir, err)
	}

	entries := make(structure.Entries, len(infos))
	for _, info := range infos {
		name := info.Name()
		p := m.fs.Join(dir, name)

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			child, ok, err := m.scanLink(p, ancestors, links)
			if err != nil {
				return structure.Node{}, false, err
			}
			if ok {
				entries[name] = child
			}
		case info.IsDir():
			child, ok, err := m.scanDir(p, append(ancestors[:len(ancestors):len(ancestors)], info), links)
			if err != nil {
				return structure.Node{}, false, err
			}
			if ok {
				entries[name] = child
			}
		default:
			entries[name] = structure.File()
		}
	}
	return structure.Dir(entries), true, nil
}

func (m *Materializer) scanLink(p string, ancestors []os.FileInfo, links int) (structure.Node, bool, error) {
	switch m.cfg.symlinks {
	case SymlinkSkip:
		return structure.Node{}, false, nil
	case SymlinkError:
		return structure.Node{}, false, fsError("scan", p, ErrSymlink)
	}

	target, err := m.fs.Stat(p)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// dangling
		return structure.File(), true, nil
	case err != nil:
		if m.skipDenied(err) {
			return structure.Node{}, false, nil
		}
		return structure.Node{}, false, fsError("stat", p, err)
	case !target.IsDir():
		return structure.File(), true, nil
	}

	if links+1 > maxLinkDepth {
		return structure.Node{}, false, fsError("scan", p, ErrSymlinkCycle)
	}
	for _, a := range ancestors {
		if os.SameFile(a, target) {
			return structure.Node{}, false, fsError("scan", p, ErrSymlinkCycle)
		}
	}
	return m.scanDir(p, append(ancestors[:len(ancestors):len(ancestors)], target), links+1)
}

func (m *Materializer) skipDenied(err error) bool {
	return m.cfg.permissions == PermissionSkip && errors.Is(err, fs.ErrPermission)
}
