package materialize

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokal-dev/lokal/internal/structure"
)

func roundTripTrees(t *testing.T) map[string]structure.Node {
	t.Helper()

	nested, err := structure.FromPaths(
		"top.txt",
		"one/",
		"one/mid.txt",
		"one/two/",
		"one/two/leaf.txt",
		"one/two/three/",
		"one/two/three/deep.txt",
		"empty/",
	)
	require.NoError(t, err)

	siblings := structure.Entries{}
	for i := 0; i < 60; i++ {
		siblings[fmt.Sprintf("file%02d.txt", i)] = structure.File()
	}

	return map[string]structure.Node{
		"empty":    structure.EmptyDir(),
		"single":   structure.Dir(structure.Entries{"a.txt": structure.File()}),
		"nested":   nested,
		"siblings": structure.Dir(structure.Entries{"many": structure.Dir(siblings)}),
	}
}

func TestRoundTripOS(t *testing.T) {
	for name, tree := range roundTripTrees(t) {
		t.Run(name, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "out")
			m := NewOS()

			require.NoError(t, m.Realize(tree, dest))
			scanned, err := m.Scan(dest)
			require.NoError(t, err)
			assert.True(t, tree.Equal(scanned), "want %v, got %v", tree.Paths(), scanned.Paths())
		})
	}
}

func TestRoundTripMemory(t *testing.T) {
	for name, tree := range roundTripTrees(t) {
		t.Run(name, func(t *testing.T) {
			m := New(memfs.New())

			require.NoError(t, m.Realize(tree, "/out"))
			scanned, err := m.Scan("/out")
			require.NoError(t, err)
			assert.True(t, tree.Equal(scanned), "want %v, got %v", tree.Paths(), scanned.Paths())
		})
	}
}

func TestScanSortsManySiblings(t *testing.T) {
	tree := roundTripTrees(t)["siblings"]
	m := New(memfs.New())
	require.NoError(t, m.Realize(tree, "/out"))

	scanned, err := m.Scan("/out")
	require.NoError(t, err)

	many, ok := scanned.Child("many")
	require.True(t, ok)
	names := many.Names()
	assert.Len(t, names, 60)
	assert.True(t, sort.StringsAreSorted(names))
}

func TestRealizeCreatesExactlyTheTree(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	tree := structure.Dir(structure.Entries{
		"a":     structure.Dir(structure.Entries{"b.txt": structure.File()}),
		"c.txt": structure.File(),
	})

	require.NoError(t, NewOS().Realize(tree, out))

	var found []string
	err := filepath.WalkDir(out, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(out, p)
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			rel += "/"
		}
		found = append(found, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a/", "a/b.txt", "c.txt"}, found)

	info, err := os.Stat(filepath.Join(out, "c.txt"))
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())
	assert.Zero(t, info.Size())
}

func TestRealizeIsIdempotentForDirectories(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	tree := structure.Dir(structure.Entries{"a": structure.EmptyDir()})
	m := NewOS()

	require.NoError(t, m.Realize(tree, out))
	require.NoError(t, m.Realize(tree, out))
}

func TestRealizeRelativePath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	tree := structure.Dir(structure.Entries{"x.txt": structure.File()})
	require.NoError(t, NewOS().Realize(tree, "rel"))
	assert.FileExists(t, filepath.Join(dir, "rel", "x.txt"))
}

func TestRealizeWithContent(t *testing.T) {
	fsys := memfs.New()
	m := New(fsys, WithContent(func(p string) ([]byte, error) {
		if p == "README.md" {
			return []byte("# demo\n"), nil
		}
		return nil, nil
	}))
	tree := structure.Dir(structure.Entries{
		"README.md": structure.File(),
		"src":       structure.Dir(structure.Entries{"main.py": structure.File()}),
	})

	require.NoError(t, m.Realize(tree, "/p"))

	data, err := util.ReadFile(fsys, "/p/README.md")
	require.NoError(t, err)
	assert.Equal(t, "# demo\n", string(data))

	data, err = util.ReadFile(fsys, "/p/src/main.py")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestWithLeavesOriginalUntouched(t *testing.T) {
	fsys := memfs.New()
	base := New(fsys)
	filled := base.With(WithContent(func(string) ([]byte, error) { return []byte("x"), nil }))
	tree := structure.Dir(structure.Entries{"a.txt": structure.File()})

	require.NoError(t, filled.Realize(tree, "/filled"))
	require.NoError(t, base.Realize(tree, "/plain"))

	data, err := util.ReadFile(fsys, "/filled/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))

	data, err = util.ReadFile(fsys, "/plain/a.txt")
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.Same(t, base.Filesystem(), filled.Filesystem())
}

func TestRealizeContentError(t *testing.T) {
	boom := errors.New("boom")
	m := New(memfs.New(), WithContent(func(string) ([]byte, error) { return nil, boom }))

	err := m.Realize(structure.Dir(structure.Entries{"a.txt": structure.File()}), "/p")
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, err, ErrFilesystem)
}

func TestRealizeExistingFiles(t *testing.T) {
	tree := structure.Dir(structure.Entries{"keep.txt": structure.File()})
	content := WithContent(func(string) ([]byte, error) { return []byte("new"), nil })

	t.Run("truncated by default", func(t *testing.T) {
		fsys := memfs.New()
		require.NoError(t, util.WriteFile(fsys, "/p/keep.txt", []byte("old content"), 0o644))

		require.NoError(t, New(fsys, content).Realize(tree, "/p"))
		data, err := util.ReadFile(fsys, "/p/keep.txt")
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))
	})

	t.Run("kept when skipping", func(t *testing.T) {
		fsys := memfs.New()
		require.NoError(t, util.WriteFile(fsys, "/p/keep.txt", []byte("old content"), 0o644))

		require.NoError(t, New(fsys, content, WithSkipExisting()).Realize(tree, "/p"))
		data, err := util.ReadFile(fsys, "/p/keep.txt")
		require.NoError(t, err)
		assert.Equal(t, "old content", string(data))
	})
}

func TestRealizeRejectsInvalidNamesBeforeWriting(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	tree := structure.Dir(structure.Entries{
		"ok.txt": structure.File(),
		"..":     structure.EmptyDir(),
	})

	err := NewOS().Realize(tree, out)
	require.ErrorIs(t, err, structure.ErrInvalidName)
	assert.NoDirExists(t, out)
}

func TestRealizeReportsFilesystemErrors(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, "a"), nil, 0o644))

	tree := structure.Dir(structure.Entries{
		"a": structure.Dir(structure.Entries{"b.txt": structure.File()}),
	})
	err := NewOS().Realize(tree, out)
	require.ErrorIs(t, err, ErrFilesystem)

	var fsErr *FilesystemError
	require.ErrorAs(t, err, &fsErr)
	assert.Equal(t, "mkdir", fsErr.Op)
	assert.Equal(t, filepath.Join(out, "a"), fsErr.Path)
}

func TestRealizeFileRoot(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, New(fsys).Realize(structure.File(), "/single.txt"))

	node, err := New(fsys).Scan("/single.txt")
	require.NoError(t, err)
	assert.True(t, node.IsFile())
}

func TestScanMissing(t *testing.T) {
	_, err := NewOS().Scan(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, ErrFilesystem)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestParsePolicies(t *testing.T) {
	s, err := ParseSymlinkPolicy("SKIP")
	require.NoError(t, err)
	assert.Equal(t, SymlinkSkip, s)
	assert.Equal(t, "skip", s.String())

	s, err = ParseSymlinkPolicy("")
	require.NoError(t, err)
	assert.Equal(t, SymlinkFollow, s)

	_, err = ParseSymlinkPolicy("sometimes")
	assert.Error(t, err)

	p, err := ParsePermissionPolicy("skip")
	require.NoError(t, err)
	assert.Equal(t, PermissionSkip, p)

	_, err = ParsePermissionPolicy("ignore")
	assert.Error(t, err)
}

// lockedDirFS refuses to list one directory.
type lockedDirFS struct {
	billy.Filesystem
	locked string
}

func (l lockedDirFS) ReadDir(p string) ([]os.FileInfo, error) {
	if p == l.locked {
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrPermission}
	}
	return l.Filesystem.ReadDir(p)
}

func TestScanUnreadableRoot(t *testing.T) {
	mem := memfs.New()
	require.NoError(t, mem.MkdirAll("/project", 0o755))
	fsys := lockedDirFS{Filesystem: mem, locked: "/project"}

	_, err := New(fsys).Scan("/project")
	require.ErrorIs(t, err, ErrFilesystem)

	tree, err := New(fsys, WithPermissionDenied(PermissionSkip)).Scan("/project")
	require.NoError(t, err)
	assert.True(t, tree.IsDir())
	assert.True(t, tree.Equal(structure.EmptyDir()))
}
