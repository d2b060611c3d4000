package structure

import (
	"path"
	"strings"
)

// Merge returns the union of base and ext. Entries only present on one side
// are kept as they are; entries present on both sides must have the same
// kind, directories are merged recursively. A name used as a directory on one
// side and as a file on the other is reported as an *AmbiguityError.
func Merge(base, ext Node) (Node, error) {
	return merge("", base, ext)
}

func merge(p string, base, ext Node) (Node, error) {
	if base.dir != ext.dir {
		if p == "" {
			p = "."
		}
		return Node{}, &AmbiguityError{Path: p}
	}
	if !base.dir {
		return base, nil
	}

	out := base.Entries()
	for name, child := range ext.children {
		childPath := name
		if p != "" {
			childPath = p + "/" + name
		}
		existing, ok := out[name]
		if !ok {
			out[name] = child
			continue
		}
		merged, err := merge(childPath, existing, child)
		if err != nil {
			return Node{}, err
		}
		out[name] = merged
	}
	return Dir(out), nil
}

// Builder assembles a tree from slash separated paths. The zero value is not
// usable; call NewBuilder.
type Builder struct {
	root *draft
}

type draft struct {
	dir      bool
	children map[string]*draft
}

func newDraftDir() *draft {
	return &draft{dir: true, children: map[string]*draft{}}
}

func NewBuilder() *Builder {
	return &Builder{root: newDraftDir()}
}

// AddDir declares p and all its parents as directories.
func (b *Builder) AddDir(p string) error {
	_, err := b.ensure(p, true)
	return err
}

// AddFile declares p as a file and all its parents as directories.
func (b *Builder) AddFile(p string) error {
	_, err := b.ensure(p, false)
	return err
}

func (b *Builder) ensure(p string, dir bool) (*draft, error) {
	parts, err := splitPath(p)
	if err != nil {
		return nil, err
	}

	cur := b.root
	for i, part := range parts {
		last := i == len(parts)-1
		wantDir := dir || !last
		sub := strings.Join(parts[:i+1], "/")

		next, ok := cur.children[part]
		if !ok {
			if wantDir {
				next = newDraftDir()
			} else {
				next = &draft{}
			}
			cur.children[part] = next
		} else if next.dir != wantDir {
			return nil, &AmbiguityError{Path: sub}
		}
		cur = next
	}
	return cur, nil
}

// Build returns the assembled tree. The builder may keep being used; later
// additions do not affect trees already returned.
func (b *Builder) Build() Node {
	return b.root.freeze()
}

func (d *draft) freeze() Node {
	if !d.dir {
		return File()
	}
	entries := make(Entries, len(d.children))
	for name, child := range d.children {
		entries[name] = child.freeze()
	}
	return Dir(entries)
}

func splitPath(p string) ([]string, error) {
	cleaned := strings.Trim(path.Clean("/"+strings.ReplaceAll(p, "\\", "/")), "/")
	if cleaned == "" {
		return nil, &InvalidNameError{Path: p, Name: p, Reason: "path is empty"}
	}
	parts := strings.Split(cleaned, "/")
	for _, part := range parts {
		if err := ValidateName(part); err != nil {
			return nil, &InvalidNameError{Path: p, Name: part, Reason: err.Error()}
		}
	}
	return parts, nil
}

// FromPaths builds a tree from slash paths. Paths ending in "/" are
// directories, everything else is a file.
func FromPaths(paths ...string) (Node, error) {
	b := NewBuilder()
	for _, p := range paths {
		var err error
		if strings.HasSuffix(p, "/") {
			err = b.AddDir(p)
		} else {
			err = b.AddFile(p)
		}
		if err != nil {
			return Node{}, err
		}
	}
	return b.Build(), nil
}
