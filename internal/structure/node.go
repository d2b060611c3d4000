package structure

import (
	"path"
	"sort"
	"strings"
)

// Entries lists the children of a directory node by name.
type Entries map[string]Node

// Node is an immutable directory tree. A node is either a file leaf or a
// directory holding named children. Nodes are values: once built they are
// never changed, so handing the same node to several callers is safe.
type Node struct {
	dir      bool
	children map[string]Node
}

// File returns a file leaf.
func File() Node {
	return Node{}
}

// Dir returns a directory node with the given children. The entries map is
// copied.
func Dir(entries Entries) Node {
	children := make(map[string]Node, len(entries))
	for name, child := range entries {
		children[name] = child
	}
	return Node{dir: true, children: children}
}

// EmptyDir returns a directory with no children.
func EmptyDir() Node {
	return Node{dir: true, children: map[string]Node{}}
}

func (n Node) IsDir() bool { return n.dir }
func (n Node) IsFile() bool { return !n.dir }

// Len returns the number of direct children. Files have none.
func (n Node) Len() int {
	return len(n.children)
}

// Names returns the sorted names of the direct children.
func (n Node) Names() []string {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Child returns the direct child with the given name.
func (n Node) Child(name string) (Node, bool) {
	child, ok := n.children[name]
	return child, ok
}

// Lookup resolves a slash separated path relative to n.
func (n Node) Lookup(p string) (Node, bool) {
	p = strings.Trim(path.Clean("/"+p), "/")
	if p == "" {
		return n, true
	}
	cur := n
	for _, part := range strings.Split(p, "/") {
		next, ok := cur.children[part]
		if !ok {
			return Node{}, false
		}
		cur = next
	}
	return cur, true
}

// Entries returns a copy of the direct children.
func (n Node) Entries() Entries {
	out := make(Entries, len(n.children))
	for name, child := range n.children {
		out[name] = child
	}
	return out
}

// With returns a copy of n with child set under name. n must be a directory.
func (n Node) With(name string, child Node) Node {
	entries := n.Entries()
	entries[name] = child
	return Dir(entries)
}

// Equal reports whether both trees have the same shape. Order never matters
// and an empty directory is not equal to a file.
func (n Node) Equal(other Node) bool {
	if n.dir != other.dir {
		return false
	}
	if len(n.children) != len(other.children) {
		return false
	}
	for name, child := range n.children {
		o, ok := other.children[name]
		if !ok || !child.Equal(o) {
			return false
		}
	}
	return true
}

// WalkFunc is called for every node below the root with its slash separated
// path relative to the root.
type WalkFunc func(p string, n Node) error

// Walk visits every descendant of n in sorted pre-order. Returning an error
// from fn stops the walk.
func (n Node) Walk(fn WalkFunc) error {
	return n.walk("", fn)
}

func (n Node) walk(prefix string, fn WalkFunc) error {
	for _, name := range n.Names() {
		child := n.children[name]
		p := name
		if prefix != "" {
			p = prefix + "/" + name
		}
		if err := fn(p, child); err != nil {
			return err
		}
		if child.dir {
			if err := child.walk(p, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// FileCount returns the number of file leaves below n.
func (n Node) FileCount() int {
	if !n.dir {
		return 1
	}
	count := 0
	for _, child := range n.children {
		count += child.FileCount()
	}
	return count
}

// Paths returns the sorted slash paths of every descendant. Directories end
// with a trailing slash.
func (n Node) Paths() []string {
	var out []string
	_ = n.Walk(func(p string, child Node) error {
		if child.dir {
			p += "/"
		}
		out = append(out, p)
		return nil
	})
	return out
}

// Validate checks that every name in the tree is a usable path segment.
func (n Node) Validate() error {
	return n.validate("")
}

func (n Node) validate(prefix string) error {
	for _, name := range n.Names() {
		p := name
		if prefix != "" {
			p = prefix + "/" + name
		}
		if err := ValidateName(name); err != nil {
			return &InvalidNameError{Path: p, Name: name, Reason: err.Error()}
		}
		if err := n.children[name].validate(p); err != nil {
			return err
		}
	}
	return nil
}
