package template

import (
	"errors"
	"fmt"

	"github.com/lokal-dev/lokal/internal/metadata"
	"github.com/lokal-dev/lokal/internal/structure"
)

// Template is a named project skeleton: a structure tree plus metadata.
// Implementations never change what they return after construction.
type Template interface {
	Name() string
	Description() string
	Structure() structure.Node
	Metadata() metadata.Metadata
}

// Factory produces a fresh Template on every call.
type Factory func() (Template, error)

var ErrIncomplete = errors.New("template is incomplete")

// Definition is the plain data bundle behind every built-in template.
type Definition struct {
	name        string
	description string
	tree        structure.Node
	meta        metadata.Metadata
}

// New builds a definition. The tree must be a directory with valid names.
func New(name, description string, tree structure.Node, fields metadata.Fields) (Definition, error) {
	if !tree.IsDir() {
		return Definition{}, fmt.Errorf("template %q: structure root must be a directory", name)
	}
	if err := tree.Validate(); err != nil {
		return Definition{}, fmt.Errorf("template %q: %w", name, err)
	}
	return Definition{
		name:        name,
		description: description,
		tree:        tree,
		meta:        metadata.New(fields),
	}, nil
}

func (d Definition) Name() string { return d.name }
func (d Definition) Description() string { return d.description }
func (d Definition) Structure() structure.Node { return d.tree }
func (d Definition) Metadata() metadata.Metadata { return d.meta }

// Extension lists what a derived template adds to its base. Name and
// Description replace the base values when set. Paths are slash paths added
// to the structure, a trailing slash marks a directory. Metadata fields may
// add keys or grow existing lists and maps.
type Extension struct {
	Name        string
	Description string
	Paths       []string
	Metadata    metadata.Fields
}

// Extend returns a new definition layering ext on top of d.
func (d Definition) Extend(ext Extension) (Definition, error) {
	out := d
	if ext.Name != "" {
		out.name = ext.Name
	}
	if ext.Description != "" {
		out.description = ext.Description
	}

	if len(ext.Paths) > 0 {
		add, err := structure.FromPaths(ext.Paths...)
		if err != nil {
			return Definition{}, fmt.Errorf("extend %q: %w", d.name, err)
		}
		tree, err := structure.Merge(d.tree, add)
		if err != nil {
			return Definition{}, fmt.Errorf("extend %q: %w", d.name, err)
		}
		out.tree = tree
	}

	if len(ext.Metadata) > 0 {
		meta, err := d.meta.Extend(ext.Metadata)
		if err != nil {
			return Definition{}, fmt.Errorf("extend %q: %w", d.name, err)
		}
		out.meta = meta
	}
	return out, nil
}

// Check reports whether t can be materialized: it must exist and its
// structure must be a directory. Name and description may be empty.
func Check(t Template) error {
	if t == nil {
		return fmt.Errorf("%w: nil template", ErrIncomplete)
	}
	if !t.Structure().IsDir() {
		return fmt.Errorf("%w: %q structure is not a directory", ErrIncomplete, t.Name())
	}
	return nil
}

// Extends reports whether derived only adds to base: every node of the base
// tree is still present with the same kind and every base metadata value is
// kept or grown.
func Extends(derived, base Template) bool {
	merged, err := structure.Merge(derived.Structure(), base.Structure())
	if err != nil || !merged.Equal(derived.Structure()) {
		return false
	}
	return derived.Metadata().IsExtensionOf(base.Metadata())
}

// FactoryOf adapts a definition constructor to a Factory.
func FactoryOf(build func() (Definition, error)) Factory {
	return func() (Template, error) {
		d, err := build()
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}
