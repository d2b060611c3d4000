package materialize

import (
	"fmt"
	"strings"
)

// SymlinkPolicy decides what Scan does with symbolic links.
type SymlinkPolicy int

const (
	// SymlinkFollow scans the link target: links to directories become
	// directories, everything else a file. Cycles are reported.
	SymlinkFollow SymlinkPolicy = iota
	// SymlinkSkip leaves links out of the tree.
	SymlinkSkip
	// SymlinkError fails the scan on the first link.
	SymlinkError
)

// PermissionPolicy decides what Scan does with entries it may not read.
type PermissionPolicy int

const (
	PermissionError PermissionPolicy = iota
	PermissionSkip
)

// ContentFunc returns the content of the file at the slash separated path p,
// relative to the destination root. Returning nil writes an empty file.
type ContentFunc func(p string) ([]byte, error)

type config struct {
	symlinks     SymlinkPolicy
	permissions  PermissionPolicy
	content      ContentFunc
	skipExisting bool
}

type Option func(*config)

func WithSymlinks(p SymlinkPolicy) Option {
	return func(c *config) {
		c.symlinks = p
	}
}

func WithPermissionDenied(p PermissionPolicy) Option {
	return func(c *config) {
		c.permissions = p
	}
}

// WithContent fills realized files from fn instead of leaving them empty.
func WithContent(fn ContentFunc) Option {
	return func(c *config) {
		c.content = fn
	}
}

// WithSkipExisting keeps files that already exist at the destination.
// Without it, existing files are truncated.
func WithSkipExisting() Option {
	return func(c *config) {
		c.skipExisting = true
	}
}

func (p SymlinkPolicy) String() string {
	switch p {
	case SymlinkSkip:
		return "skip"
	case SymlinkError:
		return "error"
	default:
		return "follow"
	}
}

// ParseSymlinkPolicy accepts "follow", "skip" or "error".
func ParseSymlinkPolicy(s string) (SymlinkPolicy, error) {
	switch strings.ToLower(s) {
	case "", "follow":
		return SymlinkFollow, nil
	case "skip":
		return SymlinkSkip, nil
	case "error":
		return SymlinkError, nil
	}
	return SymlinkFollow, fmt.Errorf("unknown symlink policy %q", s)
}

func (p PermissionPolicy) String() string {
	if p == PermissionSkip {
		return "skip"
	}
	return "error"
}

// ParsePermissionPolicy accepts "error" or "skip".
func ParsePermissionPolicy(s string) (PermissionPolicy, error) {
	switch strings.ToLower(s) {
	case "", "error":
		return PermissionError, nil
	case "skip":
		return PermissionSkip, nil
	}
	return PermissionError, fmt.Errorf("unknown permission policy %q", s)
}
