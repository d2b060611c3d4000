package structure

import (
	"fmt"
	"io"
	"strings"
)

// RenderOptions controls Render output.
type RenderOptions struct {
	// Root is printed as the first line when non-empty.
	Root string
	// DirStyle and FileStyle decorate names, e.g. with lipgloss styles.
	DirStyle  func(string) string
	FileStyle func(string) string
}

// Render writes n as a sorted tree. Directory names carry a trailing slash.
func Render(w io.Writer, n Node, opts RenderOptions) error {
	dirStyle := opts.DirStyle
	if dirStyle == nil {
		dirStyle = identity
	}
	fileStyle := opts.FileStyle
	if fileStyle == nil {
		fileStyle = identity
	}

	if opts.Root != "" {
		if _, err := fmt.Fprintln(w, dirStyle(strings.TrimSuffix(opts.Root, "/")+"/")); err != nil {
			return err
		}
	}
	return render(w, n, "", dirStyle, fileStyle)
}

// String renders n without decoration.
func (n Node) String() string {
	if !n.dir {
		return "<file>"
	}
	var sb strings.Builder
	_ = Render(&sb, n, RenderOptions{})
	return sb.String()
}

func render(w io.Writer, n Node, indent string, dirStyle, fileStyle func(string) string) error {
	names := n.Names()
	for i, name := range names {
		child := n.children[name]
		connector, nextIndent := "├── ", indent+"│   "
		if i == len(names)-1 {
			connector, nextIndent = "└── ", indent+"    "
		}

		label := fileStyle(name)
		if child.dir {
			label = dirStyle(name + "/")
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", indent, connector, label); err != nil {
			return err
		}
		if child.dir {
			if err := render(w, child, nextIndent, dirStyle, fileStyle); err != nil {
				return err
			}
		}
	}
	return nil
}

func identity(s string) string { return s }
