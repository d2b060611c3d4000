package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"sigs.k8s.io/yaml"

	"github.com/lokal-dev/lokal/internal/constants"
	"github.com/lokal-dev/lokal/internal/library"
	"github.com/lokal-dev/lokal/internal/registry"
)

// ErrUnsupportedFormat is returned for an --output value a command does not
// know.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// CheckFormat returns format lower-cased if it is one of allowed.
func CheckFormat(format string, allowed ...string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	for _, a := range allowed {
		if f == a {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q, expected one of %s", ErrUnsupportedFormat, format, strings.Join(allowed, ", "))
}

// Encode renders v as indented JSON or as YAML. YAML is produced from the
// JSON encoding so custom JSON marshalers, such as the null leaves of a
// structure tree, carry over unchanged.
func Encode(format string, v interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode as JSON: %w", err)
	}
	switch format {
	case constants.OutputJSON:
		return append(data, '\n'), nil
	case constants.OutputYAML:
		out, err := yaml.JSONToYAML(data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode as YAML: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, format)
	}
}

// Write encodes v and writes it to w.
func Write(w io.Writer, format string, v interface{}) error {
	data, err := Encode(format, v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// FormatTemplatesTable renders the built-in templates as a table.
func FormatTemplatesTable(summaries []registry.Summary) string {
	if len(summaries) == 0 {
		return "No templates registered"
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"ID", "Name", "Description", "Files"})
	for _, s := range summaries {
		t.AppendRow(table.Row{s.ID, s.Name, s.Description, s.Files})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, WidthMax: 60},
		{Number: 4, Align: text.AlignRight},
	})
	t.SortBy([]table.SortBy{{Name: "ID", Mode: table.Asc}})
	return t.Render()
}

// FormatLibraryTable renders the templates of the on-disk library.
func FormatLibraryTable(entries []library.Entry) string {
	if len(entries) == 0 {
		return "No templates in the library"
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Name", "Files"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Name, e.Files})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
	})
	return t.Render()
}
