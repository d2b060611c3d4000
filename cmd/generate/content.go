package generate

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/lokal-dev/lokal/internal/constants"
	"github.com/lokal-dev/lokal/internal/materialize"
	"github.com/lokal-dev/lokal/internal/metadata"
	"github.com/lokal-dev/lokal/internal/structure"
	tmpl "github.com/lokal-dev/lokal/internal/template"
)

const (
	gitignoreFile = ".gitignore"

	gitignoreContent = ".venv/\n__pycache__/\n*.pyc\n"
)

var readmeTemplate = template.Must(template.New(constants.ReadmeFileName).Parse(`# {{ .Project }}

{{ .Description }}

Generated with lokal from the {{ .TemplateName }} template ({{ .TemplateID }}).
{{- if .Language }}

Language: {{ .Language }}
{{- end }}
{{- if .Framework }}

Framework: {{ .Framework }}
{{- end }}
{{- if .Dependencies }}

## Dependencies
{{ range .Dependencies }}
- {{ . }}
{{- end }}
{{- end }}
{{- if .ConfigFiles }}

## Configuration
{{ range .ConfigFiles }}
- ` + "`{{ . }}`" + `
{{- end }}
{{- end }}
`))

type readmeData struct {
	Project      string
	Description  string
	TemplateID   string
	TemplateName string
	Language     string
	Framework    string
	Dependencies []string
	ConfigFiles  []string
}

// isPython reports whether the template declares a Python language.
func isPython(md metadata.Metadata) bool {
	return strings.Contains(strings.ToLower(stringField(md, metadata.KeyLanguage)), "python")
}

// projectTree returns the template structure. Python projects always get a
// root .gitignore.
func projectTree(t tmpl.Template) structure.Node {
	tree := t.Structure()
	if !isPython(t.Metadata()) {
		return tree
	}
	if _, ok := tree.Child(gitignoreFile); !ok {
		tree = tree.With(gitignoreFile, structure.File())
	}
	return tree
}

// projectContent fills the root README.md of a new project, and the root
// .gitignore of Python projects. Every other file is created empty.
func projectContent(project, templateID string, t tmpl.Template) (materialize.ContentFunc, error) {
	md := t.Metadata()
	data := readmeData{
		Project:      project,
		Description:  t.Description(),
		TemplateID:   templateID,
		TemplateName: t.Name(),
		Language:     stringField(md, metadata.KeyLanguage),
		Framework:    stringField(md, metadata.KeyFramework),
		Dependencies: md.Dependencies(),
		ConfigFiles:  md.ConfigFiles(),
	}

	var readme bytes.Buffer
	if err := readmeTemplate.Execute(&readme, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", constants.ReadmeFileName, err)
	}

	python := isPython(md)
	return func(p string) ([]byte, error) {
		switch p {
		case constants.ReadmeFileName:
			return readme.Bytes(), nil
		case gitignoreFile:
			if python {
				return []byte(gitignoreContent), nil
			}
			return nil, nil
		default:
			return nil, nil
		}
	}, nil
}

func stringField(md metadata.Metadata, key string) string {
	s, _ := md.StringValue(key)
	return s
}
