package projectfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/lokal-dev/lokal/internal/metadata"
)

// FileName is written to the root of every generated project.
const FileName = "lokal.toml"

const (
	SourceRegistry = "registry"
	SourceLibrary  = "library"
)

// Manifest records where a project came from.
type Manifest struct {
	Project      Project  `toml:"project"`
	Template     Template `toml:"template"`
	Dependencies []string `toml:"dependencies,omitempty"`
	ConfigFiles  []string `toml:"config_files,omitempty"`
}

type Project struct {
	ID        uuid.UUID `toml:"id"`
	Name      string    `toml:"name"`
	CreatedAt time.Time `toml:"created_at"`
}

type Template struct {
	ID     string `toml:"id"`
	Name   string `toml:"name,omitempty"`
	Source string `toml:"source"`
}

// New builds the manifest of a project called projectName generated from
// the registry template templateID.
func New(projectName, templateID, templateName string, md metadata.Metadata) Manifest {
	return Manifest{
		Project: Project{
			ID:        uuid.New(),
			Name:      projectName,
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		},
		Template: Template{
			ID:     templateID,
			Name:   templateName,
			Source: SourceRegistry,
		},
		Dependencies: md.Dependencies(),
		ConfigFiles:  md.ConfigFiles(),
	}
}

// NewFromLibrary builds the manifest of a project copied from a library
// template.
func NewFromLibrary(projectName, templateName string) Manifest {
	m := New(projectName, templateName, "", metadata.Metadata{})
	m.Template.Source = SourceLibrary
	return m
}

// Path returns the manifest location inside projectDir.
func Path(projectDir string) string {
	return filepath.Join(projectDir, FileName)
}

// Encode renders the manifest as TOML.
func (m Manifest) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", FileName, err)
	}
	return buf.Bytes(), nil
}

// Save writes the manifest into projectDir.
func (m Manifest) Save(projectDir string) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}

	path := Path(projectDir)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", FileName, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", FileName, err)
	}
	return nil
}

// Load reads the manifest of projectDir.
func Load(projectDir string) (Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(Path(projectDir), &m); err != nil {
		return Manifest{}, fmt.Errorf("failed to read %s: %w", FileName, err)
	}
	if m.Project.ID == uuid.Nil {
		return Manifest{}, fmt.Errorf("%s has no project id", FileName)
	}
	return m, nil
}
