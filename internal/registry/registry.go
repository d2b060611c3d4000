package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lokal-dev/lokal/internal/metadata"
	"github.com/lokal-dev/lokal/internal/structure"
	"github.com/lokal-dev/lokal/internal/template"
)

var (
	ErrNotFound          = errors.New("template not found")
	ErrInvalidVariant    = errors.New("invalid template variant")
	ErrAlreadyRegistered = errors.New("template already registered")
)

// Registry maps case-insensitive template ids to factories. It is built once
// at startup and shared; registration is not safe for concurrent use.
type Registry struct {
	factories map[string]template.Factory
}

// Summary is the short form of a registered template.
type Summary struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Files       int    `json:"files" yaml:"files"`
}

// Info is everything known about a registered template.
type Info struct {
	ID          string            `json:"id" yaml:"id"`
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Structure   structure.Node    `json:"structure" yaml:"structure"`
	Metadata    metadata.Metadata `json:"metadata" yaml:"metadata"`
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{factories: make(map[string]template.Factory)}
}

// Register adds a factory under id. The factory is called once to check that
// its product is complete. Registering an id twice, in any casing, fails with
// ErrAlreadyRegistered.
func (r *Registry) Register(id string, factory template.Factory) error {
	key, err := normalize(id)
	if err != nil {
		return err
	}
	if _, exists := r.factories[key]; exists {
		return fmt.Errorf("%w: %q", ErrAlreadyRegistered, key)
	}
	if err := verify(key, factory); err != nil {
		return err
	}
	r.factories[key] = factory
	return nil
}

// Replace registers factory under id, overwriting any previous entry.
func (r *Registry) Replace(id string, factory template.Factory) error {
	key, err := normalize(id)
	if err != nil {
		return err
	}
	if err := verify(key, factory); err != nil {
		return err
	}
	r.factories[key] = factory
	return nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.factories[lookupKey(id)]
	return ok
}

// Get returns a fresh instance of the template registered under id.
func (r *Registry) Get(id string) (template.Template, error) {
	key := lookupKey(id)
	factory, ok := r.factories[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	tmpl, err := factory()
	if err != nil {
		return nil, fmt.Errorf("failed to build template %q: %w", key, err)
	}
	if tmpl == nil {
		return nil, fmt.Errorf("%w: %q: factory returned nil", ErrInvalidVariant, key)
	}
	return tmpl, nil
}

// List returns the registered ids in ascending order.
func (r *Registry) List() []string {
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Summaries returns a summary for every registered id, ordered by id.
func (r *Registry) Summaries() ([]Summary, error) {
	ids := r.List()
	out := make([]Summary, 0, len(ids))
	for _, id := range ids {
		tmpl, err := r.Get(id)
		if err != nil {
			return nil, err
		}
		out = append(out, Summary{
			ID:          id,
			Name:        tmpl.Name(),
			Description: tmpl.Description(),
			Files:       tmpl.Structure().FileCount(),
		})
	}
	return out, nil
}

// Info returns the full description of the template registered under id.
// The returned id is the lower-cased registry key.
func (r *Registry) Info(id string) (*Info, error) {
	tmpl, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	return &Info{
		ID:          lookupKey(id),
		Name:        tmpl.Name(),
		Description: tmpl.Description(),
		Structure:   tmpl.Structure(),
		Metadata:    tmpl.Metadata(),
	}, nil
}

func lookupKey(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func normalize(id string) (string, error) {
	key := lookupKey(id)
	if key == "" {
		return "", fmt.Errorf("%w: empty id", ErrInvalidVariant)
	}
	return key, nil
}

func verify(id string, factory template.Factory) error {
	if factory == nil {
		return fmt.Errorf("%w: %q: nil factory", ErrInvalidVariant, id)
	}
	tmpl, err := factory()
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidVariant, id, err)
	}
	if err := template.Check(tmpl); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidVariant, id, err)
	}
	return nil
}
