package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Conventional keys read by callers that aggregate across templates.
const (
	KeyDependencies = "dependencies"
	KeyConfigFiles  = "config_files"
	KeyLanguage     = "language"
	KeyFramework    = "framework"
)

// ErrOverride is matched by errors reporting an extension that would replace
// or shrink an existing metadata value.
var ErrOverride = errors.New("metadata override")

// ConflictError names the key an extension tried to replace.
type ConflictError struct {
	Key    string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s of %q: %s", ErrOverride, e.Key, e.Reason)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrOverride
}

// Fields is the literal form used to build metadata.
type Fields map[string]Value

// Metadata is an open-ended, immutable set of descriptive values attached to a
// template.
type Metadata struct {
	values map[string]Value
}

// New builds metadata from fields. The map is copied.
func New(fields Fields) Metadata {
	values := make(map[string]Value, len(fields))
	for k, v := range fields {
		values[k] = v
	}
	return Metadata{values: values}
}

func (m Metadata) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m Metadata) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the sorted keys.
func (m Metadata) Keys() []string {
	return sortedKeys(m.values)
}

func (m Metadata) Len() int { return len(m.values) }

// Fields returns a copy of the values.
func (m Metadata) Fields() Fields {
	out := make(Fields, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// StringValue returns the string stored under key.
func (m Metadata) StringValue(key string) (string, bool) {
	v, ok := m.values[key]
	if !ok {
		return "", false
	}
	return v.AsString()
}

// StringList returns the string list stored under key.
func (m Metadata) StringList(key string) ([]string, bool) {
	v, ok := m.values[key]
	if !ok {
		return nil, false
	}
	return v.AsStrings()
}

// Dependencies returns the declared dependency names, or nil.
func (m Metadata) Dependencies() []string {
	deps, _ := m.StringList(KeyDependencies)
	return deps
}

// ConfigFiles returns the declared configuration file paths, or nil.
func (m Metadata) ConfigFiles() []string {
	files, _ := m.StringList(KeyConfigFiles)
	return files
}

// Extend returns a copy of m with fields added. New keys are inserted as they
// are. Existing keys can only grow: lists are appended to, maps are extended
// key by key, scalars must be identical. Any other change is a *ConflictError.
func (m Metadata) Extend(fields Fields) (Metadata, error) {
	merged, err := extendFields("", m.values, fields)
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{values: merged}, nil
}

// IsExtensionOf reports whether m holds every key of base with a value that
// only adds to the base value.
func (m Metadata) IsExtensionOf(base Metadata) bool {
	for k, v := range base.values {
		o, ok := m.values[k]
		if !ok || !o.extends(v) {
			return false
		}
	}
	return true
}

func (m Metadata) Equal(other Metadata) bool {
	if len(m.values) != len(other.values) {
		return false
	}
	for k, v := range m.values {
		o, ok := other.values[k]
		if !ok || !v.Equal(o) {
			return false
		}
	}
	return true
}

// Interface returns the metadata as a plain map.
func (m Metadata) Interface() map[string]interface{} {
	out := make(map[string]interface{}, len(m.values))
	for k, v := range m.values {
		out[k] = v.Interface()
	}
	return out
}

func (m Metadata) MarshalJSON() ([]byte, error) {
	values := m.values
	if values == nil {
		values = map[string]Value{}
	}
	return json.Marshal(values)
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	values := make(map[string]Value, len(raw))
	for k, item := range raw {
		v, err := FromInterface(item)
		if err != nil {
			return fmt.Errorf("metadata %q: %w", k, err)
		}
		values[k] = v
	}
	*m = Metadata{values: values}
	return nil
}

func (m Metadata) MarshalYAML() (interface{}, error) {
	return m.Interface(), nil
}
