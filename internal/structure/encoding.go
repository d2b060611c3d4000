package structure

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalJSON encodes directories as objects and files as null.
func (n Node) MarshalJSON() ([]byte, error) {
	if !n.dir {
		return []byte("null"), nil
	}
	children := n.children
	if children == nil {
		children = map[string]Node{}
	}
	return json.Marshal(children)
}

// UnmarshalJSON accepts the encoding produced by MarshalJSON. A name repeated
// within one object is rejected.
func (n *Node) UnmarshalJSON(data []byte) error {
	decoded, err := fromJSON("", data)
	if err != nil {
		return err
	}
	*n = decoded
	return nil
}

func fromJSON(p string, data []byte) (Node, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return File(), nil
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Node{}, fmt.Errorf("structure node %q must be an object or null, got %s", p, truncate(trimmed))
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if _, err := dec.Token(); err != nil {
		return Node{}, err
	}
	entries := Entries{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Node{}, err
		}
		name, ok := tok.(string)
		if !ok {
			return Node{}, fmt.Errorf("structure node %q: unexpected key %v", p, tok)
		}
		childPath := name
		if p != "" {
			childPath = p + "/" + name
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return Node{}, fmt.Errorf("structure node %q: %w", childPath, err)
		}
		child, err := fromJSON(childPath, raw)
		if err != nil {
			return Node{}, err
		}
		if existing, ok := entries[name]; ok {
			if existing.dir != child.dir {
				return Node{}, &AmbiguityError{Path: childPath}
			}
			return Node{}, fmt.Errorf("duplicate entry %q", childPath)
		}
		entries[name] = child
	}
	if _, err := dec.Token(); err != nil {
		return Node{}, err
	}
	return Dir(entries), nil
}

// MarshalYAML encodes directories as mappings and files as null.
func (n Node) MarshalYAML() (interface{}, error) {
	if !n.dir {
		return nil, nil
	}
	children := n.children
	if children == nil {
		children = map[string]Node{}
	}
	return children, nil
}

// UnmarshalYAML accepts the encoding produced by MarshalYAML.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	decoded, err := fromYAML("", value)
	if err != nil {
		return err
	}
	*n = decoded
	return nil
}

func fromYAML(p string, value *yaml.Node) (Node, error) {
	switch value.Kind {
	case yaml.DocumentNode:
		if len(value.Content) == 0 {
			return File(), nil
		}
		return fromYAML(p, value.Content[0])
	case yaml.AliasNode:
		return fromYAML(p, value.Alias)
	case yaml.ScalarNode:
		if value.ShortTag() == "!!null" {
			return File(), nil
		}
		return Node{}, fmt.Errorf("line %d: structure node %q must be a mapping or null, got %q", value.Line, p, value.Value)
	case yaml.MappingNode:
		entries := make(Entries, len(value.Content)/2)
		for i := 0; i+1 < len(value.Content); i += 2 {
			name := value.Content[i].Value
			childPath := name
			if p != "" {
				childPath = p + "/" + name
			}
			child, err := fromYAML(childPath, value.Content[i+1])
			if err != nil {
				return Node{}, err
			}
			if existing, ok := entries[name]; ok {
				if existing.dir != child.dir {
					return Node{}, &AmbiguityError{Path: childPath}
				}
				return Node{}, fmt.Errorf("line %d: duplicate entry %q", value.Content[i].Line, childPath)
			}
			entries[name] = child
		}
		return Dir(entries), nil
	default:
		return Node{}, fmt.Errorf("line %d: structure node %q must be a mapping or null", value.Line, p)
	}
}

func truncate(b []byte) string {
	const max = 32
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
