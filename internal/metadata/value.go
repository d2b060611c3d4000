package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}

// Value is one metadata value. Lists and maps hold further values. A Value is
// never modified after construction; accessors return copies.
type Value struct {
	kind Kind
	str  string
	num  int64
	flt  float64
	bln  bool
	list []Value
	m    map[string]Value
}

func String(s string) Value { return Value{kind: KindString, str: s} }
func Int(i int64) Value { return Value{kind: KindInt, num: i} }
func Float(f float64) Value { return Value{kind: KindFloat, flt: f} }
func Bool(b bool) Value { return Value{kind: KindBool, bln: b} }
func List(items ...Value) Value { return Value{kind: KindList, list: append([]Value{}, items...)} }

// Strings returns a list of string values.
func Strings(items ...string) Value {
	list := make([]Value, len(items))
	for i, s := range items {
		list[i] = String(s)
	}
	return Value{kind: KindList, list: list}
}

// Map returns a nested map value. The fields are copied.
func Map(fields Fields) Value {
	m := make(map[string]Value, len(fields))
	for k, v := range fields {
		m[k] = v
	}
	return Value{kind: KindMap, m: m}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }
func (v Value) AsInt() (int64, bool) { return v.num, v.kind == KindInt }
func (v Value) AsFloat() (float64, bool) { return v.flt, v.kind == KindFloat }
func (v Value) AsBool() (bool, bool) { return v.bln, v.kind == KindBool }

// AsList returns a copy of the list items.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return append([]Value{}, v.list...), true
}

// AsMap returns a copy of the map fields.
func (v Value) AsMap() (Fields, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	out := make(Fields, len(v.m))
	for k, item := range v.m {
		out[k] = item
	}
	return out, true
}

// AsStrings returns the items of a list made only of strings.
func (v Value) AsStrings() ([]string, bool) {
	if v.kind != KindList {
		return nil, false
	}
	out := make([]string, 0, len(v.list))
	for _, item := range v.list {
		s, ok := item.AsString()
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// Equal reports deep equality.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindInt:
		return v.num == other.num
	case KindFloat:
		return v.flt == other.flt
	case KindBool:
		return v.bln == other.bln
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(other.m) {
			return false
		}
		for k, item := range v.m {
			o, ok := other.m[k]
			if !ok || !item.Equal(o) {
				return false
			}
		}
		return true
	}
	return true
}

// extends reports whether v only adds to base: lists keep base as a prefix,
// maps keep every base key extended, scalars are equal.
func (v Value) extends(base Value) bool {
	if v.kind != base.kind {
		return false
	}
	switch v.kind {
	case KindList:
		if len(v.list) < len(base.list) {
			return false
		}
		for i := range base.list {
			if !v.list[i].Equal(base.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		for k, item := range base.m {
			o, ok := v.m[k]
			if !ok || !o.extends(item) {
				return false
			}
		}
		return true
	default:
		return v.Equal(base)
	}
}

func extendValue(key string, base, add Value) (Value, error) {
	if base.kind != add.kind {
		return Value{}, &ConflictError{Key: key, Reason: fmt.Sprintf("cannot replace %s with %s", base.kind, add.kind)}
	}
	switch base.kind {
	case KindList:
		list := make([]Value, 0, len(base.list)+len(add.list))
		list = append(list, base.list...)
		list = append(list, add.list...)
		return Value{kind: KindList, list: list}, nil
	case KindMap:
		merged, err := extendFields(key+".", base.m, add.m)
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindMap, m: merged}, nil
	default:
		if !base.Equal(add) {
			return Value{}, &ConflictError{Key: key, Reason: "existing value cannot be replaced"}
		}
		return base, nil
	}
}

func extendFields(prefix string, base, add map[string]Value) (map[string]Value, error) {
	out := make(map[string]Value, len(base)+len(add))
	for k, v := range base {
		out[k] = v
	}
	for _, k := range sortedKeys(add) {
		existing, ok := out[k]
		if !ok {
			out[k] = add[k]
			continue
		}
		merged, err := extendValue(prefix+k, existing, add[k])
		if err != nil {
			return nil, err
		}
		out[k] = merged
	}
	return out, nil
}

// Interface returns v as plain Go values: string, int64, float64, bool,
// []interface{} and map[string]interface{}.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.num
	case KindFloat:
		return v.flt
	case KindBool:
		return v.bln
	case KindList:
		out := make([]interface{}, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]interface{}, len(v.m))
		for k, item := range v.m {
			out[k] = item.Interface()
		}
		return out
	}
	return nil
}

// FromInterface converts decoded JSON/YAML data into a Value.
func FromInterface(in interface{}) (Value, error) {
	switch x := in.(type) {
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return Float(float64(x)), nil
		}
		return Int(int64(x)), nil
	case float64:
		return Float(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", x, err)
		}
		return Float(f), nil
	case []interface{}:
		list := make([]Value, len(x))
		for i, item := range x {
			v, err := FromInterface(item)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			list[i] = v
		}
		return Value{kind: KindList, list: list}, nil
	case map[string]interface{}:
		m := make(map[string]Value, len(x))
		for k, item := range x {
			v, err := FromInterface(item)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", k, err)
			}
			m[k] = v
		}
		return Value{kind: KindMap, m: m}, nil
	case nil:
		return Value{}, fmt.Errorf("null is not a metadata value")
	default:
		return Value{}, fmt.Errorf("unsupported metadata value of type %T", in)
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindInvalid {
		return nil, fmt.Errorf("cannot encode an invalid metadata value")
	}
	return json.Marshal(v.Interface())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	decoded, err := FromInterface(raw)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

func (v Value) MarshalYAML() (interface{}, error) {
	if v.kind == KindInvalid {
		return nil, fmt.Errorf("cannot encode an invalid metadata value")
	}
	return v.Interface(), nil
}

func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
