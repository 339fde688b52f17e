// Package spec defines the chart specification value type.
//
// A specification is a tree of nested mappings and sequences of
// primitive values (strings, numbers, booleans, nulls) describing a
// declarative chart. vegadoc never interprets its content (marks,
// scales and data are opaque); it only carries the tree from snippet
// evaluation to serialization.
//
// Values are represented as a tagged type rather than interface{}
// maps so that serialization stays exact and round-trippable: object
// keys are emitted in sorted order, numbers keep their JSON form, and
// equality is structural.
//
// Values are immutable once constructed. The accessors return copies
// or read-only views; mutating a slice or map passed to a constructor
// after the fact is a caller bug.
package spec

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

// Value kinds, mirroring the JSON data model.
const (
	Null Kind = iota
	Bool
	Number
	String
	List
	Object
)

// String returns the kind name for error messages.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case List:
		return "list"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is one node of a specification tree.
// The zero Value is the null value.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	list []Value
	obj  map[string]Value
}

// NullVal returns the null value.
func NullVal() Value { return Value{} }

// BoolVal returns a boolean value.
func BoolVal(b bool) Value { return Value{kind: Bool, b: b} }

// NumberVal returns a numeric value.
func NumberVal(n float64) Value { return Value{kind: Number, n: n} }

// StringVal returns a string value.
func StringVal(s string) Value { return Value{kind: String, s: s} }

// ListVal returns a sequence value holding the given elements.
func ListVal(elems []Value) Value {
	list := make([]Value, len(elems))
	copy(list, elems)
	return Value{kind: List, list: list}
}

// ObjectVal returns a mapping value holding the given fields.
func ObjectVal(fields map[string]Value) Value {
	obj := make(map[string]Value, len(fields))
	for k, v := range fields {
		obj[k] = v
	}
	return Value{kind: Object, obj: obj}
}

// Kind returns the variant tag of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == Null }

// Bool returns the boolean payload. Valid only for Bool values.
func (v Value) Bool() bool { return v.b }

// Number returns the numeric payload. Valid only for Number values.
func (v Value) Number() float64 { return v.n }

// Str returns the string payload. Valid only for String values.
func (v Value) Str() string { return v.s }

// Len returns the number of elements (List) or fields (Object).
func (v Value) Len() int {
	switch v.kind {
	case List:
		return len(v.list)
	case Object:
		return len(v.obj)
	default:
		return 0
	}
}

// Index returns the i-th element of a List value.
func (v Value) Index(i int) Value { return v.list[i] }

// Field returns the named field of an Object value.
// The second result reports whether the field exists.
func (v Value) Field(name string) (Value, bool) {
	val, ok := v.obj[name]
	return val, ok
}

// Keys returns the field names of an Object value in sorted order.
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.obj))
	for k := range v.obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports structural equality between two values.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Bool:
		return v.b == o.b
	case Number:
		return v.n == o.n
	case String:
		return v.s == o.s
	case List:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(v.obj) != len(o.obj) {
			return false
		}
		for k, val := range v.obj {
			other, ok := o.obj[k]
			if !ok || !val.Equal(other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// MarshalJSON serializes the value with object keys in sorted order.
func (v Value) MarshalJSON() ([]byte, error) {
	var sb strings.Builder
	if err := v.appendJSON(&sb, "", ""); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// MarshalIndent serializes the value as pretty-printed JSON using the
// given indent string, with object keys in sorted order.
func (v Value) MarshalIndent(indent string) ([]byte, error) {
	var sb strings.Builder
	if err := v.appendJSON(&sb, "", indent); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// appendJSON writes the JSON form of v to sb. prefix is the current
// indentation; indent is the per-level indent ("" means compact).
func (v Value) appendJSON(sb *strings.Builder, prefix, indent string) error {
	switch v.kind {
	case Null:
		sb.WriteString("null")
	case Bool:
		if v.b {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case Number:
		data, err := json.Marshal(v.n)
		if err != nil {
			return err
		}
		sb.Write(data)
	case String:
		data, err := json.Marshal(v.s)
		if err != nil {
			return err
		}
		sb.Write(data)
	case List:
		if len(v.list) == 0 {
			sb.WriteString("[]")
			return nil
		}
		inner := prefix + indent
		sb.WriteByte('[')
		for i, elem := range v.list {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeNewline(sb, inner, indent)
			if err := elem.appendJSON(sb, inner, indent); err != nil {
				return err
			}
		}
		writeNewline(sb, prefix, indent)
		sb.WriteByte(']')
	case Object:
		if len(v.obj) == 0 {
			sb.WriteString("{}")
			return nil
		}
		inner := prefix + indent
		sb.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeNewline(sb, inner, indent)
			key, err := json.Marshal(k)
			if err != nil {
				return err
			}
			sb.Write(key)
			sb.WriteByte(':')
			if indent != "" {
				sb.WriteByte(' ')
			}
			if err := v.obj[k].appendJSON(sb, inner, indent); err != nil {
				return err
			}
		}
		writeNewline(sb, prefix, indent)
		sb.WriteByte('}')
	default:
		return fmt.Errorf("unknown value kind %d", int(v.kind))
	}
	return nil
}

func writeNewline(sb *strings.Builder, prefix, indent string) {
	if indent == "" {
		return
	}
	sb.WriteByte('\n')
	sb.WriteString(prefix)
}
