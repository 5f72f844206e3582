package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Kind identifies which variant of Document is populated
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Category is the coarse runtime category used for type-compatibility checks.
// Lists and maps share the object category.
type Category string

const (
	CategoryNull    Category = "null"
	CategoryString  Category = "string"
	CategoryNumber  Category = "number"
	CategoryBoolean Category = "boolean"
	CategoryObject  Category = "object"
)

// Document is the recursively-typed value stored per setting key.
// The zero value is null. Documents are treated as immutable once built:
// accessors hand out copies of lists and maps.
type Document struct {
	kind Kind
	b    bool
	n    float64
	s    string
	list []Document
	m    map[string]Document
}

// Null returns the null document
func Null() Document { return Document{} }

// Bool wraps a boolean
func Bool(b bool) Document { return Document{kind: KindBool, b: b} }

// Number wraps a number
func Number(n float64) Document { return Document{kind: KindNumber, n: n} }

// Int wraps an integer as a number
func Int(n int) Document { return Number(float64(n)) }

// String wraps a string
func String(s string) Document { return Document{kind: KindString, s: s} }

// List builds a list document from items
func List(items ...Document) Document {
	list := make([]Document, len(items))
	copy(list, items)
	return Document{kind: KindList, list: list}
}

// Strings builds a list of string documents
func Strings(values ...string) Document {
	list := make([]Document, len(values))
	for i, v := range values {
		list[i] = String(v)
	}
	return Document{kind: KindList, list: list}
}

// Map builds a map document. The map is copied.
func Map(fields map[string]Document) Document {
	m := make(map[string]Document, len(fields))
	for k, v := range fields {
		m[k] = v
	}
	return Document{kind: KindMap, m: m}
}

// Object builds a map document from alternating key/value pairs.
// Panics on an odd argument count or a non-string key; intended for literals.
func Object(pairs ...any) Document {
	if len(pairs)%2 != 0 {
		panic("models.Object: odd number of arguments")
	}
	m := make(map[string]Document, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("models.Object: key at %d is %T, want string", i, pairs[i]))
		}
		value, err := FromAny(pairs[i+1])
		if err != nil {
			panic(fmt.Sprintf("models.Object: key %q: %v", key, err))
		}
		m[key] = value
	}
	return Document{kind: KindMap, m: m}
}

// finiteNumber rejects NaN and the infinities, which have no JSON form
func finiteNumber(f float64) (Document, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null(), fmt.Errorf("unsupported number %v: only finite numbers are allowed", f)
	}
	return Number(f), nil
}

// FromAny converts decoder output (encoding/json, yaml.v3, go-toml/v2) into a Document
func FromAny(v any) (Document, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case Document:
		return t, nil
	case *Document:
		if t == nil {
			return Null(), nil
		}
		return *t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Null(), fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return Number(f), nil
	case int:
		return Number(float64(t)), nil
	case int8:
		return Number(float64(t)), nil
	case int16:
		return Number(float64(t)), nil
	case int32:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint:
		return Number(float64(t)), nil
	case uint8:
		return Number(float64(t)), nil
	case uint16:
		return Number(float64(t)), nil
	case uint32:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case float32:
		return finiteNumber(float64(t))
	case float64:
		return finiteNumber(t)
	case time.Time:
		return String(t.Format(time.RFC3339)), nil
	case []string:
		return Strings(t...), nil
	case []any:
		list := make([]Document, 0, len(t))
		for i, item := range t {
			d, err := FromAny(item)
			if err != nil {
				return Null(), fmt.Errorf("[%d]: %w", i, err)
			}
			list = append(list, d)
		}
		return Document{kind: KindList, list: list}, nil
	case []map[string]any:
		list := make([]Document, 0, len(t))
		for i, item := range t {
			d, err := FromAny(item)
			if err != nil {
				return Null(), fmt.Errorf("[%d]: %w", i, err)
			}
			list = append(list, d)
		}
		return Document{kind: KindList, list: list}, nil
	case map[string]any:
		m := make(map[string]Document, len(t))
		for k, item := range t {
			d, err := FromAny(item)
			if err != nil {
				return Null(), fmt.Errorf("%s: %w", k, err)
			}
			m[k] = d
		}
		return Document{kind: KindMap, m: m}, nil
	case map[any]any:
		m := make(map[string]Document, len(t))
		for k, item := range t {
			key := fmt.Sprint(k)
			d, err := FromAny(item)
			if err != nil {
				return Null(), fmt.Errorf("%s: %w", key, err)
			}
			m[key] = d
		}
		return Document{kind: KindMap, m: m}, nil
	case map[string]Document:
		return Map(t), nil
	case []Document:
		return List(t...), nil
	case fmt.Stringer:
		// go-toml local dates/times and similar scalar wrappers
		return String(t.String()), nil
	default:
		return Null(), fmt.Errorf("unsupported value type %T", v)
	}
}

// ToAny converts the document into plain Go values for encoders.
// Integral numbers are returned as int64 so TOML output stays integral.
func (d Document) ToAny() any {
	switch d.kind {
	case KindBool:
		return d.b
	case KindNumber:
		if d.n == math.Trunc(d.n) && math.Abs(d.n) < 1<<53 {
			return int64(d.n)
		}
		return d.n
	case KindString:
		return d.s
	case KindList:
		out := make([]any, len(d.list))
		for i, item := range d.list {
			out[i] = item.ToAny()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(d.m))
		for k, v := range d.m {
			out[k] = v.ToAny()
		}
		return out
	default:
		return nil
	}
}

// Kind returns the populated variant
func (d Document) Kind() Kind { return d.kind }

// IsNull reports whether the document is null
func (d Document) IsNull() bool { return d.kind == KindNull }

// IsPrimitive reports whether the document is null, bool, number or string
func (d Document) IsPrimitive() bool { return d.kind != KindList && d.kind != KindMap }

// IsEmpty reports whether the document is null or the empty string
func (d Document) IsEmpty() bool {
	return d.kind == KindNull || (d.kind == KindString && d.s == "")
}

// IsFalsy reports null, false, zero and the empty string
func (d Document) IsFalsy() bool {
	switch d.kind {
	case KindNull:
		return true
	case KindBool:
		return !d.b
	case KindNumber:
		return d.n == 0 || math.IsNaN(d.n)
	case KindString:
		return d.s == ""
	default:
		return false
	}
}

// Category returns the coarse runtime category
func (d Document) Category() Category {
	switch d.kind {
	case KindBool:
		return CategoryBoolean
	case KindNumber:
		return CategoryNumber
	case KindString:
		return CategoryString
	case KindList, KindMap:
		return CategoryObject
	default:
		return CategoryNull
	}
}

// AsBool returns the boolean value and whether the document is a bool
func (d Document) AsBool() (bool, bool) { return d.b, d.kind == KindBool }

// AsNumber returns the numeric value and whether the document is a number
func (d Document) AsNumber() (float64, bool) { return d.n, d.kind == KindNumber }

// AsString returns the string value and whether the document is a string
func (d Document) AsString() (string, bool) { return d.s, d.kind == KindString }

// AsList returns a copy of the list items and whether the document is a list
func (d Document) AsList() ([]Document, bool) {
	if d.kind != KindList {
		return nil, false
	}
	out := make([]Document, len(d.list))
	copy(out, d.list)
	return out, true
}

// AsMap returns a copy of the map fields and whether the document is a map
func (d Document) AsMap() (map[string]Document, bool) {
	if d.kind != KindMap {
		return nil, false
	}
	out := make(map[string]Document, len(d.m))
	for k, v := range d.m {
		out[k] = v
	}
	return out, true
}

// Len returns the element count of a list, the field count of a map,
// the rune count of a string, and zero otherwise
func (d Document) Len() int {
	switch d.kind {
	case KindList:
		return len(d.list)
	case KindMap:
		return len(d.m)
	case KindString:
		return len([]rune(d.s))
	default:
		return 0
	}
}

// Index returns the list element at i
func (d Document) Index(i int) (Document, bool) {
	if d.kind != KindList || i < 0 || i >= len(d.list) {
		return Null(), false
	}
	return d.list[i], true
}

// Get returns the map field with the given key
func (d Document) Get(key string) (Document, bool) {
	if d.kind != KindMap {
		return Null(), false
	}
	v, ok := d.m[key]
	return v, ok
}

// Keys returns the map keys sorted ascending
func (d Document) Keys() []string {
	if d.kind != KindMap {
		return nil
	}
	keys := make([]string, 0, len(d.m))
	for k := range d.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports deep equality
func (d Document) Equal(other Document) bool {
	if d.kind != other.kind {
		return false
	}
	switch d.kind {
	case KindNull:
		return true
	case KindBool:
		return d.b == other.b
	case KindNumber:
		return d.n == other.n
	case KindString:
		return d.s == other.s
	case KindList:
		if len(d.list) != len(other.list) {
			return false
		}
		for i := range d.list {
			if !d.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(d.m) != len(other.m) {
			return false
		}
		for k, v := range d.m {
			ov, ok := other.m[k]
			if !ok || !v.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// Clone returns a deep copy
func (d Document) Clone() Document {
	switch d.kind {
	case KindList:
		list := make([]Document, len(d.list))
		for i, item := range d.list {
			list[i] = item.Clone()
		}
		return Document{kind: KindList, list: list}
	case KindMap:
		m := make(map[string]Document, len(d.m))
		for k, v := range d.m {
			m[k] = v.Clone()
		}
		return Document{kind: KindMap, m: m}
	default:
		return d
	}
}

// MarshalJSON encodes the document; map keys are emitted sorted
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.ToAny())
}

// UnmarshalJSON decodes any JSON value into the document
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML encodes the document through its plain Go form
func (d Document) MarshalYAML() (any, error) {
	return d.ToAny(), nil
}

// UnmarshalYAML decodes any YAML node into the document
func (d *Document) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// String renders the document as compact JSON
func (d Document) String() string {
	data, err := d.MarshalJSON()
	if err != nil {
		return "<" + d.kind.String() + ">"
	}
	return string(data)
}
