package form

import (
	"bytes"
	"encoding/json"
	"net/url"
)

// Pair is a single named value of a FieldSet.
type Pair struct {
	Name  string
	Value string
}

// P is shorthand for Pair{Name: name, Value: value}.
func P(name, value string) Pair {
	return Pair{Name: name, Value: value}
}

// FieldSet is an ordered mapping from field name to string value.
// Insertion order is rendering order. The zero value is empty and ready to
// use.
type FieldSet struct {
	keys   []string
	values map[string]string
}

// NewFieldSet builds a FieldSet from pairs. A repeated name keeps its first
// position and takes the last value.
func NewFieldSet(pairs ...Pair) FieldSet {
	fs := FieldSet{values: make(map[string]string, len(pairs))}
	for _, p := range pairs {
		fs.Set(p.Name, p.Value)
	}
	return fs
}

// Keys returns the field names in insertion order.
func (fs FieldSet) Keys() []string {
	return append([]string(nil), fs.keys...)
}

// Len returns the number of fields.
func (fs FieldSet) Len() int {
	return len(fs.keys)
}

// Get returns the value of name, or "" when absent.
func (fs FieldSet) Get(name string) string {
	return fs.values[name]
}

// Has reports whether name is a field of the set.
func (fs FieldSet) Has(name string) bool {
	_, ok := fs.values[name]
	return ok
}

// Set upserts name. New names are appended after the existing ones.
func (fs *FieldSet) Set(name, value string) {
	if fs.values == nil {
		fs.values = make(map[string]string)
	}
	if _, ok := fs.values[name]; !ok {
		fs.keys = append(fs.keys, name)
	}
	fs.values[name] = value
}

// Clone returns an independent copy.
func (fs FieldSet) Clone() FieldSet {
	out := FieldSet{
		keys:   append([]string(nil), fs.keys...),
		values: make(map[string]string, len(fs.values)),
	}
	for k, v := range fs.values {
		out.values[k] = v
	}
	return out
}

// Map returns the values as a plain map.
func (fs FieldSet) Map() map[string]string {
	out := make(map[string]string, len(fs.values))
	for k, v := range fs.values {
		out[k] = v
	}
	return out
}

// Pairs returns the fields in order.
func (fs FieldSet) Pairs() []Pair {
	out := make([]Pair, 0, len(fs.keys))
	for _, k := range fs.keys {
		out = append(out, Pair{Name: k, Value: fs.values[k]})
	}
	return out
}

// Values encodes the set as url.Values.
func (fs FieldSet) Values() url.Values {
	out := make(url.Values, len(fs.keys))
	for _, k := range fs.keys {
		out.Set(k, fs.values[k])
	}
	return out
}

// Equal reports whether both sets hold the same names, order, and values.
func (fs FieldSet) Equal(other FieldSet) bool {
	if len(fs.keys) != len(other.keys) {
		return false
	}
	for i, k := range fs.keys {
		if other.keys[i] != k || other.values[k] != fs.values[k] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as a JSON object with keys in field order.
func (fs FieldSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range fs.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(fs.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
