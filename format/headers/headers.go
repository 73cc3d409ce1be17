// Package headers provides Map, an ordered, multi-valued collection of HTTP
// header fields, and its encoding to self-describing textual formats (JSON,
// YAML) and binary formats (CBOR, msgpack).
//
// A name may carry one or more values. Values under the same name keep append
// order, and distinct names keep the order of their first insertion. Names
// are case-insensitive and canonicalized to lowercase.
//
// The wire shape is an associative structure of name to value-or-sequence. In
// textual formats a name with a single value encodes to a bare scalar, since
// the decoder can distinguish a scalar from a sequence by inspection. Binary
// formats offer no such probe, so there a single value always encodes as a
// one-element sequence, keeping the shape fixed regardless of cardinality. A
// name with two or more values encodes as a sequence everywhere.
//
// When a decoded payload contains the same name twice at the top level, the
// first occurrence wins and later occurrences are dropped without error.
package headers

import (
	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/httpfmt-go/format/name"
	"github.com/eluv-io/httpfmt-go/format/value"
)

// Map is an ordered, multi-valued header collection. The zero value is an
// empty map ready for use.
type Map struct {
	index  map[name.Name]int
	groups []group
}

type group struct {
	name   name.Name
	values []value.Value
}

// New creates an empty header map.
func New() *Map {
	return &Map{}
}

// Add appends a value to the group of the given name, creating the group at
// the end of the map if the name is not yet present.
func (m *Map) Add(n name.Name, v value.Value) {
	n = n.Canonical()
	if i, ok := m.index[n]; ok {
		m.groups[i].values = append(m.groups[i].values, v)
		return
	}
	m.insert(n, []value.Value{v})
}

// Set replaces the group of the given name with the single given value,
// creating the group at the end of the map if the name is not yet present.
func (m *Map) Set(n name.Name, v value.Value) {
	m.SetValues(n, v)
}

// SetValues replaces the group of the given name with the given values. An
// empty values list removes the name, like Del.
func (m *Map) SetValues(n name.Name, values ...value.Value) {
	n = n.Canonical()
	if len(values) == 0 {
		m.Del(n)
		return
	}
	vals := make([]value.Value, len(values))
	copy(vals, values)
	if i, ok := m.index[n]; ok {
		m.groups[i].values = vals
		return
	}
	m.insert(n, vals)
}

func (m *Map) insert(n name.Name, vals []value.Value) {
	if m.index == nil {
		m.index = make(map[name.Name]int)
	}
	m.index[n] = len(m.groups)
	m.groups = append(m.groups, group{name: n, values: vals})
}

// setIfAbsent inserts the given group if the name is not yet present and
// otherwise discards it. Used on decode: the first top-level occurrence of a
// name wins.
func (m *Map) setIfAbsent(n name.Name, vals []value.Value) {
	if len(vals) == 0 {
		return
	}
	if _, ok := m.index[n]; ok {
		return
	}
	m.insert(n, vals)
}

// Get returns the first value of the given name.
func (m *Map) Get(n name.Name) (value.Value, bool) {
	if i, ok := m.index[n.Canonical()]; ok {
		return m.groups[i].values[0], true
	}
	return nil, false
}

// Values returns the values of the given name in append order. The returned
// slice is owned by the map and must not be modified.
func (m *Map) Values(n name.Name) []value.Value {
	if i, ok := m.index[n.Canonical()]; ok {
		return m.groups[i].values
	}
	return nil
}

// Has reports whether the map contains the given name.
func (m *Map) Has(n name.Name) bool {
	_, ok := m.index[n.Canonical()]
	return ok
}

// Del removes the given name and all its values.
func (m *Map) Del(n name.Name) {
	n = n.Canonical()
	i, ok := m.index[n]
	if !ok {
		return
	}
	m.groups = append(m.groups[:i], m.groups[i+1:]...)
	delete(m.index, n)
	for j := i; j < len(m.groups); j++ {
		m.index[m.groups[j].name] = j
	}
}

// Names returns the distinct names in first-insertion order.
func (m *Map) Names() []name.Name {
	names := make([]name.Name, len(m.groups))
	for i, g := range m.groups {
		names[i] = g.name
	}
	return names
}

// Len returns the number of distinct names.
func (m *Map) Len() int {
	return len(m.groups)
}

// ValueCount returns the total number of values across all names.
func (m *Map) ValueCount() int {
	n := 0
	for _, g := range m.groups {
		n += len(g.values)
	}
	return n
}

// Range calls fn for each (name, values) group in map order until fn returns
// false.
func (m *Map) Range(fn func(n name.Name, values []value.Value) bool) {
	for _, g := range m.groups {
		if !fn(g.name, g.values) {
			return
		}
	}
}

// Equal reports whether both maps contain the same names in the same order
// with equal values in the same order.
func (m *Map) Equal(other *Map) bool {
	if m.Len() != other.Len() {
		return false
	}
	for i, g := range m.groups {
		o := other.groups[i]
		if g.name != o.name || len(g.values) != len(o.values) {
			return false
		}
		for j, v := range g.values {
			if !v.Equal(o.values[j]) {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy of the map.
func (m *Map) Clone() *Map {
	clone := New()
	for _, g := range m.groups {
		clone.insert(g.name, append([]value.Value(nil), g.values...))
	}
	return clone
}

// errEmptyGroup is the encode error for a name carrying no values. This state
// cannot be reached through the Map API, but a map assembled by a misbehaving
// caller must fail encode rather than silently drop the name.
func errEmptyGroup(op string, n name.Name) error {
	return errors.E(op, errors.K.Invalid,
		"reason", "empty value group",
		"name", n)
}
