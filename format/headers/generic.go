package headers

import (
	"bytes"
	"encoding/json"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/httpfmt-go/format/name"
)

// MapOf is a header map whose values are an arbitrary serializable type T
// instead of header values. It applies the same encode and decode policy as
// Map: name order and value order are preserved, single values encode bare in
// textual formats and as one-element sequences in binary formats, and on
// decode the first top-level occurrence of a name wins.
//
// T is serialized with the host format's native marshaling, so the scalar
// probe of the textual decode misbehaves if T is itself a slice type.
type MapOf[T any] struct {
	index  map[name.Name]int
	groups []groupOf[T]
}

type groupOf[T any] struct {
	name   name.Name
	values []T
}

// NewOf creates an empty generic header map.
func NewOf[T any]() *MapOf[T] {
	return &MapOf[T]{}
}

// Add appends a value to the group of the given name, creating the group at
// the end of the map if the name is not yet present.
func (m *MapOf[T]) Add(n name.Name, v T) {
	n = n.Canonical()
	if i, ok := m.index[n]; ok {
		m.groups[i].values = append(m.groups[i].values, v)
		return
	}
	m.insert(n, []T{v})
}

// Set replaces the group of the given name with the single given value,
// creating the group at the end of the map if the name is not yet present.
func (m *MapOf[T]) Set(n name.Name, v T) {
	n = n.Canonical()
	if i, ok := m.index[n]; ok {
		m.groups[i].values = []T{v}
		return
	}
	m.insert(n, []T{v})
}

func (m *MapOf[T]) insert(n name.Name, vals []T) {
	if m.index == nil {
		m.index = make(map[name.Name]int)
	}
	m.index[n] = len(m.groups)
	m.groups = append(m.groups, groupOf[T]{name: n, values: vals})
}

func (m *MapOf[T]) setIfAbsent(n name.Name, vals []T) {
	if len(vals) == 0 {
		return
	}
	if _, ok := m.index[n]; ok {
		return
	}
	m.insert(n, vals)
}

// Get returns the first value of the given name.
func (m *MapOf[T]) Get(n name.Name) (T, bool) {
	if i, ok := m.index[n.Canonical()]; ok {
		return m.groups[i].values[0], true
	}
	var zero T
	return zero, false
}

// Values returns the values of the given name in append order. The returned
// slice is owned by the map and must not be modified.
func (m *MapOf[T]) Values(n name.Name) []T {
	if i, ok := m.index[n.Canonical()]; ok {
		return m.groups[i].values
	}
	return nil
}

// Has reports whether the map contains the given name.
func (m *MapOf[T]) Has(n name.Name) bool {
	_, ok := m.index[n.Canonical()]
	return ok
}

// Del removes the given name and all its values.
func (m *MapOf[T]) Del(n name.Name) {
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
func (m *MapOf[T]) Names() []name.Name {
	names := make([]name.Name, len(m.groups))
	for i, g := range m.groups {
		names[i] = g.name
	}
	return names
}

// Len returns the number of distinct names.
func (m *MapOf[T]) Len() int {
	return len(m.groups)
}

// Range calls fn for each (name, values) group in map order until fn returns
// false.
func (m *MapOf[T]) Range(fn func(n name.Name, values []T) bool) {
	for _, g := range m.groups {
		if !fn(g.name, g.values) {
			return
		}
	}
}

// MarshalJSON encodes the map as a JSON object in map order, serializing
// values with encoding/json.
func (m *MapOf[T]) MarshalJSON() ([]byte, error) {
	e := errors.Template("marshal generic headers", errors.K.Invalid)
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range m.groups {
		if len(g.values) == 0 {
			return nil, errEmptyGroup("marshal generic headers", g.name)
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, g.name.String()); err != nil {
			return nil, e(err, "name", g.name)
		}
		buf.WriteByte(':')
		var payload interface{} = g.values
		if len(g.values) == 1 {
			payload = g.values[0]
		}
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, e(err, "name", g.name)
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the map from a JSON object whose entry payloads are a
// bare T or an array of T.
func (m *MapOf[T]) UnmarshalJSON(data []byte) error {
	e := errors.Template("unmarshal generic headers", errors.K.Invalid)
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return e(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return e("reason", "not a map", "token", tok)
	}

	decoded := NewOf[T]()
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return e(err)
		}
		key, _ := tok.(string)
		n, err := name.FromString(key)
		if err != nil {
			return e(err, "reason", "invalid name")
		}

		var raw json.RawMessage
		if err = dec.Decode(&raw); err != nil {
			return e(err, "name", n)
		}
		var vals []T
		if len(raw) > 0 && raw[0] == '[' {
			if err = json.Unmarshal(raw, &vals); err != nil {
				return e(err, "reason", "invalid value", "name", n)
			}
		} else {
			var v T
			if err = json.Unmarshal(raw, &v); err != nil {
				return e(err, "reason", "invalid value", "name", n)
			}
			vals = []T{v}
		}
		decoded.setIfAbsent(n, vals)
	}
	if _, err = dec.Token(); err != nil {
		return e(err)
	}

	*m = *decoded
	return nil
}

// MarshalCBOR encodes the map as a definite-length CBOR map in map order with
// every value group encoded as an array.
func (m *MapOf[T]) MarshalCBOR() ([]byte, error) {
	e := errors.Template("marshal generic headers", errors.K.Invalid)
	var buf bytes.Buffer
	writeCborHead(&buf, cborMajorMap, uint64(len(m.groups)))
	for _, g := range m.groups {
		if len(g.values) == 0 {
			return nil, errEmptyGroup("marshal generic headers", g.name)
		}
		kb, err := cbor.Marshal(g.name.String())
		if err != nil {
			return nil, e(err, "name", g.name)
		}
		buf.Write(kb)
		writeCborHead(&buf, cborMajorArray, uint64(len(g.values)))
		for _, v := range g.values {
			vb, err := cbor.Marshal(v)
			if err != nil {
				return nil, e(err, "name", g.name)
			}
			buf.Write(vb)
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalCBOR decodes the map from a definite-length CBOR map whose entry
// payloads are arrays of T.
func (m *MapOf[T]) UnmarshalCBOR(data []byte) error {
	e := errors.Template("unmarshal generic headers", errors.K.Invalid)
	n, rest, err := readCborMapHead(data)
	if err != nil {
		return e(err)
	}
	dec := cbor.NewDecoder(bytes.NewReader(rest))

	decoded := NewOf[T]()
	for i := uint64(0); i < n; i++ {
		var key string
		if err = dec.Decode(&key); err != nil {
			return e(err, "reason", "invalid name")
		}
		nm, err := name.FromString(key)
		if err != nil {
			return e(err, "reason", "invalid name")
		}

		var raw cbor.RawMessage
		if err = dec.Decode(&raw); err != nil {
			return e(err, "name", nm)
		}
		if len(raw) == 0 || raw[0]>>5 != cborMajorArray {
			return e("reason", "not a sequence", "name", nm)
		}
		var vals []T
		if err = cbor.Unmarshal(raw, &vals); err != nil {
			return e(err, "reason", "invalid value", "name", nm)
		}
		decoded.setIfAbsent(nm, vals)
	}

	*m = *decoded
	return nil
}

var (
	_ msgpack.CustomEncoder = (*MapOf[int])(nil)
	_ msgpack.CustomDecoder = (*MapOf[int])(nil)
)

// EncodeMsgpack encodes the map as a msgpack map in map order with every
// value group encoded as an array.
func (m *MapOf[T]) EncodeMsgpack(enc *msgpack.Encoder) error {
	e := errors.Template("marshal generic headers", errors.K.Invalid)
	if err := enc.EncodeMapLen(len(m.groups)); err != nil {
		return e(err)
	}
	for _, g := range m.groups {
		if len(g.values) == 0 {
			return errEmptyGroup("marshal generic headers", g.name)
		}
		if err := enc.EncodeString(g.name.String()); err != nil {
			return e(err, "name", g.name)
		}
		if err := enc.EncodeArrayLen(len(g.values)); err != nil {
			return e(err, "name", g.name)
		}
		for _, v := range g.values {
			if err := enc.Encode(v); err != nil {
				return e(err, "name", g.name)
			}
		}
	}
	return nil
}

// DecodeMsgpack decodes the map from a msgpack map whose entry payloads are
// arrays of T.
func (m *MapOf[T]) DecodeMsgpack(dec *msgpack.Decoder) error {
	e := errors.Template("unmarshal generic headers", errors.K.Invalid)
	code, err := dec.PeekCode()
	if err != nil {
		return e(err)
	}
	if !msgpackIsMap(code) {
		return e("reason", "not a map", "code", code)
	}
	n, err := dec.DecodeMapLen()
	if err != nil {
		return e(err)
	}

	decoded := NewOf[T]()
	for i := 0; i < n; i++ {
		key, err := dec.DecodeString()
		if err != nil {
			return e(err, "reason", "invalid name")
		}
		nm, err := name.FromString(key)
		if err != nil {
			return e(err, "reason", "invalid name")
		}

		code, err = dec.PeekCode()
		if err != nil {
			return e(err, "name", nm)
		}
		if !msgpackIsArray(code) {
			return e("reason", "not a sequence", "name", nm)
		}
		ln, err := dec.DecodeArrayLen()
		if err != nil {
			return e(err, "name", nm)
		}
		vals := make([]T, 0, ln)
		for j := 0; j < ln; j++ {
			var v T
			if err = dec.Decode(&v); err != nil {
				return e(err, "reason", "invalid value", "name", nm)
			}
			vals = append(vals, v)
		}
		decoded.setIfAbsent(nm, vals)
	}

	*m = *decoded
	return nil
}

// MarshalYAML encodes the map as a YAML mapping in map order with the same
// scalar-or-sequence policy as Map.
func (m *MapOf[T]) MarshalYAML() (interface{}, error) {
	e := errors.Template("marshal generic headers", errors.K.Invalid)
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, g := range m.groups {
		if len(g.values) == 0 {
			return nil, errEmptyGroup("marshal generic headers", g.name)
		}
		node.Content = append(node.Content, yamlScalar(g.name.String()))
		if len(g.values) == 1 {
			vn := &yaml.Node{}
			if err := vn.Encode(g.values[0]); err != nil {
				return nil, e(err, "name", g.name)
			}
			node.Content = append(node.Content, vn)
			continue
		}
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, v := range g.values {
			vn := &yaml.Node{}
			if err := vn.Encode(v); err != nil {
				return nil, e(err, "name", g.name)
			}
			seq.Content = append(seq.Content, vn)
		}
		node.Content = append(node.Content, seq)
	}
	return node, nil
}

// UnmarshalYAML decodes the map from a YAML mapping whose entry payloads are
// a bare T or a sequence of T.
func (m *MapOf[T]) UnmarshalYAML(node *yaml.Node) error {
	e := errors.Template("unmarshal generic headers", errors.K.Invalid)
	node = yamlResolve(node)
	if node.Kind != yaml.MappingNode {
		return e("reason", "not a map", "kind", node.Kind)
	}

	decoded := NewOf[T]()
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := yamlResolve(node.Content[i])
		valNode := yamlResolve(node.Content[i+1])

		nm, err := name.FromString(keyNode.Value)
		if err != nil {
			return e(err, "reason", "invalid name")
		}

		var vals []T
		if valNode.Kind == yaml.SequenceNode {
			if err = valNode.Decode(&vals); err != nil {
				return e(err, "reason", "invalid value", "name", nm)
			}
		} else {
			var v T
			if err = valNode.Decode(&v); err != nil {
				return e(err, "reason", "invalid value", "name", nm)
			}
			vals = []T{v}
		}
		decoded.setIfAbsent(nm, vals)
	}

	*m = *decoded
	return nil
}
