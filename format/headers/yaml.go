package headers

import (
	"gopkg.in/yaml.v3"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/httpfmt-go/format/name"
	"github.com/eluv-io/httpfmt-go/format/value"
)

// MarshalYAML encodes the map as a YAML mapping in map order. Like JSON, a
// single-value group encodes to a bare scalar and a multi-value group to a
// sequence.
func (m *Map) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, g := range m.groups {
		if len(g.values) == 0 {
			return nil, errEmptyGroup("marshal headers", g.name)
		}
		node.Content = append(node.Content, yamlScalar(g.name.String()))
		if len(g.values) == 1 {
			vn, err := yamlValue(g.values[0], g.name)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, vn)
			continue
		}
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, v := range g.values {
			vn, err := yamlValue(v, g.name)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, vn)
		}
		node.Content = append(node.Content, seq)
	}
	return node, nil
}

func yamlScalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func yamlValue(v value.Value, n name.Name) (*yaml.Node, error) {
	text, err := v.MarshalText()
	if err != nil {
		return nil, errors.E("marshal headers", errors.K.Invalid, err, "name", n)
	}
	return yamlScalar(string(text)), nil
}

// UnmarshalYAML decodes the map from a YAML mapping whose entry payloads are
// scalars or sequences, preserving key order. If a name occurs twice, the
// first occurrence wins.
func (m *Map) UnmarshalYAML(node *yaml.Node) error {
	e := errors.Template("unmarshal headers", errors.K.Invalid)
	node = yamlResolve(node)
	if node.Kind != yaml.MappingNode {
		return e("reason", "not a map", "kind", node.Kind)
	}

	decoded := New()
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := yamlResolve(node.Content[i])
		valNode := yamlResolve(node.Content[i+1])

		nm, err := name.FromString(keyNode.Value)
		if err != nil {
			return e(err, "reason", "invalid name")
		}

		var vals []value.Value
		switch valNode.Kind {
		case yaml.ScalarNode:
			v, err := yamlDecodeValue(valNode)
			if err != nil {
				return e(err, "name", nm)
			}
			vals = []value.Value{v}
		case yaml.SequenceNode:
			vals = make([]value.Value, 0, len(valNode.Content))
			for _, c := range valNode.Content {
				v, err := yamlDecodeValue(yamlResolve(c))
				if err != nil {
					return e(err, "name", nm)
				}
				vals = append(vals, v)
			}
		default:
			return e("reason", "not a sequence", "name", nm, "kind", valNode.Kind)
		}
		decoded.setIfAbsent(nm, vals)
	}

	*m = *decoded
	return nil
}

func yamlDecodeValue(node *yaml.Node) (value.Value, error) {
	var v value.Value
	if err := v.UnmarshalYAML(node); err != nil {
		return nil, errors.E("unmarshal headers", errors.K.Invalid, err,
			"reason", "invalid value")
	}
	return v, nil
}

// yamlResolve follows alias nodes to their anchor.
func yamlResolve(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}
