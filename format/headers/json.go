package headers

import (
	"bytes"
	"encoding/json"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/httpfmt-go/format/name"
	"github.com/eluv-io/httpfmt-go/format/value"
)

// MarshalJSON encodes the map as a JSON object in map order. A name with a
// single value encodes to a bare string, a name with multiple values to an
// array of strings.
func (m *Map) MarshalJSON() ([]byte, error) {
	e := errors.Template("marshal headers", errors.K.Invalid)
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range m.groups {
		if len(g.values) == 0 {
			return nil, errEmptyGroup("marshal headers", g.name)
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, g.name.String()); err != nil {
			return nil, e(err, "name", g.name)
		}
		buf.WriteByte(':')
		if len(g.values) == 1 {
			if err := writeJSONValue(&buf, g.values[0]); err != nil {
				return nil, e(err, "name", g.name)
			}
			continue
		}
		buf.WriteByte('[')
		for j, v := range g.values {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONValue(&buf, v); err != nil {
				return nil, e(err, "name", g.name)
			}
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func writeJSONValue(buf *bytes.Buffer, v value.Value) error {
	text, err := v.MarshalText()
	if err != nil {
		return err
	}
	return writeJSONString(buf, string(text))
}

// UnmarshalJSON decodes the map from a JSON object. Each entry's payload may
// be a bare string or an array of strings; the object's key order becomes the
// map order. If a name occurs twice in the object, the first occurrence wins.
func (m *Map) UnmarshalJSON(data []byte) error {
	e := errors.Template("unmarshal headers", errors.K.Invalid)
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return e(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return e("reason", "not a map", "token", tok)
	}

	decoded := New()
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
		vals, err := jsonValues(raw)
		if err != nil {
			return e(err, "name", n)
		}
		decoded.setIfAbsent(n, vals)
	}
	if _, err = dec.Token(); err != nil {
		return e(err)
	}

	*m = *decoded
	return nil
}

// jsonValues decodes an entry payload that is either a bare string or an
// array of strings.
func jsonValues(raw json.RawMessage) ([]value.Value, error) {
	if bytes.Equal(raw, []byte("null")) {
		return nil, errors.E("unmarshal headers", errors.K.Invalid,
			"reason", "invalid value",
			"value", "null")
	}
	if len(raw) > 0 && raw[0] == '[' {
		var vals []value.Value
		if err := json.Unmarshal(raw, &vals); err != nil {
			return nil, errors.E("unmarshal headers", errors.K.Invalid, err,
				"reason", "invalid value")
		}
		// a null element leaves a nil value without invoking UnmarshalText
		for _, v := range vals {
			if v == nil {
				return nil, errors.E("unmarshal headers", errors.K.Invalid,
					"reason", "invalid value",
					"value", "null")
			}
		}
		return vals, nil
	}
	var v value.Value
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errors.E("unmarshal headers", errors.K.Invalid, err,
			"reason", "invalid value")
	}
	return []value.Value{v}, nil
}
