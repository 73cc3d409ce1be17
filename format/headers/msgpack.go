package headers

import (
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/httpfmt-go/format/name"
	"github.com/eluv-io/httpfmt-go/format/value"
)

var (
	_ msgpack.CustomEncoder = (*Map)(nil)
	_ msgpack.CustomDecoder = (*Map)(nil)
)

// EncodeMsgpack encodes the map as a msgpack map in map order. As with CBOR,
// every value group encodes as an array regardless of cardinality.
func (m *Map) EncodeMsgpack(enc *msgpack.Encoder) error {
	e := errors.Template("marshal headers", errors.K.Invalid)
	if err := enc.EncodeMapLen(len(m.groups)); err != nil {
		return e(err)
	}
	for _, g := range m.groups {
		if len(g.values) == 0 {
			return errEmptyGroup("marshal headers", g.name)
		}
		if err := enc.EncodeString(g.name.String()); err != nil {
			return e(err, "name", g.name)
		}
		if err := enc.EncodeArrayLen(len(g.values)); err != nil {
			return e(err, "name", g.name)
		}
		for _, v := range g.values {
			if err := v.EncodeMsgpack(enc); err != nil {
				return e(err, "name", g.name)
			}
		}
	}
	return nil
}

// DecodeMsgpack decodes the map from a msgpack map whose entry payloads are
// arrays of values, preserving key order. If a name occurs twice, the first
// occurrence wins.
func (m *Map) DecodeMsgpack(dec *msgpack.Decoder) error {
	e := errors.Template("unmarshal headers", errors.K.Invalid)
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

	decoded := New()
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
		vals := make([]value.Value, 0, ln)
		for j := 0; j < ln; j++ {
			var v value.Value
			if err = v.DecodeMsgpack(dec); err != nil {
				return e(err, "reason", "invalid value", "name", nm)
			}
			vals = append(vals, v)
		}
		decoded.setIfAbsent(nm, vals)
	}

	*m = *decoded
	return nil
}

func msgpackIsMap(code byte) bool {
	return msgpcode.IsFixedMap(code) || code == msgpcode.Map16 || code == msgpcode.Map32
}

func msgpackIsArray(code byte) bool {
	return msgpcode.IsFixedArray(code) || code == msgpcode.Array16 || code == msgpcode.Array32
}
