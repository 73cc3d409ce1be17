package headers

import (
	"bytes"
	"encoding/binary"

	"github.com/fxamacker/cbor/v2"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/httpfmt-go/format/name"
	"github.com/eluv-io/httpfmt-go/format/value"
)

// CBOR major types used for the map framing.
const (
	cborMajorArray = 4
	cborMajorMap   = 5
)

// MarshalCBOR encodes the map as a definite-length CBOR map in map order.
// Every value group encodes as an array, including single-value groups: CBOR
// is decoded here without shape probing, so the encoder commits to one shape
// independent of cardinality.
func (m *Map) MarshalCBOR() ([]byte, error) {
	e := errors.Template("marshal headers", errors.K.Invalid)
	var buf bytes.Buffer
	writeCborHead(&buf, cborMajorMap, uint64(len(m.groups)))
	for _, g := range m.groups {
		if len(g.values) == 0 {
			return nil, errEmptyGroup("marshal headers", g.name)
		}
		kb, err := cbor.Marshal(g.name.String())
		if err != nil {
			return nil, e(err, "name", g.name)
		}
		buf.Write(kb)
		writeCborHead(&buf, cborMajorArray, uint64(len(g.values)))
		for _, v := range g.values {
			vb, err := v.MarshalCBOR()
			if err != nil {
				return nil, e(err, "name", g.name)
			}
			buf.Write(vb)
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalCBOR decodes the map from a definite-length CBOR map whose entry
// payloads are arrays of values. The map's key order is preserved. If a name
// occurs twice, the first occurrence wins.
func (m *Map) UnmarshalCBOR(data []byte) error {
	e := errors.Template("unmarshal headers", errors.K.Invalid)
	n, rest, err := readCborMapHead(data)
	if err != nil {
		return e(err)
	}
	dec := cbor.NewDecoder(bytes.NewReader(rest))

	decoded := New()
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
		var vals []value.Value
		if err = cbor.Unmarshal(raw, &vals); err != nil {
			return e(err, "reason", "invalid value", "name", nm)
		}
		decoded.setIfAbsent(nm, vals)
	}

	*m = *decoded
	return nil
}

// writeCborHead writes the initial bytes of a CBOR item of the given major
// type with the given length, using the shortest form.
func writeCborHead(buf *bytes.Buffer, major byte, n uint64) {
	switch {
	case n < 24:
		buf.WriteByte(major<<5 | byte(n))
	case n <= 0xff:
		buf.WriteByte(major<<5 | 24)
		buf.WriteByte(byte(n))
	case n <= 0xffff:
		buf.WriteByte(major<<5 | 25)
		_ = binary.Write(buf, binary.BigEndian, uint16(n))
	case n <= 0xffffffff:
		buf.WriteByte(major<<5 | 26)
		_ = binary.Write(buf, binary.BigEndian, uint32(n))
	default:
		buf.WriteByte(major<<5 | 27)
		_ = binary.Write(buf, binary.BigEndian, n)
	}
}

// readCborMapHead validates that data starts a definite-length CBOR map and
// returns the number of entries and the remaining bytes.
func readCborMapHead(data []byte) (n uint64, rest []byte, err error) {
	e := errors.Template("read map head", errors.K.Invalid)
	if len(data) == 0 {
		return 0, nil, e("reason", "empty input")
	}
	if data[0]>>5 != cborMajorMap {
		return 0, nil, e("reason", "not a map", "type", data[0]>>5)
	}
	info := data[0] & 0x1f
	switch {
	case info < 24:
		return uint64(info), data[1:], nil
	case info == 24, info == 25, info == 26, info == 27:
		size := 1 << (info - 24)
		if len(data) < 1+size {
			return 0, nil, e("reason", "truncated map head")
		}
		n = 0
		for _, b := range data[1 : 1+size] {
			n = n<<8 | uint64(b)
		}
		return n, data[1+size:], nil
	case info == 31:
		return 0, nil, e("reason", "indefinite-length map not supported")
	}
	return 0, nil, e("reason", "invalid map head", "info", info)
}
