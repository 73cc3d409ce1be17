package value

import (
	"bytes"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
	"gopkg.in/yaml.v3"

	"github.com/eluv-io/errors-go"
)

// Value is a header field value: an opaque byte string restricted to the
// bytes allowed in an HTTP field value (horizontal tab and 0x20-0xff except
// DEL).
//
// Values are carried as strings in self-describing textual formats and as raw
// byte strings in binary formats. A value that contains non-printable bytes
// (anything outside tab and 0x20-0x7e) cannot be represented in a textual
// format and fails to encode there.
type Value []byte

// FromString parses a header value from its string representation.
func FromString(s string) (Value, error) {
	return FromBytes([]byte(s))
}

// FromBytes parses a header value from raw bytes.
func FromBytes(b []byte) (Value, error) {
	if i := invalidIndex(b); i >= 0 {
		return nil, errors.E("parse header value", errors.K.Invalid,
			"reason", "invalid byte",
			"offset", i,
			"byte", b[i])
	}
	v := make(Value, len(b))
	copy(v, b)
	return v, nil
}

// MustParse parses the given header value, panicking in case of errors.
func MustParse(s string) Value {
	v, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// invalidIndex returns the index of the first byte not allowed in a header
// value, or -1 if all bytes are valid.
func invalidIndex(b []byte) int {
	for i, c := range b {
		if (c < 0x20 && c != '\t') || c == 0x7f {
			return i
		}
	}
	return -1
}

func (v Value) String() string {
	return string(v)
}

func (v Value) Bytes() []byte {
	return v
}

// IsText reports whether the value consists only of printable ASCII bytes
// (plus tab) and can therefore be carried as a string in textual formats.
func (v Value) IsText() bool {
	for _, c := range v {
		if c > 0x7e || (c < 0x20 && c != '\t') {
			return false
		}
	}
	return true
}

// IsValid returns true if all bytes of the value are allowed in a header
// value.
func (v Value) IsValid() bool {
	return invalidIndex(v) < 0
}

func (v Value) Equal(other Value) bool {
	return bytes.Equal(v, other)
}

// MarshalText implements custom marshaling using the string representation.
// It fails for values containing non-printable bytes.
func (v Value) MarshalText() ([]byte, error) {
	if !v.IsText() {
		return nil, errors.E("marshal header value", errors.K.Invalid,
			"reason", "value is not printable text")
	}
	return []byte(v), nil
}

// UnmarshalText implements custom unmarshaling from the string
// representation.
func (v *Value) UnmarshalText(text []byte) error {
	parsed, err := FromBytes(text)
	if err != nil {
		return errors.E("unmarshal header value", err)
	}
	*v = parsed
	return nil
}

// MarshalCBOR encodes the value as a CBOR byte string.
func (v Value) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal([]byte(v))
}

// UnmarshalCBOR decodes the value from a CBOR byte string. Text strings
// written by other producers are accepted as well.
func (v *Value) UnmarshalCBOR(data []byte) error {
	e := errors.Template("unmarshal header value", errors.K.Invalid)
	if len(data) == 0 {
		return e("reason", "empty input")
	}
	switch data[0] >> 5 {
	case 2: // byte string
		var b []byte
		if err := cbor.Unmarshal(data, &b); err != nil {
			return e(err)
		}
		return v.UnmarshalText(b)
	case 3: // text string
		var s string
		if err := cbor.Unmarshal(data, &s); err != nil {
			return e(err)
		}
		return v.UnmarshalText([]byte(s))
	}
	return e("reason", "expected string", "type", data[0]>>5)
}

// EncodeMsgpack encodes the value as msgpack bin data.
func (v Value) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeBytes(v)
}

// DecodeMsgpack decodes the value from msgpack bin data or a msgpack string.
func (v *Value) DecodeMsgpack(dec *msgpack.Decoder) error {
	e := errors.Template("unmarshal header value", errors.K.Invalid)
	code, err := dec.PeekCode()
	if err != nil {
		return e(err)
	}
	var b []byte
	switch {
	case msgpcode.IsBin(code):
		b, err = dec.DecodeBytes()
	case msgpcode.IsString(code):
		var s string
		s, err = dec.DecodeString()
		b = []byte(s)
	default:
		return e("reason", "expected string", "code", code)
	}
	if err != nil {
		return e(err)
	}
	return v.UnmarshalText(b)
}

// MarshalYAML encodes the value as a YAML string. It fails for values
// containing non-printable bytes.
func (v Value) MarshalYAML() (interface{}, error) {
	b, err := v.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// UnmarshalYAML decodes the value from a YAML string.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return errors.E("unmarshal header value", errors.K.Invalid, err)
	}
	return v.UnmarshalText([]byte(s))
}
