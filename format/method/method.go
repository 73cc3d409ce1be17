package method

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/eluv-io/errors-go"
)

// Method is an HTTP request method. Methods are case-sensitive tokens; the
// registered methods are all uppercase, but extension methods with other
// casings are accepted.
type Method string

// Registered methods per RFC 9110 and RFC 5789.
const (
	Get     Method = "GET"
	Head    Method = "HEAD"
	Post    Method = "POST"
	Put     Method = "PUT"
	Delete  Method = "DELETE"
	Connect Method = "CONNECT"
	Options Method = "OPTIONS"
	Trace   Method = "TRACE"
	Patch   Method = "PATCH"
)

// FromString parses a method from its string representation.
func FromString(s string) (Method, error) {
	e := errors.Template("parse method", errors.K.Invalid, "method", s)
	if len(s) == 0 {
		return "", e("reason", "empty method")
	}
	for i := 0; i < len(s); i++ {
		if !isTokenChar(s[i]) {
			return "", e("reason", "invalid character", "offset", i)
		}
	}
	return Method(s), nil
}

// MustParse parses the given method, panicking in case of errors.
func MustParse(s string) Method {
	m, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

func isTokenChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z',
		c >= 'A' && c <= 'Z',
		c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	}
	return false
}

func (m Method) String() string {
	return string(m)
}

func (m Method) IsValid() bool {
	_, err := FromString(string(m))
	return err == nil
}

// MarshalText implements custom marshaling using the string representation.
func (m Method) MarshalText() ([]byte, error) {
	return []byte(m), nil
}

// UnmarshalText implements custom unmarshaling from the string representation.
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := FromString(string(text))
	if err != nil {
		return errors.E("unmarshal method", err)
	}
	*m = parsed
	return nil
}

func (m Method) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(string(m))
}

func (m *Method) UnmarshalCBOR(data []byte) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return errors.E("unmarshal method", errors.K.Invalid, err)
	}
	return m.UnmarshalText([]byte(s))
}

func (m Method) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(string(m))
}

func (m *Method) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := dec.DecodeString()
	if err != nil {
		return errors.E("unmarshal method", errors.K.Invalid, err)
	}
	return m.UnmarshalText([]byte(s))
}

func (m Method) MarshalYAML() (interface{}, error) {
	return string(m), nil
}

func (m *Method) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return errors.E("unmarshal method", errors.K.Invalid, err)
	}
	return m.UnmarshalText([]byte(s))
}
