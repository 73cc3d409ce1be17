package httpuri

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/eluv-io/errors-go"
)

// Scheme is a URI scheme: a letter followed by letters, digits, "+", "-" or
// ".". Schemes are case-insensitive and canonicalized to lowercase on
// parsing.
type Scheme string

const (
	HTTP  Scheme = "http"
	HTTPS Scheme = "https"
)

// ParseScheme parses a scheme from its string representation.
func ParseScheme(s string) (Scheme, error) {
	e := errors.Template("parse scheme", errors.K.Invalid, "scheme", s)
	if len(s) == 0 {
		return "", e("reason", "empty scheme")
	}
	var lower []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			if lower == nil {
				lower = []byte(s)
			}
			lower[i] = c | 0x20
			continue
		}
		switch {
		case c >= 'a' && c <= 'z':
		case i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return "", e("reason", "invalid character", "offset", i)
		}
	}
	if lower != nil {
		return Scheme(lower), nil
	}
	return Scheme(s), nil
}

// MustParseScheme parses the given scheme, panicking in case of errors.
func MustParseScheme(s string) Scheme {
	sc, err := ParseScheme(s)
	if err != nil {
		panic(err)
	}
	return sc
}

func (s Scheme) String() string {
	return string(s)
}

func (s Scheme) IsValid() bool {
	parsed, err := ParseScheme(string(s))
	return err == nil && parsed == s
}

// MarshalText implements custom marshaling using the string representation.
func (s Scheme) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

// UnmarshalText implements custom unmarshaling from the string representation.
func (s *Scheme) UnmarshalText(text []byte) error {
	parsed, err := ParseScheme(string(text))
	if err != nil {
		return errors.E("unmarshal scheme", err)
	}
	*s = parsed
	return nil
}

func (s Scheme) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(string(s))
}

func (s *Scheme) UnmarshalCBOR(data []byte) error {
	str, err := cborString(data, "unmarshal scheme")
	if err != nil {
		return err
	}
	return s.UnmarshalText([]byte(str))
}

func (s Scheme) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(string(s))
}

func (s *Scheme) DecodeMsgpack(dec *msgpack.Decoder) error {
	str, err := msgpackString(dec, "unmarshal scheme")
	if err != nil {
		return err
	}
	return s.UnmarshalText([]byte(str))
}

func (s Scheme) MarshalYAML() (interface{}, error) {
	return string(s), nil
}

func (s *Scheme) UnmarshalYAML(node *yaml.Node) error {
	str, err := yamlString(node, "unmarshal scheme")
	if err != nil {
		return err
	}
	return s.UnmarshalText([]byte(str))
}
