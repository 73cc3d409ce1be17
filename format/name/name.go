package name

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/eluv-io/errors-go"
)

// Name is a header field name. Valid names consist of token characters as
// defined by RFC 9110 section 5.1. Names are case-insensitive, and parsing
// canonicalizes them to lowercase, so two Names created through FromString can
// be compared with ==.
type Name string

// tchar is the set of characters allowed in a header field name.
var tchar = [128]bool{}

func init() {
	for _, c := range "!#$%&'*+-.^_`|~" {
		tchar[c] = true
	}
	for c := '0'; c <= '9'; c++ {
		tchar[c] = true
	}
	for c := 'a'; c <= 'z'; c++ {
		tchar[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		tchar[c] = true
	}
}

// FromString parses a header name from its string representation. The returned
// Name is canonicalized to lowercase.
func FromString(s string) (Name, error) {
	e := errors.Template("parse header name", errors.K.Invalid, "name", s)
	if len(s) == 0 {
		return "", e("reason", "empty name")
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
		if c >= 0x80 || !tchar[c] {
			return "", e("reason", "invalid character", "offset", i)
		}
	}
	if lower != nil {
		return Name(lower), nil
	}
	return Name(s), nil
}

// MustParse parses the given header name, panicking in case of errors.
func MustParse(s string) Name {
	n, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return n
}

func (n Name) String() string {
	return string(n)
}

// IsValid returns true if the name is non-empty and in canonical (lowercase)
// form.
func (n Name) IsValid() bool {
	parsed, err := FromString(string(n))
	return err == nil && parsed == n
}

// Canonical returns the name converted to its canonical lowercase form. It
// does not validate the name - use FromString for untrusted input.
func (n Name) Canonical() Name {
	for i := 0; i < len(n); i++ {
		if c := n[i]; c >= 'A' && c <= 'Z' {
			lower := []byte(n)
			for ; i < len(lower); i++ {
				if c := lower[i]; c >= 'A' && c <= 'Z' {
					lower[i] = c | 0x20
				}
			}
			return Name(lower)
		}
	}
	return n
}

// MarshalText implements custom marshaling using the string representation.
func (n Name) MarshalText() ([]byte, error) {
	return []byte(n), nil
}

// UnmarshalText implements custom unmarshaling from the string representation.
func (n *Name) UnmarshalText(text []byte) error {
	parsed, err := FromString(string(text))
	if err != nil {
		return errors.E("unmarshal header name", err)
	}
	*n = parsed
	return nil
}

// MarshalCBOR encodes the name as a CBOR text string.
func (n Name) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(string(n))
}

// UnmarshalCBOR decodes the name from a CBOR text string.
func (n *Name) UnmarshalCBOR(data []byte) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return errors.E("unmarshal header name", errors.K.Invalid, err)
	}
	return n.UnmarshalText([]byte(s))
}

// EncodeMsgpack encodes the name as a msgpack string.
func (n Name) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(string(n))
}

// DecodeMsgpack decodes the name from a msgpack string.
func (n *Name) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := dec.DecodeString()
	if err != nil {
		return errors.E("unmarshal header name", errors.K.Invalid, err)
	}
	return n.UnmarshalText([]byte(s))
}

// MarshalYAML encodes the name as a YAML string.
func (n Name) MarshalYAML() (interface{}, error) {
	return string(n), nil
}

// UnmarshalYAML decodes the name from a YAML string.
func (n *Name) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return errors.E("unmarshal header name", errors.K.Invalid, err)
	}
	return n.UnmarshalText([]byte(s))
}
