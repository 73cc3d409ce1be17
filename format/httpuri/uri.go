// Package httpuri provides the URI-related wire types of an HTTP request
// target: the full URI, and its scheme, authority and path-and-query
// components. All of them are carried as plain strings in every wire format.
package httpuri

import (
	"net/url"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/eluv-io/errors-go"
)

// URI is a request target. Besides absolute URIs it accepts the alternate
// request-target forms of RFC 9112: origin-form ("/path?query"),
// authority-form ("example.com:443") and asterisk-form ("*").
//
// The original string is retained, so a parsed URI formats back to its exact
// input.
type URI struct {
	raw string
	url *url.URL
}

// FromString parses a URI from its string representation.
func FromString(s string) (URI, error) {
	e := errors.Template("parse uri", errors.K.Invalid, "uri", s)
	if s == "" {
		return URI{}, e("reason", "empty uri")
	}
	u, err := url.Parse(s)
	if err != nil {
		return URI{}, e(err)
	}
	return URI{raw: s, url: u}, nil
}

// MustParse parses the given URI string, panicking in case of errors.
func MustParse(s string) URI {
	u, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return u
}

func (u URI) String() string {
	return u.raw
}

func (u URI) IsNil() bool {
	return u.url == nil
}

// URL returns the parsed form of the URI. Returns nil for the zero value.
func (u URI) URL() *url.URL {
	return u.url
}

func (u URI) Equal(other URI) bool {
	return u.raw == other.raw
}

// MarshalText implements custom marshaling using the string representation.
func (u URI) MarshalText() ([]byte, error) {
	return []byte(u.raw), nil
}

// UnmarshalText implements custom unmarshaling from the string representation.
func (u *URI) UnmarshalText(text []byte) error {
	parsed, err := FromString(string(text))
	if err != nil {
		return errors.E("unmarshal uri", err)
	}
	*u = parsed
	return nil
}

func (u URI) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(u.raw)
}

func (u *URI) UnmarshalCBOR(data []byte) error {
	s, err := cborString(data, "unmarshal uri")
	if err != nil {
		return err
	}
	return u.UnmarshalText([]byte(s))
}

func (u URI) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(u.raw)
}

func (u *URI) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := msgpackString(dec, "unmarshal uri")
	if err != nil {
		return err
	}
	return u.UnmarshalText([]byte(s))
}

func (u URI) MarshalYAML() (interface{}, error) {
	return u.raw, nil
}

func (u *URI) UnmarshalYAML(node *yaml.Node) error {
	s, err := yamlString(node, "unmarshal uri")
	if err != nil {
		return err
	}
	return u.UnmarshalText([]byte(s))
}

// cborString decodes a CBOR text string, used by all types of this package.
func cborString(data []byte, op string) (string, error) {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return "", errors.E(op, errors.K.Invalid, err)
	}
	return s, nil
}

func msgpackString(dec *msgpack.Decoder, op string) (string, error) {
	s, err := dec.DecodeString()
	if err != nil {
		return "", errors.E(op, errors.K.Invalid, err)
	}
	return s, nil
}

func yamlString(node *yaml.Node, op string) (string, error) {
	var s string
	if err := node.Decode(&s); err != nil {
		return "", errors.E(op, errors.K.Invalid, err)
	}
	return s, nil
}
