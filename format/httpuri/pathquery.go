package httpuri

import (
	"net/url"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/eluv-io/errors-go"
)

// PathAndQuery is the path component of a URI with its optional query:
// "/path/segment?key=value". The asterisk-form "*" and the empty string are
// accepted as well.
type PathAndQuery string

// ParsePathAndQuery parses a path-and-query from its string representation.
func ParsePathAndQuery(s string) (PathAndQuery, error) {
	e := errors.Template("parse path and query", errors.K.Invalid, "path", s)
	if s == "" || s == "*" {
		return PathAndQuery(s), nil
	}
	if s[0] != '/' {
		return "", e("reason", "path must start with '/'")
	}
	if strings.ContainsRune(s, '#') {
		return "", e("reason", "fragment not allowed")
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", e(err)
	}
	if u.Scheme != "" || u.Host != "" || u.User != nil {
		return "", e("reason", "not a path")
	}
	return PathAndQuery(s), nil
}

// MustParsePathAndQuery parses the given path-and-query, panicking in case of
// errors.
func MustParsePathAndQuery(s string) PathAndQuery {
	p, err := ParsePathAndQuery(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p PathAndQuery) String() string {
	return string(p)
}

func (p PathAndQuery) IsValid() bool {
	_, err := ParsePathAndQuery(string(p))
	return err == nil
}

// Path returns the path without the query.
func (p PathAndQuery) Path() string {
	if i := strings.IndexByte(string(p), '?'); i >= 0 {
		return string(p[:i])
	}
	return string(p)
}

// Query returns the raw query without the leading '?', or the empty string if
// absent.
func (p PathAndQuery) Query() string {
	if i := strings.IndexByte(string(p), '?'); i >= 0 {
		return string(p[i+1:])
	}
	return ""
}

// MarshalText implements custom marshaling using the string representation.
func (p PathAndQuery) MarshalText() ([]byte, error) {
	return []byte(p), nil
}

// UnmarshalText implements custom unmarshaling from the string representation.
func (p *PathAndQuery) UnmarshalText(text []byte) error {
	parsed, err := ParsePathAndQuery(string(text))
	if err != nil {
		return errors.E("unmarshal path and query", err)
	}
	*p = parsed
	return nil
}

func (p PathAndQuery) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(string(p))
}

func (p *PathAndQuery) UnmarshalCBOR(data []byte) error {
	s, err := cborString(data, "unmarshal path and query")
	if err != nil {
		return err
	}
	return p.UnmarshalText([]byte(s))
}

func (p PathAndQuery) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(string(p))
}

func (p *PathAndQuery) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := msgpackString(dec, "unmarshal path and query")
	if err != nil {
		return err
	}
	return p.UnmarshalText([]byte(s))
}

func (p PathAndQuery) MarshalYAML() (interface{}, error) {
	return string(p), nil
}

func (p *PathAndQuery) UnmarshalYAML(node *yaml.Node) error {
	s, err := yamlString(node, "unmarshal path and query")
	if err != nil {
		return err
	}
	return p.UnmarshalText([]byte(s))
}
