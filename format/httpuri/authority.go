package httpuri

import (
	"net/url"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/eluv-io/errors-go"
)

// Authority is the authority component of a URI:
// [userinfo@]host[:port].
type Authority string

// ParseAuthority parses an authority from its string representation.
func ParseAuthority(s string) (Authority, error) {
	e := errors.Template("parse authority", errors.K.Invalid, "authority", s)
	if len(s) == 0 {
		return "", e("reason", "empty authority")
	}
	if strings.ContainsAny(s, "/?#") {
		return "", e("reason", "invalid character")
	}
	u, err := url.Parse("//" + s)
	if err != nil {
		return "", e(err)
	}
	// url.Parse is lenient; re-assembling the parts and comparing with the
	// input rejects anything that leaked into other URL components.
	rebuilt := u.Host
	if u.User != nil {
		rebuilt = u.User.String() + "@" + rebuilt
	}
	if u.Host == "" || rebuilt != s {
		return "", e("reason", "not an authority")
	}
	return Authority(s), nil
}

// MustParseAuthority parses the given authority, panicking in case of errors.
func MustParseAuthority(s string) Authority {
	a, err := ParseAuthority(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Authority) String() string {
	return string(a)
}

func (a Authority) IsValid() bool {
	_, err := ParseAuthority(string(a))
	return err == nil
}

// Host returns the host[:port] part of the authority.
func (a Authority) Host() string {
	if i := strings.LastIndexByte(string(a), '@'); i >= 0 {
		return string(a[i+1:])
	}
	return string(a)
}

// Port returns the port of the authority, or the empty string if absent.
func (a Authority) Port() string {
	host := a.Host()
	i := strings.LastIndexByte(host, ':')
	if i < 0 || strings.Contains(host[i+1:], "]") {
		return ""
	}
	return host[i+1:]
}

// MarshalText implements custom marshaling using the string representation.
func (a Authority) MarshalText() ([]byte, error) {
	return []byte(a), nil
}

// UnmarshalText implements custom unmarshaling from the string representation.
func (a *Authority) UnmarshalText(text []byte) error {
	parsed, err := ParseAuthority(string(text))
	if err != nil {
		return errors.E("unmarshal authority", err)
	}
	*a = parsed
	return nil
}

func (a Authority) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(string(a))
}

func (a *Authority) UnmarshalCBOR(data []byte) error {
	s, err := cborString(data, "unmarshal authority")
	if err != nil {
		return err
	}
	return a.UnmarshalText([]byte(s))
}

func (a Authority) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(string(a))
}

func (a *Authority) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := msgpackString(dec, "unmarshal authority")
	if err != nil {
		return err
	}
	return a.UnmarshalText([]byte(s))
}

func (a Authority) MarshalYAML() (interface{}, error) {
	return string(a), nil
}

func (a *Authority) UnmarshalYAML(node *yaml.Node) error {
	s, err := yamlString(node, "unmarshal authority")
	if err != nil {
		return err
	}
	return a.UnmarshalText([]byte(s))
}
