package version

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/eluv-io/errors-go"
)

// Version is the HTTP protocol version. It is a closed enumeration carried as
// its conventional string form ("HTTP/1.1") in all wire formats.
type Version int

const (
	HTTP09 Version = iota // HTTP/0.9
	HTTP10                // HTTP/1.0
	HTTP11                // HTTP/1.1
	HTTP2                 // HTTP/2.0
	HTTP3                 // HTTP/3.0
)

var versionToString = map[Version]string{
	HTTP09: "HTTP/0.9",
	HTTP10: "HTTP/1.0",
	HTTP11: "HTTP/1.1",
	HTTP2:  "HTTP/2.0",
	HTTP3:  "HTTP/3.0",
}

var stringToVersion = map[string]Version{}

func init() {
	for v, s := range versionToString {
		stringToVersion[s] = v
	}
}

// FromString parses a version from its string representation.
func FromString(s string) (Version, error) {
	v, ok := stringToVersion[s]
	if !ok {
		return 0, errors.E("parse version", errors.K.Invalid,
			"reason", "unknown version",
			"version", s)
	}
	return v, nil
}

// MustParse parses the given version string, panicking in case of errors.
func MustParse(s string) Version {
	v, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) String() string {
	s, ok := versionToString[v]
	if !ok {
		return "HTTP/?"
	}
	return s
}

func (v Version) IsValid() bool {
	_, ok := versionToString[v]
	return ok
}

// MarshalText implements custom marshaling using the string representation.
func (v Version) MarshalText() ([]byte, error) {
	s, ok := versionToString[v]
	if !ok {
		return nil, errors.E("marshal version", errors.K.Invalid, "version", int(v))
	}
	return []byte(s), nil
}

// UnmarshalText implements custom unmarshaling from the string representation.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := FromString(string(text))
	if err != nil {
		return errors.E("unmarshal version", err)
	}
	*v = parsed
	return nil
}

func (v Version) MarshalCBOR() ([]byte, error) {
	b, err := v.MarshalText()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(string(b))
}

func (v *Version) UnmarshalCBOR(data []byte) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return errors.E("unmarshal version", errors.K.Invalid, err)
	}
	return v.UnmarshalText([]byte(s))
}

func (v Version) EncodeMsgpack(enc *msgpack.Encoder) error {
	b, err := v.MarshalText()
	if err != nil {
		return err
	}
	return enc.EncodeString(string(b))
}

func (v *Version) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := dec.DecodeString()
	if err != nil {
		return errors.E("unmarshal version", errors.K.Invalid, err)
	}
	return v.UnmarshalText([]byte(s))
}

func (v Version) MarshalYAML() (interface{}, error) {
	b, err := v.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (v *Version) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return errors.E("unmarshal version", errors.K.Invalid, err)
	}
	return v.UnmarshalText([]byte(s))
}
