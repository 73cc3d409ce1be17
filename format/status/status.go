package status

import (
	"net/http"
	"strconv"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/eluv-io/errors-go"
)

// Code is an HTTP response status code in the range 100-999. It is carried as
// a plain integer in all wire formats.
type Code int

// FromInt validates the given integer as a status code.
func FromInt(i int) (Code, error) {
	if i < 100 || i > 999 {
		return 0, errors.E("parse status code", errors.K.Invalid,
			"reason", "out of range",
			"code", i)
	}
	return Code(i), nil
}

// FromString parses a status code from its decimal string representation.
func FromString(s string) (Code, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.E("parse status code", errors.K.Invalid, err, "code", s)
	}
	return FromInt(i)
}

// MustParse validates the given integer as a status code, panicking in case
// of errors.
func MustParse(i int) Code {
	c, err := FromInt(i)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Code) Int() int {
	return int(c)
}

func (c Code) String() string {
	return strconv.Itoa(int(c))
}

// Text returns the registered reason phrase for the code, or the empty string
// if the code is unknown.
func (c Code) Text() string {
	return http.StatusText(int(c))
}

func (c Code) IsValid() bool {
	return c >= 100 && c <= 999
}

// Informational reports whether the code is in the 1xx class.
func (c Code) Informational() bool { return c >= 100 && c < 200 }

// Success reports whether the code is in the 2xx class.
func (c Code) Success() bool { return c >= 200 && c < 300 }

// Redirection reports whether the code is in the 3xx class.
func (c Code) Redirection() bool { return c >= 300 && c < 400 }

// ClientError reports whether the code is in the 4xx class.
func (c Code) ClientError() bool { return c >= 400 && c < 500 }

// ServerError reports whether the code is in the 5xx class.
func (c Code) ServerError() bool { return c >= 500 && c < 600 }

// MarshalJSON encodes the code as a JSON number.
func (c Code) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(c))), nil
}

// UnmarshalJSON decodes the code from a JSON number.
func (c *Code) UnmarshalJSON(data []byte) error {
	i, err := strconv.Atoi(string(data))
	if err != nil {
		return errors.E("unmarshal status code", errors.K.Invalid, err)
	}
	parsed, err := FromInt(i)
	if err != nil {
		return errors.E("unmarshal status code", err)
	}
	*c = parsed
	return nil
}

func (c Code) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(int(c))
}

func (c *Code) UnmarshalCBOR(data []byte) error {
	var i int
	if err := cbor.Unmarshal(data, &i); err != nil {
		return errors.E("unmarshal status code", errors.K.Invalid, err)
	}
	parsed, err := FromInt(i)
	if err != nil {
		return errors.E("unmarshal status code", err)
	}
	*c = parsed
	return nil
}

func (c Code) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeInt(int64(c))
}

func (c *Code) DecodeMsgpack(dec *msgpack.Decoder) error {
	i, err := dec.DecodeInt()
	if err != nil {
		return errors.E("unmarshal status code", errors.K.Invalid, err)
	}
	parsed, err := FromInt(i)
	if err != nil {
		return errors.E("unmarshal status code", err)
	}
	*c = parsed
	return nil
}

func (c Code) MarshalYAML() (interface{}, error) {
	return int(c), nil
}

func (c *Code) UnmarshalYAML(node *yaml.Node) error {
	var i int
	if err := node.Decode(&i); err != nil {
		return errors.E("unmarshal status code", errors.K.Invalid, err)
	}
	parsed, err := FromInt(i)
	if err != nil {
		return errors.E("unmarshal status code", err)
	}
	*c = parsed
	return nil
}
