// Package request provides the request head+body composite: the request
// line fields, the header map and a caller-defined body type, serialized as
// one associative structure in all supported formats.
package request

import (
	"encoding/json"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/httpfmt-go/format/headers"
	"github.com/eluv-io/httpfmt-go/format/httpuri"
	"github.com/eluv-io/httpfmt-go/format/method"
	"github.com/eluv-io/httpfmt-go/format/version"
)

// Request is an HTTP request with a body of type T. Extensions is an
// in-process side channel that is never serialized: encoding a request with
// non-empty extensions fails, since the data would be lost silently
// otherwise.
type Request[T any] struct {
	Method     method.Method
	URI        httpuri.URI
	Headers    *headers.Map
	Version    version.Version
	Body       T
	Extensions map[string]interface{}
}

// New creates a request with the given method, target and body, an empty
// header map, and version HTTP/1.1.
func New[T any](m method.Method, uri httpuri.URI, body T) *Request[T] {
	return &Request[T]{
		Method:  m,
		URI:     uri,
		Headers: headers.New(),
		Version: version.HTTP11,
		Body:    body,
	}
}

// head is the request's wire shape. The required fields are pointers so that
// decoding can distinguish an absent field from a zero value.
type head[T any] struct {
	Method  *method.Method   `json:"method" cbor:"method" msgpack:"method" yaml:"method"`
	URI     *httpuri.URI     `json:"uri" cbor:"uri" msgpack:"uri" yaml:"uri"`
	Headers *headers.Map     `json:"headers" cbor:"headers" msgpack:"headers" yaml:"headers"`
	Version *version.Version `json:"version" cbor:"version" msgpack:"version" yaml:"version"`
	Body    T                `json:"body" cbor:"body" msgpack:"body" yaml:"body"`
}

func (r *Request[T]) toHead() (*head[T], error) {
	if len(r.Extensions) > 0 {
		return nil, errors.E("marshal request", errors.K.Invalid,
			"reason", "non-empty extensions")
	}
	hdrs := r.Headers
	if hdrs == nil {
		hdrs = headers.New()
	}
	return &head[T]{
		Method:  &r.Method,
		URI:     &r.URI,
		Headers: hdrs,
		Version: &r.Version,
		Body:    r.Body,
	}, nil
}

func (r *Request[T]) fromHead(h *head[T]) error {
	e := errors.Template("unmarshal request", errors.K.Invalid)
	switch {
	case h.Method == nil:
		return e("reason", "missing field", "field", "method")
	case h.URI == nil:
		return e("reason", "missing field", "field", "uri")
	case h.Headers == nil:
		return e("reason", "missing field", "field", "headers")
	case h.Version == nil:
		return e("reason", "missing field", "field", "version")
	}
	r.Method = *h.Method
	r.URI = *h.URI
	r.Headers = h.Headers
	r.Version = *h.Version
	r.Body = h.Body
	r.Extensions = nil
	return nil
}

func (r *Request[T]) MarshalJSON() ([]byte, error) {
	h, err := r.toHead()
	if err != nil {
		return nil, err
	}
	return json.Marshal(h)
}

func (r *Request[T]) UnmarshalJSON(data []byte) error {
	var h head[T]
	if err := json.Unmarshal(data, &h); err != nil {
		return errors.E("unmarshal request", errors.K.Invalid, err)
	}
	return r.fromHead(&h)
}

func (r *Request[T]) MarshalCBOR() ([]byte, error) {
	h, err := r.toHead()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(h)
}

func (r *Request[T]) UnmarshalCBOR(data []byte) error {
	var h head[T]
	if err := cbor.Unmarshal(data, &h); err != nil {
		return errors.E("unmarshal request", errors.K.Invalid, err)
	}
	return r.fromHead(&h)
}

func (r *Request[T]) EncodeMsgpack(enc *msgpack.Encoder) error {
	h, err := r.toHead()
	if err != nil {
		return err
	}
	return enc.Encode(h)
}

func (r *Request[T]) DecodeMsgpack(dec *msgpack.Decoder) error {
	var h head[T]
	if err := dec.Decode(&h); err != nil {
		return errors.E("unmarshal request", errors.K.Invalid, err)
	}
	return r.fromHead(&h)
}

func (r *Request[T]) MarshalYAML() (interface{}, error) {
	return r.toHead()
}

func (r *Request[T]) UnmarshalYAML(node *yaml.Node) error {
	var h head[T]
	if err := node.Decode(&h); err != nil {
		return errors.E("unmarshal request", errors.K.Invalid, err)
	}
	return r.fromHead(&h)
}
