// Package response provides the response head+body composite, the response
// counterpart of package request.
package response

import (
	"encoding/json"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/httpfmt-go/format/headers"
	"github.com/eluv-io/httpfmt-go/format/status"
	"github.com/eluv-io/httpfmt-go/format/version"
)

// Response is an HTTP response with a body of type T. Extensions is an
// in-process side channel that is never serialized: encoding a response with
// non-empty extensions fails.
type Response[T any] struct {
	Status     status.Code
	Headers    *headers.Map
	Version    version.Version
	Body       T
	Extensions map[string]interface{}
}

// New creates a response with the given status and body, an empty header map,
// and version HTTP/1.1.
func New[T any](code status.Code, body T) *Response[T] {
	return &Response[T]{
		Status:  code,
		Headers: headers.New(),
		Version: version.HTTP11,
		Body:    body,
	}
}

// head is the response's wire shape. The required fields are pointers so that
// decoding can distinguish an absent field from a zero value.
type head[T any] struct {
	Status  *status.Code     `json:"status" cbor:"status" msgpack:"status" yaml:"status"`
	Headers *headers.Map     `json:"headers" cbor:"headers" msgpack:"headers" yaml:"headers"`
	Version *version.Version `json:"version" cbor:"version" msgpack:"version" yaml:"version"`
	Body    T                `json:"body" cbor:"body" msgpack:"body" yaml:"body"`
}

func (r *Response[T]) toHead() (*head[T], error) {
	if len(r.Extensions) > 0 {
		return nil, errors.E("marshal response", errors.K.Invalid,
			"reason", "non-empty extensions")
	}
	hdrs := r.Headers
	if hdrs == nil {
		hdrs = headers.New()
	}
	return &head[T]{
		Status:  &r.Status,
		Headers: hdrs,
		Version: &r.Version,
		Body:    r.Body,
	}, nil
}

func (r *Response[T]) fromHead(h *head[T]) error {
	e := errors.Template("unmarshal response", errors.K.Invalid)
	switch {
	case h.Status == nil:
		return e("reason", "missing field", "field", "status")
	case h.Headers == nil:
		return e("reason", "missing field", "field", "headers")
	case h.Version == nil:
		return e("reason", "missing field", "field", "version")
	}
	r.Status = *h.Status
	r.Headers = h.Headers
	r.Version = *h.Version
	r.Body = h.Body
	r.Extensions = nil
	return nil
}

func (r *Response[T]) MarshalJSON() ([]byte, error) {
	h, err := r.toHead()
	if err != nil {
		return nil, err
	}
	return json.Marshal(h)
}

func (r *Response[T]) UnmarshalJSON(data []byte) error {
	var h head[T]
	if err := json.Unmarshal(data, &h); err != nil {
		return errors.E("unmarshal response", errors.K.Invalid, err)
	}
	return r.fromHead(&h)
}

func (r *Response[T]) MarshalCBOR() ([]byte, error) {
	h, err := r.toHead()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(h)
}

func (r *Response[T]) UnmarshalCBOR(data []byte) error {
	var h head[T]
	if err := cbor.Unmarshal(data, &h); err != nil {
		return errors.E("unmarshal response", errors.K.Invalid, err)
	}
	return r.fromHead(&h)
}

func (r *Response[T]) EncodeMsgpack(enc *msgpack.Encoder) error {
	h, err := r.toHead()
	if err != nil {
		return err
	}
	return enc.Encode(h)
}

func (r *Response[T]) DecodeMsgpack(dec *msgpack.Decoder) error {
	var h head[T]
	if err := dec.Decode(&h); err != nil {
		return errors.E("unmarshal response", errors.K.Invalid, err)
	}
	return r.fromHead(&h)
}

func (r *Response[T]) MarshalYAML() (interface{}, error) {
	return r.toHead()
}

func (r *Response[T]) UnmarshalYAML(node *yaml.Node) error {
	var h head[T]
	if err := node.Decode(&h); err != nil {
		return errors.E("unmarshal response", errors.K.Invalid, err)
	}
	return r.fromHead(&h)
}
