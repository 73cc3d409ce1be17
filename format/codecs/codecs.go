package codecs

import (
	"bytes"
	"encoding/json"
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/eluv-io/log-go"
)

var (
	JsonCodec    = makeJsonCodec()
	YamlCodec    = makeYamlCodec()
	CborCodec    = makeCborCodec()
	MsgpackCodec = makeMsgpackCodec()

	JsonMultiCodecPath    = "/json"
	YamlMultiCodecPath    = "/yaml"
	CborMultiCodecPath    = "/cbor"
	MsgpackMultiCodecPath = "/msgpack"

	JsonMultiCodec    = NewMultiCodec(JsonCodec, JsonMultiCodecPath)
	YamlMultiCodec    = NewMultiCodec(YamlCodec, YamlMultiCodecPath)
	CborMultiCodec    = NewMultiCodec(CborCodec, CborMultiCodecPath)
	MsgpackMultiCodec = NewMultiCodec(MsgpackCodec, MsgpackMultiCodecPath)
)

// NewJsonCodec returns a streaming MultiCodec using the JSON format.
func NewJsonCodec() MultiCodec {
	return JsonMultiCodec
}

// NewYamlCodec returns a streaming MultiCodec using the YAML format.
func NewYamlCodec() MultiCodec {
	return YamlMultiCodec
}

// NewCborCodec returns a streaming MultiCodec using the CBOR format.
func NewCborCodec() MultiCodec {
	return CborMultiCodec
}

// NewMsgpackCodec returns a streaming MultiCodec using the msgpack format.
func NewMsgpackCodec() MultiCodec {
	return MsgpackMultiCodec
}

// NewDefaultMuxCodec returns a MuxCodec that encodes with CBOR and decodes
// any of the supported formats, selected by the MultiCodec header in the data
// stream.
func NewDefaultMuxCodec() *MuxCodec {
	return NewMuxCodec(CborMultiCodec, JsonMultiCodec, YamlMultiCodec, MsgpackMultiCodec)
}

// Encode encodes the given value to a byte buffer using the given codec,
// without MultiCodec framing.
func Encode(c Codec, v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Encoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode decodes data previously produced by Encode with the same codec into
// the given data structure.
func Decode(c Codec, data []byte, v interface{}) error {
	return c.Decoder(bytes.NewReader(data)).Decode(v)
}

func makeJsonCodec() Codec {
	return NewCodec(
		func(w io.Writer) Encoder {
			return json.NewEncoder(w)
		},
		func(r io.Reader) Decoder {
			return json.NewDecoder(r)
		},
		true,
	)
}

// yamlEncoder writes each object as a complete YAML document, preceded by
// the document separator so that multiple objects on one stream decode one by
// one. yaml.Encoder is not used directly since it buffers the stream until
// closed.
type yamlEncoder struct {
	w io.Writer
}

func (e *yamlEncoder) Encode(obj interface{}) error {
	b, err := yaml.Marshal(obj)
	if err != nil {
		return err
	}
	if _, err = io.WriteString(e.w, "---\n"); err != nil {
		return err
	}
	_, err = e.w.Write(b)
	return err
}

func makeYamlCodec() Codec {
	return NewCodec(
		func(w io.Writer) Encoder {
			return &yamlEncoder{w: w}
		},
		func(r io.Reader) Decoder {
			return yaml.NewDecoder(r)
		},
		true,
	)
}

func makeCborCodec() Codec {
	encOptions := cbor.CoreDetEncOptions()
	enc, err := encOptions.EncMode()
	if err != nil {
		log.Fatal("failed to create cbor encoder mode", err)
	}

	dec, err := cbor.DecOptions{
		DefaultMapType:   reflect.TypeOf((map[string]interface{})(nil)),
		MaxArrayElements: 1024 * 1024, // github.com/fxamacker/cbor/v2 default is 128 * 1024
		MaxMapPairs:      1024 * 1024, // github.com/fxamacker/cbor/v2 default is 128 * 1024
		MaxNestedLevels:  100,         // github.com/fxamacker/cbor/v2 default is 32
	}.DecMode()
	if err != nil {
		log.Fatal("failed to create cbor decoder mode", err)
	}

	return NewCodec(
		func(w io.Writer) Encoder {
			return enc.NewEncoder(w)
		},
		func(r io.Reader) Decoder {
			return dec.NewDecoder(r)
		},
		false,
	)
}

func makeMsgpackCodec() Codec {
	return NewCodec(
		func(w io.Writer) Encoder {
			return msgpack.NewEncoder(w)
		},
		func(r io.Reader) Decoder {
			return msgpack.NewDecoder(r)
		},
		false,
	)
}
