package codecs

import (
	"io"
)

// Codec is an algorithm for coding data from one representation to another,
// defined in the usual sense as a function and its inverse: an Encoder and a
// Decoder over byte streams.
//
// A Codec additionally reports whether its format is self-describing: whether
// a decoder of the format can tell from the encoded bytes alone if the next
// item is a scalar or a sequence. The header map codec varies its wire shape
// on this capability - see the headers package.
type Codec interface {
	// Decoder wraps the given io.Reader and returns a Decoder which decodes
	// bytes into objects.
	Decoder(r io.Reader) Decoder

	// Encoder wraps the given io.Writer and returns an Encoder.
	Encoder(w io.Writer) Encoder

	// SelfDescribing reports whether the codec's format lets a decoder
	// distinguish scalars from sequences by inspection.
	SelfDescribing() bool
}

// Encoder encodes objects into bytes and writes them to an underlying
// io.Writer. Works like encoding.Marshal.
type Encoder interface {
	Encode(obj interface{}) error
}

// Decoder decodes objects from the bytes of an underlying io.Reader into a
// given object. Works like encoding.Unmarshal.
type Decoder interface {
	Decode(obj interface{}) error
}

////////////////////////////////////////////////////////////////////////////////

type CreateEncoderFn func(w io.Writer) Encoder
type CreateDecoderFn func(r io.Reader) Decoder

// NewCodec creates a new Codec from an encoder and a decoder creation
// function and the format's self-describing capability.
func NewCodec(enc CreateEncoderFn, dec CreateDecoderFn, selfDescribing bool) Codec {
	return &codec{encoderFn: enc, decoderFn: dec, selfDescribing: selfDescribing}
}

type codec struct {
	encoderFn      CreateEncoderFn
	decoderFn      CreateDecoderFn
	selfDescribing bool
}

func (c *codec) Decoder(r io.Reader) Decoder {
	return c.decoderFn(r)
}

func (c *codec) Encoder(w io.Writer) Encoder {
	return c.encoderFn(w)
}

func (c *codec) SelfDescribing() bool {
	return c.selfDescribing
}
