package codecs

import (
	"bytes"
	"io"

	mc "github.com/multiformats/go-multicodec"

	"github.com/eluv-io/errors-go"
)

// Header is the standard multicodec header optionally wrapped around muxed
// streams.
var Header []byte

func init() {
	Header = mc.Header([]byte("/multicodec"))
}

// NewMuxCodec creates a codec that muxes between the given codecs - see
// MuxCodec.
func NewMuxCodec(codecs ...MultiCodec) *MuxCodec {
	return &MuxCodec{codecs, SelectFirst, false}
}

// SelectCodec is a function that selects the codec to use for marshaling a
// given data structure.
type SelectCodec func(v interface{}, codecs []MultiCodec) MultiCodec

// SelectFirst is the default SelectCodec function: it selects the first codec
// given.
func SelectFirst(v interface{}, codecs []MultiCodec) MultiCodec {
	return codecs[0]
}

// MuxCodec muxes between multiple codecs. The codec for encoding is chosen
// with a SelectCodec function called for the first object being encoded - per
// default the first codec in the list. The codec for decoding is chosen
// according to the MultiCodec header in the data stream.
//
// NOTE: the header is written only once at the very beginning, even if the
// same encoder is used for encoding multiple objects:
//
//	HEADER|object1|object2|...
//
// Likewise, the decoder expects a single header and decodes all subsequent
// objects with the same codec.
//
// MuxCodec is NOT thread-safe - use from a single goroutine only or
// synchronize access.
type MuxCodec struct {
	Codecs []MultiCodec // codecs to use
	Select SelectCodec  // pick a codec for encoding
	Wrap   bool         // whether to wrap with the standard multicodec header
}

func (c *MuxCodec) Encoder(w io.Writer) Encoder {
	return &muxEncoder{writer: w, mux: c}
}

func (c *MuxCodec) Decoder(r io.Reader) Decoder {
	return &muxDecoder{reader: r, mux: c}
}

func (c *MuxCodec) Header() []byte {
	return Header
}

// SelfDescribing reports the capability of the first muxed codec, the default
// choice for encoding. Decoding adapts to whatever codec the stream header
// names.
func (c *MuxCodec) SelfDescribing() bool {
	return c.Codecs[0].SelfDescribing()
}

type muxEncoder struct {
	writer io.Writer
	mux    *MuxCodec
	enc    Encoder
}

func (c *muxEncoder) Encode(v interface{}) error {
	if c.enc == nil {
		codec := c.mux.Select(v, c.mux.Codecs)
		if codec == nil {
			return errors.E("mux encode", errors.K.Invalid,
				"reason", "no suitable codec")
		}
		c.enc = codec.Encoder(c.writer)
		if c.mux.Wrap {
			// write multicodec header
			if _, err := c.writer.Write(c.mux.Header()); err != nil {
				return err
			}
		}
	}

	return c.enc.Encode(v)
}

type muxDecoder struct {
	reader io.Reader
	mux    *MuxCodec
	dec    Decoder
}

func (c *muxDecoder) Decode(v interface{}) error {
	if c.dec == nil {
		if c.mux.Wrap {
			// read multicodec header
			if err := mc.ConsumeHeader(c.reader, c.mux.Header()); err != nil {
				return err
			}
		}

		// get next header, to select codec
		hdr, err := mc.ReadHeader(c.reader)
		if err != nil {
			return err
		}

		// "unwind" the read as the selected codec consumes its own header
		rdr := mc.WrapHeaderReader(hdr, c.reader)

		codec := c.codecForHeader(hdr)
		if codec == nil {
			return errors.E("mux decode", errors.K.Invalid,
				"reason", "no codec for header",
				"header", string(bytes.TrimSpace(hdr[1:])))
		}

		c.dec = codec.Decoder(rdr)
	}
	return c.dec.Decode(v)
}

func (c *muxDecoder) codecForHeader(hdr []byte) MultiCodec {
	for _, codec := range c.mux.Codecs {
		if bytes.Equal(hdr, codec.Header()) {
			return codec
		}
	}
	return nil
}
