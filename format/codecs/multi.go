package codecs

import (
	"bytes"
	"io"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/httpfmt-go/format/codecs/header"
)

////////////////////////////////////////////////////////////////////////////////

// MultiCodec is a Codec that produces and consumes self-identifying byte
// streams. During encoding it writes its header once as a prefix to the
// encoded data; on decoding it reads the header and ensures that it matches.
//
// Use a MuxCodec in order to support multiple codecs: it selects the correct
// decoder based on the MultiCodec header read from the byte stream.
type MultiCodec interface {
	Codec
	Header() header.Header
}

// NewMultiCodec wraps the given codec with MultiCodec framing under the given
// path.
func NewMultiCodec(codec Codec, path string) MultiCodec {
	return &multiCodec{
		codec:  codec,
		header: header.New(path),
	}
}

type multiCodec struct {
	codec  Codec
	header header.Header
}

func (m *multiCodec) Header() header.Header {
	return m.header
}

func (m *multiCodec) SelfDescribing() bool {
	return m.codec.SelfDescribing()
}

func (m *multiCodec) Encoder(w io.Writer) Encoder {
	return NewMultiEncoder(w, m.codec.Encoder(w), m.header.Path())
}

func (m *multiCodec) Decoder(r io.Reader) Decoder {
	return NewMultiDecoder(r, m.codec.Decoder(r), m.header.Path())
}

////////////////////////////////////////////////////////////////////////////////

// NewMultiEncoder returns an Encoder that writes the header of the given path
// once, before the first encoded object.
func NewMultiEncoder(writer io.Writer, encoder Encoder, path string) Encoder {
	return &multiEncoder{
		writer:  writer,
		encoder: encoder,
		header:  header.New(path),
	}
}

type multiEncoder struct {
	writer        io.Writer
	encoder       Encoder
	header        header.Header
	headerWritten bool
}

func (e *multiEncoder) writeHeader() (err error) {
	if !e.headerWritten {
		err = header.WriteHeader(e.writer, e.header)
		if err != nil {
			return err
		}
		e.headerWritten = true
	}
	return nil
}

func (e *multiEncoder) Encode(obj interface{}) error {
	err := e.writeHeader()
	if err == nil {
		err = e.encoder.Encode(obj)
	}
	return err
}

////////////////////////////////////////////////////////////////////////////////

// NewMultiDecoder returns a Decoder that reads and verifies the header of the
// given path once, before the first decoded object.
func NewMultiDecoder(reader io.Reader, decoder Decoder, path string) Decoder {
	return &multiDecoder{
		reader:  reader,
		decoder: decoder,
		header:  header.New(path),
	}
}

type multiDecoder struct {
	reader     io.Reader
	decoder    Decoder
	header     header.Header
	headerRead bool
}

func (d *multiDecoder) readHeader() error {
	if !d.headerRead {
		hdr, err := header.ReadHeader(d.reader)
		if err != nil {
			return err
		}
		if !bytes.Equal(hdr, d.header) {
			return errors.E("multiDecoder.readHeader", errors.K.Invalid,
				"reason", "invalid header",
				"expected", d.header.Path(),
				"actual", hdr.Path())
		}
		d.headerRead = true
	}
	return nil
}

func (d *multiDecoder) Decode(obj interface{}) error {
	err := d.readHeader()
	if err == nil {
		err = d.decoder.Decode(obj)
	}
	return err
}
