// Package header implements the byte-level framing of MultiCodec streams: a
// short self-describing prefix that names the codec used to produce the rest
// of the stream.
package header

import (
	"bytes"
	"io"

	"github.com/eluv-io/errors-go"
)

// Header is the prefix written by MultiCodecs to identify the codec used to
// create an encoding. Its format is
//   - a single byte encoding the length of the rest of the header
//   - the "path" of the codec: an identifier starting with a slash and
//     containing the codec's name, e.g. "/json" or "/msgpack"
//   - a terminating newline, keeping the header readable in raw data
//
// Create it with New(path).
type Header []byte

// Path returns the codec path of the header.
func (h Header) Path() string {
	return Path(h)
}

// String is an alias of Path.
func (h Header) String() string {
	return h.Path()
}

// New returns a header built from the given path. It panics if the path is
// too long for the single length byte - codec paths are compile-time
// constants, so this is a programming error.
func New(path string) Header {
	h, err := NewNoPanic(path)
	if err != nil {
		panic(err)
	}
	return h
}

// NewNoPanic works like New, but returns an error instead of panicking.
func NewNoPanic(path string) (Header, error) {
	bts := []byte(path)
	l := len(bts) + 1 // + \n
	if l >= 127 {
		return nil, errors.E("create header", errors.K.Invalid,
			"reason", "path too long",
			"path", path)
	}

	buf := make([]byte, l+1)
	buf[0] = byte(l)
	copy(buf[1:], bts)
	buf[l] = '\n'
	return buf, nil
}

// Path returns the codec path from the given header.
func Path(hdr Header) string {
	hdr = hdr[1:]
	if hdr[len(hdr)-1] == '\n' {
		hdr = hdr[:len(hdr)-1]
	}
	return string(hdr)
}

// WriteHeader writes the given header to a writer.
func WriteHeader(w io.Writer, hdr Header) error {
	_, err := w.Write(hdr)
	return err
}

// ReadHeader reads a header from a reader. It returns the header found, or an
// error if the bytes read are not a valid header.
func ReadHeader(r io.Reader) (Header, error) {
	e := errors.Template("read header", errors.K.Invalid)
	lbuf := make([]byte, 1)
	if _, err := r.Read(lbuf); err != nil {
		return nil, e(err)
	}

	l := int(lbuf[0])
	if l > 127 {
		return nil, e("reason", "invalid header length", "length", l)
	}

	buf := make([]byte, l+1)
	buf[0] = lbuf[0]
	if _, err := io.ReadFull(r, buf[1:]); err != nil {
		return nil, e(err)
	}
	if buf[l] != '\n' {
		return nil, e("reason", "invalid header")
	}
	return buf, nil
}

// ConsumeHeader reads a header from a reader and verifies that it matches the
// given header.
func ConsumeHeader(r io.Reader, hdr Header) error {
	actual := make([]byte, len(hdr))
	if _, err := io.ReadFull(r, actual); err != nil {
		return errors.E("consume header", errors.K.Invalid, err)
	}

	if !bytes.Equal(hdr, actual) {
		return errors.E("consume header", errors.K.Invalid,
			"reason", "header mismatch",
			"expected", hdr.Path(),
			"actual", Header(actual).Path())
	}
	return nil
}

// WrapHeaderReader returns a reader that first reads the given header and
// then the given reader. It is useful if the header has already been read
// from the stream, but must be handed to a decoder that expects it.
func WrapHeaderReader(hdr Header, r io.Reader) io.Reader {
	return io.MultiReader(bytes.NewReader(hdr), r)
}
