package header_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eluv-io/httpfmt-go/format/codecs/header"
)

func TestNew(t *testing.T) {
	h := header.New("/json")
	assert.Equal(t, []byte{6, '/', 'j', 's', 'o', 'n', '\n'}, []byte(h))
	assert.Equal(t, "/json", h.Path())
	assert.Equal(t, "/json", h.String())
}

func TestNewNoPanicTooLong(t *testing.T) {
	_, err := header.NewNoPanic("/" + strings.Repeat("x", 200))
	require.Error(t, err)
	assert.Panics(t, func() {
		header.New("/" + strings.Repeat("x", 200))
	})
}

func TestWriteRead(t *testing.T) {
	h := header.New("/cbor")
	var buf bytes.Buffer
	require.NoError(t, header.WriteHeader(&buf, h))
	buf.WriteString("payload")

	read, err := header.ReadHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, h, read)
	assert.Equal(t, "payload", buf.String())
}

func TestReadInvalid(t *testing.T) {
	// missing terminating newline
	_, err := header.ReadHeader(bytes.NewReader([]byte{5, '/', 'j', 's', 'o', 'n'}))
	require.Error(t, err)

	// truncated
	_, err = header.ReadHeader(bytes.NewReader([]byte{6, '/', 'j'}))
	require.Error(t, err)

	// empty
	_, err = header.ReadHeader(bytes.NewReader(nil))
	require.Error(t, err)
}

func TestConsumeHeader(t *testing.T) {
	h := header.New("/yaml")
	var buf bytes.Buffer
	require.NoError(t, header.WriteHeader(&buf, h))
	require.NoError(t, header.ConsumeHeader(&buf, h))

	buf.Reset()
	require.NoError(t, header.WriteHeader(&buf, header.New("/json")))
	err := header.ConsumeHeader(&buf, h)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header mismatch")
}

func TestWrapHeaderReader(t *testing.T) {
	h := header.New("/msgpack")
	r := header.WrapHeaderReader(h, strings.NewReader("payload"))

	read, err := header.ReadHeader(r)
	require.NoError(t, err)
	assert.Equal(t, h, read)

	rest := make([]byte, 7)
	n, err := r.Read(rest)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(rest[:n]))
}
