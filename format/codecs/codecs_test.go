package codecs_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eluv-io/httpfmt-go/format/codecs"
	"github.com/eluv-io/httpfmt-go/format/headers"
	"github.com/eluv-io/httpfmt-go/format/name"
	"github.com/eluv-io/httpfmt-go/format/value"
)

func TestCodecs(t *testing.T) {
	runCodecTest(t, codecs.JsonCodec, "json")
	runCodecTest(t, codecs.YamlCodec, "yaml")
	runCodecTest(t, codecs.CborCodec, "cbor")
	runCodecTest(t, codecs.MsgpackCodec, "msgpack")
}

func TestMultiCodecs(t *testing.T) {
	runCodecTest(t, codecs.NewJsonCodec(), "json multi")
	runCodecTest(t, codecs.NewYamlCodec(), "yaml multi")
	runCodecTest(t, codecs.NewCborCodec(), "cbor multi")
	runCodecTest(t, codecs.NewMsgpackCodec(), "msgpack multi")
}

func TestMuxCodec(t *testing.T) {
	runCodecTest(t, codecs.NewDefaultMuxCodec(), "mux")
	mux := codecs.NewDefaultMuxCodec()
	mux.Wrap = true
	runCodecTest(t, mux, "mux wrapped")
}

// runCodecTest encodes a sequence of objects to a single stream and decodes
// them back.
func runCodecTest(t *testing.T, codec codecs.Codec, label string) {
	count := 20
	var buf bytes.Buffer

	enc := codec.Encoder(&buf)
	for i := 0; i < count; i++ {
		err := enc.Encode(fmt.Sprintf("test string %d", i))
		require.NoError(t, err, label)
	}

	dec := codec.Decoder(&buf)
	for i := 0; i < count; i++ {
		var s string
		err := dec.Decode(&s)
		require.NoError(t, err, label)
		require.Equal(t, fmt.Sprintf("test string %d", i), s, label)
	}
}

func TestSelfDescribing(t *testing.T) {
	assert.True(t, codecs.JsonCodec.SelfDescribing())
	assert.True(t, codecs.YamlCodec.SelfDescribing())
	assert.False(t, codecs.CborCodec.SelfDescribing())
	assert.False(t, codecs.MsgpackCodec.SelfDescribing())

	assert.True(t, codecs.JsonMultiCodec.SelfDescribing())
	assert.False(t, codecs.CborMultiCodec.SelfDescribing())
}

func TestEncodeDecodeHelpers(t *testing.T) {
	type pair struct {
		A string `json:"a"`
		B int    `json:"b"`
	}
	in := pair{A: "x", B: 2}

	b, err := codecs.Encode(codecs.JsonCodec, in)
	require.NoError(t, err)
	var out pair
	require.NoError(t, codecs.Decode(codecs.JsonCodec, b, &out))
	assert.Equal(t, in, out)
}

func TestMultiCodecHeader(t *testing.T) {
	var buf bytes.Buffer
	enc := codecs.JsonMultiCodec.Encoder(&buf)
	require.NoError(t, enc.Encode("one"))
	require.NoError(t, enc.Encode("two"))

	// the header appears exactly once, before the first object
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte(codecs.JsonMultiCodec.Header())))
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte(codecs.JsonMultiCodec.Header())))
	assert.Equal(t, "/json", codecs.JsonMultiCodec.Header().Path())

	dec := codecs.JsonMultiCodec.Decoder(&buf)
	var s string
	require.NoError(t, dec.Decode(&s))
	assert.Equal(t, "one", s)
	require.NoError(t, dec.Decode(&s))
	assert.Equal(t, "two", s)
}

func TestMultiCodecHeaderMismatch(t *testing.T) {
	var buf bytes.Buffer
	enc := codecs.CborMultiCodec.Encoder(&buf)
	require.NoError(t, enc.Encode("one"))

	dec := codecs.JsonMultiCodec.Decoder(&buf)
	var s string
	err := dec.Decode(&s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid header")
}

func TestMuxCodecSniffing(t *testing.T) {
	mux := codecs.NewDefaultMuxCodec()

	// a stream written by any of the muxed codecs decodes transparently
	for _, c := range []codecs.MultiCodec{
		codecs.JsonMultiCodec,
		codecs.YamlMultiCodec,
		codecs.CborMultiCodec,
		codecs.MsgpackMultiCodec,
	} {
		var buf bytes.Buffer
		enc := c.Encoder(&buf)
		require.NoError(t, enc.Encode("payload"), c.Header().Path())

		var s string
		dec := mux.Decoder(&buf)
		require.NoError(t, dec.Decode(&s), c.Header().Path())
		assert.Equal(t, "payload", s, c.Header().Path())
	}
}

func TestMuxCodecEncodesWithFirst(t *testing.T) {
	mux := codecs.NewDefaultMuxCodec()
	var buf bytes.Buffer
	require.NoError(t, mux.Encoder(&buf).Encode("payload"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte(codecs.CborMultiCodec.Header())))
}

func TestMuxCodecUnknownHeader(t *testing.T) {
	mux := codecs.NewMuxCodec(codecs.JsonMultiCodec)

	var buf bytes.Buffer
	enc := codecs.MsgpackMultiCodec.Encoder(&buf)
	require.NoError(t, enc.Encode("payload"))

	var s string
	err := mux.Decoder(&buf).Decode(&s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no codec for header")
}

func TestHeaderMapThroughCodecs(t *testing.T) {
	m := headers.New()
	m.Add(name.MustParse("baz"), value.MustParse("qux"))
	m.Add(name.MustParse("two"), value.MustParse("one"))
	m.Add(name.MustParse("two"), value.MustParse("two"))

	for _, c := range []codecs.MultiCodec{
		codecs.NewJsonCodec(),
		codecs.NewYamlCodec(),
		codecs.NewCborCodec(),
		codecs.NewMsgpackCodec(),
	} {
		b, err := codecs.Encode(c, m)
		require.NoError(t, err, c.Header().Path())

		decoded := headers.New()
		require.NoError(t, codecs.Decode(c, b, decoded), c.Header().Path())
		assert.True(t, m.Equal(decoded), c.Header().Path())
	}
}
