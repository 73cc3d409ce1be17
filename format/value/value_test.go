package value_test

import (
	"encoding/json"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/httpfmt-go/format/value"
)

func TestFromString(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{in: "text/plain"},
		{in: ""},
		{in: "with\ttab"},
		{in: "high bytes \x80\xff"},
		{in: "with\nnewline", wantErr: true},
		{in: "with\rreturn", wantErr: true},
		{in: "with\x00nul", wantErr: true},
		{in: "with\x7fdel", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := value.FromString(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsKind(errors.K.Invalid, err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.in, v.String())
			assert.True(t, v.IsValid())
		})
	}
}

func TestIsText(t *testing.T) {
	assert.True(t, value.MustParse("printable ascii, with\ttab").IsText())
	assert.False(t, value.MustParse("high bytes \x80").IsText())
}

func TestEqual(t *testing.T) {
	assert.True(t, value.MustParse("a").Equal(value.MustParse("a")))
	assert.False(t, value.MustParse("a").Equal(value.MustParse("b")))
}

func TestTextCodecs(t *testing.T) {
	v := value.MustParse("text/plain; charset=utf-8")

	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `"text/plain; charset=utf-8"`, string(b))
	var fromJson value.Value
	require.NoError(t, json.Unmarshal(b, &fromJson))
	assert.True(t, v.Equal(fromJson))

	b, err = yaml.Marshal(v)
	require.NoError(t, err)
	var fromYaml value.Value
	require.NoError(t, yaml.Unmarshal(b, &fromYaml))
	assert.True(t, v.Equal(fromYaml))
}

func TestTextCodecsRejectBinary(t *testing.T) {
	v := value.MustParse("high bytes \x80\xff")
	_, err := json.Marshal(v)
	require.Error(t, err)
	_, err = yaml.Marshal(v)
	require.Error(t, err)
}

func TestBinaryCodecs(t *testing.T) {
	v := value.MustParse("high bytes \x80\xff")

	b, err := cbor.Marshal(v)
	require.NoError(t, err)
	var fromCbor value.Value
	require.NoError(t, cbor.Unmarshal(b, &fromCbor))
	assert.True(t, v.Equal(fromCbor))

	b, err = msgpack.Marshal(v)
	require.NoError(t, err)
	var fromMsgpack value.Value
	require.NoError(t, msgpack.Unmarshal(b, &fromMsgpack))
	assert.True(t, v.Equal(fromMsgpack))
}

func TestBinaryCodecsAcceptStrings(t *testing.T) {
	// payloads produced by other encoders may carry values as strings
	b, err := cbor.Marshal("text value")
	require.NoError(t, err)
	var v value.Value
	require.NoError(t, cbor.Unmarshal(b, &v))
	assert.Equal(t, "text value", v.String())

	b, err = msgpack.Marshal("text value")
	require.NoError(t, err)
	var v2 value.Value
	require.NoError(t, msgpack.Unmarshal(b, &v2))
	assert.Equal(t, "text value", v2.String())
}

func TestDecodeInvalid(t *testing.T) {
	var v value.Value
	assert.Error(t, json.Unmarshal([]byte(`"bad\nvalue"`), &v))
	assert.Error(t, json.Unmarshal([]byte(`42`), &v))

	b, err := cbor.Marshal(42)
	require.NoError(t, err)
	assert.Error(t, cbor.Unmarshal(b, &v))

	b, err = msgpack.Marshal(42)
	require.NoError(t, err)
	assert.Error(t, msgpack.Unmarshal(b, &v))
}
