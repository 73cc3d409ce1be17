package request_test

import (
	"encoding/json"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/httpfmt-go/format/httpuri"
	"github.com/eluv-io/httpfmt-go/format/method"
	"github.com/eluv-io/httpfmt-go/format/name"
	"github.com/eluv-io/httpfmt-go/format/request"
	"github.com/eluv-io/httpfmt-go/format/value"
	"github.com/eluv-io/httpfmt-go/format/version"
)

func sample() *request.Request[string] {
	req := request.New[string](method.Post, httpuri.MustParse("https://example.com/items?page=2"), "the body")
	req.Headers.Add(name.MustParse("Content-Type"), value.MustParse("text/plain"))
	req.Headers.Add(name.MustParse("Accept"), value.MustParse("application/json"))
	req.Headers.Add(name.MustParse("Accept"), value.MustParse("text/plain"))
	return req
}

func assertSame(t *testing.T, want, got *request.Request[string]) {
	assert.Equal(t, want.Method, got.Method)
	assert.True(t, want.URI.Equal(got.URI))
	assert.True(t, want.Headers.Equal(got.Headers))
	assert.Equal(t, want.Version, got.Version)
	assert.Equal(t, want.Body, got.Body)
}

func TestNewDefaults(t *testing.T) {
	req := request.New[string](method.Get, httpuri.MustParse("/"), "")
	assert.Equal(t, version.HTTP11, req.Version)
	require.NotNil(t, req.Headers)
	assert.Equal(t, 0, req.Headers.Len())
	assert.Nil(t, req.Extensions)
}

func TestJsonRoundTrip(t *testing.T) {
	req := sample()
	b, err := json.Marshal(req)
	require.NoError(t, err)

	var decoded request.Request[string]
	require.NoError(t, json.Unmarshal(b, &decoded))
	assertSame(t, req, &decoded)
}

func TestJsonShape(t *testing.T) {
	req := sample()
	b, err := json.Marshal(req)
	require.NoError(t, err)

	var generic map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &generic))
	assert.Equal(t, "POST", generic["method"])
	assert.Equal(t, "https://example.com/items?page=2", generic["uri"])
	assert.Equal(t, "HTTP/1.1", generic["version"])
	assert.Equal(t, "the body", generic["body"])
	hdrs, ok := generic["headers"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "text/plain", hdrs["content-type"])
	assert.Equal(t, []interface{}{"application/json", "text/plain"}, hdrs["accept"])
}

func TestCborRoundTrip(t *testing.T) {
	req := sample()
	b, err := cbor.Marshal(req)
	require.NoError(t, err)

	var decoded request.Request[string]
	require.NoError(t, cbor.Unmarshal(b, &decoded))
	assertSame(t, req, &decoded)
}

func TestMsgpackRoundTrip(t *testing.T) {
	req := sample()
	b, err := msgpack.Marshal(req)
	require.NoError(t, err)

	var decoded request.Request[string]
	require.NoError(t, msgpack.Unmarshal(b, &decoded))
	assertSame(t, req, &decoded)
}

func TestYamlRoundTrip(t *testing.T) {
	req := sample()
	b, err := yaml.Marshal(req)
	require.NoError(t, err)

	var decoded request.Request[string]
	require.NoError(t, yaml.Unmarshal(b, &decoded))
	assertSame(t, req, &decoded)
}

type item struct {
	ID    int    `json:"id" cbor:"id" msgpack:"id" yaml:"id"`
	Label string `json:"label" cbor:"label" msgpack:"label" yaml:"label"`
}

func TestStructBody(t *testing.T) {
	req := request.New[item](method.Put, httpuri.MustParse("/items/7"), item{ID: 7, Label: "seven"})

	b, err := json.Marshal(req)
	require.NoError(t, err)
	var decoded request.Request[item]
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, req.Body, decoded.Body)

	b, err = cbor.Marshal(req)
	require.NoError(t, err)
	decoded = request.Request[item]{}
	require.NoError(t, cbor.Unmarshal(b, &decoded))
	assert.Equal(t, req.Body, decoded.Body)
}

func TestNonEmptyExtensionsFailEncode(t *testing.T) {
	req := sample()
	req.Extensions = map[string]interface{}{"trace": "abc"}

	_, err := json.Marshal(req)
	require.Error(t, err)

	_, err = cbor.Marshal(req)
	require.Error(t, err)

	_, err = msgpack.Marshal(req)
	require.Error(t, err)

	_, err = yaml.Marshal(req)
	require.Error(t, err)
}

func TestMissingFields(t *testing.T) {
	for _, data := range []string{
		`{"uri":"/","headers":{},"version":"HTTP/1.1","body":""}`,
		`{"method":"GET","headers":{},"version":"HTTP/1.1","body":""}`,
		`{"method":"GET","uri":"/","version":"HTTP/1.1","body":""}`,
		`{"method":"GET","uri":"/","headers":{},"body":""}`,
	} {
		var decoded request.Request[string]
		err := json.Unmarshal([]byte(data), &decoded)
		require.Error(t, err, data)
		assert.True(t, errors.IsKind(errors.K.Invalid, err), data)
	}

	// body is not required: it decodes to the zero value when absent
	var decoded request.Request[string]
	err := json.Unmarshal([]byte(`{"method":"GET","uri":"/","headers":{},"version":"HTTP/1.1"}`), &decoded)
	require.NoError(t, err)
	assert.Equal(t, "", decoded.Body)
}

func TestNilHeadersEncode(t *testing.T) {
	req := &request.Request[string]{
		Method:  method.Get,
		URI:     httpuri.MustParse("/"),
		Version: version.HTTP11,
	}
	b, err := json.Marshal(req)
	require.NoError(t, err)

	var decoded request.Request[string]
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.NotNil(t, decoded.Headers)
	assert.Equal(t, 0, decoded.Headers.Len())
}

func TestDecodeResetsExtensions(t *testing.T) {
	var decoded request.Request[string]
	decoded.Extensions = map[string]interface{}{"stale": true}
	require.NoError(t, json.Unmarshal(
		[]byte(`{"method":"GET","uri":"/","headers":{},"version":"HTTP/1.1","body":""}`), &decoded))
	assert.Nil(t, decoded.Extensions)
}

func TestHeaderOrderSurvives(t *testing.T) {
	req := request.New[string](method.Get, httpuri.MustParse("/"), "")
	for _, n := range []string{"zed", "alpha", "mike"} {
		req.Headers.Add(name.MustParse(n), value.MustParse("v"))
	}

	b, err := json.Marshal(req)
	require.NoError(t, err)
	var decoded request.Request[string]
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, []name.Name{"zed", "alpha", "mike"}, decoded.Headers.Names())
}
