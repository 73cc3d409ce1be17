/*
Package format provides the serializable wire types of HTTP messages and the
codecs that read and write them in multiple data formats.

Each sub-package defines one wire type with its parsing and validation rules
and its custom marshaling for every supported format: JSON and YAML as
self-describing textual formats, CBOR and msgpack as binary formats. The
headers package holds the central piece, an ordered multi-valued header map
whose wire shape depends on the format kind. The request and response packages
compose the scalar types and the header map into full message heads with a
caller-defined body.

The codecs package provides the streaming layer on top: plain codecs for each
format, self-identifying MultiCodec streams following the definitions of
https://github.com/multiformats/multiformats, and a MuxCodec that selects the
decoder from the header found in the data. The MultiCodec format is

	<len><multicodec-path>\n<encoded-data-1>...<encoded-data-n>
	e.g. 6/json\n<encoded-data-1><encoded-data-2><encoded-data-3>

with the header written once per stream rather than once per item.
*/
package format
