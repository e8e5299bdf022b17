// Package codec converts corpus documents to and from bytes.
//
// Sources that read a corpus from a file, an embedded resource or a shared
// byte store hand the raw bytes to a Codec. JSON is the reference format;
// msgpack and CBOR are compact alternatives for stores where size matters.
package codec

import "fmt"

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// Format names a codec for configuration surfaces (flags, env).
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
	FormatCBOR    Format = "cbor"
)

// ByName returns the codec registered for f. Empty selects JSON.
func ByName[V any](f Format) (Codec[V], error) {
	switch f {
	case "", FormatJSON:
		return JSON[V]{}, nil
	case FormatMsgpack:
		return Msgpack[V]{}, nil
	case FormatCBOR:
		return NewCBOR[V](false)
	default:
		return nil, fmt.Errorf("codec: unknown format %q", f)
	}
}

// Ext is the conventional file extension for f, without the dot.
func (f Format) Ext() string {
	switch f {
	case FormatMsgpack:
		return "msgpack"
	case FormatCBOR:
		return "cbor"
	default:
		return "json"
	}
}
