package codec

import "fmt"

// LimitCodec rejects payloads larger than MaxDecode bytes before decoding.
// Encode is forwarded unchanged. MaxDecode <= 0 disables the check.
//
// Corpus bytes read from a shared store are not trusted to be small.
type LimitCodec[V any] struct {
	Inner     Codec[V]
	MaxDecode int // bytes
}

func (c LimitCodec[V]) Encode(v V) ([]byte, error) { return c.Inner.Encode(v) }
func (c LimitCodec[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, fmt.Errorf("codec: payload too large: %d > %d", len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}
