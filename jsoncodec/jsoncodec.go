// Package jsoncodec provides a spill.Codec that encodes values as
// JSON using the sonnet encoder.
package jsoncodec

import (
	"github.com/sugawarayuuta/sonnet"
)

// Codec encodes values of type T as JSON. The zero value is ready to
// use.
type Codec[T any] struct{}

// New returns a JSON codec for T.
func New[T any]() Codec[T] {
	return Codec[T]{}
}

// AppendEncode appends the JSON encoding of v to buf.
func (Codec[T]) AppendEncode(buf []byte, v T) ([]byte, error) {
	data, err := sonnet.Marshal(v)
	if err != nil {
		return buf, err
	}
	return append(buf, data...), nil
}

// Decode unmarshals one value from buf. JSON carries no length prefix,
// so the whole buffer is consumed; framing supplies the boundaries.
func (Codec[T]) Decode(buf []byte) (T, int, error) {
	var v T
	if err := sonnet.Unmarshal(buf, &v); err != nil {
		return v, 0, err
	}
	return v, len(buf), nil
}

// ByteLen is unknown for JSON without encoding.
func (Codec[T]) ByteLen(T) (int, bool) { return 0, false }

// MaxSize is unbounded for JSON.
func (Codec[T]) MaxSize() (int, bool) { return 0, false }
