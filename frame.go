package spill

import (
	"encoding/binary"
	"fmt"
)

// Codec converts values to and from a binary representation. Only the
// framing sink consumes it; the ring core has no other dependency on
// serialization.
type Codec[T any] interface {
	// AppendEncode appends the encoding of v to buf and returns the
	// extended buffer.
	AppendEncode(buf []byte, v T) ([]byte, error)

	// Decode reads one value from the front of buf, returning it and
	// the number of bytes consumed.
	Decode(buf []byte) (v T, n int, err error)

	// ByteLen reports the exact encoded size of v, when known without
	// encoding.
	ByteLen(v T) (int, bool)

	// MaxSize reports an upper bound on the encoded size of any value,
	// when one exists.
	MaxSize() (int, bool)
}

// Frame layout: producer ID, payload length, payload. Little-endian.
const (
	frameHeaderSize = 12 // uint64 producer ID + uint32 payload length
	frameSizeHint   = 256
)

// FramedSink serializes each item with a codec and prepends a
// [producer_id][payload_length] header before forwarding the frame to
// an inner byte sink. Compose with ProducerSink for tagged, framed
// per-producer output.
type FramedSink[T any] struct {
	inner      Sink[[]byte]
	codec      Codec[T]
	producerID uint64
}

// NewFramedSink returns a framing sink stamping producerID on every
// frame.
func NewFramedSink[T any](producerID int, codec Codec[T], inner Sink[[]byte]) *FramedSink[T] {
	return &FramedSink[T]{
		inner:      inner,
		codec:      codec,
		producerID: uint64(producerID),
	}
}

// Send frames the item and forwards it. A codec failure is a frame
// that can never be shipped or recovered, so Send panics rather than
// silently dropping it.
func (f *FramedSink[T]) Send(item T) {
	hint, ok := f.codec.ByteLen(item)
	if !ok {
		hint, ok = f.codec.MaxSize()
	}
	if !ok {
		hint = frameSizeHint
	}

	frame := make([]byte, frameHeaderSize, frameHeaderSize+hint)
	frame, err := f.codec.AppendEncode(frame, item)
	if err != nil {
		panic(fmt.Sprintf("spill: framed sink: encode item: %v", err))
	}
	binary.LittleEndian.PutUint64(frame[0:8], f.producerID)
	binary.LittleEndian.PutUint32(frame[8:12], uint32(len(frame)-frameHeaderSize))
	f.inner.Send(frame)
}

func (f *FramedSink[T]) Flush() {
	f.inner.Flush()
}

// ProducerID returns the identity stamped on every frame.
func (f *FramedSink[T]) ProducerID() int { return int(f.producerID) }

// Inner returns the wrapped byte sink.
func (f *FramedSink[T]) Inner() Sink[[]byte] { return f.inner }

// DecodeFrame reverses FramedSink framing, returning the producer ID
// and the decoded value.
func DecodeFrame[T any](codec Codec[T], frame []byte) (producerID int, v T, err error) {
	if len(frame) < frameHeaderSize {
		return 0, v, fmt.Errorf("spill: frame too short: %d bytes", len(frame))
	}
	id := binary.LittleEndian.Uint64(frame[0:8])
	payloadLen := int(binary.LittleEndian.Uint32(frame[8:12]))
	if len(frame) < frameHeaderSize+payloadLen {
		return 0, v, fmt.Errorf("spill: frame truncated: want %d payload bytes, have %d",
			payloadLen, len(frame)-frameHeaderSize)
	}
	v, _, err = codec.Decode(frame[frameHeaderSize : frameHeaderSize+payloadLen])
	return int(id), v, err
}
