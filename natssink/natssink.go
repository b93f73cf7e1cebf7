// Package natssink ships ring overflow to a NATS subject.
//
// Each item is encoded by a spill.Codec and published as one message.
// This suits the telemetry/log-shipping use case: producers evict into
// the sink at full speed and NATS carries the shed items to a remote
// collector.
package natssink

import (
	"github.com/nats-io/nats.go"

	"github.com/abmac-io/spill"
)

// Publisher is the slice of the NATS connection the sink needs.
// *nats.Conn satisfies it.
type Publisher interface {
	Publish(subject string, data []byte) error
	Flush() error
}

var _ Publisher = (*nats.Conn)(nil)

// Sink publishes every item to a fixed subject. Publish and flush
// failures are swallowed: sinks never fail, and a dropped telemetry
// item is exactly what a spill ring already tolerates.
type Sink[T any] struct {
	pub     Publisher
	subject string
	codec   spill.Codec[T]
}

// New returns a sink publishing to subject over pub.
func New[T any](pub Publisher, subject string, codec spill.Codec[T]) *Sink[T] {
	return &Sink[T]{pub: pub, subject: subject, codec: codec}
}

func (s *Sink[T]) Send(item T) {
	data, err := s.codec.AppendEncode(nil, item)
	if err != nil {
		return
	}
	_ = s.pub.Publish(s.subject, data)
}

// Flush waits for the server to have processed outstanding publishes.
func (s *Sink[T]) Flush() {
	_ = s.pub.Flush()
}

// Subject returns the publish subject.
func (s *Sink[T]) Subject() string { return s.subject }
