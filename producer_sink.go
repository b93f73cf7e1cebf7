package spill

import "sync/atomic"

// ProducerSink gives each clone a unique, monotonically increasing
// producer identity (0, 1, 2, ...) and a lazily built private inner
// sink, so every producer can own an independent resource (its own
// file, buffer, connection) with zero cross-producer contention.
//
// The value passed to NewProducerSink is a template: hand its clones
// to producers rather than using it directly.
type ProducerSink[T any] struct {
	inner   Sink[T]
	factory func(id int) Sink[T]
	id      int
	nextID  *atomic.Int64
}

// NewProducerSink returns a factory sink. factory is called with the
// clone's producer ID the first time that clone receives an item.
func NewProducerSink[T any](factory func(id int) Sink[T]) *ProducerSink[T] {
	return &ProducerSink[T]{
		factory: factory,
		nextID:  new(atomic.Int64),
	}
}

// Clone returns a sink with the next producer ID and no inner sink
// yet. Clones share only the ID counter.
func (p *ProducerSink[T]) Clone() CloneableSink[T] {
	return &ProducerSink[T]{
		factory: p.factory,
		id:      int(p.nextID.Add(1) - 1),
		nextID:  p.nextID,
	}
}

func (p *ProducerSink[T]) Send(item T) {
	if p.inner == nil {
		p.inner = p.factory(p.id)
	}
	p.inner.Send(item)
}

// Flush flushes the inner sink if one was ever built.
func (p *ProducerSink[T]) Flush() {
	if p.inner != nil {
		p.inner.Flush()
	}
}

// ProducerID returns this clone's identity.
func (p *ProducerSink[T]) ProducerID() int { return p.id }

// Inner returns the lazily built inner sink, or nil if nothing has
// been sent yet.
func (p *ProducerSink[T]) Inner() Sink[T] { return p.inner }
