package spill

import "iter"

// Sink receives every item evicted or flushed out of a ring, in the
// exact order the items left it.
type Sink[T any] interface {
	// Send consumes one item. Send does not fail: a sink with fallible
	// internals swallows its own errors.
	Send(item T)

	// Flush forces out any buffered data. It must be safe to call
	// repeatedly; a flush with nothing pending is a no-op.
	Flush()
}

// CloneableSink is a Sink that can produce independent per-producer
// copies of itself. The multi-producer layer and the worker pool hand
// one clone to each producer.
type CloneableSink[T any] interface {
	Sink[T]
	Clone() CloneableSink[T]
}

// SendAll feeds every element of seq to s in order. Sinks that can do
// better than an element-at-a-time loop implement
//
//	interface{ SendAll(iter.Seq[T]) }
//
// and are dispatched to directly.
func SendAll[T any](s Sink[T], seq iter.Seq[T]) {
	if bulk, ok := s.(interface{ SendAll(iter.Seq[T]) }); ok {
		bulk.SendAll(seq)
		return
	}
	for item := range seq {
		s.Send(item)
	}
}

// Discard drops everything sent to it. It is the default sink.
type Discard[T any] struct{}

func (Discard[T]) Send(T) {}

func (Discard[T]) Flush() {}

// Clone returns the sink itself; Discard has no state.
func (d Discard[T]) Clone() CloneableSink[T] { return d }

// Collect appends every sent item to a slice.
type Collect[T any] struct {
	items []T
}

// NewCollect returns an empty collecting sink.
func NewCollect[T any]() *Collect[T] {
	return &Collect[T]{}
}

func (c *Collect[T]) Send(item T) {
	c.items = append(c.items, item)
}

func (c *Collect[T]) Flush() {}

// SendAll appends the whole sequence in one pass.
func (c *Collect[T]) SendAll(seq iter.Seq[T]) {
	for item := range seq {
		c.items = append(c.items, item)
	}
}

// Items returns the collected items without resetting the sink.
func (c *Collect[T]) Items() []T {
	return c.items
}

// Take returns the collected items and leaves the sink empty.
func (c *Collect[T]) Take() []T {
	items := c.items
	c.items = nil
	return items
}

// Clone returns a fresh, empty Collect: clones do not share storage.
func (c *Collect[T]) Clone() CloneableSink[T] {
	return NewCollect[T]()
}

// SinkFunc adapts a function to a Sink. Flush is a no-op.
type SinkFunc[T any] func(T)

func (f SinkFunc[T]) Send(item T) { f(item) }

func (SinkFunc[T]) Flush() {}

// FuncSink pairs separate send and flush callbacks.
type FuncSink[T any] struct {
	send  func(T)
	flush func()
}

// NewFuncSink returns a sink driven by the two callbacks.
// flush may be nil for a no-op.
func NewFuncSink[T any](send func(T), flush func()) *FuncSink[T] {
	return &FuncSink[T]{send: send, flush: flush}
}

func (s *FuncSink[T]) Send(item T) { s.send(item) }

func (s *FuncSink[T]) Flush() {
	if s.flush != nil {
		s.flush()
	}
}

// ChannelSink forwards each item into a channel. A send that cannot
// proceed immediately is dropped: the receiver may be gone or stalled,
// and sink sends never fail or block.
type ChannelSink[T any] struct {
	ch chan<- T
}

// NewChannelSink returns a sink forwarding into ch.
func NewChannelSink[T any](ch chan<- T) ChannelSink[T] {
	return ChannelSink[T]{ch: ch}
}

func (s ChannelSink[T]) Send(item T) {
	select {
	case s.ch <- item:
	default:
	}
}

func (s ChannelSink[T]) Flush() {}

// Clone returns a sink sharing the same channel.
func (s ChannelSink[T]) Clone() CloneableSink[T] { return s }
