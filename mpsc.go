package spill

import "github.com/eapache/queue"

// Producer is one independent writer of a producer group. Each
// producer exclusively owns one single-owner ring, so Push runs at
// full speed with no shared state and no locks. Push from exactly one
// goroutine per producer.
type Producer[T any] struct {
	ring *Ring[T]
}

// Push adds an item to this producer's ring. This is the hot path.
func (p *Producer[T]) Push(item T) { p.ring.Push(item) }

// Len returns the number of items in the producer's ring.
func (p *Producer[T]) Len() int { return p.ring.Len() }

// Capacity returns the producer ring's capacity.
func (p *Producer[T]) Capacity() int { return p.ring.Capacity() }

// IsEmpty reports whether the producer's ring is empty.
func (p *Producer[T]) IsEmpty() bool { return p.ring.IsEmpty() }

// IsFull reports whether the producer's ring is full.
func (p *Producer[T]) IsFull() bool { return p.ring.IsFull() }

// Consumer merges the rings of finished producers. This is the cold
// path: rings are added only after their producer goroutines have
// stopped pushing.
type Consumer[T any] struct {
	rings *queue.Queue
}

func newConsumer[T any]() *Consumer[T] {
	return &Consumer[T]{rings: queue.New()}
}

func (c *Consumer[T]) addRing(r *Ring[T]) {
	c.rings.Add(r)
}

// Drain sends every remaining live item from every collected ring to
// sink, in the order the rings were added and oldest-to-newest within
// each ring, and finally flushes sink once.
func (c *Consumer[T]) Drain(sink Sink[T]) {
	for i := 0; i < c.rings.Length(); i++ {
		SendAll(sink, c.rings.Get(i).(*Ring[T]).Drain())
	}
	sink.Flush()
}

// NumProducers returns the number of collected rings.
func (c *Consumer[T]) NumProducers() int {
	return c.rings.Length()
}

// Len returns the total number of live items across collected rings.
func (c *Consumer[T]) Len() int {
	total := 0
	for i := 0; i < c.rings.Length(); i++ {
		total += c.rings.Get(i).(*Ring[T]).Len()
	}
	return total
}

// Capacity returns the summed capacity of the collected rings.
func (c *Consumer[T]) Capacity() int {
	total := 0
	for i := 0; i < c.rings.Length(); i++ {
		total += c.rings.Get(i).(*Ring[T]).Capacity()
	}
	return total
}

// IsEmpty reports whether no collected ring holds a live item.
func (c *Consumer[T]) IsEmpty() bool {
	return c.Len() == 0
}

// NewGroup returns numProducers independent producers, each owning a
// ring of the given capacity with a discard sink, plus an empty
// consumer to collect them into later.
func NewGroup[T any](capacity, numProducers int) ([]*Producer[T], *Consumer[T]) {
	producers := make([]*Producer[T], numProducers)
	for i := range producers {
		producers[i] = &Producer[T]{ring: New[T](capacity)}
	}
	return producers, newConsumer[T]()
}

// NewGroupWithSink is NewGroup with each producer's ring evicting into
// its own clone of sink.
func NewGroupWithSink[T any](capacity, numProducers int, sink CloneableSink[T]) ([]*Producer[T], *Consumer[T]) {
	producers := make([]*Producer[T], numProducers)
	for i := range producers {
		producers[i] = &Producer[T]{ring: NewWithSink[T](capacity, sink.Clone())}
	}
	return producers, newConsumer[T]()
}

// CollectProducers transfers each producer's ring into the consumer.
// Call it only after the producer goroutines have stopped pushing; a
// producer is unusable afterwards.
func CollectProducers[T any](producers []*Producer[T], c *Consumer[T]) {
	for _, p := range producers {
		c.addRing(p.ring)
		p.ring = nil
	}
}
