package spill

import (
	"fmt"
	"iter"

	"golang.org/x/sys/cpu"

	"github.com/abmac-io/spill/internal/index"
)

// counter is the strategy interface both counter implementations
// satisfy through their pointer type. The pointer constraint makes the
// strategy a type-level decision: after instantiation the calls are
// direct, with no dynamic dispatch on the hot path.
type counter[C any] interface {
	*C
	Load() uint64
	LoadRelaxed() uint64
	Store(uint64)
}

// Ring is a fixed-capacity ring buffer for a single logical owner.
// It uses plain counters with zero synchronization overhead and must
// never be shared across goroutines.
type Ring[T any] = ring[T, index.Plain, *index.Plain]

// SPSCRing is a fixed-capacity ring buffer safe for exactly one
// pushing goroutine and exactly one popping goroutine. Its counters
// use atomic loads and stores, so a consumer that observes a new tail
// also observes the corresponding slot write.
//
// A full-ring Push evicts by advancing head, the same counter Pop
// advances. The two paths are not mutually excluded: callers must
// apply backpressure (keep Len() below Capacity()-1, e.g. via TryPush)
// so the ring never evicts while a concurrent Pop may be running.
type SPSCRing[T any] = ring[T, index.Atomic, *index.Atomic]

// ring is the shared core behind Ring and SPSCRing.
//
// head is the logical index of the oldest live element, tail one past
// the newest. Slot address is counter & mask. The counters only grow;
// 0 <= tail-head <= len(buf) holds at every observable point.
type ring[T any, C any, PC counter[C]] struct {
	mask uint64
	buf  []T
	sink Sink[T]
	_    cpu.CacheLinePad
	head C
	tail C
}

// New returns a single-owner ring that drops evicted items.
// capacity must be a positive power of two; New panics otherwise.
func New[T any](capacity int) *Ring[T] {
	return NewWithSink[T](capacity, Discard[T]{})
}

// NewWithSink returns a single-owner ring that evicts into sink.
// capacity must be a positive power of two; NewWithSink panics
// otherwise.
func NewWithSink[T any](capacity int, sink Sink[T]) *Ring[T] {
	return &Ring[T]{
		mask: capMask(capacity),
		buf:  make([]T, capacity),
		sink: sink,
	}
}

// NewSPSC returns an SPSC ring that drops evicted items.
// capacity must be a positive power of two; NewSPSC panics otherwise.
func NewSPSC[T any](capacity int) *SPSCRing[T] {
	return NewSPSCWithSink[T](capacity, Discard[T]{})
}

// NewSPSCWithSink returns an SPSC ring that evicts into sink.
// The sink runs on the pushing goroutine.
// capacity must be a positive power of two; NewSPSCWithSink panics
// otherwise.
func NewSPSCWithSink[T any](capacity int, sink Sink[T]) *SPSCRing[T] {
	return &SPSCRing[T]{
		mask: capMask(capacity),
		buf:  make([]T, capacity),
		sink: sink,
	}
}

func capMask(capacity int) uint64 {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		panic(fmt.Sprintf("spill: ring capacity must be a positive power of two, got %d", capacity))
	}
	return uint64(capacity) - 1
}

// Push adds an item. If the ring is full, the oldest item is first
// evicted to the sink, synchronously on the calling goroutine.
// Push never fails and never blocks.
func (r *ring[T, C, PC]) Push(item T) {
	tail := PC(&r.tail).LoadRelaxed()
	head := PC(&r.head).Load()

	if tail-head >= uint64(len(r.buf)) {
		evicted := r.buf[head&r.mask]
		PC(&r.head).Store(head + 1)
		r.sink.Send(evicted)
	}

	r.buf[tail&r.mask] = item
	PC(&r.tail).Store(tail + 1)
}

// TryPush adds an item only if the ring has room, reporting whether it
// did. It never evicts: callers that want explicit backpressure use
// TryPush instead of Push.
func (r *ring[T, C, PC]) TryPush(item T) bool {
	tail := PC(&r.tail).LoadRelaxed()
	head := PC(&r.head).Load()

	if tail-head >= uint64(len(r.buf)) {
		return false
	}

	r.buf[tail&r.mask] = item
	PC(&r.tail).Store(tail + 1)
	return true
}

// PushAll pushes every element of seq in order, evicting as needed.
func (r *ring[T, C, PC]) PushAll(seq iter.Seq[T]) {
	for item := range seq {
		r.Push(item)
	}
}

// PushAndFlush pushes an item and then flushes the whole ring to the
// sink.
func (r *ring[T, C, PC]) PushAndFlush(item T) {
	r.Push(item)
	r.Flush()
}

// Pop removes and returns the oldest item. The sink is not involved.
func (r *ring[T, C, PC]) Pop() (T, bool) {
	head := PC(&r.head).LoadRelaxed()
	tail := PC(&r.tail).Load()

	var zero T
	if head == tail {
		return zero, false
	}

	item := r.buf[head&r.mask]
	r.buf[head&r.mask] = zero // release the slot's reference
	PC(&r.head).Store(head + 1)
	return item, true
}

// Peek returns the oldest item without removing it.
func (r *ring[T, C, PC]) Peek() (T, bool) {
	head := PC(&r.head).LoadRelaxed()
	tail := PC(&r.tail).Load()

	if head == tail {
		var zero T
		return zero, false
	}
	return r.buf[head&r.mask], true
}

// PeekBack returns the newest item without removing it.
func (r *ring[T, C, PC]) PeekBack() (T, bool) {
	head := PC(&r.head).LoadRelaxed()
	tail := PC(&r.tail).Load()

	if head == tail {
		var zero T
		return zero, false
	}
	return r.buf[(tail-1)&r.mask], true
}

// At returns the i-th live item, 0 being the oldest.
func (r *ring[T, C, PC]) At(i int) (T, bool) {
	head := PC(&r.head).LoadRelaxed()
	tail := PC(&r.tail).Load()

	if i < 0 || uint64(i) >= tail-head {
		var zero T
		return zero, false
	}
	return r.buf[(head+uint64(i))&r.mask], true
}

// Len returns the number of live items.
func (r *ring[T, C, PC]) Len() int {
	return int(PC(&r.tail).Load() - PC(&r.head).Load())
}

// Capacity returns the fixed capacity.
func (r *ring[T, C, PC]) Capacity() int {
	return len(r.buf)
}

// IsEmpty reports whether the ring holds no items.
func (r *ring[T, C, PC]) IsEmpty() bool {
	return PC(&r.head).Load() == PC(&r.tail).Load()
}

// IsFull reports whether the ring is at capacity.
func (r *ring[T, C, PC]) IsFull() bool {
	return PC(&r.tail).Load()-PC(&r.head).Load() >= uint64(len(r.buf))
}

// Flush pops every live item and sends it to the sink, oldest first.
// It returns the number of items flushed. Flushing an empty ring is a
// no-op.
func (r *ring[T, C, PC]) Flush() int {
	count := 0
	for {
		item, ok := r.Pop()
		if !ok {
			return count
		}
		r.sink.Send(item)
		count++
	}
}

// Clear empties the ring, notifying the sink of every item.
func (r *ring[T, C, PC]) Clear() {
	r.Flush()
}

// Reset empties the ring without notifying the sink.
func (r *ring[T, C, PC]) Reset() {
	for {
		if _, ok := r.Pop(); !ok {
			return
		}
	}
}

// Drain returns a one-shot sequence that removes and yields every live
// item, oldest first. The sequence is not restartable: a second range
// over it sees only what was pushed after the first.
func (r *ring[T, C, PC]) Drain() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			item, ok := r.Pop()
			if !ok {
				return
			}
			if !yield(item) {
				return
			}
		}
	}
}

// Values returns a view sequence over the live items, oldest first,
// without removing them.
func (r *ring[T, C, PC]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		head := PC(&r.head).LoadRelaxed()
		tail := PC(&r.tail).Load()
		for i := head; i != tail; i++ {
			if !yield(r.buf[i&r.mask]) {
				return
			}
		}
	}
}

// ValuesMut returns a sequence of pointers to the live items, oldest
// first, for in-place mutation. Single-owner use only: no concurrent
// Push may run while a yielded pointer is live.
func (r *ring[T, C, PC]) ValuesMut() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		head := PC(&r.head).LoadRelaxed()
		tail := PC(&r.tail).Load()
		for i := head; i != tail; i++ {
			if !yield(&r.buf[i&r.mask]) {
				return
			}
		}
	}
}

// Sink returns the ring's sink.
func (r *ring[T, C, PC]) Sink() Sink[T] {
	return r.sink
}

// Close flushes every remaining item to the sink and then flushes the
// sink itself, so nothing live is silently dropped on an orderly
// teardown. Closing an empty ring again is a no-op.
func (r *ring[T, C, PC]) Close() {
	r.Flush()
	r.sink.Flush()
}

// AsSink adapts the ring into a Sink, so one ring's evictions can
// cascade into another. The adapter's Flush drains this ring into its
// own sink first and then flushes that sink: chained teardown is
// innermost-last. A ring must not be its own eventual sink, directly
// or transitively.
func (r *ring[T, C, PC]) AsSink() Sink[T] {
	return ringSink[T, C, PC]{r}
}

type ringSink[T any, C any, PC counter[C]] struct {
	r *ring[T, C, PC]
}

func (s ringSink[T, C, PC]) Send(item T) { s.r.Push(item) }
func (s ringSink[T, C, PC]) Flush()      { s.r.Close() }
