package spill

import (
	"runtime"
	"slices"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNew_PanicsOnInvalidCapacity(t *testing.T) {
	testCases := []struct {
		name     string
		capacity int
	}{
		{name: "zero", capacity: 0},
		{name: "negative", capacity: -8},
		{name: "not a power of two", capacity: 3},
		{name: "even but not a power of two", capacity: 12},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("New(%d) did not panic", tc.capacity)
				}
			}()
			New[int](tc.capacity)
		})
	}
}

func TestRing_LenWithinCapacity(t *testing.T) {
	sink := NewCollect[int]()
	r := NewWithSink[int](4, sink)

	for i, v := range []int{1, 2, 3, 4} {
		r.Push(v)
		if got, want := r.Len(), i+1; got != want {
			t.Fatalf("Len() = %d after %d pushes, want %d", got, i+1, want)
		}
	}
	if got := sink.Items(); len(got) != 0 {
		t.Errorf("sink received %v before capacity was exceeded", got)
	}
	if !r.IsFull() {
		t.Errorf("IsFull() = false with %d of %d slots used", r.Len(), r.Capacity())
	}
}

func TestRing_EvictsOldestToSink(t *testing.T) {
	sink := NewCollect[int]()
	r := NewWithSink[int](4, sink)

	for _, v := range []int{1, 2, 3, 4, 5, 6} {
		r.Push(v)
	}

	if diff := cmp.Diff([]int{1, 2}, sink.Items()); diff != "" {
		t.Errorf("evicted items mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{3, 4, 5, 6}, slices.Collect(r.Drain())); diff != "" {
		t.Errorf("remaining items mismatch (-want +got):\n%s", diff)
	}
}

func TestRing_PopFIFO(t *testing.T) {
	r := New[int](8)

	// Interleave pushes and pops across the wrap point.
	var got []int
	next := 1
	for round := 0; round < 5; round++ {
		for i := 0; i < 3; i++ {
			r.Push(next)
			next++
		}
		for i := 0; i < 3; i++ {
			v, ok := r.Pop()
			if !ok {
				t.Fatalf("Pop() empty after %d pops", len(got))
			}
			got = append(got, v)
		}
	}

	want := make([]int, 15)
	for i := range want {
		want[i] = i + 1
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("pop order mismatch (-want +got):\n%s", diff)
	}
	if _, ok := r.Pop(); ok {
		t.Error("Pop() on empty ring returned ok")
	}
}

func TestRing_TryPush(t *testing.T) {
	sink := NewCollect[int]()
	r := NewWithSink[int](2, sink)

	if !r.TryPush(1) || !r.TryPush(2) {
		t.Fatal("TryPush failed below capacity")
	}
	if r.TryPush(3) {
		t.Error("TryPush succeeded on a full ring")
	}
	if got := sink.Items(); len(got) != 0 {
		t.Errorf("TryPush evicted %v", got)
	}

	if v, _ := r.Pop(); v != 1 {
		t.Fatalf("Pop() = %d, want 1", v)
	}
	if !r.TryPush(3) {
		t.Error("TryPush failed after a Pop made room")
	}
}

func TestRing_PeekAndAt(t *testing.T) {
	r := New[string](4)

	if _, ok := r.Peek(); ok {
		t.Error("Peek() on empty ring returned ok")
	}
	if _, ok := r.PeekBack(); ok {
		t.Error("PeekBack() on empty ring returned ok")
	}

	r.Push("a")
	r.Push("b")
	r.Push("c")

	if v, _ := r.Peek(); v != "a" {
		t.Errorf("Peek() = %q, want %q", v, "a")
	}
	if v, _ := r.PeekBack(); v != "c" {
		t.Errorf("PeekBack() = %q, want %q", v, "c")
	}
	if got := r.Len(); got != 3 {
		t.Errorf("Len() = %d after peeks, want 3", got)
	}

	for i, want := range []string{"a", "b", "c"} {
		if v, ok := r.At(i); !ok || v != want {
			t.Errorf("At(%d) = %q, %v, want %q, true", i, v, ok, want)
		}
	}
	if _, ok := r.At(3); ok {
		t.Error("At(len) returned ok")
	}
	if _, ok := r.At(-1); ok {
		t.Error("At(-1) returned ok")
	}
}

func TestRing_FlushOrderAndIdempotence(t *testing.T) {
	sink := NewCollect[int]()
	r := NewWithSink[int](4, sink)

	r.Push(1)
	r.Push(2)
	r.Push(3)

	if got := r.Flush(); got != 3 {
		t.Errorf("Flush() = %d, want 3", got)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, sink.Items()); diff != "" {
		t.Errorf("flushed items mismatch (-want +got):\n%s", diff)
	}
	if !r.IsEmpty() {
		t.Error("ring not empty after Flush")
	}

	if got := r.Flush(); got != 0 {
		t.Errorf("second Flush() = %d, want 0", got)
	}
	if got := len(sink.Items()); got != 3 {
		t.Errorf("second Flush reached the sink, item count %d", got)
	}
}

func TestRing_ClearAndReset(t *testing.T) {
	sink := NewCollect[int]()
	r := NewWithSink[int](4, sink)

	r.Push(1)
	r.Push(2)
	r.Clear()
	if diff := cmp.Diff([]int{1, 2}, sink.Take()); diff != "" {
		t.Errorf("Clear did not notify the sink (-want +got):\n%s", diff)
	}

	r.Push(3)
	r.Push(4)
	r.Reset()
	if !r.IsEmpty() {
		t.Error("ring not empty after Reset")
	}
	if got := sink.Items(); len(got) != 0 {
		t.Errorf("Reset reached the sink: %v", got)
	}
}

func TestRing_DrainIsOneShot(t *testing.T) {
	r := New[int](8)
	r.Push(1)
	r.Push(2)
	r.Push(3)

	if diff := cmp.Diff([]int{1, 2, 3}, slices.Collect(r.Drain())); diff != "" {
		t.Errorf("drained items mismatch (-want +got):\n%s", diff)
	}
	if got := slices.Collect(r.Drain()); got != nil {
		t.Errorf("second Drain yielded %v, want nothing", got)
	}
}

func TestRing_ValuesDoesNotRemove(t *testing.T) {
	r := New[int](4)
	r.Push(10)
	r.Push(20)

	if diff := cmp.Diff([]int{10, 20}, slices.Collect(r.Values())); diff != "" {
		t.Errorf("Values mismatch (-want +got):\n%s", diff)
	}
	if got := r.Len(); got != 2 {
		t.Errorf("Len() = %d after Values, want 2", got)
	}
}

func TestRing_ValuesMutMutatesInPlace(t *testing.T) {
	r := New[int](4)
	r.Push(1)
	r.Push(2)
	r.Push(3)

	for p := range r.ValuesMut() {
		*p *= 10
	}
	if diff := cmp.Diff([]int{10, 20, 30}, slices.Collect(r.Drain())); diff != "" {
		t.Errorf("mutated items mismatch (-want +got):\n%s", diff)
	}
}

func TestRing_PushAllEvicts(t *testing.T) {
	sink := NewCollect[int]()
	r := NewWithSink[int](4, sink)

	r.PushAll(slices.Values([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}))

	if diff := cmp.Diff([]int{0, 1, 2, 3, 4, 5}, sink.Items()); diff != "" {
		t.Errorf("evicted items mismatch (-want +got):\n%s", diff)
	}
	if v, _ := r.Peek(); v != 6 {
		t.Errorf("Peek() = %d, want 6", v)
	}
}

func TestRing_CloseFlushesRingThenSink(t *testing.T) {
	var items []int
	flushes := 0
	r := NewWithSink[int](4, NewFuncSink(
		func(v int) { items = append(items, v) },
		func() { flushes++ },
	))

	r.Push(1)
	r.Push(2)
	r.Close()

	if diff := cmp.Diff([]int{1, 2}, items); diff != "" {
		t.Errorf("items at close mismatch (-want +got):\n%s", diff)
	}
	if flushes != 1 {
		t.Errorf("sink flushed %d times, want 1", flushes)
	}

	// Closing again has nothing left to do but the sink flush, which
	// must be idempotent-safe.
	r.Close()
	if len(items) != 2 {
		t.Errorf("second Close resent items: %v", items)
	}
}

func TestRing_ChainedRings(t *testing.T) {
	final := NewCollect[int]()
	ringB := NewWithSink[int](2, final)
	ringA := NewWithSink[int](2, ringB.AsSink())

	for i := 1; i <= 6; i++ {
		ringA.Push(i)
	}

	if diff := cmp.Diff([]int{1, 2}, final.Items()); diff != "" {
		t.Errorf("terminal sink mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{3, 4}, slices.Collect(ringB.Drain())); diff != "" {
		t.Errorf("ring B mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{5, 6}, slices.Collect(ringA.Drain())); diff != "" {
		t.Errorf("ring A mismatch (-want +got):\n%s", diff)
	}
}

func TestRing_ChainedCloseCascades(t *testing.T) {
	var collected []int
	final := SinkFunc[int](func(v int) { collected = append(collected, v) })
	ringB := NewWithSink[int](4, final)
	ringA := NewWithSink[int](4, ringB.AsSink())

	ringA.Push(10)
	ringA.Push(20)
	ringA.Push(30)
	ringA.Close()

	if diff := cmp.Diff([]int{10, 20, 30}, collected); diff != "" {
		t.Errorf("cascaded close mismatch (-want +got):\n%s", diff)
	}
}

func TestSPSCRing_EvictsLikeSingleOwner(t *testing.T) {
	sink := NewCollect[int]()
	r := NewSPSCWithSink[int](4, sink)

	for _, v := range []int{1, 2, 3, 4, 5, 6} {
		r.Push(v)
	}
	if diff := cmp.Diff([]int{1, 2}, sink.Items()); diff != "" {
		t.Errorf("evicted items mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{3, 4, 5, 6}, slices.Collect(r.Drain())); diff != "" {
		t.Errorf("remaining items mismatch (-want +got):\n%s", diff)
	}
}

func TestSPSCRing_CrossGoroutineFIFO(t *testing.T) {
	const total = 10000
	r := NewSPSC[int](64)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			// Backpressure: never push into a full ring, so the
			// producer-side eviction path cannot race with Pop.
			for !r.TryPush(i) {
				runtime.Gosched()
			}
		}
	}()

	got := make([]int, 0, total)
	for len(got) < total {
		v, ok := r.Pop()
		if !ok {
			runtime.Gosched()
			continue
		}
		got = append(got, v)
	}
	wg.Wait()

	for i, v := range got {
		if v != i {
			t.Fatalf("got[%d] = %d, want %d", i, v, i)
		}
	}
}
