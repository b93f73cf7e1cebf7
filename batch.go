package spill

// BatchSink buffers items up to a threshold count and then forwards
// the accumulated batch as a single slice to an inner sink.
type BatchSink[T any] struct {
	threshold int
	buf       []T
	inner     Sink[[]T]
}

// NewBatchSink returns a batching sink. threshold must be positive;
// NewBatchSink panics otherwise.
func NewBatchSink[T any](threshold int, inner Sink[[]T]) *BatchSink[T] {
	if threshold <= 0 {
		panic("spill: batch threshold must be positive")
	}
	return &BatchSink[T]{
		threshold: threshold,
		buf:       make([]T, 0, threshold),
		inner:     inner,
	}
}

func (b *BatchSink[T]) Send(item T) {
	b.buf = append(b.buf, item)
	if len(b.buf) >= b.threshold {
		b.forward()
	}
}

// Flush forwards any partial batch, even below threshold, and then
// flushes the inner sink. With nothing buffered only the inner flush
// happens.
func (b *BatchSink[T]) Flush() {
	if len(b.buf) > 0 {
		b.forward()
	}
	b.inner.Flush()
}

func (b *BatchSink[T]) forward() {
	batch := b.buf
	b.buf = make([]T, 0, b.threshold)
	b.inner.Send(batch)
}

// Threshold returns the batch size.
func (b *BatchSink[T]) Threshold() int { return b.threshold }

// Buffered returns the number of items waiting for the next batch.
func (b *BatchSink[T]) Buffered() int { return len(b.buf) }

// Inner returns the wrapped sink.
func (b *BatchSink[T]) Inner() Sink[[]T] { return b.inner }

// ReduceSink buffers items like BatchSink but applies a reduction to
// each full batch before forwarding the (possibly different-typed)
// result to an inner sink. Partial batches on flush are reduced too.
type ReduceSink[T, R any] struct {
	threshold int
	buf       []T
	reduce    func([]T) R
	inner     Sink[R]
}

// NewReduceSink returns a reducing sink. threshold must be positive;
// NewReduceSink panics otherwise.
func NewReduceSink[T, R any](threshold int, reduce func([]T) R, inner Sink[R]) *ReduceSink[T, R] {
	if threshold <= 0 {
		panic("spill: reduce threshold must be positive")
	}
	return &ReduceSink[T, R]{
		threshold: threshold,
		buf:       make([]T, 0, threshold),
		reduce:    reduce,
		inner:     inner,
	}
}

func (r *ReduceSink[T, R]) Send(item T) {
	r.buf = append(r.buf, item)
	if len(r.buf) >= r.threshold {
		r.forward()
	}
}

// Flush reduces and forwards any partial batch and then flushes the
// inner sink.
func (r *ReduceSink[T, R]) Flush() {
	if len(r.buf) > 0 {
		r.forward()
	}
	r.inner.Flush()
}

func (r *ReduceSink[T, R]) forward() {
	batch := r.buf
	r.buf = make([]T, 0, r.threshold)
	r.inner.Send(r.reduce(batch))
}

// Threshold returns the batch size.
func (r *ReduceSink[T, R]) Threshold() int { return r.threshold }

// Buffered returns the number of items waiting for the next batch.
func (r *ReduceSink[T, R]) Buffered() int { return len(r.buf) }

// Inner returns the wrapped sink.
func (r *ReduceSink[T, R]) Inner() Sink[R] { return r.inner }
