package spill

import (
	"log/slog"
	"runtime"
	"sync"

	"github.com/abmac-io/spill/internal/barrier"
	"github.com/abmac-io/spill/internal/closer"
)

// WorkFunc is one unit of pool work: push up to n items into the
// worker's ring.
type WorkFunc[T any] func(worker int, ring *Ring[T], n uint64)

// PoolOption customizes a Pool.
type PoolOption[T any] interface {
	f(*poolConfig[T])
}

type poolConfig[T any] struct {
	sink   CloneableSink[T]
	work   WorkFunc[T]
	logger *slog.Logger
}

type withSink[T any] struct{ sink CloneableSink[T] }

func (w withSink[T]) f(c *poolConfig[T]) { c.sink = w.sink }

// WithSink gives each worker's ring its own clone of sink.
func WithSink[T any](sink CloneableSink[T]) PoolOption[T] {
	return withSink[T]{sink}
}

type withWork[T any] struct{ work WorkFunc[T] }

func (w withWork[T]) f(c *poolConfig[T]) { c.work = w.work }

// WithWork sets the per-iteration work function. The default pushes n
// zero values.
func WithWork[T any](work WorkFunc[T]) PoolOption[T] {
	return withWork[T]{work}
}

type withLogger[T any] struct{ logger *slog.Logger }

func (w withLogger[T]) f(c *poolConfig[T]) { c.logger = w.logger }

// WithLogger sets the logger for pool lifecycle events.
// The default is slog.Default.
func WithLogger[T any](logger *slog.Logger) PoolOption[T] {
	return withLogger[T]{logger}
}

// Pool is a set of persistent workers, each pinned to its own OS
// thread and owning one ring for the pool's entire lifetime. The pool
// coordinates repeated bulk workloads through a command channel per
// worker and two rendezvous barriers per generation, which keeps the
// measured work isolated from command-dispatch overhead.
type Pool[T any] struct {
	cmds     []chan uint64
	outs     []chan *Ring[T]
	start    *barrier.Barrier
	done     *barrier.Barrier
	shutdown closer.Closer
	wg       sync.WaitGroup
	log      *slog.Logger
}

// NewPool spawns numWorkers persistent workers, each building a ring
// of the given capacity and pre-touching every slot. All workers are
// spawned and warmed before NewPool returns.
// numWorkers must be positive and capacity a positive power of two;
// NewPool panics otherwise.
func NewPool[T any](capacity, numWorkers int, opts ...PoolOption[T]) *Pool[T] {
	if numWorkers <= 0 {
		panic("spill: pool must have at least one worker")
	}
	capMask(capacity) // validate before spawning anything

	cfg := poolConfig[T]{work: pushZeroes[T], logger: slog.Default()}
	for _, opt := range opts {
		opt.f(&cfg)
	}

	p := &Pool[T]{
		cmds:  make([]chan uint64, numWorkers),
		outs:  make([]chan *Ring[T], numWorkers),
		start: barrier.New(numWorkers + 1),
		done:  barrier.New(numWorkers + 1),
		log:   cfg.logger,
	}
	ready := barrier.New(numWorkers + 1)
	for i := range numWorkers {
		p.cmds[i] = make(chan uint64)
		p.outs[i] = make(chan *Ring[T], 1)
		p.wg.Add(1)
		go p.worker(i, capacity, cfg, ready, p.cmds[i], p.outs[i])
	}
	ready.Wait()
	return p
}

func (p *Pool[T]) worker(id, capacity int, cfg poolConfig[T], ready *barrier.Barrier, cmd <-chan uint64, out chan<- *Ring[T]) {
	defer p.wg.Done()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var ring *Ring[T]
	if cfg.sink != nil {
		ring = NewWithSink[T](capacity, cfg.sink.Clone())
	} else {
		ring = New[T](capacity)
	}
	warm(ring)
	p.log.Debug("spill: pool worker ready", "worker", id)
	ready.Wait()

	for n := range cmd {
		p.start.Wait()
		cfg.work(id, ring, n)
		p.done.Wait()
	}
	p.log.Debug("spill: pool worker stopped", "worker", id)
	out <- ring
}

// warm touches every slot so first real use doesn't pay the cold-cache
// cost. No indices move: the ring stays empty.
func warm[T any](r *Ring[T]) {
	var zero T
	for i := range r.buf {
		r.buf[i] = zero
	}
}

func pushZeroes[T any](_ int, ring *Ring[T], n uint64) {
	var zero T
	for range n {
		ring.Push(zero)
	}
}

// Run broadcasts one unit of work to every worker and blocks until all
// workers have both started and finished it. Repeated calls
// accumulate.
func (p *Pool[T]) Run(n uint64) {
	p.Dispatch(n)
	p.WaitStart()
	p.WaitDone()
}

// Dispatch sends the work count to every worker without waiting.
// Follow with WaitStart and WaitDone to synchronize.
func (p *Pool[T]) Dispatch(n uint64) {
	for _, cmd := range p.cmds {
		cmd <- n
	}
}

// WaitStart blocks until every worker has begun the dispatched work.
func (p *Pool[T]) WaitStart() { p.start.Wait() }

// WaitDone blocks until every worker has finished the dispatched work.
func (p *Pool[T]) WaitDone() { p.done.Wait() }

// NumRings returns the number of workers, each owning one ring.
func (p *Pool[T]) NumRings() int { return len(p.cmds) }

// IntoConsumer tears the pool down: it signals shutdown, joins every
// worker, and collects each worker's ring into a fresh Consumer in
// worker order. Call it only after any outstanding Run has returned.
// After the first call the pool is spent; later calls return an empty
// consumer.
func (p *Pool[T]) IntoConsumer() *Consumer[T] {
	c := newConsumer[T]()
	if !p.shutdown.Close() {
		return c
	}
	p.join()
	for _, out := range p.outs {
		c.addRing(<-out)
	}
	return c
}

// Close tears the pool down without consuming it: workers are joined
// and every ring is flushed to its sink. Closing twice is a no-op.
func (p *Pool[T]) Close() {
	if !p.shutdown.Close() {
		return
	}
	p.join()
	for _, out := range p.outs {
		(<-out).Close()
	}
	p.log.Debug("spill: pool closed", "workers", len(p.cmds))
}

func (p *Pool[T]) join() {
	for _, cmd := range p.cmds {
		close(cmd)
	}
	p.wg.Wait()
}
