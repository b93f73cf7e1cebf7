// Package promsink decorates a spill.Sink with Prometheus counters.
//
// Spill rings shed load by design, so the first thing an operator
// wants to know is how much is being shed and where it goes. Wrap the
// overflow sink of a ring (or the target sink of a drain) to count
// every item and flush that passes through.
package promsink

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/abmac-io/spill"
)

// Sink counts traffic through a wrapped sink.
type Sink[T any] struct {
	inner   spill.Sink[T]
	items   prometheus.Counter
	flushes prometheus.Counter
}

// New wraps inner and registers the counters on reg. The name label
// distinguishes multiple instrumented sinks on one registry; New
// panics if the same name is registered twice.
func New[T any](inner spill.Sink[T], reg prometheus.Registerer, name string) *Sink[T] {
	s := &Sink[T]{
		inner: inner,
		items: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "spill",
			Subsystem:   "sink",
			Name:        "items_total",
			Help:        "Total number of items sent to the sink",
			ConstLabels: prometheus.Labels{"sink": name},
		}),
		flushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "spill",
			Subsystem:   "sink",
			Name:        "flushes_total",
			Help:        "Total number of sink flushes",
			ConstLabels: prometheus.Labels{"sink": name},
		}),
	}
	reg.MustRegister(s.items, s.flushes)
	return s
}

func (s *Sink[T]) Send(item T) {
	s.items.Inc()
	s.inner.Send(item)
}

func (s *Sink[T]) Flush() {
	s.flushes.Inc()
	s.inner.Flush()
}

// Inner returns the wrapped sink.
func (s *Sink[T]) Inner() spill.Sink[T] { return s.inner }
