// Package index provides the two counter strategies a ring can be
// instantiated with: a plain counter for single-owner rings and an
// atomically ordered counter for cross-goroutine SPSC rings.
//
// The strategy is fixed when the ring type is instantiated and is
// never mixed within one ring.
package index

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Plain is a monotonically increasing counter with no synchronization.
// Valid only while the ring has a single logical owner.
type Plain struct {
	v uint64
	_ cpu.CacheLinePad
}

// Load returns the counter value.
func (p *Plain) Load() uint64 { return p.v }

// LoadRelaxed is identical to Load for a plain counter.
func (p *Plain) LoadRelaxed() uint64 { return p.v }

// Store sets the counter value.
func (p *Plain) Store(v uint64) { p.v = v }

// Atomic is a monotonically increasing counter with atomic loads and
// stores. A goroutine that observes a stored value also observes every
// write the storing goroutine made before the store, which is what
// makes cross-goroutine SPSC use of a ring memory-safe.
// The padding prevents false sharing between the two counters.
type Atomic struct {
	v atomic.Uint64
	_ cpu.CacheLinePad
}

// Load returns the counter value with acquire semantics.
func (a *Atomic) Load() uint64 { return a.v.Load() }

// LoadRelaxed reads the counter from its owning side. Go's memory
// model exposes no relaxed ordering, so this is a full atomic load.
func (a *Atomic) LoadRelaxed() uint64 { return a.v.Load() }

// Store sets the counter value with release semantics.
func (a *Atomic) Store(v uint64) { a.v.Store(v) }
