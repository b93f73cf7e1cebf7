// Package barrier provides a reusable rendezvous point for a fixed
// number of parties.
package barrier

import "sync"

// Barrier blocks each caller of Wait until all parties have arrived,
// then releases them together and resets for the next generation.
type Barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	parties int
	arrived int
	gen     uint64
}

// New returns a barrier for the given number of parties.
func New(parties int) *Barrier {
	if parties <= 0 {
		panic("barrier: parties must be positive")
	}
	b := &Barrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait blocks until all parties have called Wait in this generation.
func (b *Barrier) Wait() {
	b.mu.Lock()
	defer b.mu.Unlock()
	gen := b.gen
	b.arrived++
	if b.arrived == b.parties {
		b.arrived = 0
		b.gen++
		b.cond.Broadcast()
		return
	}
	for gen == b.gen {
		b.cond.Wait()
	}
}
