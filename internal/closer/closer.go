// Package closer latches the one-way transition from running to shut
// down.
package closer

import "sync/atomic"

// Closer represents the running/shut-down state of a component.
// Its zero value represents the running state.
type Closer struct {
	closed atomic.Bool
}

// Close attempts the transition to shut down.
// It returns true for exactly one caller.
func (c *Closer) Close() bool {
	return c.closed.CompareAndSwap(false, true)
}

// IsClosed returns true if Close has been called.
func (c *Closer) IsClosed() bool {
	return c.closed.Load()
}
