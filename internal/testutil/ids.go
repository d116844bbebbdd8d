// Package testutil provides deterministic substitutes for the
// nondeterministic pieces of the runtime, enabling byte-identical test
// output.
package testutil

import (
	"sync"
)

// RunIDs returns predetermined run identifiers in order.
//
// This enables deterministic trace tests and golden comparison: the same
// scenario with the same RunIDs produces byte-identical trace rows.
//
// Thread-safety: safe for concurrent use via internal mutex.
type RunIDs struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewRunIDs creates a generator that returns ids in order.
//
// Example:
//
//	gen := testutil.NewRunIDs("run-1", "run-2")
//	gen.NewID() // "run-1"
//	gen.NewID() // "run-2"
//	gen.NewID() // panic: all ids exhausted
func NewRunIDs(ids ...string) *RunIDs {
	return &RunIDs{ids: ids}
}

// NewID returns the next predetermined identifier.
//
// Panics when all ids are consumed. This fail-fast catches test
// misconfiguration (more runs started than the test expected).
func (g *RunIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("RunIDs: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
