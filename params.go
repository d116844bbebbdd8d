package lsys

// ParameterState is the single shared value threaded through rule
// evaluation.
//
// Producers read the current value through a per-call snapshot and replace
// it explicitly; a replacement is visible to every later producer call in
// the same or later generations. Within one generation this is
// last-write-wins in evaluation order, with no isolation across positions.
//
// A ParameterState belongs to exactly one derivation lineage and is used
// from a single goroutine, matching the engine's strictly sequential
// execution model. It carries no internal locking.
type ParameterState struct {
	value Value
}

// NewParameterState creates a ParameterState holding an initial value.
// The value may be nil when the grammar is unparameterized.
func NewParameterState(v Value) *ParameterState {
	return &ParameterState{value: v}
}

// Snapshot returns the current value.
func (p *ParameterState) Snapshot() Value {
	return p.value
}

// Replace installs a new value, visible to all later reads.
func (p *ParameterState) Replace(v Value) {
	p.value = v
}
