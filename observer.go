package lsys

// Production records one non-identity rewrite within a generation.
type Production struct {
	// Position is the index in the source sequence that matched.
	Position int

	// Rule is the display name of the matched rule.
	Rule string

	// RuleIndex is the rule's registration index in the grammar.
	RuleIndex int

	// Produced is the number of modules the rule emitted. Zero marks a
	// deletion.
	Produced int
}

// GenerationRecord summarizes one completed evolve pass.
type GenerationRecord struct {
	// Generation numbers the state the pass produced; the axiom is
	// generation zero.
	Generation int

	// Length is the module count of the produced state.
	Length int

	// Hash is the canonical state hash of the produced state.
	Hash string

	// Productions lists the pass's non-identity rewrites in source order.
	Productions []Production
}

// Observer receives a record after each completed generation.
//
// Observers run synchronously on the evolving goroutine in registration
// order. An observer error is logged and evolution continues: tracing
// never alters a derivation.
type Observer interface {
	ObserveGeneration(rec GenerationRecord) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(rec GenerationRecord) error

// ObserveGeneration implements Observer.
func (f ObserverFunc) ObserveGeneration(rec GenerationRecord) error {
	return f(rec)
}
