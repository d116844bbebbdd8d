package lsys

import (
	"fmt"
)

// MatchSpec is the context window a rule requires: an optional left kind,
// a required direct kind, and an optional right kind. An empty Kind means
// no requirement on that side.
type MatchSpec struct {
	Left   Kind
	Direct Kind
	Right  Kind
}

// describe renders the spec in conventional L-system context notation:
// "L<D", "D>R", "L<D>R", or just "D" for context-free rules.
func (s MatchSpec) describe() string {
	switch {
	case s.Left != "" && s.Right != "":
		return fmt.Sprintf("%s<%s>%s", s.Left, s.Direct, s.Right)
	case s.Left != "":
		return fmt.Sprintf("%s<%s", s.Left, s.Direct)
	case s.Right != "":
		return fmt.Sprintf("%s>%s", s.Direct, s.Right)
	default:
		return string(s.Direct)
	}
}

// GuardFunc is an optional predicate evaluated only after kind matching
// succeeds. It receives the concrete context window and the current
// parameter snapshot. A returned error (typically a ContractViolationError
// from a failed downcast) aborts the generation.
type GuardFunc func(set ModuleSet, param Value) (bool, error)

// ProducerFunc computes the replacement sequence for a matched position.
// Returning an empty slice deletes the position from the next generation.
type ProducerFunc func(set ModuleSet, pc *ProduceContext) ([]Module, error)

// Rule matches a context window and, on match, produces a replacement
// module sequence.
//
// One rule shape covers every context arity: context-free rules leave Left
// and Right unset, context-sensitive rules set one or both. Guards and
// stochastic or parameterized production layer onto the same shape rather
// than forming separate rule kinds.
//
// Rule is a value type. Named and Where return modified copies, so a rule
// shared between grammars is never mutated through either.
type Rule struct {
	name    string
	spec    MatchSpec
	guard   GuardFunc
	produce ProducerFunc
}

// NewRule creates a rule from a match spec and a producer.
//
// Most callers use the typed constructors (Rewrite, RewriteLeft,
// RewriteRight, RewriteBetween) instead; those add the checked downcast
// that turns a mistyped kind registration into a ContractViolationError.
func NewRule(spec MatchSpec, produce ProducerFunc) Rule {
	if spec.Direct == "" {
		panic("lsys: rule requires a direct kind")
	}
	if produce == nil {
		panic("lsys: rule requires a producer")
	}
	return Rule{spec: spec, produce: produce}
}

// Named returns a copy of the rule carrying a display name for traces and
// error messages.
func (r Rule) Named(name string) Rule {
	r.name = name
	return r
}

// Where returns a copy of the rule carrying a guard predicate. The guard
// runs only after kind matching succeeds.
func (r Rule) Where(guard GuardFunc) Rule {
	r.guard = guard
	return r
}

// Name returns the rule's display name, or its context notation for
// anonymous rules.
func (r Rule) Name() string {
	if r.name != "" {
		return r.name
	}
	return r.spec.describe()
}

// Spec returns the rule's context window requirements.
func (r Rule) Spec() MatchSpec {
	return r.spec
}

// Matches reports whether the rule applies to the context window.
//
// The kinds are tested first: the direct kind must equal the window's, and
// a declared left or right kind requires that neighbor to exist and match.
// Only then does the optional guard run on the concrete instances. A guard
// error propagates with the rule's name attached.
func (r Rule) Matches(set ModuleSet, param Value) (bool, error) {
	if set.Direct().Kind() != r.spec.Direct {
		return false, nil
	}
	if r.spec.Left != "" {
		left, ok := set.Left()
		if !ok || left.Kind() != r.spec.Left {
			return false, nil
		}
	}
	if r.spec.Right != "" {
		right, ok := set.Right()
		if !ok || right.Kind() != r.spec.Right {
			return false, nil
		}
	}
	if r.guard != nil {
		ok, err := r.guard(set, param)
		if err != nil {
			return false, fmt.Errorf("guard for rule %q: %w", r.Name(), err)
		}
		return ok, nil
	}
	return true, nil
}

// Produce runs the rule's producer on a matched context window.
func (r Rule) Produce(set ModuleSet, pc *ProduceContext) ([]Module, error) {
	out, err := r.produce(set, pc)
	if err != nil {
		return nil, fmt.Errorf("producer for rule %q: %w", r.Name(), err)
	}
	return out, nil
}

// ProduceContext carries the plumbing available to producers: random draws
// advance the lineage's single cursor, and parameter replacement follows
// last-write-wins across the generation.
type ProduceContext struct {
	rand   *RandomSource
	params *ParameterState
}

// Rand returns the lineage's random source. Producers must draw a fixed
// number of values per matched context for derivations to reproduce.
func (pc *ProduceContext) Rand() *RandomSource {
	return pc.rand
}

// Param returns the current parameter snapshot. Nil when the system is
// unparameterized.
func (pc *ProduceContext) Param() Value {
	return pc.params.Snapshot()
}

// SetParam replaces the shared parameter value. The new value is visible
// to every later producer call in this and subsequent generations.
func (pc *ProduceContext) SetParam(v Value) {
	pc.params.Replace(v)
}
