package lsys

import (
	"fmt"
	"log/slog"
)

// DefaultSeed seeds systems constructed without WithSeed or
// WithRandomSource. Derivations are reproducible by default.
const DefaultSeed = 0

// System is one generation of a derivation: a module sequence, its
// parallel newness flags, and the grammar and shared plumbing that produce
// the next generation.
//
// System is a value. Evolve returns a new System and leaves the receiver
// intact for inspection; the sequence is replaced wholesale per
// generation, never mutated in place. The RandomSource cursor and the
// ParameterState are the only components with cross-call identity: every
// System in one derivation lineage shares them, so a lineage must be
// evolved strictly sequentially from a single goroutine. There are no
// cancellation or retry semantics; Evolve either completes fully or fails
// without applying a partial generation.
type System struct {
	grammar    Grammar
	modules    []Module
	fresh      []bool
	generation int
	rand       *RandomSource
	params     *ParameterState
	observers  []Observer
	maxModules int // 0 = unbounded
	logger     *slog.Logger
}

// SystemOption configures a System at construction.
type SystemOption func(*System)

// WithSeed seeds the system's random source. Equivalent to
// WithRandomSource(NewRandomSource(seed)).
func WithSeed(seed int64) SystemOption {
	return func(s *System) {
		s.rand = NewRandomSource(seed)
	}
}

// WithRandomSource installs an existing random source. The source's cursor
// is shared by every System the derivation produces.
func WithRandomSource(r *RandomSource) SystemOption {
	return func(s *System) {
		s.rand = r
	}
}

// WithParameter sets the initial shared parameter value.
func WithParameter(v Value) SystemOption {
	return func(s *System) {
		s.params = NewParameterState(v)
	}
}

// WithObserver registers an observer notified after each completed
// generation. Observers run in registration order.
func WithObserver(o Observer) SystemOption {
	return func(s *System) {
		s.observers = append(s.observers, o)
	}
}

// WithMaxModules bounds the sequence length a generation may produce.
// Zero (the default) means unbounded. Exceeding the bound aborts the
// generation with a GrowthLimitError.
func WithMaxModules(n int) SystemOption {
	return func(s *System) {
		s.maxModules = n
	}
}

// WithLogger routes the system's debug logging. Defaults to slog.Default().
func WithLogger(l *slog.Logger) SystemOption {
	return func(s *System) {
		s.logger = l
	}
}

// NewSystem creates generation zero from an axiom and a grammar.
//
// The axiom is copied. Every axiom position is flagged not-new: newness
// marks modules introduced by the most recent Evolve call.
func NewSystem(axiom []Module, g Grammar, opts ...SystemOption) System {
	modules := make([]Module, len(axiom))
	copy(modules, axiom)

	s := System{
		grammar: g,
		modules: modules,
		fresh:   make([]bool, len(modules)),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.rand == nil {
		s.rand = NewRandomSource(DefaultSeed)
	}
	if s.params == nil {
		s.params = NewParameterState(nil)
	}
	return s
}

// Evolve applies one full rewrite pass and returns the next generation.
//
// The pass walks the sequence left to right exactly once. Each position's
// context window is scanned against the grammar's rules in registration
// order; the first match's output replaces the position with every output
// module flagged new, and a position no rule matches is carried over by
// identity production and flagged not-new. Rule output is never re-scanned
// within the same pass, so cost is linear in sequence length times rule
// count.
//
// A contract violation from a guard or producer aborts the pass with the
// failing position attached; the receiver is unchanged and no partial
// generation exists.
func (s System) Evolve() (System, error) {
	gen := s.generation + 1
	rules := s.grammar.rules
	pc := &ProduceContext{rand: s.rand, params: s.params}

	next := make([]Module, 0, len(s.modules)+len(s.modules)/2+1)
	fresh := make([]bool, 0, cap(next))
	var productions []Production

	for i := range s.modules {
		set := contextAt(s.modules, i)

		idx, err := firstMatch(rules, set, s.params.Snapshot())
		if err != nil {
			return System{}, fmt.Errorf("generation %d, position %d: %w", gen, i, err)
		}

		if idx < 0 {
			next = append(next, s.modules[i])
			fresh = append(fresh, false)
		} else {
			out, err := rules[idx].Produce(set, pc)
			if err != nil {
				return System{}, fmt.Errorf("generation %d, position %d: %w", gen, i, err)
			}
			next = append(next, out...)
			for range out {
				fresh = append(fresh, true)
			}
			productions = append(productions, Production{
				Position:  i,
				Rule:      rules[idx].Name(),
				RuleIndex: idx,
				Produced:  len(out),
			})
		}

		if s.maxModules > 0 && len(next) > s.maxModules {
			return System{}, &GrowthLimitError{Generation: gen, Length: len(next), Limit: s.maxModules}
		}
	}

	evolved := s
	evolved.modules = next
	evolved.fresh = fresh
	evolved.generation = gen

	s.logger.Debug("generation complete",
		"generation", gen,
		"length", len(next),
		"productions", len(productions),
		"draws", s.rand.Draws())

	evolved.notifyObservers(GenerationRecord{
		Generation:  gen,
		Length:      len(next),
		Hash:        evolved.Hash(),
		Productions: productions,
	})

	return evolved, nil
}

// Generations applies Evolve n times, each output feeding the next call.
// Zero returns the receiver unchanged; a negative count panics.
func (s System) Generations(n int) (System, error) {
	if n < 0 {
		panic(fmt.Sprintf("lsys: negative generation count %d", n))
	}
	cur := s
	for i := 0; i < n; i++ {
		next, err := cur.Evolve()
		if err != nil {
			return System{}, err
		}
		cur = next
	}
	return cur, nil
}

// notifyObservers delivers a completed generation record. Observer errors
// are logged and skipped; tracing never alters a derivation.
func (s System) notifyObservers(rec GenerationRecord) {
	for _, o := range s.observers {
		if err := o.ObserveGeneration(rec); err != nil {
			s.logger.Error("observer failed, continuing",
				"generation", rec.Generation,
				"error", err)
		}
	}
}

// Len returns the number of modules in the current state.
func (s System) Len() int {
	return len(s.modules)
}

// Generation returns the generation number. The axiom is generation zero.
func (s System) Generation() int {
	return s.generation
}

// StateAt returns the module at index i and whether it was introduced by
// the most recent Evolve call.
//
// The index must satisfy 0 <= i < Len(); out-of-range access is a
// programmer error and panics. Callers validate indices beforehand.
func (s System) StateAt(i int) (Module, bool) {
	s.checkIndex(i)
	return s.modules[i], s.fresh[i]
}

// AttributeNames returns the diagnostic attribute names of the module at
// index i in sorted order, excluding bookkeeping fields such as the
// display name. The index contract matches StateAt.
func (s System) AttributeNames(i int) []string {
	s.checkIndex(i)
	return attrNames(s.modules[i])
}

// AttributeValue renders the named attribute of the module at index i,
// reporting ok=false for names the module does not declare. Numeric
// values use the bounded display precision. The index contract matches
// StateAt.
func (s System) AttributeValue(i int, name string) (string, bool) {
	s.checkIndex(i)
	return attrValue(s.modules[i], name)
}

func (s System) checkIndex(i int) {
	if i < 0 || i >= len(s.modules) {
		panic(fmt.Sprintf("lsys: index %d out of range for sequence of length %d", i, len(s.modules)))
	}
}

// Modules returns a copy of the current module sequence for downstream
// interpretation.
func (s System) Modules() []Module {
	out := make([]Module, len(s.modules))
	copy(out, s.modules)
	return out
}

// Fresh returns a copy of the newness flags parallel to Modules.
func (s System) Fresh() []bool {
	out := make([]bool, len(s.fresh))
	copy(out, s.fresh)
	return out
}

// Param returns the current shared parameter value. Nil when the system is
// unparameterized.
func (s System) Param() Value {
	return s.params.Snapshot()
}

// Hash returns the canonical SHA-256 state hash of the current sequence.
// Two states hash equal exactly when their canonical encodings are
// identical.
func (s System) Hash() string {
	return HashState(s.modules)
}
