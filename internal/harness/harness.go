package harness

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/tropism/lsys"
	"github.com/tropism/lsys/internal/grammars"
)

// Run executes a scenario and returns the result.
//
// The derivation starts from the named grammar's axiom, seeded and
// parameterized by the scenario, and records every generation it
// produces. Expectations and assertions are then evaluated against the
// recording; their failures land in the result, while the error return
// is reserved for scenarios that cannot run at all.
//
// Execution flow:
// 1. Validate the scenario and resolve its grammar
// 2. Derive the configured number of generations, recording each
// 3. Check expect clauses against the recorded module sequences
// 4. Evaluate assertions and collect failures into the result
func Run(scenario *Scenario) (*Result, error) {
	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	def, err := grammars.Lookup(scenario.Grammar)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve grammar: %w", err)
	}

	result := NewResult(scenario.Name)

	var records []lsys.GenerationRecord
	collect := lsys.ObserverFunc(func(rec lsys.GenerationRecord) error {
		records = append(records, rec)
		return nil
	})

	sys := newSystem(scenario, def, lsys.WithObserver(collect))
	for g := 0; g < scenario.Generations; g++ {
		next, err := sys.Evolve()
		if err != nil {
			return nil, fmt.Errorf("derivation failed: %w", err)
		}
		sys = next
		result.Generations = append(result.Generations, makeOutcome(sys, records[len(records)-1]))
	}

	for _, exp := range scenario.Expect {
		out := result.Generations[exp.Generation-1]
		if !slices.Equal(out.Modules, exp.Modules) {
			expErr := &ExpectationError{
				Generation: exp.Generation,
				Want:       exp.Modules,
				Got:        out.Modules,
			}
			result.AddError(expErr.Error())
		}
	}

	for _, msg := range EvaluateAssertions(scenario, def, result) {
		result.AddError(msg)
	}

	return result, nil
}

// newSystem builds the scenario's derivation. Engine debug logging is
// discarded.
func newSystem(scenario *Scenario, def grammars.Definition, extra ...lsys.SystemOption) lsys.System {
	opts := []lsys.SystemOption{
		lsys.WithSeed(scenario.Seed),
		lsys.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	if scenario.Param != nil {
		opts = append(opts, lsys.WithParameter(lsys.Int(*scenario.Param)))
	}
	opts = append(opts, extra...)
	return def.NewSystem(opts...)
}

// makeOutcome snapshots an evolved system together with the pass's
// production record.
func makeOutcome(sys lsys.System, rec lsys.GenerationRecord) GenerationOutcome {
	mods := sys.Modules()
	described := make([]string, len(mods))
	for i, m := range mods {
		described[i] = lsys.DescribeModule(m)
	}
	return GenerationOutcome{
		Generation:  rec.Generation,
		Length:      sys.Len(),
		Modules:     described,
		Fresh:       sys.Fresh(),
		Hash:        rec.Hash,
		Productions: rec.Productions,
	}
}
