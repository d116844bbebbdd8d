package harness

import (
	"fmt"
	"strings"

	"github.com/tropism/lsys/internal/grammars"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type       string              // Assertion type for categorization
	Expected   string              // Human-readable expected outcome
	Actual     string              // Human-readable actual outcome
	Derivation []GenerationOutcome // Full derivation for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	// Header with assertion type
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)

	// Expected vs Actual (most important info)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	// Full derivation for context
	fmt.Fprintf(&buf, "\nDerivation:\n")
	for _, out := range e.Derivation {
		fmt.Fprintf(&buf, "  [%d] %s\n", out.Generation, strings.Join(out.Modules, " "))
	}

	return buf.String()
}

// ExpectationError is returned when a generation's module sequence does
// not match the scenario's expect clause.
type ExpectationError struct {
	Generation int
	Want       []string
	Got        []string
}

// Error implements the error interface.
func (e *ExpectationError) Error() string {
	return fmt.Sprintf("expected generation %d to be [%s], got [%s]",
		e.Generation, strings.Join(e.Want, " "), strings.Join(e.Got, " "))
}

// assertFinalLength checks that the last recorded generation has exactly
// the expected number of modules.
func assertFinalLength(result *Result, assertion Assertion) error {
	final := result.Generations[len(result.Generations)-1]

	if final.Length != assertion.Value {
		return &AssertionError{
			Type:       AssertFinalLength,
			Expected:   fmt.Sprintf("%d modules in generation %d", assertion.Value, final.Generation),
			Actual:     fmt.Sprintf("%d modules", final.Length),
			Derivation: result.Generations,
		}
	}

	return nil
}

// assertDeterminism re-derives the scenario from scratch and checks that
// every generation hash matches the recording.
func assertDeterminism(scenario *Scenario, def grammars.Definition, result *Result) error {
	sys := newSystem(scenario, def)

	for _, out := range result.Generations {
		next, err := sys.Evolve()
		if err != nil {
			return &AssertionError{
				Type:       AssertDeterminism,
				Expected:   fmt.Sprintf("replay to reach generation %d", out.Generation),
				Actual:     fmt.Sprintf("replay failed: %v", err),
				Derivation: result.Generations,
			}
		}
		sys = next

		if got := sys.Hash(); got != out.Hash {
			return &AssertionError{
				Type:       AssertDeterminism,
				Expected:   fmt.Sprintf("generation %d hash %s", out.Generation, out.Hash),
				Actual:     got,
				Derivation: result.Generations,
			}
		}
	}

	return nil
}

// assertRuleFired checks that the named rule fired at least Min times
// across the whole derivation. Min zero means once.
func assertRuleFired(result *Result, assertion Assertion) error {
	count := 0
	for _, out := range result.Generations {
		for _, p := range out.Productions {
			if p.Rule == assertion.Rule {
				count++
			}
		}
	}

	want := assertion.Min
	if want == 0 {
		want = 1
	}

	if count < want {
		return &AssertionError{
			Type:       AssertRuleFired,
			Expected:   fmt.Sprintf("rule %q to fire at least %d times", assertion.Rule, want),
			Actual:     fmt.Sprintf("%d firings", count),
			Derivation: result.Generations,
		}
	}

	return nil
}

// assertFreshCount checks the number of newly produced modules at one
// generation.
func assertFreshCount(result *Result, assertion Assertion) error {
	if assertion.Generation < 1 || assertion.Generation > len(result.Generations) {
		return fmt.Errorf("fresh_count: generation %d outside recorded range 1..%d",
			assertion.Generation, len(result.Generations))
	}
	out := result.Generations[assertion.Generation-1]

	count := 0
	for _, fresh := range out.Fresh {
		if fresh {
			count++
		}
	}

	if count != assertion.Value {
		return &AssertionError{
			Type:       AssertFreshCount,
			Expected:   fmt.Sprintf("%d new modules in generation %d", assertion.Value, assertion.Generation),
			Actual:     fmt.Sprintf("%d new modules", count),
			Derivation: result.Generations,
		}
	}

	return nil
}

// EvaluateAssertions evaluates all scenario assertions against a recorded
// derivation. Returns a slice of error messages for failed assertions.
// The def parameter lets determinism assertions re-derive the scenario.
func EvaluateAssertions(scenario *Scenario, def grammars.Definition, result *Result) []string {
	if len(result.Generations) == 0 {
		return []string{"no generations recorded"}
	}

	var errors []string

	for i, assertion := range scenario.Assertions {
		var err error

		switch assertion.Type {
		case AssertFinalLength:
			err = assertFinalLength(result, assertion)
		case AssertDeterminism:
			err = assertDeterminism(scenario, def, result)
		case AssertRuleFired:
			err = assertRuleFired(result, assertion)
		case AssertFreshCount:
			err = assertFreshCount(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
