package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tropism/lsys/internal/grammars"
)

func sampleDerivation() []GenerationOutcome {
	return []GenerationOutcome{
		{
			Generation: 1,
			Length:     2,
			Modules:    []string{"adult", "juvenile"},
			Fresh:      []bool{true, true},
			Hash:       "hash-1",
		},
		{
			Generation: 2,
			Length:     3,
			Modules:    []string{"adult", "juvenile", "adult"},
			Fresh:      []bool{true, true, true},
			Hash:       "hash-2",
		},
	}
}

func sampleResult() *Result {
	result := NewResult("sample")
	result.Generations = sampleDerivation()
	return result
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{
		Type:       AssertFinalLength,
		Expected:   "3 modules in generation 2",
		Actual:     "5 modules",
		Derivation: sampleDerivation(),
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: final_length")
	assert.Contains(t, msg, "Expected: 3 modules in generation 2")
	assert.Contains(t, msg, "Actual: 5 modules")
	assert.Contains(t, msg, "Derivation:")
	assert.Contains(t, msg, "[1] adult juvenile")
	assert.Contains(t, msg, "[2] adult juvenile adult")
}

func TestExpectationError_Format(t *testing.T) {
	err := &ExpectationError{
		Generation: 2,
		Want:       []string{"adult", "adult"},
		Got:        []string{"adult", "juvenile", "adult"},
	}

	assert.Equal(t,
		"expected generation 2 to be [adult adult], got [adult juvenile adult]",
		err.Error())
}

func TestEvaluateAssertions_UnknownType(t *testing.T) {
	def, err := grammars.Lookup("algae")
	require.NoError(t, err)

	scenario := &Scenario{
		Name:       "manual",
		Grammar:    "algae",
		Assertions: []Assertion{{Type: "bogus"}},
	}

	msgs := EvaluateAssertions(scenario, def, sampleResult())
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "unknown assertion type")
	assert.Contains(t, msgs[0], "bogus")
}

func TestEvaluateAssertions_EmptyDerivation(t *testing.T) {
	def, err := grammars.Lookup("algae")
	require.NoError(t, err)

	scenario := &Scenario{
		Name:       "empty",
		Grammar:    "algae",
		Assertions: []Assertion{{Type: AssertFinalLength, Value: 0}},
	}

	msgs := EvaluateAssertions(scenario, def, NewResult("empty"))
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "no generations recorded")
}

func TestEvaluateAssertions_FreshCountOutOfRange(t *testing.T) {
	def, err := grammars.Lookup("algae")
	require.NoError(t, err)

	scenario := &Scenario{
		Name:       "range",
		Grammar:    "algae",
		Assertions: []Assertion{{Type: AssertFreshCount, Generation: 9, Value: 0}},
	}

	msgs := EvaluateAssertions(scenario, def, sampleResult())
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "outside recorded range")
}

func TestEvaluateAssertions_RuleFiredDefaultMin(t *testing.T) {
	def, err := grammars.Lookup("algae")
	require.NoError(t, err)

	// The sample derivation records no productions, so even the default
	// minimum of one firing must fail.
	scenario := &Scenario{
		Name:       "min-default",
		Grammar:    "algae",
		Assertions: []Assertion{{Type: AssertRuleFired, Rule: "divide"}},
	}

	msgs := EvaluateAssertions(scenario, def, sampleResult())
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], `rule "divide" to fire at least 1 times`)
}
