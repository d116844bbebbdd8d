package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes scenario YAML to a temp file and returns its path.
func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	content := `
name: test-growth
description: "Derivation check for the algae grammar"
grammar: algae
seed: 7
generations: 3
param: 2
expect:
  - generation: 1
    modules: [adult, juvenile]
assertions:
  - type: final_length
    value: 5
  - type: determinism
  - type: rule_fired
    rule: divide
    min: 2
`
	scenario, err := LoadScenario(writeScenario(t, content))
	require.NoError(t, err)

	assert.Equal(t, "test-growth", scenario.Name)
	assert.Equal(t, "Derivation check for the algae grammar", scenario.Description)
	assert.Equal(t, "algae", scenario.Grammar)
	assert.Equal(t, int64(7), scenario.Seed)
	assert.Equal(t, 3, scenario.Generations)
	require.NotNil(t, scenario.Param)
	assert.EqualValues(t, 2, *scenario.Param)

	require.Len(t, scenario.Expect, 1)
	assert.Equal(t, 1, scenario.Expect[0].Generation)
	assert.Equal(t, []string{"adult", "juvenile"}, scenario.Expect[0].Modules)

	require.Len(t, scenario.Assertions, 3)
	assert.Equal(t, AssertFinalLength, scenario.Assertions[0].Type)
	assert.Equal(t, 5, scenario.Assertions[0].Value)
	assert.Equal(t, AssertDeterminism, scenario.Assertions[1].Type)
	assert.Equal(t, "divide", scenario.Assertions[2].Rule)
	assert.Equal(t, 2, scenario.Assertions[2].Min)
}

func TestLoadScenario_Defaults(t *testing.T) {
	content := `
name: minimal
description: "No seed, no param, no expect"
grammar: signal
generations: 2
assertions:
  - type: determinism
`
	scenario, err := LoadScenario(writeScenario(t, content))
	require.NoError(t, err)

	assert.Equal(t, int64(0), scenario.Seed)
	assert.Nil(t, scenario.Param)
	assert.Empty(t, scenario.Expect)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "zero_generations",
			yaml: `
name: test
description: "Zero generations"
grammar: algae
generations: 0
assertions:
  - type: determinism
`,
		},
		{
			name: "empty_assertions",
			yaml: `
name: test
description: "No assertions"
grammar: algae
generations: 1
assertions: []
`,
		},
		{
			name: "unknown_assertion_type",
			yaml: `
name: test
description: "Bad assertion"
grammar: algae
generations: 1
assertions:
  - type: trace_contains
    rule: divide
`,
		},
		{
			name: "negative_final_length",
			yaml: `
name: test
description: "Negative length"
grammar: algae
generations: 1
assertions:
  - type: final_length
    value: -1
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "scenario schema")
		})
	}
}

func TestLoadScenario_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing_name",
			yaml: `
description: "No name"
grammar: algae
generations: 1
assertions:
  - type: determinism
`,
		},
		{
			name: "missing_grammar",
			yaml: `
name: test
description: "No grammar"
generations: 1
assertions:
  - type: determinism
`,
		},
		{
			name: "rule_fired_missing_rule",
			yaml: `
name: test
description: "rule_fired without rule"
grammar: algae
generations: 1
assertions:
  - type: rule_fired
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestLoadScenario_UnknownFieldsRejected(t *testing.T) {
	// YAML files with typos (unknown fields) should be rejected
	content := `
name: test
description: "Typo in expect"
grammar: algae
generations: 2
expects:
  - generation: 1
    modules: [adult]
assertions:
  - type: determinism
`
	_, err := LoadScenario(writeScenario(t, content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario schema")
}

func TestLoadScenario_ExpectGenerationOutOfRange(t *testing.T) {
	content := `
name: test
description: "Expect beyond the derivation"
grammar: algae
generations: 2
expect:
  - generation: 3
    modules: [adult]
assertions:
  - type: determinism
`
	_, err := LoadScenario(writeScenario(t, content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside derivation range")
}

func TestLoadScenario_FreshCountGenerationOutOfRange(t *testing.T) {
	content := `
name: test
description: "fresh_count beyond the derivation"
grammar: algae
generations: 2
assertions:
  - type: fresh_count
    generation: 5
    value: 0
`
	_, err := LoadScenario(writeScenario(t, content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside derivation range")
}

func TestAssertionConstants(t *testing.T) {
	assert.Equal(t, "final_length", AssertFinalLength)
	assert.Equal(t, "determinism", AssertDeterminism)
	assert.Equal(t, "rule_fired", AssertRuleFired)
	assert.Equal(t, "fresh_count", AssertFreshCount)
}

// TestLoadExampleScenarios validates the example scenario files in
// testdata/scenarios. These serve as documentation and regression tests.
func TestLoadExampleScenarios(t *testing.T) {
	projectRoot := "../../"

	tests := []struct {
		name           string
		scenarioFile   string
		wantName       string
		wantGrammar    string
		wantExpect     int
		wantAssertions int
	}{
		{
			name:           "algae",
			scenarioFile:   "testdata/scenarios/algae.yaml",
			wantName:       "algae-growth",
			wantGrammar:    "algae",
			wantExpect:     4,
			wantAssertions: 3,
		},
		{
			name:           "signal",
			scenarioFile:   "testdata/scenarios/signal.yaml",
			wantName:       "signal-propagation",
			wantGrammar:    "signal",
			wantExpect:     3,
			wantAssertions: 3,
		},
		{
			name:           "thicket",
			scenarioFile:   "testdata/scenarios/thicket.yaml",
			wantName:       "thicket-shape",
			wantGrammar:    "thicket",
			wantExpect:     0,
			wantAssertions: 2,
		},
		{
			name:           "bud",
			scenarioFile:   "testdata/scenarios/bud.yaml",
			wantName:       "bud-energy",
			wantGrammar:    "bud",
			wantExpect:     0,
			wantAssertions: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scenario, err := LoadScenario(filepath.Join(projectRoot, tt.scenarioFile))
			require.NoError(t, err, "failed to load example scenario %s", tt.scenarioFile)

			assert.Equal(t, tt.wantName, scenario.Name)
			assert.Equal(t, tt.wantGrammar, scenario.Grammar)
			assert.Len(t, scenario.Expect, tt.wantExpect)
			assert.Len(t, scenario.Assertions, tt.wantAssertions)
		})
	}
}
