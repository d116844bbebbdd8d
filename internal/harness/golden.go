package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot captures a scenario derivation for golden comparison.
//
// Generations are reduced to their visible surface: module display
// forms and newness flags. State hashes are not part of the snapshot;
// determinism assertions cover them.
type Snapshot struct {
	Scenario    string               `json:"scenario"`
	Grammar     string               `json:"grammar"`
	Seed        int64                `json:"seed"`
	Generations []GenerationSnapshot `json:"generations"`
}

// GenerationSnapshot is one generation of a Snapshot.
type GenerationSnapshot struct {
	Generation int      `json:"generation"`
	Modules    []string `json:"modules"`
	Fresh      []bool   `json:"fresh"`
}

// BuildSnapshot reduces a result to its golden snapshot form.
func BuildSnapshot(scenario *Scenario, result *Result) Snapshot {
	gens := make([]GenerationSnapshot, len(result.Generations))
	for i, out := range result.Generations {
		gens[i] = GenerationSnapshot{
			Generation: out.Generation,
			Modules:    out.Modules,
			Fresh:      out.Fresh,
		}
	}
	return Snapshot{
		Scenario:    scenario.Name,
		Grammar:     scenario.Grammar,
		Seed:        scenario.Seed,
		Generations: gens,
	}
}

// AssertGolden compares a result's derivation against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	snapshot := BuildSnapshot(scenario, result)
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return nil
}

// RunWithGolden executes a scenario and compares its derivation against
// the golden file, in addition to the scenario's own checks.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario, result); err != nil {
		return nil, err
	}

	return result, nil
}
