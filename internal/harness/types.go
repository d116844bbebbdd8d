package harness

import "github.com/tropism/lsys"

// GenerationOutcome captures one generation of a scenario derivation.
type GenerationOutcome struct {
	// Generation numbers the state the pass produced. The axiom is
	// generation zero and is not recorded here.
	Generation int `json:"generation"`

	// Length is the module count of the state.
	Length int `json:"length"`

	// Modules holds the display form of every module in sequence order.
	Modules []string `json:"modules"`

	// Fresh flags the modules introduced by this generation's pass.
	Fresh []bool `json:"fresh"`

	// Hash is the canonical state hash.
	Hash string `json:"hash"`

	// Productions lists the pass's rule firings in source order.
	Productions []lsys.Production `json:"productions,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Scenario names the executed scenario.
	Scenario string `json:"scenario"`

	// Pass indicates overall success.
	// True if all expectations and assertions held.
	Pass bool `json:"pass"`

	// Generations records the full derivation in order.
	// Used for assertion evaluation and golden comparison.
	Generations []GenerationOutcome `json:"generations"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for scenario execution.
func NewResult(scenario string) *Result {
	return &Result{
		Scenario:    scenario,
		Pass:        true,
		Generations: []GenerationOutcome{},
		Errors:      []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
