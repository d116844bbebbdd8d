// Package harness provides conformance testing for derivations.
//
// The harness loads scenario files, runs the referenced grammar for a
// fixed number of generations, and validates the produced states as
// executable contract tests.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	grammar: algae
//	seed: 7
//	generations: 4
//	param: 3
//	expect:
//	  - generation: 1
//	    modules: [adult, juvenile]
//	assertions:
//	  - type: final_length
//	    value: 8
//	  - type: determinism
//	  - type: rule_fired
//	    rule: divide
//	    min: 7
//	  - type: fresh_count
//	    generation: 4
//	    value: 0
//
// Files are validated in three layers on load: structurally against
// the embedded CUE schema (schema.cue), which reports typed constraint
// violations with positions, then by strict YAML decoding that rejects
// unknown fields, then semantically in Go for cross-field rules the
// schema cannot express (generation numbers inside the derivation
// range).
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - final_length: the last generation has exactly this many modules
//   - determinism: a fresh derivation with the same inputs reproduces
//     every generation hash
//   - rule_fired: the named rule fired at least min times (default 1)
//   - fresh_count: exactly this many modules are new at a generation
//
// The expect list is separate from assertions: each entry pins the
// exact module sequence of one generation, in display form.
//
// # Deterministic Testing
//
// A scenario fully determines its derivation: grammar, seed, parameter,
// and generation count. Running a scenario twice produces identical
// results, which is what makes golden snapshot comparison possible.
package harness
