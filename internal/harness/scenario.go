package harness

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Scenario defines a conformance test scenario: one derivation plus the
// checks that pin its behavior.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Grammar names a registered grammar definition.
	Grammar string `yaml:"grammar"`

	// Seed initializes the random source. Omitted means zero.
	Seed int64 `yaml:"seed,omitempty"`

	// Generations is the number of evolve passes to run.
	Generations int `yaml:"generations"`

	// Param overrides the grammar's default derivation parameter.
	// Nil keeps the default.
	Param *int64 `yaml:"param,omitempty"`

	// Expect pins exact kind sequences at specific generations.
	Expect []Expectation `yaml:"expect,omitempty"`

	// Assertions validate the derivation as a whole.
	// Supported types: final_length, determinism, rule_fired, fresh_count
	Assertions []Assertion `yaml:"assertions"`
}

// Expectation pins the exact kind sequence of one generation.
type Expectation struct {
	Generation int      `yaml:"generation"`
	Modules    []string `yaml:"modules"`
}

// Assertion validates the derivation.
type Assertion struct {
	// Type specifies the assertion type:
	// - "final_length": last generation has exactly Value modules
	// - "determinism": a replay reproduces every generation hash
	// - "rule_fired": rule Rule fired at least Min times (default 1)
	// - "fresh_count": exactly Value modules are new at Generation
	Type string `yaml:"type"`

	// Value is the expected count (final_length, fresh_count).
	Value int `yaml:"value,omitempty"`

	// Rule is the rule name (rule_fired).
	Rule string `yaml:"rule,omitempty"`

	// Generation selects the generation to inspect (fresh_count).
	Generation int `yaml:"generation,omitempty"`

	// Min is the minimum firing count (rule_fired). Zero means 1.
	Min int `yaml:"min,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalLength = "final_length"
	AssertDeterminism = "determinism"
	AssertRuleFired   = "rule_fired"
	AssertFreshCount  = "fresh_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, fails schema validation,
// contains unknown fields (typos), or breaks a cross-field rule.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML bytes.
//
// Validation runs in three layers: the CUE schema reports typed
// constraint violations with positions, strict YAML decoding rejects
// unknown fields, and Go checks enforce cross-field rules the schema
// cannot express.
func ParseScenario(data []byte) (*Scenario, error) {
	def, err := scenarioSchema()
	if err != nil {
		return nil, err
	}
	if err := cueyaml.Validate(data, def); err != nil {
		return nil, fmt.Errorf("scenario schema: %w", formatCUEError(err))
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// scenarioSchema compiles the embedded schema and returns the #Scenario
// definition.
func scenarioSchema() (cue.Value, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		return cue.Value{}, formatCUEError(err)
	}

	def := v.LookupPath(cue.ParsePath("#Scenario"))
	if err := def.Err(); err != nil {
		return cue.Value{}, formatCUEError(err)
	}
	return def, nil
}

// validateScenario enforces cross-field rules on a schema-valid scenario.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Grammar == "" {
		return fmt.Errorf("grammar is required")
	}
	if s.Generations < 1 {
		return fmt.Errorf("generations must be at least 1")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, exp := range s.Expect {
		if exp.Generation < 1 || exp.Generation > s.Generations {
			return fmt.Errorf("expect[%d]: generation %d outside derivation range 1..%d",
				i, exp.Generation, s.Generations)
		}
		if len(exp.Modules) == 0 {
			return fmt.Errorf("expect[%d]: modules list must be non-empty", i)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i], s.Generations); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, generations int) error {
	switch a.Type {
	case AssertFinalLength:
		if a.Value < 0 {
			return fmt.Errorf("assertions[%d]: value must be non-negative for final_length", index)
		}
	case AssertDeterminism:
		// No fields beyond type.
	case AssertRuleFired:
		if a.Rule == "" {
			return fmt.Errorf("assertions[%d]: rule is required for rule_fired", index)
		}
		if a.Min < 0 {
			return fmt.Errorf("assertions[%d]: min must be non-negative for rule_fired", index)
		}
	case AssertFreshCount:
		if a.Generation < 1 || a.Generation > generations {
			return fmt.Errorf("assertions[%d]: generation %d outside derivation range 1..%d",
				index, a.Generation, generations)
		}
		if a.Value < 0 {
			return fmt.Errorf("assertions[%d]: value must be non-negative for fresh_count", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

// SchemaError carries a source position from schema validation.
type SchemaError struct {
	Message string
	Pos     token.Pos
}

func (e *SchemaError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return e.Message
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &SchemaError{
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
