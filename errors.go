package lsys

import (
	"errors"
	"fmt"
)

// ContractViolationError reports a mismatch between a rule's matched kind
// and the concrete Go type its guard or producer expects.
//
// A kind match whose instance fails the declared downcast is a grammar
// definition bug, never a legitimate runtime state. The error aborts the
// generation in progress; the prior state remains valid and no partial
// generation is applied.
type ContractViolationError struct {
	// Rule names the rule whose expectation failed. Empty for downcasts
	// performed outside rule evaluation.
	Rule string

	// Expected is the Go type the rule declared for the matched module.
	Expected string

	// Module describes the offending module instance.
	Module string
}

// Error implements the error interface.
func (e *ContractViolationError) Error() string {
	if e.Rule != "" {
		return fmt.Sprintf("contract violation in rule %q: module %s is not %s", e.Rule, e.Module, e.Expected)
	}
	return fmt.Sprintf("contract violation: module %s is not %s", e.Module, e.Expected)
}

// IsContractViolation reports whether err is a ContractViolationError.
// Uses errors.As to handle wrapped errors.
func IsContractViolation(err error) bool {
	var ce *ContractViolationError
	return errors.As(err, &ce)
}

// GrowthLimitError is returned when a generation's output exceeds the
// sequence length configured with WithMaxModules.
//
// The limit catches runaway grammars whose productions expand past what
// the caller intended. The generation that tripped the limit is discarded;
// the prior state remains valid.
type GrowthLimitError struct {
	Generation int // Generation being produced when the limit tripped
	Length     int // Output length at the point of failure
	Limit      int // Configured maximum
}

// Error implements the error interface.
func (e *GrowthLimitError) Error() string {
	return fmt.Sprintf("generation %d exceeded max modules: %d modules > %d limit",
		e.Generation, e.Length, e.Limit)
}

// IsGrowthLimit reports whether err is a GrowthLimitError.
// Uses errors.As to handle wrapped errors.
func IsGrowthLimit(err error) bool {
	var ge *GrowthLimitError
	return errors.As(err, &ge)
}
