package lsys

import (
	"fmt"
)

// As downcasts a module to its concrete type D, returning a
// ContractViolationError describing the module when its dynamic type
// differs. Rules built with the typed constructors run this on every
// matched instance, so a kind registered against the wrong Go type fails
// loudly instead of producing corrupt output.
func As[D Module](m Module) (D, error) {
	d, ok := m.(D)
	if !ok {
		var zero D
		return zero, &ContractViolationError{
			Expected: fmt.Sprintf("%T", zero),
			Module:   DescribeModule(m),
		}
	}
	return d, nil
}

// Guard adapts a typed predicate over the matched module into a GuardFunc,
// downcasting the direct module to D with the same contract check the
// typed constructors use.
func Guard[D Module](pred func(d D, param Value) bool) GuardFunc {
	return func(set ModuleSet, param Value) (bool, error) {
		d, err := As[D](set.Direct())
		if err != nil {
			return false, err
		}
		return pred(d, param), nil
	}
}

// Rewrite builds a context-free rule for modules of kind direct. The
// producer receives the matched module downcast to D; the downcast is
// checked at evaluation time.
func Rewrite[D Module](direct Kind, fn func(pc *ProduceContext, d D) []Module) Rule {
	return NewRule(MatchSpec{Direct: direct}, func(set ModuleSet, pc *ProduceContext) ([]Module, error) {
		d, err := As[D](set.Direct())
		if err != nil {
			return nil, err
		}
		return fn(pc, d), nil
	})
}

// RewriteLeft builds a left-context rule: it matches modules of kind
// direct whose left neighbor has kind left.
func RewriteLeft[L, D Module](left, direct Kind, fn func(pc *ProduceContext, l L, d D) []Module) Rule {
	return NewRule(MatchSpec{Left: left, Direct: direct}, func(set ModuleSet, pc *ProduceContext) ([]Module, error) {
		// The left neighbor exists whenever kind matching succeeded.
		leftMod, _ := set.Left()
		l, err := As[L](leftMod)
		if err != nil {
			return nil, err
		}
		d, err := As[D](set.Direct())
		if err != nil {
			return nil, err
		}
		return fn(pc, l, d), nil
	})
}

// RewriteRight builds a right-context rule: it matches modules of kind
// direct whose right neighbor has kind right.
func RewriteRight[D, R Module](direct, right Kind, fn func(pc *ProduceContext, d D, r R) []Module) Rule {
	return NewRule(MatchSpec{Direct: direct, Right: right}, func(set ModuleSet, pc *ProduceContext) ([]Module, error) {
		d, err := As[D](set.Direct())
		if err != nil {
			return nil, err
		}
		rightMod, _ := set.Right()
		r, err := As[R](rightMod)
		if err != nil {
			return nil, err
		}
		return fn(pc, d, r), nil
	})
}

// RewriteBetween builds a two-sided rule: it matches modules of kind
// direct with a left neighbor of kind left and a right neighbor of kind
// right.
func RewriteBetween[L, D, R Module](left, direct, right Kind, fn func(pc *ProduceContext, l L, d D, r R) []Module) Rule {
	return NewRule(MatchSpec{Left: left, Direct: direct, Right: right}, func(set ModuleSet, pc *ProduceContext) ([]Module, error) {
		leftMod, _ := set.Left()
		l, err := As[L](leftMod)
		if err != nil {
			return nil, err
		}
		d, err := As[D](set.Direct())
		if err != nil {
			return nil, err
		}
		rightMod, _ := set.Right()
		r, err := As[R](rightMod)
		if err != nil {
			return nil, err
		}
		return fn(pc, l, d, r), nil
	})
}
