package lsys

// Grammar is an ordered, append-only rule list.
//
// Grammar is an immutable value: Rule returns a new Grammar whose backing
// array is never shared writable with the receiver, so a grammar can be
// captured, extended in branches, and reused without one copy diverging
// underneath another. Evaluation order is insertion order and the first
// matching rule wins; a position no rule matches is carried over by
// identity production.
type Grammar struct {
	rules []Rule
}

// NewGrammar creates an empty grammar. Evolving under an empty grammar
// reproduces the state unchanged with every position flagged not-new.
func NewGrammar() Grammar {
	return Grammar{}
}

// Rule appends r and returns the extended grammar. The receiver is
// unchanged.
func (g Grammar) Rule(r Rule) Grammar {
	rules := make([]Rule, len(g.rules)+1)
	copy(rules, g.rules)
	rules[len(g.rules)] = r
	return Grammar{rules: rules}
}

// Rules returns a copy of the rules in evaluation order.
func (g Grammar) Rules() []Rule {
	out := make([]Rule, len(g.rules))
	copy(out, g.rules)
	return out
}

// Len returns the number of rules.
func (g Grammar) Len() int {
	return len(g.rules)
}
