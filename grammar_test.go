package lsys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrammarRule_AppendReturnsNewValue(t *testing.T) {
	r1 := NewRule(MatchSpec{Direct: "A"}, makeTestProducer()).Named("first")
	r2 := NewRule(MatchSpec{Direct: "B"}, makeTestProducer()).Named("second")

	g0 := NewGrammar()
	g1 := g0.Rule(r1)
	g2 := g1.Rule(r2)

	assert.Equal(t, 0, g0.Len())
	assert.Equal(t, 1, g1.Len())
	assert.Equal(t, 2, g2.Len())
}

func TestGrammarRule_BranchesDoNotShareBacking(t *testing.T) {
	r1 := NewRule(MatchSpec{Direct: "A"}, makeTestProducer()).Named("first")
	r2 := NewRule(MatchSpec{Direct: "B"}, makeTestProducer()).Named("second")
	r3 := NewRule(MatchSpec{Direct: "seg"}, makeTestProducer()).Named("third")

	base := NewGrammar().Rule(r1)
	left := base.Rule(r2)
	right := base.Rule(r3)

	require.Equal(t, 2, left.Len())
	require.Equal(t, 2, right.Len())
	assert.Equal(t, "second", left.Rules()[1].Name())
	assert.Equal(t, "third", right.Rules()[1].Name(), "extending a shared prefix must not clobber the sibling")
}

func TestGrammarRules_OrderAndCopy(t *testing.T) {
	g := NewGrammar().
		Rule(NewRule(MatchSpec{Direct: "A"}, makeTestProducer()).Named("first")).
		Rule(NewRule(MatchSpec{Direct: "B"}, makeTestProducer()).Named("second"))

	rules := g.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, "first", rules[0].Name(), "insertion order is evaluation order")
	assert.Equal(t, "second", rules[1].Name())

	rules[0] = rules[1]
	assert.Equal(t, "first", g.Rules()[0].Name(), "mutating the returned slice leaves the grammar intact")
}
