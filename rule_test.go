package lsys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeTestProducer returns a producer emitting a single B module.
func makeTestProducer() ProducerFunc {
	return func(set ModuleSet, pc *ProduceContext) ([]Module, error) {
		return []Module{cellB{}}, nil
	}
}

// makeTestContext returns a ProduceContext with a fixed seed and no
// parameter, for driving producers directly.
func makeTestContext() *ProduceContext {
	return &ProduceContext{rand: NewRandomSource(1), params: NewParameterState(nil)}
}

func TestRuleMatches_DirectOnly(t *testing.T) {
	rule := NewRule(MatchSpec{Direct: "A"}, makeTestProducer())

	ok, err := rule.Matches(NewModuleSet(nil, cellA{}, nil), nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = rule.Matches(NewModuleSet(nil, cellB{}, nil), nil)
	require.NoError(t, err)
	assert.False(t, ok, "direct kind must match")
}

func TestRuleMatches_LeftContext(t *testing.T) {
	rule := NewRule(MatchSpec{Left: "B", Direct: "A"}, makeTestProducer())

	testCases := []struct {
		name string
		set  ModuleSet
		want bool
	}{
		{"left matches", NewModuleSet(cellB{}, cellA{}, nil), true},
		{"left kind differs", NewModuleSet(segment{}, cellA{}, nil), false},
		{"no left neighbor", NewModuleSet(nil, cellA{}, nil), false},
		{"right neighbor ignored", NewModuleSet(cellB{}, cellA{}, segment{}), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := rule.Matches(tc.set, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestRuleMatches_RightContext(t *testing.T) {
	rule := NewRule(MatchSpec{Direct: "A", Right: "B"}, makeTestProducer())

	testCases := []struct {
		name string
		set  ModuleSet
		want bool
	}{
		{"right matches", NewModuleSet(nil, cellA{}, cellB{}), true},
		{"right kind differs", NewModuleSet(nil, cellA{}, segment{}), false},
		{"no right neighbor", NewModuleSet(nil, cellA{}, nil), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := rule.Matches(tc.set, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestRuleMatches_BothContexts(t *testing.T) {
	rule := NewRule(MatchSpec{Left: "B", Direct: "A", Right: "seg"}, makeTestProducer())

	ok, err := rule.Matches(NewModuleSet(cellB{}, cellA{}, segment{}), nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = rule.Matches(NewModuleSet(cellB{}, cellA{}, cellB{}), nil)
	require.NoError(t, err)
	assert.False(t, ok, "both sides must match")
}

func TestRuleMatches_GuardSeesParameter(t *testing.T) {
	var seen Value
	rule := NewRule(MatchSpec{Direct: "A"}, makeTestProducer()).
		Where(func(set ModuleSet, param Value) (bool, error) {
			seen = param
			return param == Int(3), nil
		})

	ok, err := rule.Matches(NewModuleSet(nil, cellA{}, nil), Int(3))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Int(3), seen)

	ok, err = rule.Matches(NewModuleSet(nil, cellA{}, nil), Int(4))
	require.NoError(t, err)
	assert.False(t, ok, "guard rejects")
}

func TestRuleMatches_GuardRunsOnlyAfterKindMatch(t *testing.T) {
	calls := 0
	rule := NewRule(MatchSpec{Direct: "A"}, makeTestProducer()).
		Where(func(set ModuleSet, param Value) (bool, error) {
			calls++
			return true, nil
		})

	_, err := rule.Matches(NewModuleSet(nil, cellB{}, nil), nil)
	require.NoError(t, err)
	assert.Zero(t, calls, "guard must not run when the kind test fails")
}

func TestGuard_ContractViolation(t *testing.T) {
	// The guard declares type cellB for a kind that is actually cellA.
	rule := NewRule(MatchSpec{Direct: "A"}, makeTestProducer()).
		Where(Guard[cellB](func(b cellB, param Value) bool { return true }))

	_, err := rule.Matches(NewModuleSet(nil, cellA{}, nil), nil)
	require.Error(t, err)
	assert.True(t, IsContractViolation(err))
	assert.Contains(t, err.Error(), "lsys.cellB")
}

func TestRewrite_TypedProduction(t *testing.T) {
	rule := Rewrite[cellA]("A", func(pc *ProduceContext, a cellA) []Module {
		return []Module{cellA{}, cellB{}}
	})

	out, err := rule.Produce(NewModuleSet(nil, cellA{}, nil), makeTestContext())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, Kind("A"), out[0].Kind())
	assert.Equal(t, Kind("B"), out[1].Kind())
}

func TestRewrite_DowncastContractViolation(t *testing.T) {
	// Kind "A" registered against the wrong concrete type.
	rule := Rewrite[cellB]("A", func(pc *ProduceContext, b cellB) []Module {
		return []Module{b}
	})

	ok, err := rule.Matches(NewModuleSet(nil, cellA{}, nil), nil)
	require.NoError(t, err)
	require.True(t, ok, "kind matching alone succeeds")

	_, err = rule.Produce(NewModuleSet(nil, cellA{}, nil), makeTestContext())
	require.Error(t, err)
	assert.True(t, IsContractViolation(err))
	assert.Contains(t, err.Error(), "A", "carries the offending module description")
}

func TestRewriteBetween_ReceivesTypedNeighbors(t *testing.T) {
	var gotLeft, gotRight Kind
	rule := RewriteBetween[cellB, cellA, segment]("B", "A", "seg",
		func(pc *ProduceContext, l cellB, d cellA, r segment) []Module {
			gotLeft, gotRight = l.Kind(), r.Kind()
			return []Module{d}
		})

	out, err := rule.Produce(NewModuleSet(cellB{}, cellA{}, segment{}), makeTestContext())
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, Kind("B"), gotLeft)
	assert.Equal(t, Kind("seg"), gotRight)
}

func TestRuleName_ContextNotation(t *testing.T) {
	testCases := []struct {
		name string
		spec MatchSpec
		want string
	}{
		{"direct only", MatchSpec{Direct: "A"}, "A"},
		{"left context", MatchSpec{Left: "B", Direct: "A"}, "B<A"},
		{"right context", MatchSpec{Direct: "A", Right: "B"}, "A>B"},
		{"both contexts", MatchSpec{Left: "B", Direct: "A", Right: "seg"}, "B<A>seg"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rule := NewRule(tc.spec, makeTestProducer())
			assert.Equal(t, tc.want, rule.Name())
		})
	}

	named := NewRule(MatchSpec{Direct: "A"}, makeTestProducer()).Named("divide")
	assert.Equal(t, "divide", named.Name())
}

func TestRuleWhere_ReturnsCopy(t *testing.T) {
	base := NewRule(MatchSpec{Direct: "A"}, makeTestProducer())
	guarded := base.Where(func(set ModuleSet, param Value) (bool, error) {
		return false, nil
	})

	ok, err := base.Matches(NewModuleSet(nil, cellA{}, nil), nil)
	require.NoError(t, err)
	assert.True(t, ok, "the original rule has no guard")

	ok, err = guarded.Matches(NewModuleSet(nil, cellA{}, nil), nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRule_Preconditions(t *testing.T) {
	assert.Panics(t, func() {
		NewRule(MatchSpec{}, makeTestProducer())
	}, "direct kind is required")

	assert.Panics(t, func() {
		NewRule(MatchSpec{Direct: "A"}, nil)
	}, "producer is required")
}
