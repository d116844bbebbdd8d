package grammars

import (
	"github.com/tropism/lsys"
)

// Signal propagation along a fixed-length chain. A pulse moves one
// segment rightward per generation because left context is read from
// the source sequence: the segment right of the pulse becomes the
// pulse while the old pulse simultaneously decays.
//
// When the pulse reaches the right end there is no segment left to
// advance into and it decays away.

type pulse struct{}

func (pulse) Kind() lsys.Kind     { return "P" }
func (pulse) DisplayName() string { return "pulse" }

type segment struct{}

func (segment) Kind() lsys.Kind     { return "S" }
func (segment) DisplayName() string { return "segment" }

func init() {
	g := lsys.NewGrammar().
		Rule(lsys.RewriteLeft("P", "S", func(pc *lsys.ProduceContext, l pulse, d segment) []lsys.Module {
			return []lsys.Module{pulse{}}
		}).Named("advance")).
		Rule(lsys.Rewrite("P", func(pc *lsys.ProduceContext, d pulse) []lsys.Module {
			return []lsys.Module{segment{}}
		}).Named("decay"))

	MustRegister(Definition{
		Name:        "signal",
		Description: "context-sensitive pulse travelling along a segment chain",
		Axiom:       []lsys.Module{pulse{}, segment{}, segment{}, segment{}},
		Grammar:     g,
	})
}
