package grammars

import (
	"github.com/tropism/lsys"
)

// Lindenmayer's algae model: adult cells divide, juveniles mature.
// Sequence lengths follow the Fibonacci numbers.

type adultCell struct{}

func (adultCell) Kind() lsys.Kind     { return "A" }
func (adultCell) DisplayName() string { return "adult" }

type juvenileCell struct{}

func (juvenileCell) Kind() lsys.Kind     { return "B" }
func (juvenileCell) DisplayName() string { return "juvenile" }

func init() {
	g := lsys.NewGrammar().
		Rule(lsys.Rewrite("A", func(pc *lsys.ProduceContext, d adultCell) []lsys.Module {
			return []lsys.Module{adultCell{}, juvenileCell{}}
		}).Named("divide")).
		Rule(lsys.Rewrite("B", func(pc *lsys.ProduceContext, d juvenileCell) []lsys.Module {
			return []lsys.Module{adultCell{}}
		}).Named("mature"))

	MustRegister(Definition{
		Name:        "algae",
		Description: "Lindenmayer's two-letter growth model; lengths follow Fibonacci",
		Axiom:       []lsys.Module{adultCell{}},
		Grammar:     g,
	})
}
