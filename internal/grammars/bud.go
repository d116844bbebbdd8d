package grammars

import (
	"github.com/tropism/lsys"
)

// Parameterized budding: the derivation parameter is an energy reserve
// shared across the whole sequence. Each sprout spends one unit, and
// the guard stops all growth once energy reaches zero, so the final
// bloom count equals the starting energy.

type bud struct{}

func (bud) Kind() lsys.Kind { return "bud" }

type bloom struct{}

func (bloom) Kind() lsys.Kind          { return "bloom" }
func (bloom) RenderCommands() []string { return []string{"mark bloom"} }

func init() {
	sprout := lsys.Rewrite("bud", func(pc *lsys.ProduceContext, d bud) []lsys.Module {
		energy, _ := pc.Param().(lsys.Int)
		pc.SetParam(energy - 1)
		return []lsys.Module{bloom{}, bud{}}
	}).
		Named("sprout").
		Where(lsys.Guard(func(d bud, param lsys.Value) bool {
			energy, ok := param.(lsys.Int)
			return ok && energy > 0
		}))

	MustRegister(Definition{
		Name:         "bud",
		Description:  "parameterized growth spending a shared energy reserve",
		Axiom:        []lsys.Module{bud{}},
		Grammar:      lsys.NewGrammar().Rule(sprout),
		DefaultParam: lsys.Int(3),
	})
}
