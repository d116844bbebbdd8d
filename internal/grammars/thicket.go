package grammars

import (
	"github.com/tropism/lsys"
)

// Stochastic branching shrub. The single growing apex extends each
// generation into one of three shapes chosen by the derivation's
// random source, so a seed fixes the whole silhouette.
//
// Bracket modules delimit branches for the renderer, mirroring turtle
// push/pop conventions. The grammar never rewrites them.

type apex struct{}

func (apex) Kind() lsys.Kind          { return "apex" }
func (apex) RenderCommands() []string { return []string{"forward 0.2"} }

type stem struct {
	length lsys.Float
}

func (stem) Kind() lsys.Kind { return "stem" }

func (s stem) Attrs() []lsys.Attr {
	return []lsys.Attr{{Name: "length", Value: s.length}}
}

func (s stem) RenderCommands() []string {
	return []string{"forward " + lsys.FormatValue(s.length)}
}

type branchOpen struct{}

func (branchOpen) Kind() lsys.Kind          { return "[" }
func (branchOpen) DisplayName() string      { return "branch" }
func (branchOpen) RenderCommands() []string { return []string{"push", "turn 25"} }

type branchClose struct{}

func (branchClose) Kind() lsys.Kind          { return "]" }
func (branchClose) DisplayName() string      { return "end" }
func (branchClose) RenderCommands() []string { return []string{"pop"} }

type leaf struct{}

func (leaf) Kind() lsys.Kind          { return "leaf" }
func (leaf) RenderCommands() []string { return []string{"mark leaf"} }

func init() {
	g := lsys.NewGrammar().
		Rule(lsys.Rewrite("apex", func(pc *lsys.ProduceContext, d apex) []lsys.Module {
			// Two draws per firing, always in the same order: shape
			// first, then the new stem's length.
			shape := pc.Rand().Intn(3)
			grown := stem{length: lsys.Float(0.8 + 0.4*pc.Rand().Float64())}

			switch shape {
			case 0:
				return []lsys.Module{grown, apex{}}
			case 1:
				return []lsys.Module{grown, branchOpen{}, leaf{}, branchClose{}, apex{}}
			default:
				return []lsys.Module{branchOpen{}, leaf{}, branchClose{}, grown, apex{}}
			}
		}).Named("grow"))

	MustRegister(Definition{
		Name:        "thicket",
		Description: "stochastic branching shrub; one apex, seed-determined shape",
		Axiom:       []lsys.Module{apex{}},
		Grammar:     g,
	})
}
