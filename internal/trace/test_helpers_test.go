package trace

import (
	"context"
	"testing"

	"github.com/tropism/lsys"
	"github.com/tropism/lsys/internal/testutil"
)

// createTestRecorder creates an in-memory recorder with predictable run ids.
func createTestRecorder(t *testing.T) *Recorder {
	t.Helper()
	rec, err := OpenMemory(WithIDGenerator(testutil.NewRunIDs("run-1", "run-2", "run-3")))
	if err != nil {
		t.Fatalf("OpenMemory() failed: %v", err)
	}
	t.Cleanup(func() { rec.Close() })
	return rec
}

// startTestRun inserts a run row with canned inputs.
func startTestRun(t *testing.T, rec *Recorder) *Run {
	t.Helper()
	run, err := rec.StartRun(context.Background(), RunInfo{
		Grammar:     "algae",
		Seed:        7,
		Generations: 3,
	})
	if err != nil {
		t.Fatalf("StartRun() failed: %v", err)
	}
	return run
}

// makeRecord builds a generation record for direct ObserveGeneration calls.
func makeRecord(gen, length int, hash string, prods ...lsys.Production) lsys.GenerationRecord {
	return lsys.GenerationRecord{
		Generation:  gen,
		Length:      length,
		Hash:        hash,
		Productions: prods,
	}
}

// cell is a minimal module for driving real derivations through a Run.
type cell struct {
	kind lsys.Kind
}

func (c cell) Kind() lsys.Kind { return c.kind }

// makeGrowthSystem builds the two-rule growth derivation whose lengths
// follow 1, 2, 3, 5 from a single-module axiom.
func makeGrowthSystem(opts ...lsys.SystemOption) lsys.System {
	g := lsys.NewGrammar().
		Rule(lsys.Rewrite("A", func(pc *lsys.ProduceContext, d cell) []lsys.Module {
			return []lsys.Module{cell{"A"}, cell{"B"}}
		}).Named("divide")).
		Rule(lsys.Rewrite("B", func(pc *lsys.ProduceContext, d cell) []lsys.Module {
			return []lsys.Module{cell{"A"}}
		}).Named("mature"))

	return lsys.NewSystem([]lsys.Module{cell{"A"}}, g, opts...)
}
