package trace

import (
	"context"
	"testing"

	"github.com/tropism/lsys"
)

func TestFirstDivergence_IdenticalRuns(t *testing.T) {
	rows := []GenerationRow{
		{Generation: 0, Length: 1, Hash: "h0"},
		{Generation: 1, Length: 2, Hash: "h1"},
	}

	_, found := FirstDivergence(rows, rows)
	if found {
		t.Error("identical rows should not diverge")
	}
}

func TestFirstDivergence_HashMismatch(t *testing.T) {
	recorded := []GenerationRow{
		{Generation: 0, Hash: "h0"},
		{Generation: 1, Hash: "h1"},
		{Generation: 2, Hash: "h2"},
	}
	replayed := []GenerationRow{
		{Generation: 0, Hash: "h0"},
		{Generation: 1, Hash: "h1-tampered"},
		{Generation: 2, Hash: "h2"},
	}

	div, found := FirstDivergence(recorded, replayed)
	if !found {
		t.Fatal("expected divergence")
	}
	if div.Generation != 1 {
		t.Errorf("Generation = %d, want 1", div.Generation)
	}
	if div.Want != "h1" || div.Got != "h1-tampered" {
		t.Errorf("divergence = %+v", div)
	}
}

func TestFirstDivergence_ReplayShorter(t *testing.T) {
	recorded := []GenerationRow{
		{Generation: 0, Hash: "h0"},
		{Generation: 1, Hash: "h1"},
	}
	replayed := recorded[:1]

	div, found := FirstDivergence(recorded, replayed)
	if !found {
		t.Fatal("expected divergence for missing generation")
	}
	if div.Generation != 1 || div.Want != "h1" || div.Got != "" {
		t.Errorf("divergence = %+v, want missing replay side", div)
	}
}

func TestFirstDivergence_ReplayLonger(t *testing.T) {
	recorded := []GenerationRow{
		{Generation: 0, Hash: "h0"},
	}
	replayed := []GenerationRow{
		{Generation: 0, Hash: "h0"},
		{Generation: 1, Hash: "h1"},
	}

	div, found := FirstDivergence(recorded, replayed)
	if !found {
		t.Fatal("expected divergence for extra generation")
	}
	if div.Generation != 1 || div.Want != "" || div.Got != "h1" {
		t.Errorf("divergence = %+v, want missing recorded side", div)
	}
}

func TestFirstDivergence_EmptyBoth(t *testing.T) {
	_, found := FirstDivergence(nil, nil)
	if found {
		t.Error("two empty runs should not diverge")
	}
}

// Recording a derivation and replaying it with the same seed must
// produce hash-identical generation rows.
func TestReplay_RecordedRunMatchesFreshDerivation(t *testing.T) {
	rec := createTestRecorder(t)
	run := startTestRun(t, rec)

	sys := makeGrowthSystem(lsys.WithSeed(7), lsys.WithObserver(run))
	if err := run.RecordAxiom(sys); err != nil {
		t.Fatalf("RecordAxiom() failed: %v", err)
	}
	if _, err := sys.Generations(3); err != nil {
		t.Fatalf("Generations(3) failed: %v", err)
	}

	recorded, err := rec.Generations(context.Background(), run.ID())
	if err != nil {
		t.Fatalf("read recorded generations: %v", err)
	}

	// Fresh derivation, collecting rows through a plain observer
	var replayed []GenerationRow
	collect := lsys.ObserverFunc(func(r lsys.GenerationRecord) error {
		replayed = append(replayed, GenerationRow{
			Generation: r.Generation,
			Length:     r.Length,
			Hash:       r.Hash,
		})
		return nil
	})
	fresh := makeGrowthSystem(lsys.WithSeed(7), lsys.WithObserver(collect))
	replayed = append(replayed, GenerationRow{
		Generation: 0, Length: fresh.Len(), Hash: fresh.Hash(),
	})
	if _, err := fresh.Generations(3); err != nil {
		t.Fatalf("fresh Generations(3) failed: %v", err)
	}

	if div, found := FirstDivergence(recorded, replayed); found {
		t.Errorf("replay diverged at generation %d: want %s, got %s",
			div.Generation, div.Want, div.Got)
	}
}
