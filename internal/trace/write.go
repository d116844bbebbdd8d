package trace

import (
	"context"
	"fmt"
	"time"

	"github.com/tropism/lsys"
)

// RunInfo describes the inputs of a derivation being recorded.
// Together with the grammar definition these inputs are sufficient to
// reproduce every recorded generation.
type RunInfo struct {
	Grammar     string
	Seed        int64
	Generations int
	Param       string // rendered starting parameter, empty when none
}

// Run is the recording handle for a single derivation.
//
// It implements lsys.Observer, so attaching it is just
// lsys.WithObserver(run). The derivation core stays unaware of storage.
type Run struct {
	rec *Recorder
	id  string
}

// StartRun inserts a run row and returns its recording handle.
func (r *Recorder) StartRun(ctx context.Context, info RunInfo) (*Run, error) {
	id := r.ids.NewID()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO runs (id, grammar, seed, generations, param, started_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		id,
		info.Grammar,
		info.Seed,
		info.Generations,
		info.Param,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}

	return &Run{rec: r, id: id}, nil
}

// ID returns the run identifier.
func (run *Run) ID() string {
	return run.id
}

// RecordAxiom writes the generation-zero row for the starting state.
// Call it once before evolving; ObserveGeneration covers the rest.
func (run *Run) RecordAxiom(sys lsys.System) error {
	_, err := run.rec.db.Exec(`
		INSERT INTO generations (run_id, gen, length, hash)
		VALUES (?, 0, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		run.id,
		sys.Len(),
		sys.Hash(),
	)
	if err != nil {
		return fmt.Errorf("record axiom: %w", err)
	}
	return nil
}

// ObserveGeneration implements lsys.Observer by appending the
// generation summary and its production rows.
//
// Uses ON CONFLICT DO NOTHING for idempotency - a generation row that
// already exists is silently kept, never overwritten. Observers run on
// the evolving goroutine, which has no context, so writes here use the
// background connection directly.
func (run *Run) ObserveGeneration(rec lsys.GenerationRecord) error {
	_, err := run.rec.db.Exec(`
		INSERT INTO generations (run_id, gen, length, hash)
		VALUES (?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		run.id,
		rec.Generation,
		rec.Length,
		rec.Hash,
	)
	if err != nil {
		return fmt.Errorf("record generation %d: %w", rec.Generation, err)
	}

	for _, p := range rec.Productions {
		_, err := run.rec.db.Exec(`
			INSERT INTO productions (run_id, gen, position, rule, rule_idx, produced)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`,
			run.id,
			rec.Generation,
			p.Position,
			p.Rule,
			p.RuleIndex,
			p.Produced,
		)
		if err != nil {
			return fmt.Errorf("record production gen %d pos %d: %w", rec.Generation, p.Position, err)
		}
	}

	return nil
}
