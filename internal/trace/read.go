package trace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrRunNotFound reports a run id with no stored row.
var ErrRunNotFound = errors.New("run not found")

// RunRow is a stored run header.
type RunRow struct {
	ID          string
	Grammar     string
	Seed        int64
	Generations int
	Param       string
	StartedAt   string
}

// GenerationRow summarizes one stored generation.
type GenerationRow struct {
	Generation int
	Length     int
	Hash       string
}

// RuleActivity aggregates production counts for one rule across a run.
type RuleActivity struct {
	Rule     string
	Firings  int
	Produced int
}

// Runs returns all stored run headers.
// UUIDv7 ids embed creation time, so ORDER BY id yields chronological
// listings without a timestamp sort.
func (r *Recorder) Runs(ctx context.Context) ([]RunRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, grammar, seed, generations, param, started_at
		FROM runs
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRow
	for rows.Next() {
		var row RunRow
		if err := rows.Scan(&row.ID, &row.Grammar, &row.Seed, &row.Generations, &row.Param, &row.StartedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	// Return empty slice instead of nil
	if runs == nil {
		runs = []RunRow{}
	}

	return runs, nil
}

// GetRun retrieves a single run header by id.
// Returns an error wrapping ErrRunNotFound for unknown ids.
func (r *Recorder) GetRun(ctx context.Context, id string) (RunRow, error) {
	var row RunRow
	err := r.db.QueryRowContext(ctx, `
		SELECT id, grammar, seed, generations, param, started_at
		FROM runs
		WHERE id = ?
	`, id).Scan(&row.ID, &row.Grammar, &row.Seed, &row.Generations, &row.Param, &row.StartedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRow{}, fmt.Errorf("run %q: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return RunRow{}, fmt.Errorf("get run: %w", err)
	}
	return row, nil
}

// Generations returns the stored generation rows for a run in
// generation order, including the generation-zero axiom row when the
// run recorded one.
func (r *Recorder) Generations(ctx context.Context, runID string) ([]GenerationRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT gen, length, hash
		FROM generations
		WHERE run_id = ?
		ORDER BY gen ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()

	var gens []GenerationRow
	for rows.Next() {
		var row GenerationRow
		if err := rows.Scan(&row.Generation, &row.Length, &row.Hash); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		gens = append(gens, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generations: %w", err)
	}

	if gens == nil {
		gens = []GenerationRow{}
	}

	return gens, nil
}

// Activity returns per-rule production totals for a run.
// Ordered alphabetically by rule name for stable output.
func (r *Recorder) Activity(ctx context.Context, runID string) ([]RuleActivity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT rule, COUNT(*), SUM(produced)
		FROM productions
		WHERE run_id = ?
		GROUP BY rule
		ORDER BY rule
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query rule activity: %w", err)
	}
	defer rows.Close()

	var activity []RuleActivity
	for rows.Next() {
		var row RuleActivity
		if err := rows.Scan(&row.Rule, &row.Firings, &row.Produced); err != nil {
			return nil, fmt.Errorf("scan rule activity: %w", err)
		}
		activity = append(activity, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rule activity: %w", err)
	}

	if activity == nil {
		activity = []RuleActivity{}
	}

	return activity, nil
}

// Period detects state repetition within a recorded run.
//
// It scans generation hashes in order and reports the first repeated
// state: start is the generation where the state first appeared and
// period is the distance to its recurrence. A derivation that revisits
// a state is periodic from that point on, because evolution depends
// only on the current state, the rules, and the draw sequence position.
//
// found is false when no hash repeats within the recorded generations.
func (r *Recorder) Period(ctx context.Context, runID string) (start, period int, found bool, err error) {
	gens, err := r.Generations(ctx, runID)
	if err != nil {
		return 0, 0, false, err
	}

	firstSeen := make(map[string]int, len(gens))
	for _, g := range gens {
		if prev, ok := firstSeen[g.Hash]; ok {
			return prev, g.Generation - prev, true, nil
		}
		firstSeen[g.Hash] = g.Generation
	}

	return 0, 0, false, nil
}
