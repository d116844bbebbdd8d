package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tropism/lsys"
	"github.com/tropism/lsys/internal/grammars"
	"github.com/tropism/lsys/internal/trace"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - replay a specific run only
}

// ReplayRunResult holds the replay outcome for a single run.
type ReplayRunResult struct {
	RunID         string `json:"run_id"`
	Grammar       string `json:"grammar"`
	Generations   int    `json:"generations"`
	Deterministic bool   `json:"deterministic"`

	// Divergence details, present when Deterministic is false.
	DivergedAt   int    `json:"diverged_at,omitempty"`
	RecordedHash string `json:"recorded_hash,omitempty"`
	ReplayedHash string `json:"replayed_hash,omitempty"`
}

// ReplayResult holds the overall replay outcome.
type ReplayResult struct {
	Runs             []ReplayRunResult `json:"runs"`
	TotalRuns        int               `json:"total_runs"`
	AllDeterministic bool              `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-derive recorded runs and verify determinism",
		Long: `Re-derive recorded runs and verify they reproduce the trace.

Each run is derived again from its grammar, seed, and starting
parameter, and every generation's canonical state hash is compared
against the recording. A seeded derivation is deterministic, so any
divergence means the grammar definition changed since the recording.

Exit codes:
  0 - every replayed run reproduced its recording
  1 - at least one run diverged
  2 - command error (missing database, unknown run or grammar)

Examples:
  lsys replay --db ./trace.db
  lsys replay --db ./trace.db --run 0190a8e2-...
  lsys replay --db ./trace.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to trace database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay a specific run only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	if _, err := os.Stat(opts.Database); err != nil {
		return WrapExitError(ExitCommandError, "failed to open trace database", err)
	}
	rec, err := trace.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open trace database", err)
	}
	defer rec.Close()

	var runs []trace.RunRow
	if opts.RunID != "" {
		run, err := rec.GetRun(ctx, opts.RunID)
		if err != nil {
			if errors.Is(err, trace.ErrRunNotFound) {
				return WrapExitError(ExitCommandError, "run not found", err)
			}
			return WrapExitError(ExitCommandError, "failed to read run", err)
		}
		runs = []trace.RunRow{run}
	} else {
		runs, err = rec.Runs(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
	}

	if len(runs) == 0 {
		if opts.Format == "json" {
			return writeJSON(cmd.OutOrStdout(), ReplayResult{
				Runs:             []ReplayRunResult{},
				AllDeterministic: true,
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	result := ReplayResult{
		Runs:             make([]ReplayRunResult, 0, len(runs)),
		TotalRuns:        len(runs),
		AllDeterministic: true,
	}
	for _, run := range runs {
		runResult, err := replayRun(ctx, rec, run)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", run.ID), err)
		}
		result.Runs = append(result.Runs, runResult)
		if !runResult.Deterministic {
			result.AllDeterministic = false
		}
	}

	if opts.Format == "json" {
		if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	} else {
		outputReplayText(cmd, result)
	}

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "replay diverged from recording")
	}
	return nil
}

// replayRun re-derives one recorded run and compares it generation by
// generation against the stored hashes.
func replayRun(ctx context.Context, rec *trace.Recorder, run trace.RunRow) (ReplayRunResult, error) {
	recorded, err := rec.Generations(ctx, run.ID)
	if err != nil {
		return ReplayRunResult{}, err
	}

	replayed, err := rederive(run)
	if err != nil {
		return ReplayRunResult{}, err
	}

	result := ReplayRunResult{
		RunID:         run.ID,
		Grammar:       run.Grammar,
		Generations:   run.Generations,
		Deterministic: true,
	}
	if div, diverged := trace.FirstDivergence(recorded, replayed); diverged {
		result.Deterministic = false
		result.DivergedAt = div.Generation
		result.RecordedHash = div.Want
		result.ReplayedHash = div.Got
	}
	return result, nil
}

// rederive runs a recorded derivation again from its stored inputs.
// The axiom contributes the generation-zero row, matching RecordAxiom.
func rederive(run trace.RunRow) ([]trace.GenerationRow, error) {
	def, err := grammars.Lookup(run.Grammar)
	if err != nil {
		return nil, err
	}

	opts := []lsys.SystemOption{
		lsys.WithSeed(run.Seed),
		lsys.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	if run.Param != "" {
		v, err := strconv.ParseInt(run.Param, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("stored param %q: %w", run.Param, err)
		}
		opts = append(opts, lsys.WithParameter(lsys.Int(v)))
	}

	sys := def.NewSystem(opts...)
	rows := make([]trace.GenerationRow, 0, run.Generations+1)
	rows = append(rows, trace.GenerationRow{Generation: 0, Length: sys.Len(), Hash: sys.Hash()})
	for g := 0; g < run.Generations; g++ {
		next, err := sys.Evolve()
		if err != nil {
			return nil, err
		}
		sys = next
		rows = append(rows, trace.GenerationRow{
			Generation: sys.Generation(),
			Length:     sys.Len(),
			Hash:       sys.Hash(),
		})
	}
	return rows, nil
}

// hashOrMissing shortens a hash for display. A divergence with one side
// absent (replay ran longer or shorter than the recording) has an empty
// hash on that side.
func hashOrMissing(h string) string {
	if h == "" {
		return "(missing)"
	}
	return truncateHash(h)
}

func outputReplayText(cmd *cobra.Command, result ReplayResult) {
	w := cmd.OutOrStdout()
	styles := NewStyles(DefaultTheme)

	for _, run := range result.Runs {
		if run.Deterministic {
			fmt.Fprintf(w, "run %s: deterministic (%d generations)\n", run.RunID, run.Generations)
			continue
		}
		fmt.Fprintf(w, "run %s: DIVERGED at generation %d: recorded %s, replayed %s\n",
			run.RunID, run.DivergedAt,
			hashOrMissing(run.RecordedHash), hashOrMissing(run.ReplayedHash))
	}

	fmt.Fprintln(w)
	if result.AllDeterministic {
		fmt.Fprintln(w, styles.Header.Render(fmt.Sprintf("All %d run(s) reproduced their recordings.", result.TotalRuns)))
	} else {
		fmt.Fprintln(w, "Replay diverged from recording.")
	}
}
