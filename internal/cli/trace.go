package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tropism/lsys/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - inspect a specific run
}

// RunDetail holds the full inspection output for one run.
type RunDetail struct {
	Run         trace.RunRow          `json:"run"`
	Generations []trace.GenerationRow `json:"generations"`
	Activity    []trace.RuleActivity  `json:"activity"`
	Period      *PeriodInfo           `json:"period,omitempty"`
}

// PeriodInfo reports a detected state repetition.
type PeriodInfo struct {
	Start  int `json:"start"`
	Period int `json:"period"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect a recorded derivation trace",
		Long: `Inspect a derivation trace database.

Without --run, lists every recorded run. With --run, shows the run's
growth curve, per-rule production activity, and whether the derivation
revisited a state (periodicity).

Examples:
  lsys trace --db ./trace.db
  lsys trace --db ./trace.db --run 0190a8e2-...
  lsys trace --db ./trace.db --run 0190a8e2-... --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to trace database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "inspect a specific run")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	if _, err := os.Stat(opts.Database); err != nil {
		return WrapExitError(ExitCommandError, "failed to open trace database", err)
	}
	rec, err := trace.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open trace database", err)
	}
	defer rec.Close()

	if opts.RunID == "" {
		return listRuns(ctx, opts, rec, cmd)
	}
	return showRun(ctx, opts, rec, cmd)
}

func listRuns(ctx context.Context, opts *TraceOptions, rec *trace.Recorder, cmd *cobra.Command) error {
	runs, err := rec.Runs(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), runs)
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(w, "%s  %s  seed=%d gens=%d", run.ID, run.Grammar, run.Seed, run.Generations)
		if run.Param != "" {
			fmt.Fprintf(w, " param=%s", run.Param)
		}
		fmt.Fprintf(w, "  started=%s\n", run.StartedAt)
	}
	return nil
}

func showRun(ctx context.Context, opts *TraceOptions, rec *trace.Recorder, cmd *cobra.Command) error {
	run, err := rec.GetRun(ctx, opts.RunID)
	if err != nil {
		if errors.Is(err, trace.ErrRunNotFound) {
			return WrapExitError(ExitCommandError, "run not found", err)
		}
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	gens, err := rec.Generations(ctx, run.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read generations", err)
	}

	activity, err := rec.Activity(ctx, run.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read rule activity", err)
	}

	detail := RunDetail{Run: run, Generations: gens, Activity: activity}
	start, period, found, err := rec.Period(ctx, run.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to scan for periodicity", err)
	}
	if found {
		detail.Period = &PeriodInfo{Start: start, Period: period}
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), detail)
	}
	return outputRunDetailText(cmd, detail)
}

func outputRunDetailText(cmd *cobra.Command, detail RunDetail) error {
	w := cmd.OutOrStdout()
	styles := NewStyles(DefaultTheme)

	run := detail.Run
	fmt.Fprintln(w, styles.Header.Render("Run "+run.ID))
	fmt.Fprintf(w, "Grammar: %s  Seed: %d  Generations: %d", run.Grammar, run.Seed, run.Generations)
	if run.Param != "" {
		fmt.Fprintf(w, "  Param: %s", run.Param)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Started: %s\n\n", run.StartedAt)

	fmt.Fprintln(w, "=== Growth ===")
	if len(detail.Generations) == 0 {
		fmt.Fprintln(w, "  (no generations recorded)")
	}
	for _, gen := range detail.Generations {
		fmt.Fprintf(w, "  gen %-3d length %-6d %s\n",
			gen.Generation, gen.Length, styles.Meta.Render(truncateHash(gen.Hash)))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Rule activity ===")
	if len(detail.Activity) == 0 {
		fmt.Fprintln(w, "  (no rules fired)")
	}
	for _, act := range detail.Activity {
		fmt.Fprintf(w, "  %s: %d firings, %d modules produced\n", act.Rule, act.Firings, act.Produced)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Periodicity ===")
	if detail.Period != nil {
		fmt.Fprintf(w, "  state repeats: first seen at generation %d, period %d\n",
			detail.Period.Start, detail.Period.Period)
	} else {
		fmt.Fprintf(w, "  no repeated state within %d recorded generations\n", len(detail.Generations))
	}
	return nil
}
