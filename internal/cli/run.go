package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tropism/lsys"
	"github.com/tropism/lsys/internal/grammars"
	"github.com/tropism/lsys/internal/trace"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Generations int
	Seed        int64
	Param       int64
	Database    string
	MaxModules  int

	// IDGenerator overrides trace run id generation (for testing).
	// Nil defaults to the recorder's UUIDv7 generator.
	IDGenerator trace.IDGenerator
}

// RunGeneration is one generation of the run command's JSON payload.
type RunGeneration struct {
	Generation int      `json:"generation"`
	Length     int      `json:"length"`
	Modules    []string `json:"modules"`
	Fresh      []bool   `json:"fresh"`
	Hash       string   `json:"hash"`
}

// RunResult holds the run command's output.
type RunResult struct {
	Grammar     string          `json:"grammar"`
	Seed        int64           `json:"seed"`
	Param       string          `json:"param,omitempty"`
	RunID       string          `json:"run_id,omitempty"`
	Generations []RunGeneration `json:"generations"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <grammar>",
		Short: "Derive a registered grammar",
		Long: `Derive a registered grammar for a number of generations.

Prints every generation of the derivation. Modules introduced by the
latest pass are starred and highlighted. With --db, the derivation is
recorded to a SQLite trace for later inspection and replay.

Examples:
  lsys run algae -n 4
  lsys run thicket -n 6 --seed 42
  lsys run bud -n 3 --param 5 --db ./trace.db
  lsys run algae -n 4 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDerivation(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Generations, "generations", "n", 1, "number of generations to derive")
	cmd.Flags().Int64Var(&opts.Seed, "seed", lsys.DefaultSeed, "random source seed")
	cmd.Flags().Int64Var(&opts.Param, "param", 0, "override the grammar's derivation parameter")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the derivation to a SQLite trace")
	cmd.Flags().IntVar(&opts.MaxModules, "max-modules", 0, "abort when a generation exceeds this length (0 = unbounded)")

	return cmd
}

func runDerivation(opts *RunOptions, name string, cmd *cobra.Command) error {
	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	def, err := grammars.Lookup(name)
	if err != nil {
		return WrapExitError(ExitCommandError, "unknown grammar", err)
	}

	if opts.Generations < 1 {
		return NewExitError(ExitCommandError, fmt.Sprintf("generations must be at least 1, got %d", opts.Generations))
	}

	sysOpts := []lsys.SystemOption{
		lsys.WithSeed(opts.Seed),
		lsys.WithLogger(logger),
		lsys.WithMaxModules(opts.MaxModules),
	}
	param := def.DefaultParam
	if cmd.Flags().Changed("param") {
		param = lsys.Int(opts.Param)
		sysOpts = append(sysOpts, lsys.WithParameter(param))
	}

	result := RunResult{
		Grammar: name,
		Seed:    opts.Seed,
		Param:   renderParam(param),
	}

	var run *trace.Run
	if opts.Database != "" {
		recOpts := []trace.Option{}
		if opts.IDGenerator != nil {
			recOpts = append(recOpts, trace.WithIDGenerator(opts.IDGenerator))
		}
		rec, err := trace.Open(opts.Database, recOpts...)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open trace database", err)
		}
		defer func() {
			if closeErr := rec.Close(); closeErr != nil {
				logger.Error("error closing trace database", "error", closeErr)
			}
		}()

		run, err = rec.StartRun(context.Background(), trace.RunInfo{
			Grammar:     name,
			Seed:        opts.Seed,
			Generations: opts.Generations,
			Param:       result.Param,
		})
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to start trace run", err)
		}
		result.RunID = run.ID()
		sysOpts = append(sysOpts, lsys.WithObserver(run))
	}

	sys := def.NewSystem(sysOpts...)
	if run != nil {
		if err := run.RecordAxiom(sys); err != nil {
			return WrapExitError(ExitCommandError, "failed to record axiom", err)
		}
	}

	result.Generations = append(result.Generations, makeRunGeneration(sys))
	for g := 0; g < opts.Generations; g++ {
		next, err := sys.Evolve()
		if err != nil {
			if opts.Format == "json" {
				_ = writeJSONError(cmd.OutOrStdout(), result, "E_DERIVATION", err.Error())
			}
			return WrapExitError(ExitFailure, "derivation failed", err)
		}
		sys = next
		result.Generations = append(result.Generations, makeRunGeneration(sys))
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	return outputRunText(cmd, result, opts.Verbose)
}

// makeRunGeneration snapshots a system's visible state.
func makeRunGeneration(sys lsys.System) RunGeneration {
	mods := sys.Modules()
	described := make([]string, len(mods))
	for i, m := range mods {
		described[i] = lsys.DescribeModule(m)
	}
	return RunGeneration{
		Generation: sys.Generation(),
		Length:     sys.Len(),
		Modules:    described,
		Fresh:      sys.Fresh(),
		Hash:       sys.Hash(),
	}
}

// renderParam renders a starting parameter for trace storage.
// Int values round-trip exactly; replay parses them back.
func renderParam(v lsys.Value) string {
	switch val := v.(type) {
	case nil:
		return ""
	case lsys.Int:
		return strconv.FormatInt(int64(val), 10)
	default:
		return lsys.FormatValue(v)
	}
}

// outputRunText prints the derivation generation by generation.
func outputRunText(cmd *cobra.Command, result RunResult, verbose bool) error {
	w := cmd.OutOrStdout()
	styles := NewStyles(DefaultTheme)

	header := fmt.Sprintf("Derivation: %s (seed %d)", result.Grammar, result.Seed)
	if result.Param != "" {
		header += fmt.Sprintf(" (param %s)", result.Param)
	}
	fmt.Fprintln(w, styles.Header.Render(header))
	if result.RunID != "" {
		fmt.Fprintln(w, styles.Meta.Render("recorded as run "+result.RunID))
	}

	for _, gen := range result.Generations {
		fmt.Fprintf(w, "gen %-3d [%d] %s\n", gen.Generation, gen.Length,
			styles.renderSequence(gen.Modules, gen.Fresh))
		if verbose {
			fmt.Fprintf(w, "        %s\n", styles.Meta.Render("hash "+truncateHash(gen.Hash)))
		}
	}
	return nil
}
