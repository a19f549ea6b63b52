package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tickscript/internal/grammar"
	"github.com/roach88/tickscript/internal/host"
	"github.com/roach88/tickscript/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Ticks  int
	DBPath string
	Label  string

	// RunIDs generates the id of a recorded run. Nil means UUIDv7.
	RunIDs store.RunIDGenerator
}

// RunResult is the output of a world run.
type RunResult struct {
	World    string           `json:"world"`
	Ticks    int              `json:"ticks"`
	FinalSeq int64            `json:"final_seq"`
	Score    int              `json:"score"`
	Machines []MachineSummary `json:"machines"`
	RunID    string           `json:"run_id,omitempty"`
	DBPath   string           `json:"db,omitempty"`
}

// MachineSummary is the final state of one machine.
type MachineSummary struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Pos       host.Point     `json:"pos"`
	Energy    int            `json:"energy"`
	Moves     int            `json:"moves"`
	Bumps     int            `json:"bumps"`
	Variables map[string]int `json:"variables"`
	Memory    map[int]int    `json:"memory,omitempty"`
}

// String formats the result for text output.
func (r RunResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "✓ %s: %d ticks, final seq %d, score %d\n", r.World, r.Ticks, r.FinalSeq, r.Score)
	for _, m := range r.Machines {
		fmt.Fprintf(&sb, "  %s #%d at %s energy=%d moves=%d bumps=%d\n", m.Name, m.ID, m.Pos, m.Energy, m.Moves, m.Bumps)
		names := make([]string, 0, len(m.Variables))
		for name := range m.Variables {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&sb, "    %s = %d\n", name, m.Variables[name])
		}
	}
	if r.RunID != "" {
		fmt.Fprintf(&sb, "Recorded run %s in %s\n", r.RunID, r.DBPath)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// NewRunCommand creates the run command for executing a world file.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <world.cue>",
		Short: "Run a grid world",
		Long: `Load a CUE world file, place its crystals and machines, and advance
the world tick by tick.

Each machine runs its init event when placed and its tick event once per
tick. With --db the full dispatch trace and the final machine state are
recorded in a SQLite store for later inspection with "tickscript trace".`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorld(opts, cmd, args[0])
		},
	}

	cmd.Flags().IntVar(&opts.Ticks, "ticks", 0, "number of ticks (overrides the world file)")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "record the run in this SQLite database")
	cmd.Flags().StringVar(&opts.Label, "label", "", "label for the recorded run (default: world file path)")

	return cmd
}

func runWorld(opts *RunOptions, cmd *cobra.Command, worldPath string) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	if _, err := os.Stat(worldPath); os.IsNotExist(err) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("world file not found: %s", worldPath), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("world file not found: %s", worldPath))
	}

	ticksSet := cmd.Flags().Changed("ticks")
	if ticksSet && opts.Ticks < 0 {
		_ = formatter.Error(ErrCodeGeneric, "--ticks must not be negative", nil)
		return NewExitError(ExitCommandError, "--ticks must not be negative")
	}

	w, cfg, err := host.LoadWorld(worldPath, host.WithLogger(logger))
	if err != nil {
		var pe *grammar.ParseError
		if errors.As(err, &pe) {
			_ = formatter.Error(pe.Code, err.Error(), nil)
			return WrapExitError(ExitFailure, "machine script does not parse", err)
		}
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load world", err)
	}

	ticks := cfg.Ticks
	if ticksSet {
		ticks = opts.Ticks
	}
	formatter.VerboseLog("Running %s for %d ticks with %d machines", worldPath, ticks, len(w.Machines()))
	w.Run(ticks)

	result := RunResult{
		World:    worldPath,
		Ticks:    w.Ticks(),
		FinalSeq: w.Clock().Current(),
		Score:    w.Score(),
		Machines: make([]MachineSummary, 0, len(w.Machines())),
	}
	for _, m := range w.Machines() {
		result.Machines = append(result.Machines, MachineSummary{
			ID:        m.ID,
			Name:      m.Name,
			Pos:       m.Pos(),
			Energy:    m.Energy(),
			Moves:     m.Moves(),
			Bumps:     m.Bumps(),
			Variables: m.Runtime().Variables(),
			Memory:    m.Runtime().Memory(),
		})
	}

	if opts.DBPath != "" {
		runID, err := recordRun(cmd.Context(), opts, worldPath, w)
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		result.RunID = runID
		result.DBPath = opts.DBPath
		formatter.RunID = runID
	}

	return formatter.Success(result)
}

// recordRun writes the world's trace and final machine state to the store.
func recordRun(ctx context.Context, opts *RunOptions, worldPath string, w *host.World) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		return "", err
	}
	defer st.Close()

	gen := opts.RunIDs
	if gen == nil {
		gen = store.UUIDv7Generator{}
	}
	label := opts.Label
	if label == "" {
		label = worldPath
	}

	run := store.Run{ID: gen.Generate(), Label: label, Ticks: w.Ticks()}
	if err := st.WriteRun(ctx, run); err != nil {
		return "", err
	}
	if err := st.WriteDispatches(ctx, run.ID, w.Trace()); err != nil {
		return "", err
	}
	for _, m := range w.Machines() {
		if err := st.WriteVariables(ctx, run.ID, m.Name, m.Runtime().Variables()); err != nil {
			return "", err
		}
		if err := st.WriteMemory(ctx, run.ID, m.Name, m.Runtime().Memory()); err != nil {
			return "", err
		}
	}
	if err := st.FinishRun(ctx, run.ID, w.Clock().Current()); err != nil {
		return "", err
	}
	return run.ID, nil
}
