package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tickscript/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	DBPath  string
	RunID   string
	Event   string
	Machine string
}

// TraceResult is the output of the trace command.
type TraceResult struct {
	Run        store.Run        `json:"run"`
	Dispatches []store.Dispatch `json:"dispatches"`
	Stats      TraceStats       `json:"stats"`
}

// TraceStats counts the listed dispatches by outcome.
type TraceStats struct {
	Total     int            `json:"total"`
	ByOutcome map[string]int `json:"by_outcome"`
}

// String formats the result for text output.
func (r TraceResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Run %s (%s): %d ticks, final seq %d\n", r.Run.ID, r.Run.Label, r.Run.Ticks, r.Run.FinalSeq)
	for _, d := range r.Dispatches {
		fmt.Fprintf(&sb, "  [%d] %s %s%s (%s)\n", d.Seq, d.Machine, strings.Repeat("  ", d.Depth), d.Event, d.Outcome)
	}
	fmt.Fprintf(&sb, "%d dispatches", r.Stats.Total)

	outcomes := make([]string, 0, len(r.Stats.ByOutcome))
	for outcome := range r.Stats.ByOutcome {
		outcomes = append(outcomes, outcome)
	}
	sort.Strings(outcomes)
	for i, outcome := range outcomes {
		sep := ", "
		if i == 0 {
			sep = ": "
		}
		fmt.Fprintf(&sb, "%s%s=%d", sep, outcome, r.Stats.ByOutcome[outcome])
	}
	return sb.String()
}

// NewTraceCommand creates the trace command for inspecting a recorded run.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the dispatch trace of a recorded run",
		Long: `Print the dispatches of a run recorded with "tickscript run --db".

Dispatches are listed in clock order and indented by call depth.
Filter by event name or machine name to narrow the listing.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id to show (required)")
	cmd.Flags().StringVar(&opts.Event, "event", "", "only show dispatches of this event")
	cmd.Flags().StringVar(&opts.Machine, "machine", "", "only show dispatches of this machine")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("run")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()

	// Open would create a fresh database, which can never hold the run.
	if _, err := os.Stat(opts.DBPath); os.IsNotExist(err) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.DBPath), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", opts.DBPath))
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	run, err := st.ReadRun(ctx, opts.RunID)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("run not found: %s", opts.RunID), nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", opts.RunID))
		}
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	dispatches, err := st.ReadDispatches(ctx, opts.RunID, store.DispatchFilter{
		Machine: opts.Machine,
		Event:   opts.Event,
	})
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read dispatches", err)
	}
	formatter.VerboseLog("Read %d dispatches for run %s", len(dispatches), opts.RunID)

	result := TraceResult{
		Run:        run,
		Dispatches: dispatches,
		Stats:      TraceStats{Total: len(dispatches), ByOutcome: make(map[string]int)},
	}
	for _, d := range dispatches {
		result.Stats.ByOutcome[string(d.Outcome)]++
	}

	return formatter.Success(result)
}
