package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tickscript/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Filter string
	Update bool
}

// TestResult represents the outcome of running scenarios.
type TestResult struct {
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
	Scenarios []ScenarioResult `json:"scenarios"`
}

// ScenarioResult represents a single scenario's outcome.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	RunID  string   `json:"run_id,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// String formats the result for text output.
func (r TestResult) String() string {
	var sb strings.Builder
	for _, s := range r.Scenarios {
		if s.Pass {
			fmt.Fprintf(&sb, "✓ %s\n", s.Name)
			continue
		}
		fmt.Fprintf(&sb, "✗ %s\n", s.Name)
		for _, e := range s.Errors {
			for _, line := range strings.Split(strings.TrimRight(e, "\n"), "\n") {
				fmt.Fprintf(&sb, "    %s\n", line)
			}
		}
	}
	fmt.Fprintf(&sb, "\n%d passed, %d failed, %d total", r.Passed, r.Failed, r.Total)
	return sb.String()
}

// NewTestCommand creates the test command for running scenarios.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run scenario tests",
		Long: `Run YAML scenarios against tickscript programs.

Each scenario names a script, the host hooks it may call, seed state and
the events to run, then asserts on variables, memory and the dispatch
trace. Snapshots under <scenarios-dir>/golden are compared when present;
--update rewrites them.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only run scenarios whose name matches this glob")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "rewrite golden snapshots")

	return cmd
}

func runTest(opts *TestOptions, cmd *cobra.Command, dir string) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("scenarios directory not found: %s", dir), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", dir))
	}

	scenarios, err := harness.LoadScenarios(dir, opts.Filter)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load scenarios", err)
	}
	formatter.VerboseLog("Loaded %d scenarios from %s", len(scenarios), dir)

	goldenDir := filepath.Join(dir, "golden")
	result := TestResult{Scenarios: make([]ScenarioResult, 0, len(scenarios))}

	for _, scenario := range scenarios {
		sr := ScenarioResult{Name: scenario.Name}

		res, err := harness.Run(scenario)
		switch {
		case err != nil:
			sr.Errors = append(sr.Errors, err.Error())
		default:
			sr.RunID = res.RunID
			sr.Errors = append(sr.Errors, res.Errors...)
			if err := harness.CompareGolden(goldenDir, scenario.Name, res, opts.Update); err != nil {
				if errors.Is(err, harness.ErrGoldenMismatch) {
					sr.Errors = append(sr.Errors, fmt.Sprintf("%v (run with --update to regenerate)", err))
				} else {
					sr.Errors = append(sr.Errors, err.Error())
				}
			}
		}
		sr.Pass = len(sr.Errors) == 0

		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		result.Scenarios = append(result.Scenarios, sr)
	}
	result.Total = len(result.Scenarios)

	if result.Failed > 0 {
		if opts.Format != "json" {
			fmt.Fprintln(cmd.OutOrStdout(), result)
		}
		_ = formatter.Failure(result, ErrCodeGeneric, fmt.Sprintf("%d scenario(s) failed", result.Failed))
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}

	return formatter.Success(result)
}
