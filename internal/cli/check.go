package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tickscript/internal/ast"
	"github.com/roach88/tickscript/internal/grammar"
)

// CheckResult is the output of a successful check.
type CheckResult struct {
	Path         string       `json:"path"`
	Events       []EventCount `json:"events"`
	Instructions int          `json:"instructions"`

	showBodies bool
}

// EventCount is one declared event and the size of its body.
type EventCount struct {
	Name         string   `json:"name"`
	Instructions int      `json:"instructions"`
	Body         []string `json:"body"`
}

// ParseFailure is the error detail for a script that did not parse.
type ParseFailure struct {
	Path string `json:"path"`
	Line int    `json:"line,omitempty"`
}

// String formats the result for text output.
func (r CheckResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "✓ %s: %d events, %d instructions\n", r.Path, len(r.Events), r.Instructions)
	for _, e := range r.Events {
		fmt.Fprintf(&sb, "  %s (%d)\n", e.Name, e.Instructions)
		if r.showBodies {
			for _, line := range e.Body {
				fmt.Fprintf(&sb, "      %s\n", line)
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// NewCheckCommand creates the check command for parsing a script.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <script>",
		Short: "Parse a script and list its events",
		Long: `Parse a tickscript program and report its events.

Every line must be either an event declaration or an instruction that
parses in exactly one way. The first failing line is reported with its
error code.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, cmd, args[0])
		},
	}
}

func runCheck(rootOpts *RootOptions, cmd *cobra.Command, path string) error {
	formatter := newFormatter(rootOpts, cmd)

	source, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("script not found: %s", path), nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("script not found: %s", path))
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read script", err)
	}

	formatter.VerboseLog("Parsing %s (%d bytes)", path, len(source))

	program, err := grammar.Parse(string(source))
	if err != nil {
		var pe *grammar.ParseError
		if errors.As(err, &pe) {
			_ = formatter.Error(pe.Code, pe.Message, ParseFailure{Path: path, Line: pe.Line})
			if rootOpts.Format != "json" {
				fmt.Fprintf(cmd.OutOrStdout(), "✗ %s:%d\n", path, pe.Line)
			}
			return WrapExitError(ExitFailure, fmt.Sprintf("%s does not parse", path), err)
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitFailure, "parse failed", err)
	}

	result := CheckResult{
		Path:         path,
		Events:       make([]EventCount, 0, len(program)),
		Instructions: program.InstructionCount(),
		showBodies:   rootOpts.Verbose,
	}
	for _, name := range program.Events() {
		body := make([]string, 0, len(program[name]))
		for _, ci := range program[name] {
			body = append(body, ast.FormatInstruction(ci))
		}
		result.Events = append(result.Events, EventCount{Name: name, Instructions: len(body), Body: body})
	}

	return formatter.Success(result)
}
