package harness

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/tickscript/internal/runtime"
)

// ErrGoldenMismatch is returned by CompareGolden when a snapshot differs.
var ErrGoldenMismatch = errors.New("golden snapshot mismatch")

// TraceSnapshot captures the observable outcome of a scenario run.
// Map keys are emitted in sorted order, so equal runs marshal identically.
type TraceSnapshot struct {
	Scenario  string             `json:"scenario"`
	Trace     []runtime.Dispatch `json:"trace"`
	Variables map[string]int     `json:"variables"`
	Memory    map[int]int        `json:"memory,omitempty"`
	HookCalls map[string]int     `json:"hook_calls,omitempty"`
}

// NewSnapshot builds the snapshot of a result.
func NewSnapshot(scenarioName string, result *Result) TraceSnapshot {
	return TraceSnapshot{
		Scenario:  scenarioName,
		Trace:     result.Trace,
		Variables: result.Variables,
		Memory:    result.Memory,
		HookCalls: result.HookCalls,
	}
}

// Marshal renders the snapshot as indented JSON with a trailing newline.
func (s TraceSnapshot) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := NewSnapshot(scenarioName, result).Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}

// CompareGolden checks a result against dir/{name}.golden outside of
// go test. With update set the file is (re)written instead. A missing
// golden file is not an error: there is nothing to compare yet.
func CompareGolden(dir, scenarioName string, result *Result, update bool) error {
	data, err := NewSnapshot(scenarioName, result).Marshal()
	if err != nil {
		return err
	}

	path := filepath.Join(dir, scenarioName+".golden")
	if update {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create golden dir: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write golden: %w", err)
		}
		return nil
	}

	want, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read golden: %w", err)
	}
	if !bytes.Equal(want, data) {
		return fmt.Errorf("%s: %w", path, ErrGoldenMismatch)
	}
	return nil
}
