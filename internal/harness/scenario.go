package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tickscript/internal/runtime"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Script is a path to the program source, relative to the scenario
	// file. Exactly one of Script and Source must be set.
	Script string `yaml:"script,omitempty"`

	// Source is inline program source.
	Source string `yaml:"source,omitempty"`

	// Hooks lists host hooks to register. Each is a counting no-op.
	Hooks []string `yaml:"hooks,omitempty"`

	// Seed sets variables before the first step.
	Seed map[string]int `yaml:"seed,omitempty"`

	// Memory sets memory cells before the first step.
	Memory map[int]int `yaml:"memory,omitempty"`

	// Steps are event names dispatched in order.
	Steps []string `yaml:"steps"`

	// Assertions validate the final trace and state.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates trace or final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Name is the variable name (variable).
	Name string `yaml:"name,omitempty"`

	// Index is the memory cell (memory).
	Index *int `yaml:"index,omitempty"`

	// Equals is the expected value (variable, memory).
	Equals *int `yaml:"equals,omitempty"`

	// Event is the event name (trace_contains, trace_count, hook_count).
	Event string `yaml:"event,omitempty"`

	// Outcome optionally narrows trace_contains and trace_count.
	Outcome string `yaml:"outcome,omitempty"`

	// Events is the expected order (trace_order).
	Events []string `yaml:"events,omitempty"`

	// Count is the expected number of occurrences (trace_count, hook_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertVariable      = "variable"
	AssertMemory        = "memory"
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertHookCount     = "hook_count"
)

var knownOutcomes = map[string]bool{
	string(runtime.OutcomeHook):      true,
	string(runtime.OutcomeBody):      true,
	string(runtime.OutcomeReentrant): true,
	string(runtime.OutcomeUnknown):   true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative Script path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Reject unknown fields (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Script != "" && !filepath.IsAbs(scenario.Script) {
		scenario.Script = filepath.Join(filepath.Dir(path), scenario.Script)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, sorted by file
// name. When filter is non-empty only scenarios whose name matches the
// glob pattern are returned.
func LoadScenarios(dir, filter string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenarios directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	scenarios := []*Scenario{}
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		if filter != "" {
			ok, err := filepath.Match(filter, s.Name)
			if err != nil {
				return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
			}
			if !ok {
				continue
			}
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// ProgramSource returns the scenario's program text.
func (s *Scenario) ProgramSource() (string, error) {
	if s.Source != "" {
		return s.Source, nil
	}
	data, err := os.ReadFile(s.Script)
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(data), nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Script == "" && s.Source == "":
		return fmt.Errorf("one of script or source is required")
	case s.Script != "" && s.Source != "":
		return fmt.Errorf("script and source are mutually exclusive")
	}

	if s.Script != "" {
		if _, err := os.Stat(s.Script); os.IsNotExist(err) {
			return fmt.Errorf("script file not found: %s", s.Script)
		}
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	for i, step := range s.Steps {
		if step == "" {
			return fmt.Errorf("steps[%d]: event name is required", i)
		}
	}

	for i, hook := range s.Hooks {
		if hook == "" {
			return fmt.Errorf("hooks[%d]: event name is required", i)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	if a.Outcome != "" && !knownOutcomes[a.Outcome] {
		return fmt.Errorf("assertions[%d]: unknown outcome %q", index, a.Outcome)
	}

	switch a.Type {
	case AssertVariable:
		if a.Name == "" {
			return fmt.Errorf("assertions[%d]: name is required for variable", index)
		}
		if a.Equals == nil {
			return fmt.Errorf("assertions[%d]: equals is required for variable", index)
		}
	case AssertMemory:
		if a.Index == nil {
			return fmt.Errorf("assertions[%d]: index is required for memory", index)
		}
		if a.Equals == nil {
			return fmt.Errorf("assertions[%d]: equals is required for memory", index)
		}
	case AssertTraceContains:
		if a.Event == "" {
			return fmt.Errorf("assertions[%d]: event is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Events) == 0 {
			return fmt.Errorf("assertions[%d]: events list is required for trace_order", index)
		}
	case AssertTraceCount, AssertHookCount:
		if a.Event == "" {
			return fmt.Errorf("assertions[%d]: event is required for %s", index, a.Type)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
