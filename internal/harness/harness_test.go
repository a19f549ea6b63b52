package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tickscript/internal/grammar"
	"github.com/roach88/tickscript/internal/runtime"
)

func intPtr(v int) *int { return &v }

func TestRun_ScenarioFiles(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios", "")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Equal(t, "scenario-0001", result.RunID)
		})
	}
}

func TestRun_HookPrecedenceAndCounts(t *testing.T) {
	scenario := &Scenario{
		Name:        "hooks",
		Description: "a hook shadows the body of the same name",
		Source:      ": ping\n shadowed = 1\n: tick\n ping\n ping\n",
		Hooks:       []string{"ping", "never"},
		Steps:       []string{"tick"},
		Assertions: []Assertion{
			{Type: AssertVariable, Name: "shadowed", Equals: intPtr(0)},
			{Type: AssertHookCount, Event: "ping", Count: 2},
			{Type: AssertHookCount, Event: "never", Count: 0},
			{Type: AssertTraceCount, Event: "ping", Outcome: "hook", Count: 2},
			{Type: AssertTraceCount, Event: "ping", Outcome: "body", Count: 0},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, map[string]int{"ping": 2, "never": 0}, result.HookCalls)
}

func TestRun_SeedsAndMemory(t *testing.T) {
	scenario := &Scenario{
		Name:        "seeds",
		Description: "seeded state is visible to the first step",
		Source:      ": go\n [i + 1] = [i] * 2\n out = [i + 1]\n",
		Seed:        map[string]int{"i": 4},
		Memory:      map[int]int{4: 21},
		Steps:       []string{"go"},
		Assertions: []Assertion{
			{Type: AssertVariable, Name: "out", Equals: intPtr(42)},
			{Type: AssertMemory, Index: intPtr(5), Equals: intPtr(42)},
			{Type: AssertMemory, Index: intPtr(99), Equals: intPtr(0)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, map[int]int{4: 21, 5: 42}, result.Memory)
}

func TestRun_FailingAssertions(t *testing.T) {
	scenario := &Scenario{
		Name:        "failing",
		Description: "every assertion type can fail",
		Source:      ": a\n x = 1\n b\n: b\n",
		Hooks:       []string{"h"},
		Steps:       []string{"a"},
		Assertions: []Assertion{
			{Type: AssertVariable, Name: "x", Equals: intPtr(2)},
			{Type: AssertMemory, Index: intPtr(0), Equals: intPtr(1)},
			{Type: AssertTraceContains, Event: "c"},
			{Type: AssertTraceContains, Event: "a", Outcome: "hook"},
			{Type: AssertTraceOrder, Events: []string{"b", "a"}},
			{Type: AssertTraceCount, Event: "a", Count: 2},
			{Type: AssertHookCount, Event: "h", Count: 1},
			{Type: AssertHookCount, Event: "not-a-hook", Count: 0},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 8)
	assert.Contains(t, result.Errors[0], "x = 2")
	assert.Contains(t, result.Errors[0], "x = 1")
	assert.Contains(t, result.Errors[2], "not found in trace")
	assert.Contains(t, result.Errors[4], "matched [b], then no a")
	assert.Contains(t, result.Errors[7], "is not a scenario hook")
}

func TestRun_ParseErrorIsReturned(t *testing.T) {
	scenario := &Scenario{
		Name:        "broken",
		Description: "program does not parse",
		Source:      "x = 1\n",
		Steps:       []string{"a"},
		Assertions:  []Assertion{{Type: AssertTraceContains, Event: "a"}},
	}

	_, err := Run(scenario)

	var parseErr *grammar.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 1, parseErr.Line)
}

func TestAssertTraceOrder_RepeatedEvents(t *testing.T) {
	trace := []runtime.Dispatch{
		{Seq: 1, Event: "init"},
		{Seq: 2, Event: "tick"},
		{Seq: 3, Event: "up"},
		{Seq: 4, Event: "tick"},
	}

	assert.NoError(t, assertTraceOrder(trace, Assertion{Events: []string{"tick", "tick"}}))
	assert.NoError(t, assertTraceOrder(trace, Assertion{Events: []string{"init", "up"}}))
	assert.Error(t, assertTraceOrder(trace, Assertion{Events: []string{"tick", "tick", "tick"}}))
	assert.Error(t, assertTraceOrder(trace, Assertion{Events: []string{"up", "init"}}))
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{
		Type:     AssertTraceCount,
		Expected: "2 occurrences of tick",
		Actual:   "1 occurrences",
		Trace: []runtime.Dispatch{
			{Seq: 1, Event: "tick", Outcome: runtime.OutcomeBody},
			{Seq: 2, Event: "up", Outcome: runtime.OutcomeHook, Depth: 1},
		},
	}

	assert.Equal(t, "Assertion failed: trace_count\n"+
		"  Expected: 2 occurrences of tick\n"+
		"  Actual: 1 occurrences\n"+
		"\nFull trace:\n"+
		"  [1] tick (body)\n"+
		"  [2]   up (hook)\n", err.Error())
}

func TestEvaluateAssertions_StateNeedsStore(t *testing.T) {
	errs := EvaluateAssertions(NewResult(), []Assertion{
		{Type: AssertVariable, Name: "x", Equals: intPtr(0)},
	}, nil)

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "requires database context")
}
