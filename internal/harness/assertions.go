package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/tickscript/internal/runtime"
	"github.com/roach88/tickscript/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string             // Assertion type for categorization
	Expected string             // Human-readable expected outcome
	Actual   string             // Human-readable actual outcome
	Trace    []runtime.Dispatch // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, d := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s%s (%s)\n", d.Seq, strings.Repeat("  ", d.Depth), d.Event, d.Outcome)
		}
	}

	return buf.String()
}

// AssertionContext provides store access for state assertions.
type AssertionContext struct {
	Store   *store.Store
	Ctx     context.Context
	RunID   string
	Machine string
}

func matchesDispatch(d runtime.Dispatch, event, outcome string) bool {
	return d.Event == event && (outcome == "" || string(d.Outcome) == outcome)
}

func describeEvent(event, outcome string) string {
	if outcome == "" {
		return event
	}
	return fmt.Sprintf("%s (%s)", event, outcome)
}

// assertTraceContains checks that some dispatch matches the event and,
// if given, the outcome.
func assertTraceContains(trace []runtime.Dispatch, a Assertion) error {
	for _, d := range trace {
		if matchesDispatch(d, a.Event, a.Outcome) {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("dispatch of %s", describeEvent(a.Event, a.Outcome)),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the events appear as a subsequence of the
// trace. Intervening dispatches are allowed and repeated names must
// appear repeatedly.
func assertTraceOrder(trace []runtime.Dispatch, a Assertion) error {
	next := 0
	for _, d := range trace {
		if next < len(a.Events) && d.Event == a.Events[next] {
			next++
		}
	}
	if next == len(a.Events) {
		return nil
	}

	return &AssertionError{
		Type:     AssertTraceOrder,
		Expected: fmt.Sprintf("events in order: %v", a.Events),
		Actual:   fmt.Sprintf("matched %v, then no %s", a.Events[:next], a.Events[next]),
		Trace:    trace,
	}
}

// assertTraceCount checks the number of matching dispatches.
func assertTraceCount(trace []runtime.Dispatch, a Assertion) error {
	count := 0
	for _, d := range trace {
		if matchesDispatch(d, a.Event, a.Outcome) {
			count++
		}
	}

	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, describeEvent(a.Event, a.Outcome)),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertHookCount checks how many times a scenario hook ran.
func assertHookCount(result *Result, a Assertion) error {
	calls, registered := result.HookCalls[a.Event]
	if !registered {
		return fmt.Errorf("hook_count: %q is not a scenario hook", a.Event)
	}
	if calls != a.Count {
		return &AssertionError{
			Type:     AssertHookCount,
			Expected: fmt.Sprintf("hook %s called %d times", a.Event, a.Count),
			Actual:   fmt.Sprintf("called %d times", calls),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertVariable reads the variable back from the store.
func assertVariable(actx *AssertionContext, a Assertion) error {
	vars, err := actx.Store.ReadVariables(actx.Ctx, actx.RunID, actx.Machine)
	if err != nil {
		return fmt.Errorf("variable: %w", err)
	}
	if actual := vars[a.Name]; actual != *a.Equals {
		return &AssertionError{
			Type:     AssertVariable,
			Expected: fmt.Sprintf("%s = %d", a.Name, *a.Equals),
			Actual:   fmt.Sprintf("%s = %d", a.Name, actual),
		}
	}
	return nil
}

// assertMemory reads the memory cell back from the store.
func assertMemory(actx *AssertionContext, a Assertion) error {
	memory, err := actx.Store.ReadMemory(actx.Ctx, actx.RunID, actx.Machine)
	if err != nil {
		return fmt.Errorf("memory: %w", err)
	}
	if actual := memory[*a.Index]; actual != *a.Equals {
		return &AssertionError{
			Type:     AssertMemory,
			Expected: fmt.Sprintf("[%d] = %d", *a.Index, *a.Equals),
			Actual:   fmt.Sprintf("[%d] = %d", *a.Index, actual),
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// The actx parameter provides database access for state assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertHookCount:
			err = assertHookCount(result, assertion)
		case AssertVariable, AssertMemory:
			switch {
			case actx == nil || actx.Store == nil:
				err = fmt.Errorf("assertion[%d]: %s requires database context", i, assertion.Type)
			case assertion.Equals == nil:
				err = fmt.Errorf("assertion[%d]: %s requires equals", i, assertion.Type)
			case assertion.Type == AssertVariable:
				err = assertVariable(actx, assertion)
			case assertion.Index == nil:
				err = fmt.Errorf("assertion[%d]: memory requires index", i)
			default:
				err = assertMemory(actx, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
