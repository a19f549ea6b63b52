package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/tickscript/internal/grammar"
	"github.com/roach88/tickscript/internal/runtime"
	"github.com/roach88/tickscript/internal/store"
	"github.com/roach88/tickscript/internal/testutil"
)

// Harness holds the per-scenario execution context.
type Harness struct {
	store  *store.Store
	runIDs store.RunIDGenerator
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
//  1. Parse the program
//  2. Register counting hooks and apply seeds
//  3. Dispatch each step in order
//  4. Persist the trace and final state
//  5. Evaluate assertions against the trace and the stored state
//
// A program that does not parse is an error, not a failing result.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		runIDs: testutil.NewFixedRunIDGenerator("scenario"),
		logger: slog.New(slog.DiscardHandler),
	}
	return h.run(context.Background(), scenario)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	source, err := scenario.ProgramSource()
	if err != nil {
		return nil, err
	}
	program, err := grammar.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse program: %w", err)
	}

	result := NewResult()
	rec := runtime.NewRecorder()
	rt := runtime.New(program,
		runtime.WithTracer(rec),
		runtime.WithLogger(h.logger),
		runtime.WithClock(runtime.NewClock()),
	)

	for _, hook := range scenario.Hooks {
		name := hook
		result.HookCalls[name] = 0
		rt.RegisterHook(name, func() { result.HookCalls[name]++ })
	}
	for name, value := range scenario.Seed {
		rt.SetVariable(name, value)
	}
	for index, value := range scenario.Memory {
		rt.SetMemory(index, value)
	}

	for _, step := range scenario.Steps {
		rt.RunEvent(step)
	}

	result.Trace = rec.Dispatches()
	result.Variables = rt.Variables()
	result.Memory = rt.Memory()

	runID, err := h.persist(ctx, scenario, result)
	if err != nil {
		return nil, err
	}
	result.RunID = runID

	actx := &AssertionContext{
		Store:   h.store,
		Ctx:     ctx,
		RunID:   runID,
		Machine: scenario.Name,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// persist records the run under the scenario's name as the machine.
func (h *Harness) persist(ctx context.Context, scenario *Scenario, result *Result) (string, error) {
	runID := h.runIDs.Generate()
	if err := h.store.WriteRun(ctx, store.Run{ID: runID, Label: scenario.Name, Ticks: len(scenario.Steps)}); err != nil {
		return "", err
	}

	dispatches := make([]store.Dispatch, len(result.Trace))
	for i, d := range result.Trace {
		dispatches[i] = store.Dispatch{Machine: scenario.Name, Dispatch: d}
	}
	if err := h.store.WriteDispatches(ctx, runID, dispatches); err != nil {
		return "", err
	}
	if err := h.store.WriteVariables(ctx, runID, scenario.Name, result.Variables); err != nil {
		return "", err
	}
	if err := h.store.WriteMemory(ctx, runID, scenario.Name, result.Memory); err != nil {
		return "", err
	}

	var finalSeq int64
	if n := len(result.Trace); n > 0 {
		finalSeq = result.Trace[n-1].Seq
	}
	if err := h.store.FinishRun(ctx, runID, finalSeq); err != nil {
		return "", err
	}

	h.logger.Debug("scenario persisted", "scenario", scenario.Name, "run_id", runID, "dispatches", len(dispatches))
	return runID, nil
}
