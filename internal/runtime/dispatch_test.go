package runtime

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tickscript/internal/ast"
	"github.com/roach88/tickscript/internal/grammar"
)

func newRuntime(t *testing.T, source string, opts ...Option) *Runtime {
	t.Helper()
	program, err := grammar.Parse(source)
	require.NoError(t, err)
	return New(program, opts...)
}

func TestRunEvent_ExecutesInOrder(t *testing.T) {
	r := newRuntime(t, ": init\n a = 1\n b = a + 1\n a = b * 10\n")

	r.RunEvent("init")

	assert.Equal(t, 20, r.GetVariable("a"))
	assert.Equal(t, 2, r.GetVariable("b"))
	assert.Empty(t, r.CallStack())
}

func TestRunEvent_Guards(t *testing.T) {
	r := newRuntime(t, `: tick
 (a < 3) a = a + 1
 (a == 3) done = 1
 (!done) misses = misses + 1
`)

	for i := 0; i < 5; i++ {
		r.RunEvent("tick")
	}

	assert.Equal(t, 3, r.GetVariable("a"))
	assert.Equal(t, 1, r.GetVariable("done"))
	assert.Equal(t, 2, r.GetVariable("misses"))
}

func TestRunEvent_SelfCallIsDropped(t *testing.T) {
	rec := NewRecorder()
	r := newRuntime(t, ": x\n n = n + 1\n x\n m = m + 1\n", WithTracer(rec))

	r.RunEvent("x")

	assert.Equal(t, 1, r.GetVariable("n"))
	assert.Equal(t, 1, r.GetVariable("m"))
	assert.Empty(t, r.CallStack())
	assert.Equal(t, []Dispatch{
		{Seq: 1, Event: "x", Outcome: OutcomeBody, Depth: 0},
		{Seq: 2, Event: "x", Outcome: OutcomeReentrant, Depth: 1},
	}, rec.Dispatches())
}

func TestRunEvent_MutualRecursionStops(t *testing.T) {
	rec := NewRecorder()
	r := newRuntime(t, ": a\n n = n + 1\n b\n: b\n n = n + 10\n a\n", WithTracer(rec))

	r.RunEvent("a")

	assert.Equal(t, 11, r.GetVariable("n"))
	outcomes := []Outcome{}
	for _, d := range rec.Dispatches() {
		outcomes = append(outcomes, d.Outcome)
	}
	assert.Equal(t, []Outcome{OutcomeBody, OutcomeBody, OutcomeReentrant}, outcomes)
}

func TestRunEvent_SameEventRunsAgainAfterReturn(t *testing.T) {
	r := newRuntime(t, ": main\n step\n step\n: step\n n = n + 1\n")

	r.RunEvent("main")

	assert.Equal(t, 2, r.GetVariable("n"))
}

func TestRunEvent_HookOnly(t *testing.T) {
	r := newRuntime(t, ": tick\n ping\n")
	calls := 0
	r.RegisterHook("ping", func() { calls++ })

	r.RunEvent("tick")
	r.RunEvent("ping")

	assert.Equal(t, 2, calls)
}

func TestRunEvent_BodyOnly(t *testing.T) {
	r := newRuntime(t, ": ping\n a = 1\n")

	r.RunEvent("ping")

	assert.Equal(t, 1, r.GetVariable("a"))
}

func TestRunEvent_HookTakesPrecedenceOverBody(t *testing.T) {
	rec := NewRecorder()
	r := newRuntime(t, ": ping\n a = 1\n", WithTracer(rec))
	calls := 0
	r.RegisterHook("ping", func() { calls++ })

	r.RunEvent("ping")

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, r.GetVariable("a"), "parsed body must not run")
	require.Len(t, rec.Dispatches(), 1)
	assert.Equal(t, OutcomeHook, rec.Dispatches()[0].Outcome)
}

func TestRunEvent_HookCanReadAndWriteState(t *testing.T) {
	r := newRuntime(t, ": tick\n a = 5\n report\n a = a + 1\n")
	var seen int
	r.RegisterHook("report", func() {
		seen = r.GetVariable("a")
		r.SetVariable("b", 9)
	})

	r.RunEvent("tick")

	assert.Equal(t, 5, seen)
	assert.Equal(t, 6, r.GetVariable("a"))
	assert.Equal(t, 9, r.GetVariable("b"))
}

func TestRunEvent_UnknownIsNoop(t *testing.T) {
	rec := NewRecorder()
	r := newRuntime(t, ": init\n a = 1\n", WithTracer(rec))

	r.RunEvent("missing")

	assert.Empty(t, r.Variables())
	assert.Equal(t, []Dispatch{{Seq: 1, Event: "missing", Outcome: OutcomeUnknown}}, rec.Dispatches())
}

func TestRunEvent_ContradictoryConditionListNeverRuns(t *testing.T) {
	program := ast.Program{
		"tick": {{
			Guard: ast.ConditionList{
				{Variable: "v", Zero: true},
				{Variable: "v", Zero: false},
			},
			Instruction: ast.Assignment{Target: ast.Variable{Name: "ran"}, Value: ast.Literal{Value: 1}},
		}},
	}

	for _, value := range []int{-5, -1, 0, 1, 2, 1000} {
		r := New(program)
		r.SetVariable("v", value)
		r.RunEvent("tick")
		assert.Equal(t, 0, r.GetVariable("ran"), "value %d", value)
	}
}

func TestRunEvent_ConditionList(t *testing.T) {
	program := ast.Program{
		"tick": {{
			Guard:       ast.ConditionList{{Variable: "a", Zero: true}, {Variable: "b"}},
			Instruction: ast.EventCall{Event: "fire"},
		}},
	}
	r := New(program)
	fired := 0
	r.RegisterHook("fire", func() { fired++ })

	r.RunEvent("tick")
	r.SetVariable("b", 1)
	r.RunEvent("tick")
	r.SetVariable("a", 1)
	r.RunEvent("tick")

	assert.Equal(t, 1, fired)
}

func TestRunEvent_StackRestoredAfterHookPanic(t *testing.T) {
	r := newRuntime(t, ": tick\n boom\n")
	r.RegisterHook("boom", func() { panic("host failure") })

	assert.Panics(t, func() { r.RunEvent("tick") })
	assert.Empty(t, r.CallStack())
}

func TestRunEvent_SharedClock(t *testing.T) {
	clock := NewClockAt(10)
	rec := NewRecorder()
	a := newRuntime(t, ": tick\n", WithClock(clock), WithTracer(rec))
	b := newRuntime(t, ": tick\n", WithClock(clock), WithTracer(rec))

	a.RunEvent("tick")
	b.RunEvent("tick")

	seqs := []int64{}
	for _, d := range rec.Dispatches() {
		seqs = append(seqs, d.Seq)
	}
	assert.Equal(t, []int64{11, 12}, seqs)
	assert.Equal(t, int64(12), clock.Current())
}

func TestRunEvent_LogsDispatch(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := newRuntime(t, ": tick\n", WithLogger(logger))

	r.RunEvent("tick")

	assert.Contains(t, buf.String(), "event=tick")
	assert.Contains(t, buf.String(), "outcome=body")
}

func TestNew_CopiesEventTable(t *testing.T) {
	program := ast.Program{"a": nil}
	r := New(program)
	program["b"] = nil

	assert.True(t, r.HasEvent("a"))
	assert.False(t, r.HasEvent("b"))
	assert.Equal(t, []string{"a"}, r.Events())
}

func TestTracerFunc(t *testing.T) {
	var got []string
	r := newRuntime(t, ": a\n b\n", WithTracer(TracerFunc(func(d Dispatch) {
		got = append(got, d.Event+":"+string(d.Outcome))
	})))
	r.RegisterHook("b", func() {})

	r.RunEvent("a")

	assert.Equal(t, []string{"a:body", "b:hook"}, got)
	assert.True(t, r.HasHook("b"))
}
