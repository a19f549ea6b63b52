package host

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tickscript/internal/ast"
	"github.com/roach88/tickscript/internal/grammar"
	"github.com/roach88/tickscript/internal/runtime"
)

func quietWorld(opts ...Option) *World {
	return NewWorld(append([]Option{WithLogger(slog.New(slog.DiscardHandler))}, opts...)...)
}

func mustParse(t *testing.T, source string) ast.Program {
	t.Helper()
	program, err := grammar.Parse(source)
	require.NoError(t, err)
	return program
}

func TestAddMachine_HooksAvailableDuringInit(t *testing.T) {
	w := quietWorld()

	m, err := w.AddMachine("m", mustParse(t, ": init\n right\n down\n"), Point{}, nil)

	require.NoError(t, err)
	assert.Equal(t, Point{X: 1, Y: 1}, m.Pos())
	assert.Equal(t, 2, m.Moves())
}

func TestAddMachine_UpDecreasesY(t *testing.T) {
	w := quietWorld()

	m, err := w.AddMachine("m", mustParse(t, ": init\n up\n left\n"), Point{X: 3, Y: 3}, nil)

	require.NoError(t, err)
	assert.Equal(t, Point{X: 2, Y: 2}, m.Pos())
	obj, ok := w.Grid().ObjectAt(Point{X: 2, Y: 2})
	require.True(t, ok)
	assert.Same(t, m, obj)
}

func TestAddMachine_SeedVisibleInInit(t *testing.T) {
	w := quietWorld()

	m, err := w.AddMachine("m", mustParse(t, ": init\n b = a * 2\n"), Point{}, map[string]int{"a": 4})

	require.NoError(t, err)
	assert.Equal(t, 8, m.Runtime().GetVariable("b"))
}

func TestAddMachine_HookShadowsScriptBody(t *testing.T) {
	w := quietWorld()

	m, err := w.AddMachine("m", mustParse(t, ": up\n moved = 1\n: init\n up\n"), Point{}, nil)

	require.NoError(t, err)
	assert.Equal(t, 0, m.Runtime().GetVariable("moved"))
	assert.Equal(t, Point{Y: -1}, m.Pos())
}

func TestAddMachine_IDsAndNames(t *testing.T) {
	w := quietWorld()

	a, err := w.AddMachine("", nil, Point{}, nil)
	require.NoError(t, err)
	b, err := w.AddMachine("named", nil, Point{X: 1}, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, a.ID)
	assert.Equal(t, "machine-0", a.Name)
	assert.Equal(t, 1, b.ID)

	got, ok := w.Machine("named")
	require.True(t, ok)
	assert.Same(t, b, got)
}

func TestAddMachine_Errors(t *testing.T) {
	w := quietWorld()
	_, err := w.AddMachine("m", nil, Point{}, nil)
	require.NoError(t, err)

	_, err = w.AddMachine("m", nil, Point{X: 9}, nil)
	assert.ErrorContains(t, err, "duplicate machine name")

	_, err = w.AddMachine("n", nil, Point{}, nil)
	assert.ErrorIs(t, err, ErrOccupied)
}

func TestAddMachine_RejectedMachineKeepsIDs(t *testing.T) {
	w := quietWorld()
	_, err := w.AddMachine("m", nil, Point{}, nil)
	require.NoError(t, err)

	_, err = w.AddMachine("m", nil, Point{X: 9}, nil)
	require.Error(t, err)
	_, err = w.AddMachine("n", nil, Point{}, nil)
	require.Error(t, err)

	next, err := w.AddMachine("", nil, Point{X: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, next.ID)
	assert.Equal(t, "machine-1", next.Name)
	assert.Len(t, w.Machines(), 2)
}

func TestAddMachine_NamesAreNormalized(t *testing.T) {
	w := quietWorld()
	composed, err := w.AddMachine("caf\u00e9", nil, Point{}, nil)
	require.NoError(t, err)

	_, err = w.AddMachine("cafe\u0301", nil, Point{X: 1}, nil)
	assert.ErrorContains(t, err, "duplicate machine name")

	got, ok := w.Machine("cafe\u0301")
	require.True(t, ok)
	assert.Same(t, composed, got)
}

func TestMove_BlockedByCrystal(t *testing.T) {
	w := quietWorld()
	_, err := w.AddCrystal("beige", Point{X: 1})
	require.NoError(t, err)

	m, err := w.AddMachine("m", mustParse(t, ": tick\n right\n"), Point{}, nil)
	require.NoError(t, err)

	w.Run(3)

	assert.Equal(t, Point{}, m.Pos())
	assert.Equal(t, 3, m.Bumps())
	assert.Equal(t, 0, m.Moves())
}

func TestMove_BlockedByMachine(t *testing.T) {
	w := quietWorld()
	first, err := w.AddMachine("first", mustParse(t, ": tick\n right\n"), Point{}, nil)
	require.NoError(t, err)
	second, err := w.AddMachine("second", mustParse(t, ": tick\n right\n"), Point{X: 1}, nil)
	require.NoError(t, err)

	w.Step()

	// first moves before second, so it is still blocked on tick one.
	assert.Equal(t, Point{}, first.Pos())
	assert.Equal(t, Point{X: 2}, second.Pos())

	w.Step()
	assert.Equal(t, Point{X: 1}, first.Pos())
	assert.Equal(t, Point{X: 3}, second.Pos())
}

func TestPing_LogsVariable(t *testing.T) {
	var buf bytes.Buffer
	w := NewWorld(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	_, err := w.AddMachine("pinger", mustParse(t, ": init\n a = 3\n ping\n"), Point{}, nil)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "pong; a = 3")
	assert.Contains(t, buf.String(), "machine=pinger")
}

func TestGrantEnergy(t *testing.T) {
	w := quietWorld()
	a, err := w.AddMachine("a", nil, Point{}, nil)
	require.NoError(t, err)
	b, err := w.AddMachine("b", nil, Point{X: 1}, nil)
	require.NoError(t, err)

	a.GrantEnergy(5)
	b.GrantEnergy(2)
	a.GrantEnergy(1)

	assert.Equal(t, 6, a.Energy())
	assert.Equal(t, 2, b.Energy())
	assert.Equal(t, 8, w.Score())
}

func TestStep_TraceOrderAndSharedClock(t *testing.T) {
	w := quietWorld(WithClock(runtime.NewClock()))
	tick := mustParse(t, ": tick\n n = n + 1\n")
	_, err := w.AddMachine("a", tick, Point{}, nil)
	require.NoError(t, err)
	_, err = w.AddMachine("b", tick, Point{X: 5}, nil)
	require.NoError(t, err)

	w.Run(2)

	trace := w.Trace()
	got := []string{}
	for i, d := range trace {
		assert.Equal(t, int64(i+1), d.Seq)
		got = append(got, d.Machine+":"+d.Event+":"+string(d.Outcome))
	}
	assert.Equal(t, []string{
		"a:init:unknown",
		"b:init:unknown",
		"a:tick:body",
		"b:tick:body",
		"a:tick:body",
		"b:tick:body",
	}, got)
	assert.Equal(t, 2, w.Ticks())
	assert.Equal(t, int64(6), w.Clock().Current())

	for _, m := range w.Machines() {
		assert.Equal(t, 2, m.Runtime().GetVariable("n"))
	}
}
