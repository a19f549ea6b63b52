package host

import (
	"fmt"
	"log/slog"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/tickscript/internal/ast"
	"github.com/roach88/tickscript/internal/runtime"
	"github.com/roach88/tickscript/internal/store"
)

// World is a grid of machines and crystals advanced in discrete ticks.
// A World is not safe for concurrent use.
type World struct {
	grid     *Grid
	machines []*Machine
	byName   map[string]*Machine
	crystals []*Crystal

	nextID int
	score  int
	ticks  int

	clock  *runtime.Clock
	logger *slog.Logger
	trace  []store.Dispatch
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger for machine messages and runtime diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(w *World) {
		w.logger = logger
	}
}

// WithClock sets the logical clock shared by every machine.
func WithClock(c *runtime.Clock) Option {
	return func(w *World) {
		w.clock = c
	}
}

// NewWorld creates an empty world.
func NewWorld(opts ...Option) *World {
	w := &World{
		grid:   NewGrid(),
		byName: make(map[string]*Machine),
		clock:  runtime.NewClock(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// requestMachineID hands out machine ids in creation order, starting at 0.
func (w *World) requestMachineID() int {
	id := w.nextID
	w.nextID++
	return id
}

// AddCrystal places a crystal of the named tier at p.
func (w *World) AddCrystal(tier string, p Point) (*Crystal, error) {
	t, err := LookupCrystalTier(tier)
	if err != nil {
		return nil, err
	}
	c := &Crystal{Tier: t, Pos: p}
	if err := w.grid.Add(c, p); err != nil {
		return nil, err
	}
	w.crystals = append(w.crystals, c)
	return c, nil
}

// AddMachine places a machine running program at p.
//
// Seed values are set first, then the movement and ping hooks are
// registered, then the init event runs. An empty name becomes
// "machine-<id>". Names are NFC-normalized, so composed and decomposed
// spellings of the same name collide. A rejected machine does not use
// up an id.
func (w *World) AddMachine(name string, program ast.Program, p Point, seed map[string]int) (*Machine, error) {
	if name == "" {
		name = fmt.Sprintf("machine-%d", w.nextID)
	}
	name = norm.NFC.String(name)
	if _, exists := w.byName[name]; exists {
		return nil, fmt.Errorf("duplicate machine name %q", name)
	}

	m := &Machine{Name: name, pos: p, world: w}
	if err := w.grid.Add(m, p); err != nil {
		return nil, fmt.Errorf("machine %q: %w", name, err)
	}
	m.ID = w.requestMachineID()

	m.rt = runtime.New(program,
		runtime.WithClock(w.clock),
		runtime.WithLogger(w.logger.With("machine", name)),
		runtime.WithTracer(runtime.TracerFunc(func(d runtime.Dispatch) {
			w.trace = append(w.trace, store.Dispatch{Machine: name, Dispatch: d})
		})),
	)
	for k, v := range seed {
		m.rt.SetVariable(k, v)
	}
	m.registerHooks()

	w.machines = append(w.machines, m)
	w.byName[name] = m

	m.rt.RunEvent("init")
	return m, nil
}

// Step advances the world one tick.
func (w *World) Step() {
	w.ticks++
	for _, m := range w.machines {
		m.Tick()
	}
}

// Run advances the world n ticks.
func (w *World) Run(n int) {
	for i := 0; i < n; i++ {
		w.Step()
	}
	w.logger.Debug("world advanced", "ticks", n, "total", w.ticks, "seq", w.clock.Current())
}

// Machines returns the machines in id order.
func (w *World) Machines() []*Machine {
	out := make([]*Machine, len(w.machines))
	copy(out, w.machines)
	return out
}

// Machine looks a machine up by name.
func (w *World) Machine(name string) (*Machine, bool) {
	m, ok := w.byName[norm.NFC.String(name)]
	return m, ok
}

// Crystals returns the crystals in placement order.
func (w *World) Crystals() []*Crystal {
	out := make([]*Crystal, len(w.crystals))
	copy(out, w.crystals)
	return out
}

// Grid returns the world's occupancy grid.
func (w *World) Grid() *Grid {
	return w.grid
}

// Score returns the total energy granted to all machines.
func (w *World) Score() int {
	return w.score
}

// Ticks returns the number of completed steps.
func (w *World) Ticks() int {
	return w.ticks
}

// Clock returns the shared logical clock.
func (w *World) Clock() *runtime.Clock {
	return w.clock
}

// Trace returns every dispatch so far, in seq order.
func (w *World) Trace() []store.Dispatch {
	out := make([]store.Dispatch, len(w.trace))
	copy(out, w.trace)
	return out
}

func (w *World) logMachineMessage(m *Machine, message string) {
	w.logger.Info(message, "machine", m.Name, "id", m.ID)
}
