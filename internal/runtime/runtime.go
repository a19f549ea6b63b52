package runtime

import (
	"log/slog"
	"maps"
	"sort"

	"github.com/roach88/tickscript/internal/ast"
)

// Runtime interprets one program.
type Runtime struct {
	variables map[string]int
	memory    map[int]int
	events    ast.Program
	hooks     map[string]func()
	callStack []string

	clock  *Clock
	tracer Tracer
	logger *slog.Logger
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithTracer reports every dispatch to t.
func WithTracer(t Tracer) Option {
	return func(r *Runtime) {
		r.tracer = t
	}
}

// WithClock stamps dispatches from c instead of a private clock.
func WithClock(c *Clock) Option {
	return func(r *Runtime) {
		r.clock = c
	}
}

// New creates a Runtime bound to program.
//
// The event table is copied so later changes to the caller's map do not
// affect the runtime. Bodies are shared and must be treated as read-only.
func New(program ast.Program, opts ...Option) *Runtime {
	r := &Runtime{
		variables: make(map[string]int),
		memory:    make(map[int]int),
		events:    maps.Clone(program),
		hooks:     make(map[string]func()),
		clock:     NewClock(),
		logger:    slog.Default(),
	}
	if r.events == nil {
		r.events = ast.Program{}
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RegisterHook binds a host callback to an event name.
// The hook runs instead of any parsed body with the same name.
// Registering again replaces the previous hook.
func (r *Runtime) RegisterHook(name string, hook func()) {
	r.hooks[name] = hook
}

// GetVariable returns the value of a variable, or 0 if it was never set.
func (r *Runtime) GetVariable(name string) int {
	return r.variables[name]
}

// SetVariable seeds or overwrites a variable.
func (r *Runtime) SetVariable(name string, value int) {
	r.variables[name] = value
}

// GetMemory returns the memory cell at index, or 0 if it was never set.
func (r *Runtime) GetMemory(index int) int {
	return r.memory[index]
}

// SetMemory seeds or overwrites a memory cell.
func (r *Runtime) SetMemory(index, value int) {
	r.memory[index] = value
}

// Variables returns a copy of the variable store.
func (r *Runtime) Variables() map[string]int {
	return maps.Clone(r.variables)
}

// Memory returns a copy of the memory store.
func (r *Runtime) Memory() map[int]int {
	return maps.Clone(r.memory)
}

// CallStack returns a copy of the names currently executing, outermost first.
func (r *Runtime) CallStack() []string {
	out := make([]string, len(r.callStack))
	copy(out, r.callStack)
	return out
}

// HasEvent reports whether the program declares name.
func (r *Runtime) HasEvent(name string) bool {
	_, ok := r.events[name]
	return ok
}

// HasHook reports whether a hook is registered for name.
func (r *Runtime) HasHook(name string) bool {
	_, ok := r.hooks[name]
	return ok
}

// Events returns the declared event names in sorted order.
func (r *Runtime) Events() []string {
	names := make([]string, 0, len(r.events))
	for name := range r.events {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
