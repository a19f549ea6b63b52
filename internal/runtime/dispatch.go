package runtime

import (
	"slices"

	"github.com/roach88/tickscript/internal/ast"
)

// RunEvent dispatches name: hook first, then parsed body, else nothing.
//
// A body whose name is already on the call stack is skipped silently.
// The stack entry is popped even if a hook called from the body panics.
func (r *Runtime) RunEvent(name string) {
	if hook, ok := r.hooks[name]; ok {
		r.record(name, OutcomeHook)
		hook()
		return
	}

	body, ok := r.events[name]
	if !ok {
		r.record(name, OutcomeUnknown)
		return
	}

	if slices.Contains(r.callStack, name) {
		r.record(name, OutcomeReentrant)
		return
	}

	r.record(name, OutcomeBody)
	r.callStack = append(r.callStack, name)
	defer func() {
		r.callStack = r.callStack[:len(r.callStack)-1]
	}()

	for _, ci := range body {
		if r.guardHolds(ci.Guard) {
			r.execute(ci.Instruction)
		}
	}
}

func (r *Runtime) execute(in ast.Instruction) {
	switch in := in.(type) {
	case ast.Assignment:
		r.Assign(in.Target, r.Evaluate(in.Value))
	case ast.EventCall:
		r.RunEvent(in.Event)
	}
}

func (r *Runtime) guardHolds(g ast.Guard) bool {
	switch g := g.(type) {
	case nil:
		return true
	case ast.ExprGuard:
		return r.Evaluate(g.Expr) != 0
	case ast.ConditionList:
		for _, c := range g {
			if (r.GetVariable(c.Variable) == 0) != c.Zero {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (r *Runtime) record(name string, outcome Outcome) {
	d := Dispatch{
		Seq:     r.clock.Next(),
		Event:   name,
		Outcome: outcome,
		Depth:   len(r.callStack),
	}
	r.logger.Debug("dispatch",
		"seq", d.Seq,
		"event", d.Event,
		"outcome", string(d.Outcome),
		"depth", d.Depth,
	)
	if r.tracer != nil {
		r.tracer.Record(d)
	}
}
