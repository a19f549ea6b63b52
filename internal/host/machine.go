package host

import (
	"fmt"

	"github.com/roach88/tickscript/internal/runtime"
)

// Machine is a scripted agent on the grid.
type Machine struct {
	ID   int
	Name string

	pos    Point
	energy int
	moves  int
	bumps  int

	rt    *runtime.Runtime
	world *World
}

// Kind implements Object.
func (m *Machine) Kind() string {
	return "machine"
}

// Pos returns the machine's current cell.
func (m *Machine) Pos() Point {
	return m.pos
}

// Energy returns the energy granted to this machine so far.
func (m *Machine) Energy() int {
	return m.energy
}

// Moves returns the number of successful moves.
func (m *Machine) Moves() int {
	return m.moves
}

// Bumps returns the number of moves refused because the cell was taken.
func (m *Machine) Bumps() int {
	return m.bumps
}

// Runtime exposes the machine's interpreter for inspection.
func (m *Machine) Runtime() *runtime.Runtime {
	return m.rt
}

// Tick runs the machine's tick event once.
func (m *Machine) Tick() {
	m.rt.RunEvent("tick")
}

// GrantEnergy adds amount to the machine's energy and the world score.
// None of the built-in hooks grant energy; it is for hosts that reward
// machines, so a plain world run reports zero energy and score.
func (m *Machine) GrantEnergy(amount int) {
	m.energy += amount
	m.world.score += amount
}

func (m *Machine) registerHooks() {
	m.rt.RegisterHook("up", func() { m.move(Up) })
	m.rt.RegisterHook("down", func() { m.move(Down) })
	m.rt.RegisterHook("left", func() { m.move(Left) })
	m.rt.RegisterHook("right", func() { m.move(Right) })
	m.rt.RegisterHook("ping", func() {
		m.world.logMachineMessage(m, fmt.Sprintf("pong; a = %d", m.rt.GetVariable("a")))
	})
}

func (m *Machine) move(delta Point) {
	to, hit, ok := m.world.grid.Move(m.pos, delta)
	if !ok {
		m.bumps++
		kind := ""
		if hit != nil {
			kind = hit.Kind()
		}
		m.world.logger.Debug("move blocked",
			"machine", m.Name,
			"from", m.pos.String(),
			"delta", delta.String(),
			"hit", kind,
		)
		return
	}
	m.pos = to
	m.moves++
}
