package ast

import "sort"

// Instruction is a single executable statement.
type Instruction interface {
	instructionNode()
}

// Assignment stores the value of Value into Target.
type Assignment struct {
	Target Reference
	Value  Expression
}

// EventCall runs the named event.
type EventCall struct {
	Event string
}

func (Assignment) instructionNode() {}
func (EventCall) instructionNode()  {}

// Guard decides whether a ConditionalInstruction runs.
// A nil Guard always holds.
type Guard interface {
	guardNode()
}

// ExprGuard holds when Expr evaluates to a non-zero value.
type ExprGuard struct {
	Expr Expression
}

// Condition tests a single variable against zero.
type Condition struct {
	Variable string
	// Zero selects "== 0"; otherwise the test is "!= 0".
	Zero bool
}

// ConditionList holds when every condition holds.
type ConditionList []Condition

func (ExprGuard) guardNode()     {}
func (ConditionList) guardNode() {}

// ConditionalInstruction is an instruction with an optional guard.
type ConditionalInstruction struct {
	Guard       Guard
	Instruction Instruction
	// Line is the 1-based source line, or 0 for host-built programs.
	Line int
}

// Program maps event names to their ordered bodies.
type Program map[string][]ConditionalInstruction

// Events returns the declared event names in sorted order.
func (p Program) Events() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InstructionCount returns the total number of instructions in all bodies.
func (p Program) InstructionCount() int {
	n := 0
	for _, body := range p {
		n += len(body)
	}
	return n
}
