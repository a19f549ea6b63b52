package runtime

import "github.com/roach88/tickscript/internal/ast"

// Evaluate computes the value of an expression against the current state.
func (r *Runtime) Evaluate(e ast.Expression) int {
	switch e := e.(type) {
	case ast.Literal:
		return e.Value
	case ast.Variable:
		return r.variables[e.Name]
	case ast.Index:
		return r.memory[r.Evaluate(e.Index)]
	case ast.Unary:
		return unary(e.Op, r.Evaluate(e.Inner))
	case ast.Binary:
		return r.binary(e)
	default:
		return 0
	}
}

// Assign overwrites the variable or memory cell that ref denotes.
func (r *Runtime) Assign(ref ast.Reference, value int) {
	switch ref := ref.(type) {
	case ast.Variable:
		r.variables[ref.Name] = value
	case ast.Index:
		r.memory[r.Evaluate(ref.Index)] = value
	}
}

func unary(op ast.UnaryOp, x int) int {
	switch op {
	case ast.Abs:
		if x < 0 {
			return -x
		}
		return x
	case ast.Negate:
		return -x
	case ast.Not:
		return boolInt(x == 0)
	default:
		return 0
	}
}

func (r *Runtime) binary(e ast.Binary) int {
	left := r.Evaluate(e.Left)

	// Operands have no side effects, so short-circuiting is unobservable.
	switch e.Op {
	case ast.And:
		return boolInt(left != 0 && r.Evaluate(e.Right) != 0)
	case ast.Or:
		return boolInt(left != 0 || r.Evaluate(e.Right) != 0)
	}

	right := r.Evaluate(e.Right)
	switch e.Op {
	case ast.Mul:
		return left * right
	case ast.Div:
		if right == 0 {
			return 0
		}
		return left / right
	case ast.Mod:
		if right == 0 {
			return 0
		}
		return left % right
	case ast.Add:
		return left + right
	case ast.Sub:
		return left - right
	case ast.Gt:
		return boolInt(left > right)
	case ast.Lt:
		return boolInt(left < right)
	case ast.Eq:
		return boolInt(left == right)
	default:
		return 0
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
