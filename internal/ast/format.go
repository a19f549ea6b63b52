package ast

import (
	"fmt"
	"strings"
)

// Format renders an expression as source text.
// Binary nodes are always parenthesized so the output is unambiguous.
func Format(e Expression) string {
	switch v := e.(type) {
	case nil:
		return ""
	case Literal:
		return fmt.Sprintf("%d", v.Value)
	case Variable:
		return v.Name
	case Index:
		return "[" + Format(v.Index) + "]"
	case Unary:
		return v.Op.String() + Format(v.Inner)
	case Binary:
		return fmt.Sprintf("(%s %s %s)", Format(v.Left), v.Op, Format(v.Right))
	default:
		return fmt.Sprintf("<%T>", e)
	}
}

// FormatInstruction renders a conditional instruction as one source line.
func FormatInstruction(ci ConditionalInstruction) string {
	var b strings.Builder
	switch g := ci.Guard.(type) {
	case ExprGuard:
		b.WriteString("(" + Format(g.Expr) + ") ")
	case ConditionList:
		parts := make([]string, len(g))
		for i, c := range g {
			if c.Zero {
				parts[i] = "!" + c.Variable
			} else {
				parts[i] = c.Variable
			}
		}
		b.WriteString("(" + strings.Join(parts, ", ") + ") ")
	}
	switch in := ci.Instruction.(type) {
	case Assignment:
		b.WriteString(Format(in.Target) + " = " + Format(in.Value))
	case EventCall:
		b.WriteString(in.Event)
	}
	return b.String()
}
