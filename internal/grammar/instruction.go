package grammar

import (
	"github.com/roach88/tickscript/internal/ast"
	c "github.com/roach88/tickscript/internal/combinator"
)

// rules bundles the parsers for one grammar instance.
type rules struct {
	expr        c.Parser[ast.Expression]
	instruction c.Parser[ast.Instruction]
	conditional c.Parser[ast.ConditionalInstruction]
	declaration c.Parser[string]
}

func newRules() *rules {
	g := newExprGrammar()

	assignment := c.Map(
		c.And(c.AndIgnore(g.reference(), token("=")), g.expression()),
		func(v c.Pair[ast.Reference, ast.Expression]) ast.Instruction {
			return ast.Assignment{Target: v.First, Value: v.Second}
		},
	)
	eventCall := c.Map(identifier, func(name string) ast.Instruction {
		return ast.EventCall{Event: name}
	})
	instruction := c.Or(assignment, eventCall)

	guard := c.Or(
		c.Map(
			c.SurroundedBy(g.expression(), token("("), token(")")),
			func(e ast.Expression) ast.Guard { return ast.ExprGuard{Expr: e} },
		),
		c.Pure[ast.Guard](nil),
	)
	conditional := c.Map(c.And(guard, instruction), func(v c.Pair[ast.Guard, ast.Instruction]) ast.ConditionalInstruction {
		return ast.ConditionalInstruction{Guard: v.First, Instruction: v.Second}
	})

	return &rules{
		expr:        g.expression(),
		instruction: instruction,
		conditional: wholeLine(conditional),
		declaration: wholeLine(c.IgnoreAnd(token(":"), identifier)),
	}
}

// wholeLine allows leading whitespace and requires p to consume the rest
// of the line.
func wholeLine[T any](p c.Parser[T]) c.Parser[T] {
	return c.AndIgnore(c.IgnoreAnd(whitespace, p), c.Eof())
}

// parseExact runs p over input and insists on exactly one derivation.
func parseExact[T any](p c.Parser[T], input string) (T, int) {
	results := p(c.NewState(input))
	if len(results) != 1 {
		var zero T
		return zero, len(results)
	}
	return results[0].Value, 1
}

// ParseExpression parses a standalone expression.
func ParseExpression(source string) (ast.Expression, error) {
	e, n := parseExact(wholeLine(newRules().expr), source)
	if n != 1 {
		return nil, &ParseError{Code: ErrCodeSyntax, Message: "expression: " + derivationMessage(n)}
	}
	return e, nil
}

// ParseInstruction parses a standalone conditional instruction line.
func ParseInstruction(source string) (ast.ConditionalInstruction, error) {
	ci, n := parseExact(newRules().conditional, source)
	if n != 1 {
		return ast.ConditionalInstruction{}, &ParseError{Code: ErrCodeSyntax, Message: "instruction: " + derivationMessage(n)}
	}
	return ci, nil
}
