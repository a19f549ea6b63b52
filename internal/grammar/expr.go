package grammar

import (
	"github.com/roach88/tickscript/internal/ast"
	c "github.com/roach88/tickscript/internal/combinator"
)

const (
	atomTier       = 0
	comparisonTier = 3
	topTier        = 5
)

type binaryRule struct {
	symbol string
	op     ast.BinaryOp
}

// binaryRules lists the infix operators of each tier above the atoms.
// Both "," and "|" mean logical and; there is no source token for or.
var binaryRules = [topTier + 1][]binaryRule{
	1: {{"*", ast.Mul}, {"/", ast.Div}, {"%", ast.Mod}},
	2: {{"+", ast.Add}, {"-", ast.Sub}},
	3: {{">", ast.Gt}, {"<", ast.Lt}, {"==", ast.Eq}},
	4: {{",", ast.And}},
	5: {{"|", ast.And}},
}

// exprGrammar holds one parser per precedence tier.
type exprGrammar struct {
	tiers [topTier + 1]c.Parser[ast.Expression]
}

func newExprGrammar() *exprGrammar {
	g := &exprGrammar{}
	g.tiers[atomTier] = g.atom()
	for level := atomTier + 1; level <= topTier; level++ {
		g.tiers[level] = g.binaryTier(level)
	}
	return g
}

// tier refers to a tier lazily, so rules may reference tiers that are not
// built yet (or themselves).
func (g *exprGrammar) tier(level int) c.Parser[ast.Expression] {
	return c.Delay(func() c.Parser[ast.Expression] {
		return g.tiers[level]
	})
}

func (g *exprGrammar) expression() c.Parser[ast.Expression] {
	return g.tier(topTier)
}

// reference parses "[expr]" or an identifier.
func (g *exprGrammar) reference() c.Parser[ast.Reference] {
	index := c.Map(
		c.SurroundedBy(g.expression(), token("["), token("]")),
		func(e ast.Expression) ast.Reference { return ast.Index{Index: e} },
	)
	variable := c.Map(identifier, func(name string) ast.Reference {
		return ast.Variable{Name: name}
	})
	return c.Or(index, variable)
}

func (g *exprGrammar) atom() c.Parser[ast.Expression] {
	unary := func(symbol string, op ast.UnaryOp) c.Parser[ast.Expression] {
		return c.Map(c.IgnoreAnd(token(symbol), g.tier(atomTier)), func(inner ast.Expression) ast.Expression {
			return ast.Unary{Op: op, Inner: inner}
		})
	}
	return c.Or(
		c.Map(g.reference(), func(r ast.Reference) ast.Expression { return r }),
		unary("|", ast.Abs),
		unary("-", ast.Negate),
		unary("!", ast.Not),
		c.Map(integer, func(n int) ast.Expression { return ast.Literal{Value: n} }),
		c.SurroundedBy(g.expression(), token("("), token(")")),
	)
}

// binaryTier parses the left operand once from the tier below, then
// either stops or continues with an operator and a right operand.
// The right operand recurses into the same tier, except at the
// comparison tier where it comes from the tier below so that
// comparisons cannot chain.
func (g *exprGrammar) binaryTier(level int) c.Parser[ast.Expression] {
	lower := g.tiers[level-1]
	right := g.tier(level)
	if level == comparisonTier {
		right = lower
	}
	rules := binaryRules[level]

	return c.AndThen(lower, func(left ast.Expression) c.Parser[ast.Expression] {
		alternatives := []c.Parser[ast.Expression]{c.Pure(left)}
		for _, rule := range rules {
			op := rule.op
			alternatives = append(alternatives, c.Map(
				c.IgnoreAnd(token(rule.symbol), right),
				func(r ast.Expression) ast.Expression {
					return ast.Binary{Op: op, Left: left, Right: r}
				},
			))
		}
		return c.Or(alternatives...)
	})
}
