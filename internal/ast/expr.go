package ast

// Expression is any node that evaluates to an int.
type Expression interface {
	expressionNode()
}

// Reference is an expression that denotes a writable storage location.
type Reference interface {
	Expression
	referenceNode()
}

// Literal is an integer constant.
type Literal struct {
	Value int
}

// Variable reads or writes a named variable.
type Variable struct {
	Name string
}

// Index reads or writes the memory cell at the value of Index.
type Index struct {
	Index Expression
}

// Unary applies a prefix operator.
type Unary struct {
	Op    UnaryOp
	Inner Expression
}

// Binary applies an infix operator.
type Binary struct {
	Op    BinaryOp
	Left  Expression
	Right Expression
}

func (Literal) expressionNode()  {}
func (Variable) expressionNode() {}
func (Index) expressionNode()    {}
func (Unary) expressionNode()    {}
func (Binary) expressionNode()   {}

func (Variable) referenceNode() {}
func (Index) referenceNode()    {}

// UnaryOp enumerates prefix operators.
type UnaryOp int

const (
	Abs UnaryOp = iota
	Negate
	Not
)

// BinaryOp enumerates infix operators.
type BinaryOp int

const (
	Mul BinaryOp = iota
	Div
	Mod
	Add
	Sub
	Gt
	Lt
	Eq
	And
	// Or is evaluable but no source token produces it.
	Or
)

var unarySymbols = map[UnaryOp]string{
	Abs:    "|",
	Negate: "-",
	Not:    "!",
}

var binarySymbols = map[BinaryOp]string{
	Mul: "*",
	Div: "/",
	Mod: "%",
	Add: "+",
	Sub: "-",
	Gt:  ">",
	Lt:  "<",
	Eq:  "==",
	And: ",",
	Or:  "or",
}

func (op UnaryOp) String() string {
	if s, ok := unarySymbols[op]; ok {
		return s
	}
	return "?"
}

func (op BinaryOp) String() string {
	if s, ok := binarySymbols[op]; ok {
		return s
	}
	return "?"
}
