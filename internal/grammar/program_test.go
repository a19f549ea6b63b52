package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tickscript/internal/ast"
)

func v(name string) ast.Variable { return ast.Variable{Name: name} }
func lit(n int) ast.Literal      { return ast.Literal{Value: n} }

func TestParse_TwoBlocks(t *testing.T) {
	program, err := Parse(": a\n x\n: b\n y\n")
	require.NoError(t, err)

	assert.Equal(t, ast.Program{
		"a": {{Instruction: ast.EventCall{Event: "x"}, Line: 2}},
		"b": {{Instruction: ast.EventCall{Event: "y"}, Line: 4}},
	}, program)
}

func TestParse_GuardedAssignment(t *testing.T) {
	program, err := Parse(": a\n (x) y = 1\n")
	require.NoError(t, err)

	require.Len(t, program["a"], 1)
	ci := program["a"][0]
	assert.Equal(t, ast.ExprGuard{Expr: v("x")}, ci.Guard)
	assert.Equal(t, ast.Assignment{Target: v("y"), Value: lit(1)}, ci.Instruction)
}

func TestParse_EmptySource(t *testing.T) {
	program, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, program)
}

func TestParse_EmptyBlock(t *testing.T) {
	program, err := Parse(": init\n: tick\n up\n")
	require.NoError(t, err)

	assert.Equal(t, []ast.ConditionalInstruction{}, program["init"])
	assert.Len(t, program["tick"], 1)
}

func TestParse_LayoutTolerance(t *testing.T) {
	source := "\n:\ttick  \r\n\n  a = a + 1\r\n\t\t\n\t(a > 3)  a = 0\n   : other\nup\n"

	program, err := Parse(source)
	require.NoError(t, err)

	assert.Equal(t, []string{"other", "tick"}, program.Events())
	require.Len(t, program["tick"], 2)
	assert.Equal(t, 4, program["tick"][0].Line)
	assert.Equal(t, 6, program["tick"][1].Line)
	assert.Equal(t, []ast.ConditionalInstruction{{Instruction: ast.EventCall{Event: "up"}, Line: 8}}, program["other"])
}

func TestParse_IdentifierCharacters(t *testing.T) {
	program, err := Parse(": go'home\n @x_y = 1\n")
	require.NoError(t, err)

	require.Contains(t, program, "go'home")
	assert.Equal(t, ast.Assignment{Target: v("@x_y"), Value: lit(1)}, program["go'home"][0].Instruction)
}

func TestParse_MemoryAssignment(t *testing.T) {
	program, err := Parse(": a\n [ i + 1 ] = [i]\n")
	require.NoError(t, err)

	assert.Equal(t, ast.Assignment{
		Target: ast.Index{Index: ast.Binary{Op: ast.Add, Left: v("i"), Right: lit(1)}},
		Value:  ast.Index{Index: v("i")},
	}, program["a"][0].Instruction)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   string
		line   int
		msg    string
	}{
		{"instruction before declaration", "x = 1\n", ErrCodeDeclaration, 1, "zero derivations"},
		{"bad line inside block", ": a\n x = 1\n x = = 2\n", ErrCodeDeclaration, 3, "instruction or event declaration"},
		{"declaration without name", ": a\n:\n", ErrCodeDeclaration, 2, "zero derivations"},
		{"duplicate event", ": a\n x\n: b\n\n: a\n", ErrCodeDuplicateEvent, 5, "duplicate event `a`"},
		{"chained comparison", ": a\n x = a < b < c\n", ErrCodeDeclaration, 2, "zero derivations"},
		{"unbalanced paren", ": a\n (x y\n", ErrCodeDeclaration, 2, ""},
		{"newline is not whitespace", ": a\n x = 1 +\n 2\n", ErrCodeDeclaration, 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, err := Parse(tt.source)
			require.Error(t, err)
			assert.Nil(t, program, "no partial program on failure")

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.code, pe.Code)
			assert.Equal(t, tt.line, pe.Line)
			assert.Contains(t, pe.Error(), tt.msg)
			assert.True(t, IsParseError(err))
		})
	}
}

func TestParse_ValidProgramHasOneDerivationPerLine(t *testing.T) {
	source := `: init
  a = 0
  [0] = 10
: tick
  (a < 3) a = a + 1
  (a == 3, !b) b = 1
  (|d > 0 | [0]) d = d - 1
  ([a % 2] == 0) right
  x = -a * (b + 2) / 3 % |c
  ping
`
	program, err := Parse(source)
	require.NoError(t, err)
	assert.Len(t, program["init"], 2)
	assert.Len(t, program["tick"], 6)
	assert.Equal(t, 8, program.InstructionCount())
}

func TestParseError_Format(t *testing.T) {
	err := &ParseError{Code: ErrCodeDuplicateEvent, Line: 3, Message: "duplicate event `a`"}
	assert.Equal(t, "line 3: E103: duplicate event `a`", err.Error())

	err = &ParseError{Code: ErrCodeSyntax, Message: "expression: zero derivations"}
	assert.Equal(t, "E104: expression: zero derivations", err.Error())
}
