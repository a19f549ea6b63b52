package grammar

import (
	"fmt"
	"strings"

	"github.com/roach88/tickscript/internal/ast"
)

// Parse parses a whole program.
//
// Lines are scanned one at a time. Inside a block, each line is first
// tried as a conditional instruction; a line that yields zero derivations
// is tried as the next declaration instead. A declaration that does not
// parse, an ambiguous line, or a repeated event name fails the whole parse.
func Parse(source string) (ast.Program, error) {
	r := newRules()
	program := ast.Program{}

	current := ""
	inBlock := false

	for i, line := range strings.Split(source, "\n") {
		lineNo := i + 1
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimLeft(line, " \t") == "" {
			continue
		}

		if inBlock {
			ci, n := parseExact(r.conditional, line)
			if n == 1 {
				ci.Line = lineNo
				program[current] = append(program[current], ci)
				continue
			}
			if n > 1 {
				return nil, &ParseError{
					Code:    ErrCodeDerivations,
					Line:    lineNo,
					Message: fmt.Sprintf("ambiguous instruction %q: %s", strings.TrimSpace(line), derivationMessage(n)),
				}
			}
		}

		name, n := parseExact(r.declaration, line)
		if n != 1 {
			code := ErrCodeDeclaration
			if n > 1 {
				code = ErrCodeDerivations
			}
			expected := "event declaration"
			if inBlock {
				expected = "instruction or event declaration"
			}
			return nil, &ParseError{
				Code:    code,
				Line:    lineNo,
				Message: fmt.Sprintf("expected %s, got %q: %s", expected, strings.TrimSpace(line), derivationMessage(n)),
			}
		}
		if _, exists := program[name]; exists {
			return nil, &ParseError{
				Code:    ErrCodeDuplicateEvent,
				Line:    lineNo,
				Message: fmt.Sprintf("duplicate event `%s`", name),
			}
		}

		program[name] = []ast.ConditionalInstruction{}
		current = name
		inBlock = true
	}

	return program, nil
}
