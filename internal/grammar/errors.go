package grammar

import (
	"errors"
	"fmt"
)

// Parse error codes.
const (
	ErrCodeDeclaration    = "E101" // line is neither an instruction nor a declaration
	ErrCodeDerivations    = "E102" // rule matched in more than one way
	ErrCodeDuplicateEvent = "E103" // event declared twice
	ErrCodeSyntax         = "E104" // standalone expression/instruction did not parse
)

// ParseError reports why source text could not be parsed.
// Parse never returns a partial program alongside a ParseError.
type ParseError struct {
	Code    string
	Message string
	// Line is 1-based, or 0 when the error is not tied to a line.
	Line int
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsParseError reports whether err is or wraps a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// derivationMessage describes a derivation count other than one.
func derivationMessage(n int) string {
	if n == 0 {
		return "zero derivations"
	}
	return fmt.Sprintf("%d derivations", n)
}
