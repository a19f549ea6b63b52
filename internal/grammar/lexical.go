package grammar

import (
	"strconv"
	"strings"

	c "github.com/roach88/tickscript/internal/combinator"
)

const identChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ@_'"

func isIdentChar(r rune) bool {
	return strings.ContainsRune(identChars, r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isBlank matches intra-line whitespace. Newlines are never whitespace.
func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

var whitespace = c.Map(c.Repeat(c.Expect(isBlank)), func([]rune) struct{} {
	return struct{}{}
})

// token matches a literal symbol and the whitespace after it.
func token(symbol string) c.Parser[string] {
	return c.AndIgnore(c.ExpectString(symbol), whitespace)
}

var identifier = c.AndIgnore(
	c.Map(c.Repeat1(c.Expect(isIdentChar)), func(chars []rune) string {
		return string(chars)
	}),
	whitespace,
)

// integer parses a decimal literal. Values that overflow int become 0.
var integer = c.AndIgnore(
	c.Map(c.Repeat1(c.Expect(isDigit)), func(digits []rune) int {
		n, err := strconv.Atoi(string(digits))
		if err != nil {
			return 0
		}
		return n
	}),
	whitespace,
)
