// Package combinator provides generic, backtracking parser combinators.
//
// A Parser[T] maps an immutable input State to every way it can succeed:
// an ordered slice of (value, successor state) pairs. Zero results is a
// failure, one is a clean parse, and more than one means the input is
// ambiguous under the grammar. Nothing is hidden or pruned: Or always
// explores both branches, and Repeat yields every partial length.
//
// There is no memoization. Grammars built on this package must be close
// to unambiguous, otherwise the number of derivations grows exponentially.
//
// Example:
//
//	digits := combinator.Repeat1(combinator.Expect(unicode.IsDigit))
//	results := digits(combinator.NewState("42"))
//	// results[0].Value == []rune("42"), results[1].Value == []rune("4")
package combinator
