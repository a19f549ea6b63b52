// Package grammar turns tickscript source text into an ast.Program.
//
// The grammar is built from the combinators in package combinator and is
// kept unambiguous by construction: every rule application must produce
// exactly one derivation, and anything else is reported as a ParseError.
//
// Source layout:
//
//	: init
//	  a = 0
//	: tick
//	  (a < 3) a = a + 1
//	  (a == 3) up
//
// A program is a sequence of blocks. A block starts with a declaration
// line ": <event>" and owns every following line that parses as a
// conditional instruction. A line that does not is read as the next
// declaration. Blank lines are ignored.
//
// Operator precedence, tightest first:
//
//	0: [i]  x  (e)  |e  -e  !e  42
//	1: *  /  %
//	2: +  -
//	3: >  <  ==     (at most one per expression)
//	4: ,            (logical and)
//	5: |            (logical and)
//
// Same-tier chains associate to the right.
package grammar
