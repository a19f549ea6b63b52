package combinator

import "unicode/utf8"

// State is an immutable cursor into the input.
// Copies are cheap and independent, so any number of them may be alive
// while alternatives are explored.
type State struct {
	input string
	pos   int
}

// NewState returns a cursor at the start of input.
func NewState(input string) State {
	return State{input: input}
}

// Pop returns the next character and the state after it.
// ok is false at end of input.
func (s State) Pop() (r rune, next State, ok bool) {
	if s.pos >= len(s.input) {
		return 0, s, false
	}
	r, size := utf8.DecodeRuneInString(s.input[s.pos:])
	return r, State{input: s.input, pos: s.pos + size}, true
}

// Pos returns the byte offset of the cursor.
func (s State) Pos() int {
	return s.pos
}

// Rest returns the unconsumed input.
func (s State) Rest() string {
	return s.input[s.pos:]
}

// AtEOF reports whether all input has been consumed.
func (s State) AtEOF() bool {
	return s.pos >= len(s.input)
}
