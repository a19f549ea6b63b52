package combinator

// Result is one derivation: a parsed value and the state after it.
type Result[T any] struct {
	Value T
	State State
}

// Parser returns every derivation of T starting at a state.
type Parser[T any] func(State) []Result[T]

// Pair holds the values of two sequenced parsers.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Pop consumes one character. It fails at end of input.
func Pop() Parser[rune] {
	return func(s State) []Result[rune] {
		r, next, ok := s.Pop()
		if !ok {
			return nil
		}
		return []Result[rune]{{Value: r, State: next}}
	}
}

// Eof succeeds without consuming only when the input is exhausted.
func Eof() Parser[struct{}] {
	return func(s State) []Result[struct{}] {
		if !s.AtEOF() {
			return nil
		}
		return []Result[struct{}]{{State: s}}
	}
}

// Fail never succeeds.
func Fail[T any]() Parser[T] {
	return func(State) []Result[T] {
		return nil
	}
}

// Pure succeeds without consuming and returns v.
func Pure[T any](v T) Parser[T] {
	return func(s State) []Result[T] {
		return []Result[T]{{Value: v, State: s}}
	}
}

// AndThen runs p and, for every derivation, runs the parser chosen by f
// from that derivation's successor state. All nested results are returned
// in order.
func AndThen[T, U any](p Parser[T], f func(T) Parser[U]) Parser[U] {
	return func(s State) []Result[U] {
		var out []Result[U]
		for _, r := range p(s) {
			out = append(out, f(r.Value)(r.State)...)
		}
		return out
	}
}

// Or returns the union of every alternative's derivations, in argument
// order. All alternatives run even when an earlier one succeeds.
func Or[T any](alternatives ...Parser[T]) Parser[T] {
	return func(s State) []Result[T] {
		var out []Result[T]
		for _, alt := range alternatives {
			out = append(out, alt(s)...)
		}
		return out
	}
}

// Delay resolves the parser returned by supplier at parse time.
// It lets grammar rules refer to themselves or to rules defined later.
func Delay[T any](supplier func() Parser[T]) Parser[T] {
	return func(s State) []Result[T] {
		return supplier()(s)
	}
}

// Map transforms every derived value.
func Map[T, U any](p Parser[T], f func(T) U) Parser[U] {
	return AndThen(p, func(v T) Parser[U] {
		return Pure(f(v))
	})
}

// And sequences two parsers and keeps both values.
func And[A, B any](first Parser[A], second Parser[B]) Parser[Pair[A, B]] {
	return AndThen(first, func(a A) Parser[Pair[A, B]] {
		return Map(second, func(b B) Pair[A, B] {
			return Pair[A, B]{First: a, Second: b}
		})
	})
}

// AndIgnore sequences two parsers and keeps the first value.
func AndIgnore[A, B any](first Parser[A], second Parser[B]) Parser[A] {
	return AndThen(first, func(a A) Parser[A] {
		return Map(second, func(B) A { return a })
	})
}

// IgnoreAnd sequences two parsers and keeps the second value.
func IgnoreAnd[A, B any](first Parser[A], second Parser[B]) Parser[B] {
	return AndThen(first, func(A) Parser[B] { return second })
}

// SurroundedBy runs before, inner, after and keeps inner's value.
func SurroundedBy[T, B, A any](inner Parser[T], before Parser[B], after Parser[A]) Parser[T] {
	return AndIgnore(IgnoreAnd(before, inner), after)
}

// Expect consumes one character satisfying pred.
func Expect(pred func(rune) bool) Parser[rune] {
	return AndThen(Pop(), func(r rune) Parser[rune] {
		if pred(r) {
			return Pure(r)
		}
		return Fail[rune]()
	})
}

// ExpectRune consumes exactly the character want.
func ExpectRune(want rune) Parser[rune] {
	return Expect(func(r rune) bool { return r == want })
}

// ExpectString consumes the literal text want.
func ExpectString(want string) Parser[string] {
	chars := []rune(want)
	var expect func(i int) Parser[string]
	expect = func(i int) Parser[string] {
		if i >= len(chars) {
			return Pure(want)
		}
		return AndThen(ExpectRune(chars[i]), func(rune) Parser[string] {
			return expect(i + 1)
		})
	}
	return expect(0)
}

// Run applies p to input and returns every derivation.
func Run[T any](p Parser[T], input string) []Result[T] {
	return p(NewState(input))
}

// Complete keeps only the derivations that consumed all input.
func Complete[T any](results []Result[T]) []Result[T] {
	var out []Result[T]
	for _, r := range results {
		if r.State.AtEOF() {
			out = append(out, r)
		}
	}
	return out
}
