package combinator

// Repeat matches p zero or more times.
//
// Derivations are ordered longest first, and every shorter prefix is kept
// as its own derivation. p must consume input on success, otherwise
// Repeat does not terminate.
func Repeat[T any](p Parser[T]) Parser[[]T] {
	return Map(repeat(p), (*link[T]).slice)
}

// Repeat1 matches p one or more times.
func Repeat1[T any](p Parser[T]) Parser[[]T] {
	return Map(And(p, repeat(p)), func(v Pair[T, *link[T]]) []T {
		return (&link[T]{head: v.First, tail: v.Second}).slice()
	})
}

// link is a persistent list, so sibling derivations share their tails.
type link[T any] struct {
	head T
	tail *link[T]
}

func (l *link[T]) slice() []T {
	out := []T{}
	for ; l != nil; l = l.tail {
		out = append(out, l.head)
	}
	return out
}

func repeat[T any](p Parser[T]) Parser[*link[T]] {
	return Or(
		AndThen(p, func(head T) Parser[*link[T]] {
			return Map(repeat(p), func(tail *link[T]) *link[T] {
				return &link[T]{head: head, tail: tail}
			})
		}),
		Pure[*link[T]](nil),
	)
}
