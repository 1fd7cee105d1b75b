// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package parse

import (
	"gopkg.microglot.org/parsec.go/internal/optional"
	"gopkg.microglot.org/parsec.go/internal/stream"
)

// Repetition runs in a loop rather than by recursion so that long inputs do
// not grow the call stack. Each iteration commits to the first candidate of
// the element parser. An element that succeeds without consuming input ends
// the repetition.
func repeat[T any](p Parser[T], least int) Parser[stream.Seq[T]] {
	return func(in stream.Input) Outcome[stream.Seq[T]] {
		var values []T
		rest := in
		for {
			out := p(rest)
			if out.Faulted() {
				if out.Fatal() || len(values) < least {
					return Faults[stream.Seq[T]](out.errors)
				}
				break
			}
			c := out.candidates.Head()
			if c.Remainder.Len() == rest.Len() {
				if len(values) < least {
					values = append(values, c.Value)
				}
				break
			}
			values = append(values, c.Value)
			rest = c.Remainder
		}
		return Success(stream.FromSlice(values), rest)
	}
}

// Many matches p zero or more times. It never fails unless p fails fatally.
func Many[T any](p Parser[T]) Parser[stream.Seq[T]] {
	return repeat(p, 0)
}

// Many1 matches p one or more times.
func Many1[T any](p Parser[T]) Parser[stream.Seq[T]] {
	return repeat(p, 1)
}

// SkipMany matches p zero or more times and discards the values.
func SkipMany[T any](p Parser[T]) Parser[Unit] {
	return Skip(Many(p))
}

// SkipMany1 matches p one or more times and discards the values.
func SkipMany1[T any](p Parser[T]) Parser[Unit] {
	return Skip(Many1(p))
}

// Try matches p at most once. It always succeeds, with a sequence of zero or
// one values.
func Try[T any](p Parser[T]) Parser[stream.Seq[T]] {
	return func(in stream.Input) Outcome[stream.Seq[T]] {
		out := p(in)
		if out.Faulted() {
			if out.Fatal() {
				return Faults[stream.Seq[T]](out.errors)
			}
			return Success(stream.Seq[T]{}, in)
		}
		c := out.candidates.Head()
		return Success(stream.Of(c.Value), c.Remainder)
	}
}

// Optional matches p at most once.
func Optional[T any](p Parser[T]) Parser[optional.Optional[T]] {
	return func(in stream.Input) Outcome[optional.Optional[T]] {
		out := p(in)
		if out.Faulted() {
			if out.Fatal() {
				return Faults[optional.Optional[T]](out.errors)
			}
			return Success(optional.None[T](), in)
		}
		c := out.candidates.Head()
		return Success(optional.Some(c.Value), c.Remainder)
	}
}

// Option yields fallback when p does not match.
func Option[T any](fallback T, p Parser[T]) Parser[T] {
	return Map(Optional(p), func(o optional.Optional[T]) T {
		return o.ValueOr(fallback)
	})
}

// SepBy1 matches one or more p separated by sep.
func SepBy1[T any, S any](p Parser[T], sep Parser[S]) Parser[stream.Seq[T]] {
	return Then(p, func(first T) Parser[stream.Seq[T]] {
		return Map(Many(And(sep, p)), func(rest stream.Seq[T]) stream.Seq[T] {
			return rest.Cons(first)
		})
	})
}

// SepBy matches zero or more p separated by sep.
func SepBy[T any, S any](p Parser[T], sep Parser[S]) Parser[stream.Seq[T]] {
	return SepBy1(p, sep).Or(Return(stream.Seq[T]{}))
}

// EndBy matches zero or more p, each followed by sep.
func EndBy[T any, S any](p Parser[T], sep Parser[S]) Parser[stream.Seq[T]] {
	return Many(Left(p, sep))
}

// ManyTill matches p until end matches, consuming end as well.
func ManyTill[T any, E any](p Parser[T], end Parser[E]) Parser[stream.Seq[T]] {
	return func(in stream.Input) Outcome[stream.Seq[T]] {
		var values []T
		rest := in
		for {
			stop := end(rest)
			if !stop.Faulted() {
				return Success(stream.FromSlice(values), stop.candidates.Head().Remainder)
			}
			if stop.Fatal() {
				return Faults[stream.Seq[T]](stop.errors)
			}
			out := p(rest)
			if out.Faulted() {
				return Faults[stream.Seq[T]](stop.errors.Concat(out.errors))
			}
			c := out.candidates.Head()
			if c.Remainder.Len() == rest.Len() {
				return Faults[stream.Seq[T]](stop.errors)
			}
			values = append(values, c.Value)
			rest = c.Remainder
		}
	}
}

// Count matches p exactly n times.
func Count[T any](n int, p Parser[T]) Parser[stream.Seq[T]] {
	return func(in stream.Input) Outcome[stream.Seq[T]] {
		values := make([]T, 0, n)
		rest := in
		for x := 0; x < n; x = x + 1 {
			out := p(rest)
			if out.Faulted() {
				return Faults[stream.Seq[T]](out.errors)
			}
			c := out.candidates.Head()
			values = append(values, c.Value)
			rest = c.Remainder
		}
		return Success(stream.FromSlice(values), rest)
	}
}

type chainStep[T any] struct {
	f func(T, T) T
	y T
}

func chainNext[T any](p Parser[T], op Parser[func(T, T) T]) Parser[chainStep[T]] {
	return Then(op, func(f func(T, T) T) Parser[chainStep[T]] {
		return Map(p, func(y T) chainStep[T] { return chainStep[T]{f: f, y: y} })
	})
}

// ChainL1 matches one or more p separated by op and folds the values from
// the left: a op b op c is (a op b) op c.
func ChainL1[T any](p Parser[T], op Parser[func(T, T) T]) Parser[T] {
	next := chainNext(p, op)
	return Then(p, func(x T) Parser[T] {
		return Map(Many(next), func(steps stream.Seq[chainStep[T]]) T {
			acc := x
			for _, s := range steps.All() {
				acc = s.f(acc, s.y)
			}
			return acc
		})
	})
}

// ChainR1 matches one or more p separated by op and folds the values from
// the right: a op b op c is a op (b op c).
func ChainR1[T any](p Parser[T], op Parser[func(T, T) T]) Parser[T] {
	next := chainNext(p, op)
	return Then(p, func(x T) Parser[T] {
		return Map(Many(next), func(steps stream.Seq[chainStep[T]]) T {
			s := steps.Slice()
			if len(s) == 0 {
				return x
			}
			acc := s[len(s)-1].y
			for i := len(s) - 1; i > 0; i = i - 1 {
				acc = s[i].f(s[i-1].y, acc)
			}
			return s[0].f(x, acc)
		})
	})
}
