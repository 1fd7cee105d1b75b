// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package parse

import (
	"errors"
	"strconv"

	"gopkg.microglot.org/parsec.go/internal/exc"
	"gopkg.microglot.org/parsec.go/internal/stream"
)

// Then runs p and feeds each of its candidates into f. When every
// continuation fails the errors of all of them are kept, in candidate order.
func Then[T any, U any](p Parser[T], f func(T) Parser[U]) Parser[U] {
	return func(in stream.Input) Outcome[U] {
		out := p(in)
		if out.Faulted() {
			return Faults[U](out.errors)
		}
		if out.candidates.Len() == 1 {
			c := out.candidates.Head()
			return f(c.Value)(c.Remainder)
		}
		var cands stream.Seq[Candidate[U]]
		var errs stream.Seq[*Error]
		for _, c := range out.candidates.All() {
			next := f(c.Value)(c.Remainder)
			if next.Faulted() {
				if next.Fatal() {
					return next
				}
				errs = errs.Concat(next.errors)
				continue
			}
			cands = cands.Concat(next.candidates)
		}
		if cands.IsEmpty() {
			return Faults[U](errs)
		}
		return Successes(cands)
	}
}

// Map transforms the value of every candidate of p.
func Map[T any, U any](p Parser[T], f func(T) U) Parser[U] {
	return func(in stream.Input) Outcome[U] {
		out := p(in)
		if out.Faulted() {
			return Faults[U](out.errors)
		}
		var cands stream.Seq[Candidate[U]]
		for _, c := range out.candidates.All() {
			cands = cands.Append(Candidate[U]{Value: f(c.Value), Remainder: c.Remainder})
		}
		return Successes(cands)
	}
}

// MapErr transforms the value of every candidate of p with a conversion that
// may fail. A failed conversion is reported at the input p started from.
func MapErr[T any, U any](p Parser[T], f func(T) (U, error)) Parser[U] {
	return func(in stream.Input) Outcome[U] {
		out := p(in)
		if out.Faulted() {
			return Faults[U](out.errors)
		}
		var cands stream.Seq[Candidate[U]]
		var errs stream.Seq[*Error]
		for _, c := range out.candidates.All() {
			v, err := f(c.Value)
			if err != nil {
				errs = errs.Append(conversionError(in, err))
				continue
			}
			cands = cands.Append(Candidate[U]{Value: v, Remainder: c.Remainder})
		}
		if cands.IsEmpty() {
			return Faults[U](errs)
		}
		return Successes(cands)
	}
}

func conversionError(in stream.Input, err error) *Error {
	var e exc.Exception
	if errors.As(err, &e) {
		return NewError(in, e.Code(), "", e.Message())
	}
	return NewError(in, exc.CodeUnexpected, "", err.Error())
}

// And runs p then q on what p left, keeping q's value.
func And[T any, U any](p Parser[T], q Parser[U]) Parser[U] {
	return Then(p, func(T) Parser[U] { return q })
}

// Left runs p then q on what p left, keeping p's value.
func Left[T any, U any](p Parser[T], q Parser[U]) Parser[T] {
	return Then(p, func(v T) Parser[T] {
		return Map(q, func(U) T { return v })
	})
}

// Skip discards the value of p.
func Skip[T any](p Parser[T]) Parser[Unit] {
	return Map(p, func(T) Unit { return Unit{} })
}

// Or tries p and, if p fails, runs q on the original input. The errors of
// both are kept when both fail. A fatal failure of p is returned as is.
func (p Parser[T]) Or(q Parser[T]) Parser[T] {
	return func(in stream.Input) Outcome[T] {
		out := p(in)
		if !out.Faulted() || out.Fatal() {
			return out
		}
		alt := q(in)
		if !alt.Faulted() {
			return alt
		}
		return Faults[T](out.errors.Concat(alt.errors))
	}
}

// Choice tries each parser in order on the same input and returns the first
// success.
func Choice[T any](ps ...Parser[T]) Parser[T] {
	return func(in stream.Input) Outcome[T] {
		var errs stream.Seq[*Error]
		for _, p := range ps {
			out := p(in)
			if !out.Faulted() || out.Fatal() {
				return out
			}
			errs = errs.Concat(out.errors)
		}
		if errs.IsEmpty() {
			errs = stream.Of(NewError(in, exc.CodeExpected, "one of no alternatives", ""))
		}
		return Faults[T](errs)
	}
}

// Ambiguous runs every parser on the same input and keeps the candidates of
// all that succeed, in order.
func Ambiguous[T any](ps ...Parser[T]) Parser[T] {
	return func(in stream.Input) Outcome[T] {
		var cands stream.Seq[Candidate[T]]
		var errs stream.Seq[*Error]
		for _, p := range ps {
			out := p(in)
			if out.Faulted() {
				if out.Fatal() {
					return out
				}
				errs = errs.Concat(out.errors)
				continue
			}
			cands = cands.Concat(out.candidates)
		}
		if cands.IsEmpty() {
			return Faults[T](errs)
		}
		return Successes(cands)
	}
}

// Where keeps the candidates whose value satisfies pred. When none does the
// failure carries an unlabeled guard error; wrap the result with Fail or
// Label to describe it.
func (p Parser[T]) Where(pred func(T) bool) Parser[T] {
	return func(in stream.Input) Outcome[T] {
		out := p(in)
		if out.Faulted() {
			return out
		}
		var cands stream.Seq[Candidate[T]]
		for _, c := range out.candidates.All() {
			if pred(c.Value) {
				cands = cands.Append(c)
			}
		}
		if cands.IsEmpty() {
			return Fault[T](NewError(in, exc.CodeGuard, "", ""))
		}
		return Successes(cands)
	}
}

// Fail prepends an error built from the input p started from whenever p
// fails. The inner errors stay in the chain behind it.
func (p Parser[T]) Fail(expected string, message string) Parser[T] {
	return func(in stream.Input) Outcome[T] {
		out := p(in)
		if !out.Faulted() {
			return out
		}
		return Faults[T](out.errors.Cons(NewError(in, exc.CodeExpected, expected, message)))
	}
}

// Label is Fail without a message.
func (p Parser[T]) Label(expected string) Parser[T] {
	return p.Fail(expected, "")
}

// Between parses open, body and close in sequence and yields body's value.
func Between[O any, C any, T any](open Parser[O], close Parser[C], body Parser[T]) Parser[T] {
	return And(open, Left(body, close))
}

// NotFollowedBy succeeds without consuming input when p fails here.
func NotFollowedBy[T any](p Parser[T]) Parser[Unit] {
	return func(in stream.Input) Outcome[Unit] {
		out := p(in)
		if out.Faulted() {
			if out.Fatal() {
				return Faults[Unit](out.errors)
			}
			return Success(Unit{}, in)
		}
		rest := out.candidates.Head().Remainder
		matched := stream.Text(in.Take(in.Len() - rest.Len()))
		return Fault[Unit](NewError(in, exc.CodeUnexpected, "", "unexpected "+quote(matched)))
	}
}

// LookAhead runs p without consuming input.
func LookAhead[T any](p Parser[T]) Parser[T] {
	return func(in stream.Input) Outcome[T] {
		out := p(in)
		if out.Faulted() {
			return out
		}
		var cands stream.Seq[Candidate[T]]
		for _, c := range out.candidates.All() {
			cands = cands.Append(Candidate[T]{Value: c.Value, Remainder: in})
		}
		return Successes(cands)
	}
}

func quote(s string) string {
	if s == "" {
		return "empty input"
	}
	return strconv.Quote(s)
}

// Span is a value together with the source text it was parsed from.
type Span[T any] struct {
	Value T
	Text  string
	Start stream.Position
}

// Spanned records the text p consumed and where it started. At the end of
// input Start is the zero position.
func Spanned[T any](p Parser[T]) Parser[Span[T]] {
	return func(in stream.Input) Outcome[Span[T]] {
		out := p(in)
		if out.Faulted() {
			return Faults[Span[T]](out.errors)
		}
		start, _ := stream.PositionOf(in)
		var cands stream.Seq[Candidate[Span[T]]]
		for _, c := range out.candidates.All() {
			text := stream.Text(in.Take(in.Len() - c.Remainder.Len()))
			cands = cands.Append(Candidate[Span[T]]{
				Value:     Span[T]{Value: c.Value, Text: text, Start: start},
				Remainder: c.Remainder,
			})
		}
		return Successes(cands)
	}
}

// Sequence runs each parser in turn on what the previous one left and
// collects their values.
func Sequence[T any](ps ...Parser[T]) Parser[stream.Seq[T]] {
	return func(in stream.Input) Outcome[stream.Seq[T]] {
		values := make([]T, 0, len(ps))
		rest := in
		for _, p := range ps {
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
