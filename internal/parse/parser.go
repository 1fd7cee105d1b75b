// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package parse implements backtracking parser combinators over a persistent
// character stream.
//
// A Parser is a pure function from input to Outcome. Combinators build new
// parsers out of existing ones and never mutate their inputs, so trying an
// alternative is only a matter of calling it with the same input value.
// Failure is a value: every mismatch is returned as an Outcome holding an
// ordered chain of errors, outermost label first.
//
// Grammars are written bottom-up:
//
//	digit := parse.Digit()
//	list := parse.Between(parse.Char('['), parse.Char(']'),
//		parse.SepBy(digit, parse.Char(',')))
//	out := list.Parse("[1,2,3]")
package parse

import (
	"strconv"
	"sync"

	"gopkg.microglot.org/parsec.go/internal/exc"
	"gopkg.microglot.org/parsec.go/internal/stream"
)

// Parser consumes a prefix of its input and reports the outcome.
type Parser[T any] func(in stream.Input) Outcome[T]

// Unit is the value of parsers that only recognise input.
type Unit struct{}

// Parse runs p over text tagged with 1-based lines and columns.
func Parse[T any](p Parser[T], text string) Outcome[T] {
	return p(stream.FromString(text))
}

// ParseInput runs p over an already positioned stream.
func ParseInput[T any](p Parser[T], in stream.Input) Outcome[T] {
	return p(in)
}

func (p Parser[T]) Parse(text string) Outcome[T] {
	return Parse(p, text)
}

// Item consumes any single character.
func Item() Parser[stream.Char] {
	return func(in stream.Input) Outcome[stream.Char] {
		if in.IsEmpty() {
			return Fault[stream.Char](NewError(in, exc.CodeExpected, "a character", ""))
		}
		return Success(in.Head(), in.Tail())
	}
}

// Satisfy consumes one character for which pred holds. The error of a
// rejected character is located at that character.
func Satisfy(pred func(rune) bool, label string) Parser[stream.Char] {
	return func(in stream.Input) Outcome[stream.Char] {
		if in.IsEmpty() {
			return Fault[stream.Char](NewError(in, exc.CodeExpected, label, ""))
		}
		c := in.Head()
		if !pred(c.Value) {
			return Fault[stream.Char](NewError(in, exc.CodeExpected, label, ""))
		}
		return Success(c, in.Tail())
	}
}

// Return succeeds with v without consuming input.
func Return[T any](v T) Parser[T] {
	return func(in stream.Input) Outcome[T] {
		return Success(v, in)
	}
}

// Failure always fails at the current input.
func Failure[T any](expected string, message string) Parser[T] {
	return func(in stream.Input) Outcome[T] {
		return Fault[T](NewError(in, exc.CodeExpected, expected, message))
	}
}

// FailWith always fails with the given errors.
func FailWith[T any](errs ...*Error) Parser[T] {
	return func(in stream.Input) Outcome[T] {
		return Fault[T](errs...)
	}
}

// Abort fails with an error that alternation and repetition will not
// recover from. It marks input the grammar recognised but cannot accept.
func Abort[T any](code string, message string) Parser[T] {
	return func(in stream.Input) Outcome[T] {
		e := NewError(in, code, "", message)
		e.fatal = true
		return Fault[T](e)
	}
}

// EOF succeeds only at the end of input.
func EOF() Parser[Unit] {
	return func(in stream.Input) Outcome[Unit] {
		if !in.IsEmpty() {
			return Fault[Unit](NewError(in, exc.CodeExpected, "end of input", ""))
		}
		return Success(Unit{}, in)
	}
}

// Pos yields the position of the next character without consuming it. At the
// end of input the position is the zero value.
func Pos() Parser[stream.Position] {
	return func(in stream.Input) Outcome[stream.Position] {
		pos, _ := stream.PositionOf(in)
		return Success(pos, in)
	}
}

// Char matches the rune r.
func Char(r rune) Parser[stream.Char] {
	return Satisfy(func(c rune) bool { return c == r }, strconv.QuoteRune(r))
}

// String matches s one character at a time and yields s.
func String(s string) Parser[string] {
	if s == "" {
		return Return("")
	}
	rs := []rune(s)
	var match func(x int) Parser[Unit]
	match = func(x int) Parser[Unit] {
		if x == len(rs) {
			return Return(Unit{})
		}
		return And(Char(rs[x]), Lazy(func() Parser[Unit] { return match(x + 1) }))
	}
	return Map(match(0), func(Unit) string { return s }).Label(strconv.Quote(s))
}

// Text joins a character sequence into a string.
func Text(cs stream.Seq[stream.Char]) string {
	rs := make([]rune, 0, cs.Len())
	for _, c := range cs.All() {
		rs = append(rs, c.Value)
	}
	return string(rs)
}

// Lazy defers building a parser until it is first run. It is how grammars
// refer to rules that are defined later or recursively.
func Lazy[T any](f func() Parser[T]) Parser[T] {
	get := sync.OnceValue(f)
	return func(in stream.Input) Outcome[T] {
		return get()(in)
	}
}

// Ref runs whatever parser *p holds at the time of the call.
func Ref[T any](p *Parser[T]) Parser[T] {
	return func(in stream.Input) Outcome[T] {
		return (*p)(in)
	}
}
