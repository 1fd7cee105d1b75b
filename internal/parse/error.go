// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package parse

import (
	"fmt"
	"io"
	"strings"

	"gopkg.microglot.org/parsec.go/internal/exc"
	"gopkg.microglot.org/parsec.go/internal/stream"
)

const excerptLength = 16

var _ exc.Exception = (*Error)(nil)

// Error describes one failed expectation. The location is computed from the
// head of the offending remainder when the error is built.
type Error struct {
	code      string
	expected  string
	message   string
	remainder stream.Input
	location  exc.Location
	fatal     bool
}

// NewError builds an error located at the head of in.
func NewError(in stream.Input, code string, expected string, message string) *Error {
	loc := exc.Location{EOF: true}
	if pos, ok := stream.PositionOf(in); ok {
		loc = exc.Location{Line: pos.Line, Column: pos.Column, Offset: pos.Offset}
	}
	return &Error{
		code:      code,
		expected:  expected,
		message:   message,
		remainder: in,
		location:  loc,
	}
}

// Expected is the label of what the parser was looking for. It is empty for
// guard failures that have not been labeled.
func (e *Error) Expected() string {
	return e.expected
}

func (e *Error) Code() string {
	return e.code
}

func (e *Error) Message() string {
	if e.message == "" {
		if e.expected == "" {
			return "unexpected " + e.Excerpt()
		}
		return "expected " + e.expected
	}
	if e.expected == "" {
		return e.message
	}
	return "expected " + e.expected + ": " + e.message
}

func (e *Error) Location() exc.Location {
	return e.location
}

// Line is 0 at the end of input.
func (e *Error) Line() int {
	return e.location.Line
}

// Column is 0 at the end of input.
func (e *Error) Column() int {
	return e.location.Column
}

func (e *Error) AtEOF() bool {
	return e.location.EOF
}

// Remainder is the input the failing parser was given.
func (e *Error) Remainder() stream.Input {
	return e.remainder
}

// Fatal reports whether the error stops backtracking.
func (e *Error) Fatal() bool {
	return e.fatal
}

// Excerpt is a short quoted prefix of the remainder.
func (e *Error) Excerpt() string {
	return stream.Excerpt(e.remainder, excerptLength)
}

func (e *Error) Error() string {
	return e.location.String() + ": " + e.Message()
}

// WithURI converts the error into an exception located in the given source.
func (e *Error) WithURI(uri string) exc.Exception {
	loc := e.location
	loc.URI = uri
	return exc.New(loc, e.code, e.Message())
}

// Render writes an error chain from the innermost cause to the outermost
// label, one error per line, each with its location and an excerpt of the
// input it rejected.
func Render(w io.Writer, errs []*Error) error {
	var b strings.Builder
	for x := len(errs) - 1; x >= 0; x = x - 1 {
		e := errs[x]
		fmt.Fprintf(&b, "%s: %s (at %s)\n", e.location, e.Message(), e.Excerpt())
	}
	_, err := io.WriteString(w, b.String())
	return err
}
