// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"fmt"

	"gopkg.microglot.org/parsec.go/internal/parse"
	"gopkg.microglot.org/parsec.go/internal/stream"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindInteger
	KindFloat
	KindIdentifier
	KindReserved
	KindOperator
	KindReservedOp
	KindString
	KindChar
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindIdentifier:
		return "identifier"
	case KindReserved:
		return "reserved"
	case KindOperator:
		return "operator"
	case KindReservedOp:
		return "reserved-operator"
	case KindString:
		return "string"
	case KindChar:
		return "char"
	default:
		return fmt.Sprintf("unknown-%d", k)
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k := KindInteger; k <= KindChar; k = k + 1 {
		if k.String() == s {
			return k, true
		}
	}
	return KindUnknown, false
}

// Token is a lexical element. Text is the source spelling and Pos is where
// the token starts.
type Token interface {
	Kind() Kind
	Pos() stream.Position
	Text() string
}

type IntegerToken struct {
	At      stream.Position
	Literal string
	Value   int64
}

func (t IntegerToken) Kind() Kind           { return KindInteger }
func (t IntegerToken) Pos() stream.Position { return t.At }
func (t IntegerToken) Text() string         { return t.Literal }

type FloatToken struct {
	At      stream.Position
	Literal string
	Value   float64
}

func (t FloatToken) Kind() Kind           { return KindFloat }
func (t FloatToken) Pos() stream.Position { return t.At }
func (t FloatToken) Text() string         { return t.Literal }

type IdentifierToken struct {
	At   stream.Position
	Name string
}

func (t IdentifierToken) Kind() Kind           { return KindIdentifier }
func (t IdentifierToken) Pos() stream.Position { return t.At }
func (t IdentifierToken) Text() string         { return t.Name }

type ReservedToken struct {
	At   stream.Position
	Name string
}

func (t ReservedToken) Kind() Kind           { return KindReserved }
func (t ReservedToken) Pos() stream.Position { return t.At }
func (t ReservedToken) Text() string         { return t.Name }

type OperatorToken struct {
	At   stream.Position
	Name string
}

func (t OperatorToken) Kind() Kind           { return KindOperator }
func (t OperatorToken) Pos() stream.Position { return t.At }
func (t OperatorToken) Text() string         { return t.Name }

type ReservedOpToken struct {
	At   stream.Position
	Name string
}

func (t ReservedOpToken) Kind() Kind           { return KindReservedOp }
func (t ReservedOpToken) Pos() stream.Position { return t.At }
func (t ReservedOpToken) Text() string         { return t.Name }

// StringToken holds the decoded Value of a string literal. Literal includes
// the quotes and escapes as written.
type StringToken struct {
	At      stream.Position
	Literal string
	Value   string
}

func (t StringToken) Kind() Kind           { return KindString }
func (t StringToken) Pos() stream.Position { return t.At }
func (t StringToken) Text() string         { return t.Literal }

type CharToken struct {
	At      stream.Position
	Literal string
	Value   rune
}

func (t CharToken) Kind() Kind           { return KindChar }
func (t CharToken) Pos() stream.Position { return t.At }
func (t CharToken) Text() string         { return t.Literal }

// Generalize widens a parser of a concrete token type to the Token
// interface.
func Generalize[T Token](p parse.Parser[T]) parse.Parser[Token] {
	return parse.Map(p, func(t T) Token { return t })
}
