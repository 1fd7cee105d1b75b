// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package lexer builds token parsers from a declarative language Definition.
//
// Tokens are ordinary parse results over the character stream. Every token
// parser is a lexeme: it consumes the white space and comments that follow
// it so that token parsers compose without explicit separators.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"gopkg.microglot.org/parsec.go/internal/exc"
	"gopkg.microglot.org/parsec.go/internal/parse"
	"gopkg.microglot.org/parsec.go/internal/stream"
)

type Lexer struct {
	def        Definition
	reserved   map[string]struct{}
	reservedOp map[string]struct{}
	whiteSpace parse.Parser[parse.Unit]
}

// New prepares a Lexer for def. Character classes left nil in def never
// match.
func New(def Definition) *Lexer {
	if def.IdentStart == nil {
		def.IdentStart = parse.Failure[stream.Char]("identifier start", "")
	}
	if def.IdentLetter == nil {
		def.IdentLetter = parse.Failure[stream.Char]("identifier letter", "")
	}
	if def.OpStart == nil {
		def.OpStart = parse.Failure[stream.Char]("operator start", "")
	}
	if def.OpLetter == nil {
		def.OpLetter = parse.Failure[stream.Char]("operator letter", "")
	}
	l := &Lexer{
		def:        def,
		reserved:   make(map[string]struct{}, len(def.ReservedNames)),
		reservedOp: make(map[string]struct{}, len(def.ReservedOpNames)),
	}
	for _, name := range def.ReservedNames {
		l.reserved[l.fold(name)] = struct{}{}
	}
	for _, name := range def.ReservedOpNames {
		l.reservedOp[name] = struct{}{}
	}
	l.whiteSpace = l.buildWhiteSpace()
	return l
}

func (l *Lexer) Definition() Definition {
	return l.def
}

func (l *Lexer) fold(name string) string {
	if l.def.CaseSensitive {
		return name
	}
	return strings.ToLower(name)
}

// IsReserved reports whether name is one of the definition's reserved names.
func (l *Lexer) IsReserved(name string) bool {
	_, ok := l.reserved[l.fold(name)]
	return ok
}

// IsReservedOp reports whether name is one of the definition's reserved
// operators.
func (l *Lexer) IsReservedOp(name string) bool {
	_, ok := l.reservedOp[name]
	return ok
}

func (l *Lexer) blockComments() bool {
	return l.def.CommentStart != "" && l.def.CommentEnd != ""
}

func (l *Lexer) buildWhiteSpace() parse.Parser[parse.Unit] {
	alts := []parse.Parser[parse.Unit]{parse.SkipMany1(parse.Space())}
	if l.def.CommentLine != "" {
		alts = append(alts, l.LineComment())
	}
	if l.blockComments() {
		alts = append(alts, l.BlockComment())
	}
	return parse.SkipMany(parse.Choice(alts...))
}

// WhiteSpace skips white space and comments. It never fails except on a
// block comment that is never closed.
func (l *Lexer) WhiteSpace() parse.Parser[parse.Unit] {
	return l.whiteSpace
}

// LineComment skips a line comment up to, not including, the new-line.
func (l *Lexer) LineComment() parse.Parser[parse.Unit] {
	if l.def.CommentLine == "" {
		return parse.Failure[parse.Unit]("line comment", "")
	}
	rest := parse.SkipMany(parse.Satisfy(func(r rune) bool { return r != '\n' }, "comment text"))
	return parse.And(parse.String(l.def.CommentLine), rest)
}

// BlockComment skips a block comment. With nested comments enabled every
// opening marker inside the comment must be matched by its own closing
// marker. Reaching the end of input inside a comment is fatal.
func (l *Lexer) BlockComment() parse.Parser[parse.Unit] {
	if !l.blockComments() {
		return parse.Failure[parse.Unit]("block comment", "")
	}
	opener := parse.String(l.def.CommentStart)
	closer := parse.String(l.def.CommentEnd)
	nested := l.def.NestedComments
	unterminated := parse.Abort[parse.Unit](exc.CodeUnexpectedEOF, "expected end of comment")
	var body parse.Parser[parse.Unit] = func(in stream.Input) parse.Outcome[parse.Unit] {
		depth := 1
		rest := in
		for depth > 0 {
			if rest.IsEmpty() {
				return unterminated(rest)
			}
			if out := closer(rest); !out.Faulted() {
				depth = depth - 1
				rest, _ = out.Remainder()
				continue
			}
			if nested {
				if out := opener(rest); !out.Faulted() {
					depth = depth + 1
					rest, _ = out.Remainder()
					continue
				}
			}
			rest = rest.Tail()
		}
		return parse.Success(parse.Unit{}, rest)
	}
	return parse.And(opener, body)
}

// Lexeme runs p and then skips the white space that follows it.
func Lexeme[T any](l *Lexer, p parse.Parser[T]) parse.Parser[T] {
	return parse.Left(p, l.whiteSpace)
}

// Symbol matches s as a lexeme.
func (l *Lexer) Symbol(s string) parse.Parser[string] {
	return Lexeme(l, parse.String(s))
}

func (l *Lexer) Semi() parse.Parser[string] {
	return l.Symbol(";")
}

func (l *Lexer) Comma() parse.Parser[string] {
	return l.Symbol(",")
}

func (l *Lexer) Colon() parse.Parser[string] {
	return l.Symbol(":")
}

func (l *Lexer) Dot() parse.Parser[string] {
	return l.Symbol(".")
}

func Parens[T any](l *Lexer, p parse.Parser[T]) parse.Parser[T] {
	return parse.Between(l.Symbol("("), l.Symbol(")"), p)
}

func Braces[T any](l *Lexer, p parse.Parser[T]) parse.Parser[T] {
	return parse.Between(l.Symbol("{"), l.Symbol("}"), p)
}

func Angles[T any](l *Lexer, p parse.Parser[T]) parse.Parser[T] {
	return parse.Between(l.Symbol("<"), l.Symbol(">"), p)
}

func Brackets[T any](l *Lexer, p parse.Parser[T]) parse.Parser[T] {
	return parse.Between(l.Symbol("["), l.Symbol("]"), p)
}

func CommaSep[T any](l *Lexer, p parse.Parser[T]) parse.Parser[stream.Seq[T]] {
	return parse.SepBy(p, l.Comma())
}

func CommaSep1[T any](l *Lexer, p parse.Parser[T]) parse.Parser[stream.Seq[T]] {
	return parse.SepBy1(p, l.Comma())
}

func SemiSep[T any](l *Lexer, p parse.Parser[T]) parse.Parser[stream.Seq[T]] {
	return parse.SepBy(p, l.Semi())
}

func SemiSep1[T any](l *Lexer, p parse.Parser[T]) parse.Parser[stream.Seq[T]] {
	return parse.SepBy1(p, l.Semi())
}

func word(start parse.Parser[stream.Char], letter parse.Parser[stream.Char]) parse.Parser[parse.Span[parse.Unit]] {
	return parse.Spanned(parse.And(start, parse.SkipMany(letter)))
}

// Identifier matches a name that is not reserved.
func (l *Lexer) Identifier() parse.Parser[IdentifierToken] {
	ident := parse.MapErr(word(l.def.IdentStart, l.def.IdentLetter), func(s parse.Span[parse.Unit]) (IdentifierToken, error) {
		if l.IsReserved(s.Text) {
			return IdentifierToken{}, fmt.Errorf("reserved word %s", strconv.Quote(s.Text))
		}
		return IdentifierToken{At: s.Start, Name: s.Text}, nil
	})
	return Lexeme(l, ident).Label("identifier")
}

// Reserved matches the reserved word name when it is not the prefix of a
// longer identifier.
func (l *Lexer) Reserved(name string) parse.Parser[ReservedToken] {
	end := parse.NotFollowedBy(l.def.IdentLetter).Label("end of " + name)
	tok := parse.Map(parse.Spanned(parse.Left(l.caseString(name), end)), func(s parse.Span[string]) ReservedToken {
		return ReservedToken{At: s.Start, Name: name}
	})
	return Lexeme(l, tok)
}

// caseString matches s, folding case when the definition is case
// insensitive.
func (l *Lexer) caseString(s string) parse.Parser[string] {
	if l.def.CaseSensitive {
		return parse.String(s)
	}
	chars := make([]parse.Parser[stream.Char], 0, len(s))
	for _, r := range s {
		chars = append(chars, parse.Satisfy(func(c rune) bool { return equalFold(r, c) }, strconv.QuoteRune(r)))
	}
	return parse.Map(parse.Sequence(chars...), func(stream.Seq[stream.Char]) string { return s }).Label(strconv.Quote(s))
}

func equalFold(a rune, b rune) bool {
	if a == b {
		return true
	}
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}

// Operator matches an operator that is not reserved.
func (l *Lexer) Operator() parse.Parser[OperatorToken] {
	op := parse.MapErr(word(l.def.OpStart, l.def.OpLetter), func(s parse.Span[parse.Unit]) (OperatorToken, error) {
		if l.IsReservedOp(s.Text) {
			return OperatorToken{}, fmt.Errorf("reserved operator %s", strconv.Quote(s.Text))
		}
		return OperatorToken{At: s.Start, Name: s.Text}, nil
	})
	return Lexeme(l, op).Label("operator")
}

// ReservedOp matches the reserved operator name when it is not the prefix of
// a longer operator.
func (l *Lexer) ReservedOp(name string) parse.Parser[ReservedOpToken] {
	end := parse.NotFollowedBy(l.def.OpLetter).Label("end of " + name)
	tok := parse.Map(parse.Spanned(parse.Left(parse.String(name), end)), func(s parse.Span[string]) ReservedOpToken {
		return ReservedOpToken{At: s.Start, Name: name}
	})
	return Lexeme(l, tok)
}

// name matches an identifier or a reserved word.
func (l *Lexer) name() parse.Parser[Token] {
	return parse.Map(word(l.def.IdentStart, l.def.IdentLetter), func(s parse.Span[parse.Unit]) Token {
		if l.IsReserved(s.Text) {
			return ReservedToken{At: s.Start, Name: s.Text}
		}
		return IdentifierToken{At: s.Start, Name: s.Text}
	})
}

func (l *Lexer) symbol() parse.Parser[Token] {
	return parse.Map(word(l.def.OpStart, l.def.OpLetter), func(s parse.Span[parse.Unit]) Token {
		if l.IsReservedOp(s.Text) {
			return ReservedOpToken{At: s.Start, Name: s.Text}
		}
		return OperatorToken{At: s.Start, Name: s.Text}
	})
}

// Token matches any single token of the language. Reserved words and
// operators are returned as their reserved variants.
func (l *Lexer) Token() parse.Parser[Token] {
	return parse.Choice(
		Generalize(l.StringLiteral()),
		Generalize(l.CharLiteral()),
		l.NaturalOrFloat(),
		Lexeme(l, l.name()),
		Lexeme(l, l.symbol()),
	).Label("token")
}

// Tokens splits an entire input into tokens, skipping leading white space.
// On failure the errors of the token that could not be read follow the
// "end of input" error.
func (l *Lexer) Tokens() parse.Parser[stream.Seq[Token]] {
	return parse.And(l.whiteSpace, parse.ManyTill(l.Token(), parse.EOF()))
}
