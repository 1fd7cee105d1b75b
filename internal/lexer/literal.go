// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

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

var escapes = map[rune]rune{
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
	'"':  '"',
	'\'': '\'',
}

func escapeCode() parse.Parser[rune] {
	simple := parse.Map(parse.OneOf("abfnrtv\\\"'"), func(c stream.Char) rune {
		return escapes[c.Value]
	})
	numeric := parse.MapErr(parse.Choice(
		decimalDigits(),
		parse.And(parse.Char('x'), digits(parse.HexDigit(), 16)),
		parse.And(parse.Char('o'), digits(parse.OctDigit(), 8)),
	), func(n numeral) (rune, error) {
		v, err := strconv.ParseInt(n.digits, n.base, 32)
		if err != nil || v > unicode.MaxRune {
			return 0, exc.New(exc.Location{}, exc.CodeInvalidNumber, fmt.Sprintf("escape code %s is not a character", n.digits))
		}
		return rune(v), nil
	})
	return parse.And(parse.Char('\\'), simple.Or(numeric)).Label("escape code")
}

func literalChar(quote rune, label string) parse.Parser[rune] {
	plain := parse.Map(parse.Satisfy(func(r rune) bool {
		return r != quote && r != '\\' && !unicode.IsControl(r)
	}, label), func(c stream.Char) rune { return c.Value })
	return plain.Or(escapeCode())
}

// CharLiteral matches a single quoted character with escapes.
func (l *Lexer) CharLiteral() parse.Parser[CharToken] {
	quote := parse.Char('\'')
	body := parse.Between(quote, quote.Label("end of character"), literalChar('\'', "literal character"))
	tok := parse.Map(parse.Spanned(body), func(s parse.Span[rune]) CharToken {
		return CharToken{At: s.Start, Literal: s.Text, Value: s.Value}
	})
	return Lexeme(l, tok).Label("character")
}

// StringLiteral matches a double quoted string with escapes. The token value
// is the decoded string.
func (l *Lexer) StringLiteral() parse.Parser[StringToken] {
	quote := parse.Char('"')
	chars := parse.Map(parse.Many(literalChar('"', "string character")), func(rs stream.Seq[rune]) string {
		var b strings.Builder
		for _, r := range rs.All() {
			b.WriteRune(r)
		}
		return b.String()
	})
	body := parse.Between(quote, quote.Label("end of string"), chars)
	tok := parse.Map(parse.Spanned(body), func(s parse.Span[string]) StringToken {
		return StringToken{At: s.Start, Literal: s.Text, Value: s.Value}
	})
	return Lexeme(l, tok).Label("literal string")
}
