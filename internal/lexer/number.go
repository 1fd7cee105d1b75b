// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"fmt"
	"strconv"

	"gopkg.microglot.org/parsec.go/internal/exc"
	"gopkg.microglot.org/parsec.go/internal/parse"
	"gopkg.microglot.org/parsec.go/internal/stream"
)

// numeral is the digits of an integer literal without its base marker.
type numeral struct {
	negative bool
	digits   string
	base     int
}

func (n numeral) value() (int64, error) {
	digits := n.digits
	if n.negative {
		digits = "-" + digits
	}
	v, err := strconv.ParseInt(digits, n.base, 64)
	if err != nil {
		return 0, exc.New(exc.Location{}, exc.CodeInvalidNumber, fmt.Sprintf("integer %s does not fit in 64 bits", digits))
	}
	return v, nil
}

func digits(p parse.Parser[stream.Char], base int) parse.Parser[numeral] {
	return parse.Map(parse.Many1(p), func(cs stream.Seq[stream.Char]) numeral {
		return numeral{digits: parse.Text(cs), base: base}
	})
}

func decimalDigits() parse.Parser[numeral] {
	return digits(parse.Digit(), 10)
}

func hexDigits() parse.Parser[numeral] {
	return parse.And(parse.OneOf("xX"), digits(parse.HexDigit(), 16))
}

func octalDigits() parse.Parser[numeral] {
	return parse.And(parse.OneOf("oO"), digits(parse.OctDigit(), 8))
}

// naturalDigits dispatches on a leading zero to a hexadecimal, octal or
// decimal literal, or the number zero itself.
func naturalDigits() parse.Parser[numeral] {
	zero := parse.And(parse.Char('0'), parse.Choice(
		hexDigits(),
		octalDigits(),
		decimalDigits(),
		parse.Return(numeral{digits: "0", base: 10}),
	))
	return zero.Or(decimalDigits())
}

func toInt64(n numeral) (int64, error) {
	return n.value()
}

// Decimal matches one or more decimal digits. It does not skip trailing
// white space.
func (l *Lexer) Decimal() parse.Parser[int64] {
	return parse.MapErr(decimalDigits(), toInt64)
}

// Hexadecimal matches an 'x' or 'X' followed by hexadecimal digits. It does
// not skip trailing white space.
func (l *Lexer) Hexadecimal() parse.Parser[int64] {
	return parse.MapErr(hexDigits(), toInt64)
}

// Octal matches an 'o' or 'O' followed by octal digits. It does not skip
// trailing white space.
func (l *Lexer) Octal() parse.Parser[int64] {
	return parse.MapErr(octalDigits(), toInt64)
}

func integerToken(s parse.Span[numeral]) (IntegerToken, error) {
	v, err := s.Value.value()
	if err != nil {
		return IntegerToken{}, err
	}
	return IntegerToken{At: s.Start, Literal: s.Text, Value: v}, nil
}

// Natural matches an unsigned integer literal.
func (l *Lexer) Natural() parse.Parser[IntegerToken] {
	return Lexeme(l, parse.MapErr(parse.Spanned(naturalDigits()), integerToken)).Label("natural")
}

// Integer matches an integer literal with an optional sign. The sign must be
// directly followed by the digits. Literals outside the int64 range fail with
// CodeInvalidNumber at the start of the literal.
func (l *Lexer) Integer() parse.Parser[IntegerToken] {
	sign := parse.Option(false, parse.Map(parse.OneOf("+-"), func(c stream.Char) bool {
		return c.Value == '-'
	}))
	signed := parse.Then(sign, func(negative bool) parse.Parser[numeral] {
		return parse.Map(naturalDigits(), func(n numeral) numeral {
			n.negative = negative
			return n
		})
	})
	return Lexeme(l, parse.MapErr(parse.Spanned(signed), integerToken)).Label("integer")
}

func floatText() parse.Parser[parse.Unit] {
	digits := parse.SkipMany1(parse.Digit())
	fraction := parse.And(parse.Char('.'), digits).Label("fraction")
	exponent := parse.And(parse.OneOf("eE"), parse.And(parse.Try(parse.OneOf("+-")), digits)).Label("exponent")
	tail := parse.And(fraction, parse.Skip(parse.Try(exponent))).Or(exponent)
	return parse.And(digits, tail)
}

func floatToken(s parse.Span[parse.Unit]) (FloatToken, error) {
	v, err := strconv.ParseFloat(s.Text, 64)
	if err != nil {
		return FloatToken{}, exc.New(exc.Location{}, exc.CodeInvalidNumber, fmt.Sprintf("float %s is out of range", s.Text))
	}
	return FloatToken{At: s.Start, Literal: s.Text, Value: v}, nil
}

// Float matches an unsigned decimal literal that has a fraction, an exponent
// or both.
func (l *Lexer) Float() parse.Parser[FloatToken] {
	return Lexeme(l, parse.MapErr(parse.Spanned(floatText()), floatToken)).Label("float")
}

// NaturalOrFloat matches a Float where one is present and otherwise a
// Natural.
func (l *Lexer) NaturalOrFloat() parse.Parser[Token] {
	return Generalize(l.Float()).Or(Generalize(l.Natural())).Label("number")
}
