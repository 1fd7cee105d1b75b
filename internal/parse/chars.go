// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package parse

import (
	"strconv"
	"strings"
	"unicode"

	"gopkg.microglot.org/parsec.go/internal/stream"
)

// OneOf matches any rune in chars.
func OneOf(chars string) Parser[stream.Char] {
	return Satisfy(func(r rune) bool { return strings.ContainsRune(chars, r) }, "one of "+strconv.Quote(chars))
}

// NoneOf matches any rune not in chars.
func NoneOf(chars string) Parser[stream.Char] {
	return Satisfy(func(r rune) bool { return !strings.ContainsRune(chars, r) }, "none of "+strconv.Quote(chars))
}

func Letter() Parser[stream.Char] {
	return Satisfy(unicode.IsLetter, "letter")
}

func Digit() Parser[stream.Char] {
	return Satisfy(isDigit, "digit")
}

func HexDigit() Parser[stream.Char] {
	return Satisfy(isHexDigit, "hexadecimal digit")
}

func OctDigit() Parser[stream.Char] {
	return Satisfy(isOctDigit, "octal digit")
}

func Upper() Parser[stream.Char] {
	return Satisfy(unicode.IsUpper, "uppercase letter")
}

func Lower() Parser[stream.Char] {
	return Satisfy(unicode.IsLower, "lowercase letter")
}

func AlphaNum() Parser[stream.Char] {
	return Satisfy(func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }, "letter or digit")
}

// Space matches a single white space rune.
func Space() Parser[stream.Char] {
	return Satisfy(unicode.IsSpace, "space")
}

// Spaces skips zero or more white space runes.
func Spaces() Parser[Unit] {
	return SkipMany(Space()).Label("white space")
}

func Newline() Parser[stream.Char] {
	return Char('\n').Label("new-line")
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isOctDigit(r rune) bool {
	return r >= '0' && r <= '7'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
