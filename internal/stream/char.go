// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"fmt"
	"strconv"
	"strings"
)

// Position is a 1-based line and column plus a 0-based rune offset.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Char is a rune tagged with where it was read.
type Char struct {
	Value rune
	Position
}

func (c Char) String() string {
	return strconv.QuoteRune(c.Value)
}

// Input is the character stream every parser consumes.
type Input = Seq[Char]

// FromString tags each rune of s with its position.
func FromString(s string) Input {
	return FromRunes([]rune(s))
}

// FromRunes tags each rune with its position. Lines advance on '\n'.
func FromRunes(rs []rune) Input {
	chars := make([]Char, len(rs))
	line, col := 1, 1
	for x, r := range rs {
		chars[x] = Char{Value: r, Position: Position{Line: line, Column: col, Offset: x}}
		if r == '\n' {
			line = line + 1
			col = 1
			continue
		}
		col = col + 1
	}
	return wrap(chars)
}

// PositionOf returns the position of the next character. The boolean is
// false at the end of input.
func PositionOf(in Input) (Position, bool) {
	c := in.First()
	if !c.IsPresent() {
		return Position{}, false
	}
	return c.Value().Position, true
}

// Text renders the remaining characters as a string.
func Text(in Input) string {
	var b strings.Builder
	b.Grow(in.Len())
	for _, c := range in.All() {
		_, _ = b.WriteRune(c.Value)
	}
	return b.String()
}

// Excerpt renders at most n characters of the input, quoted, with a trailing
// ellipsis when more input follows.
func Excerpt(in Input, n int) string {
	if in.IsEmpty() {
		return "end of input"
	}
	head := Text(in.Take(n))
	if in.Len() > n {
		return strconv.Quote(head) + "..."
	}
	return strconv.Quote(head)
}
