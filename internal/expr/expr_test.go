// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package expr

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/parsec.go/internal/exc"
	"gopkg.microglot.org/parsec.go/internal/parse"
	"gopkg.microglot.org/parsec.go/internal/stream"
)

func number() parse.Parser[int] {
	return parse.MapErr(parse.Many1(parse.Digit()), func(ds stream.Seq[stream.Char]) (int, error) {
		return strconv.Atoi(parse.Text(ds))
	})
}

func pow(a int, b int) int {
	out := 1
	for ; b > 0; b = b - 1 {
		out = out * a
	}
	return out
}

func factorial(n int) int {
	if n <= 1 {
		return 1
	}
	return n * factorial(n-1)
}

func boolean(b bool) int {
	if b {
		return 1
	}
	return 0
}

func arithmetic() Table[int] {
	return Table[int]{
		{Infix("==", AssocNone, func(a, b int) int { return boolean(a == b) })},
		{
			Infix("+", AssocLeft, func(a, b int) int { return a + b }),
			Infix("-", AssocLeft, func(a, b int) int { return a - b }),
		},
		{
			Infix("*", AssocLeft, func(a, b int) int { return a * b }),
			Infix("/", AssocLeft, func(a, b int) int { return a / b }),
		},
		{Infix("^", AssocRight, pow)},
		{
			Prefix("-", func(a int) int { return -a }),
			Postfix("!", factorial),
		},
	}
}

func grammar(table Table[int], opts ...Option) parse.Parser[int] {
	var expr parse.Parser[int]
	term := number().Or(parse.Between(parse.Char('('), parse.Char(')'), parse.Ref(&expr)))
	expr = Build(table, term, opts...)
	return parse.Left(expr, parse.EOF())
}

func TestBuild(t *testing.T) {
	t.Parallel()

	p := grammar(arithmetic())
	testCases := []struct {
		input string
		value int
	}{
		{input: "42", value: 42},
		{input: "1+2*3", value: 7},
		{input: "(1+2)*3", value: 9},
		{input: "9-3-2", value: 4},
		{input: "100/10/5", value: 2},
		{input: "2^3^2", value: 512},
		{input: "2*3^2", value: 18},
		{input: "-2^2", value: 4},
		{input: "--3", value: 3},
		{input: "3!+1", value: 7},
		{input: "-3!", value: -6},
		{input: "3!!", value: 720},
		{input: "1-(2-3)", value: 2},
		{input: "1+1==2", value: 1},
		{input: "2==3", value: 0},
		{input: "(1==1)==1", value: 1},
	}
	for _, testCase := range testCases {
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()
			out := p.Parse(testCase.input)
			v, ok := out.Value()
			require.True(t, ok, "%v", out.Err())
			require.Equal(t, testCase.value, v)
		})
	}
}

func TestBuildAmbiguity(t *testing.T) {
	t.Parallel()

	mixed := Table[int]{
		{
			Infix("<", AssocNone, func(a, b int) int { return boolean(a < b) }),
			Infix("+", AssocLeft, func(a, b int) int { return a + b }),
			Infix("^", AssocRight, pow),
		},
	}
	testCases := []struct {
		name    string
		table   Table[int]
		input   string
		message string
		column  int
	}{
		{name: "chained non", table: arithmetic(), input: "1==1==1", message: "ambiguous use of a non associative operator", column: 5},
		{name: "right after left", table: mixed, input: "1+2^3", message: "ambiguous use of a right associative operator", column: 4},
		{name: "left after right", table: mixed, input: "1^2+3", message: "ambiguous use of a left associative operator", column: 4},
		{name: "left after non", table: mixed, input: "1<2+3", message: "ambiguous use of a left associative operator", column: 4},
		{name: "non after left", table: mixed, input: "1+2+3<4", message: "ambiguous use of a non associative operator", column: 6},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			out := grammar(testCase.table).Or(parse.Return(0)).Parse(testCase.input)
			require.True(t, out.Faulted())
			require.True(t, out.Fatal())
			e := out.Errors()[0]
			require.Equal(t, exc.CodeAmbiguousOperator, e.Code())
			require.Equal(t, testCase.message, e.Message())
			require.Equal(t, testCase.column, e.Column())
		})
	}

	v, ok := grammar(mixed).Parse("1+2+3").Value()
	require.True(t, ok)
	require.Equal(t, 6, v)
	v, ok = grammar(mixed).Parse("2^1^3").Value()
	require.True(t, ok)
	require.Equal(t, 2, v)
	v, ok = grammar(mixed).Parse("(1+2)^2").Value()
	require.True(t, ok)
	require.Equal(t, 9, v)
}

func TestBuildIncompleteExpression(t *testing.T) {
	t.Parallel()

	out := grammar(arithmetic()).Parse("1+")
	require.True(t, out.Faulted())
	require.False(t, out.Fatal())
	require.Equal(t, "end of input", out.Errors()[0].Expected())
	require.Equal(t, 2, out.Errors()[0].Column())
}

func TestBuildWithSymbol(t *testing.T) {
	t.Parallel()

	lexeme := func(s string) parse.Parser[string] {
		return parse.Left(parse.String(s), parse.Spaces())
	}
	var expr parse.Parser[int]
	term := parse.Left(number(), parse.Spaces()).Or(parse.Between(lexeme("("), lexeme(")"), parse.Ref(&expr)))
	expr = Build(arithmetic(), term, OptionWithSymbol(lexeme))
	p := parse.And(parse.Spaces(), parse.Left(expr, parse.EOF()))

	v, ok := p.Parse(" 1 + 2 * ( 3 - 1 ) ^ 2 ").Value()
	require.True(t, ok)
	require.Equal(t, 9, v)
}

func TestBuildWithParsers(t *testing.T) {
	t.Parallel()

	and := parse.Map(parse.Char('&'), func(stream.Char) func(bool, bool) bool {
		return func(a, b bool) bool { return a && b }
	})
	or := parse.Map(parse.Char('|'), func(stream.Char) func(bool, bool) bool {
		return func(a, b bool) bool { return a || b }
	})
	not := parse.Map(parse.Char('~'), func(stream.Char) func(bool) bool {
		return func(a bool) bool { return !a }
	})
	flip := parse.Map(parse.Char('?'), func(stream.Char) func(bool) bool {
		return func(a bool) bool { return !a }
	})
	literal := parse.Map(parse.Char('t'), func(stream.Char) bool { return true }).
		Or(parse.Map(parse.Char('f'), func(stream.Char) bool { return false }))

	table := Table[bool]{
		{InfixParser(or, AssocLeft)},
		{InfixParser(and, AssocLeft)},
		{PrefixParser(not), PostfixParser(flip)},
	}
	p := parse.Left(Build(table, literal), parse.EOF())

	testCases := []struct {
		input string
		value bool
	}{
		{input: "t", value: true},
		{input: "~t", value: false},
		{input: "t?", value: false},
		{input: "f|t&f", value: false},
		{input: "t|f&f", value: true},
		{input: "~f&t", value: true},
	}
	for _, testCase := range testCases {
		v, ok := p.Parse(testCase.input).Value()
		require.True(t, ok, testCase.input)
		require.Equal(t, testCase.value, v, testCase.input)
	}
}

func TestBuildEmptyTable(t *testing.T) {
	t.Parallel()

	v, ok := Build(Table[int]{}, number()).Parse("12").Value()
	require.True(t, ok)
	require.Equal(t, 12, v)
	require.Equal(t, "left", AssocLeft.String())
	require.Equal(t, "right", AssocRight.String())
	require.Equal(t, "non", AssocNone.String())
}
