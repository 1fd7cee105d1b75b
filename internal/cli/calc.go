// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"gopkg.microglot.org/parsec.go/internal/exc"
	"gopkg.microglot.org/parsec.go/internal/expr"
	"gopkg.microglot.org/parsec.go/internal/lexer"
	"gopkg.microglot.org/parsec.go/internal/parse"
	"gopkg.microglot.org/parsec.go/internal/stream"
)

const calcURI = "expression"

// quantity carries the first arithmetic error through the rest of an
// evaluation.
type quantity struct {
	n   int64
	err error
}

func lift(f func(a int64, b int64) (int64, error)) func(quantity, quantity) quantity {
	return func(a quantity, b quantity) quantity {
		if a.err != nil {
			return a
		}
		if b.err != nil {
			return b
		}
		n, err := f(a.n, b.n)
		return quantity{n: n, err: err}
	}
}

func arithmeticErr(message string) error {
	return exc.New(exc.Location{URI: calcURI}, exc.CodeInvalidArithmetic, message)
}

func overflow() error {
	return arithmeticErr("integer overflow")
}

func add(a int64, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, overflow()
	}
	return a + b, nil
}

func subtract(a int64, b int64) (int64, error) {
	if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
		return 0, overflow()
	}
	return a - b, nil
}

func multiply(a int64, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, overflow()
	}
	c := a * b
	if c/b != a {
		return 0, overflow()
	}
	return c, nil
}

func divide(a int64, b int64) (int64, error) {
	if b == 0 {
		return 0, arithmeticErr("division by zero")
	}
	if a == math.MinInt64 && b == -1 {
		return 0, overflow()
	}
	return a / b, nil
}

func modulo(a int64, b int64) (int64, error) {
	if b == 0 {
		return 0, arithmeticErr("modulo by zero")
	}
	if b == -1 {
		return 0, nil
	}
	return a % b, nil
}

// power raises a to b by repeated squaring.
func power(a int64, b int64) (int64, error) {
	if b < 0 {
		return 0, arithmeticErr("negative exponent")
	}
	out := int64(1)
	for b > 0 {
		var err error
		if b&1 == 1 {
			if out, err = multiply(out, a); err != nil {
				return 0, err
			}
		}
		b = b >> 1
		if b > 0 {
			if a, err = multiply(a, a); err != nil {
				return 0, err
			}
		}
	}
	return out, nil
}

func negate(a quantity) quantity {
	if a.err == nil && a.n == math.MinInt64 {
		return quantity{err: overflow()}
	}
	return quantity{n: -a.n, err: a.err}
}

func calculator(l *lexer.Lexer) parse.Parser[quantity] {
	table := expr.Table[quantity]{
		{
			expr.Infix("+", expr.AssocLeft, lift(add)),
			expr.Infix("-", expr.AssocLeft, lift(subtract)),
		},
		{
			expr.Infix("*", expr.AssocLeft, lift(multiply)),
			expr.Infix("/", expr.AssocLeft, lift(divide)),
			expr.Infix("%", expr.AssocLeft, lift(modulo)),
		},
		{expr.Infix("^", expr.AssocRight, lift(power))},
		{expr.Prefix("-", negate)},
	}
	var e parse.Parser[quantity]
	number := parse.Map(l.Natural(), func(t lexer.IntegerToken) quantity { return quantity{n: t.Value} })
	term := number.Or(lexer.Parens(l, parse.Ref(&e))).Label("term")
	e = expr.Build(table, term, expr.OptionWithSymbol(l.Symbol))
	return parse.And(l.WhiteSpace(), parse.Left(e, parse.EOF()))
}

func newCalcCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "calc <expression>",
		Short: "Evaluate an integer expression",
		Long: `Evaluate integer arithmetic with + - * / % (left associative),
^ (right associative), unary - and parentheses. White space and comments
follow the selected definition. An expression that starts with - must
follow --.`,
		Example: `  parsec calc "1 + 2 * 3"
  parsec calc -- "-4 ^ 2"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fsys, err := o.fileSystem()
			if err != nil {
				return err
			}
			_, def, err := o.config(ctx, fsys)
			if err != nil {
				return err
			}
			out := calculator(lexer.New(def))(stream.FromString(args[0]))
			v, ok := out.Value()
			if !ok {
				reporter := exc.NewReporter(nil)
				report(reporter, calcURI, out.Errors())
				return reported(reporter)
			}
			if v.err != nil {
				return v.err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), v.n)
			return err
		},
	}
}
