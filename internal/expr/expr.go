// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package expr builds expression parsers from a table of prefix, postfix and
// infix operators.
//
// A Table lists rows of operators from the lowest to the highest binding
// precedence. Operators within a row bind equally. Infix operators of
// different associativity may share a row but may not be chained without
// parentheses; doing so fails fatally with an "ambiguous use" error.
package expr

import (
	"gopkg.microglot.org/parsec.go/internal/exc"
	"gopkg.microglot.org/parsec.go/internal/parse"
	"gopkg.microglot.org/parsec.go/internal/stream"
)

type Assoc uint8

const (
	AssocNone Assoc = iota
	AssocLeft
	AssocRight
)

func (a Assoc) String() string {
	switch a {
	case AssocLeft:
		return "left"
	case AssocRight:
		return "right"
	default:
		return "non"
	}
}

type fixity uint8

const (
	fixityInfix fixity = iota
	fixityPrefix
	fixityPostfix
)

// Operator is one entry of a Table. Operators are built with Infix, Prefix,
// Postfix or their parser-based forms.
type Operator[T any] struct {
	fixity   fixity
	assoc    Assoc
	spelling string
	binary   func(T, T) T
	unary    func(T) T
	infix    parse.Parser[func(T, T) T]
	affix    parse.Parser[func(T) T]
}

// Infix is a binary operator written as spelling.
func Infix[T any](spelling string, assoc Assoc, f func(T, T) T) Operator[T] {
	return Operator[T]{fixity: fixityInfix, assoc: assoc, spelling: spelling, binary: f}
}

// Prefix is a unary operator written as spelling before its operand.
func Prefix[T any](spelling string, f func(T) T) Operator[T] {
	return Operator[T]{fixity: fixityPrefix, spelling: spelling, unary: f}
}

// Postfix is a unary operator written as spelling after its operand.
func Postfix[T any](spelling string, f func(T) T) Operator[T] {
	return Operator[T]{fixity: fixityPostfix, spelling: spelling, unary: f}
}

// InfixParser is a binary operator recognised by p. The value of p is the
// function applied to the operands.
func InfixParser[T any](p parse.Parser[func(T, T) T], assoc Assoc) Operator[T] {
	return Operator[T]{fixity: fixityInfix, assoc: assoc, infix: p}
}

func PrefixParser[T any](p parse.Parser[func(T) T]) Operator[T] {
	return Operator[T]{fixity: fixityPrefix, affix: p}
}

func PostfixParser[T any](p parse.Parser[func(T) T]) Operator[T] {
	return Operator[T]{fixity: fixityPostfix, affix: p}
}

// Table rows run from the lowest to the highest precedence.
type Table[T any] [][]Operator[T]

type config struct {
	symbol func(string) parse.Parser[string]
}

type Option func(*config)

// OptionWithSymbol sets how operator spellings are recognised. The default
// is parse.String, which does not skip white space.
func OptionWithSymbol(symbol func(string) parse.Parser[string]) Option {
	return func(c *config) {
		c.symbol = symbol
	}
}

// Build returns a parser for expressions over term using the operators of
// table.
func Build[T any](table Table[T], term parse.Parser[T], opts ...Option) parse.Parser[T] {
	cfg := &config{symbol: parse.String}
	for _, opt := range opts {
		opt(cfg)
	}
	for x := len(table) - 1; x >= 0; x = x - 1 {
		term = buildRow(cfg, table[x], term)
	}
	return term
}

func (o Operator[T]) binaryParser(cfg *config) parse.Parser[func(T, T) T] {
	if o.infix != nil {
		return o.infix
	}
	f := o.binary
	return parse.Map(cfg.symbol(o.spelling), func(string) func(T, T) T { return f })
}

func (o Operator[T]) unaryParser(cfg *config) parse.Parser[func(T) T] {
	if o.affix != nil {
		return o.affix
	}
	f := o.unary
	return parse.Map(cfg.symbol(o.spelling), func(string) func(T) T { return f })
}

type operand[T any] struct {
	op    func(T, T) T
	value T
}

type row[T any] struct {
	// infix operators by associativity
	infix   [3][]parse.Parser[func(T, T) T]
	prefix  []parse.Parser[func(T) T]
	postfix []parse.Parser[func(T) T]
}

func buildRow[T any](cfg *config, ops []Operator[T], inner parse.Parser[T]) parse.Parser[T] {
	var r row[T]
	for _, op := range ops {
		switch op.fixity {
		case fixityInfix:
			r.infix[op.assoc] = append(r.infix[op.assoc], op.binaryParser(cfg))
		case fixityPrefix:
			r.prefix = append(r.prefix, op.unaryParser(cfg))
		case fixityPostfix:
			r.postfix = append(r.postfix, op.unaryParser(cfg))
		}
	}

	term := r.term(inner)
	chains := make([]func(T) parse.Parser[T], 0, 3)
	if len(r.infix[AssocRight]) > 0 {
		chains = append(chains, r.rightChain(term))
	}
	if len(r.infix[AssocLeft]) > 0 {
		chains = append(chains, r.leftChain(term))
	}
	if len(r.infix[AssocNone]) > 0 {
		chains = append(chains, r.nonChain(term))
	}
	if len(chains) == 0 {
		return term
	}
	return parse.Then(term, func(x T) parse.Parser[T] {
		alts := make([]parse.Parser[T], 0, len(chains)+1)
		for _, chain := range chains {
			alts = append(alts, chain(x))
		}
		return parse.Choice(append(alts, parse.Return(x))...)
	})
}

// term applies any number of prefix operators, innermost last, and any
// number of postfix operators, left to right.
func (r row[T]) term(inner parse.Parser[T]) parse.Parser[T] {
	if len(r.prefix) == 0 && len(r.postfix) == 0 {
		return inner
	}
	prefix := parse.Many(parse.Choice(r.prefix...))
	postfix := parse.Many(parse.Choice(r.postfix...))
	return parse.Then(prefix, func(pre stream.Seq[func(T) T]) parse.Parser[T] {
		return parse.Then(inner, func(v T) parse.Parser[T] {
			return parse.Map(postfix, func(post stream.Seq[func(T) T]) T {
				acc := v
				for _, f := range post.All() {
					acc = f(acc)
				}
				fs := pre.Slice()
				for x := len(fs) - 1; x >= 0; x = x - 1 {
					acc = fs[x](acc)
				}
				return acc
			})
		})
	})
}

func (r row[T]) operands(op parse.Parser[func(T, T) T], term parse.Parser[T]) parse.Parser[stream.Seq[operand[T]]] {
	return parse.Many1(parse.Then(op, func(f func(T, T) T) parse.Parser[operand[T]] {
		return parse.Map(term, func(v T) operand[T] { return operand[T]{op: f, value: v} })
	}))
}

// ambiguous fails fatally when any of the infix operators of the given
// associativities is next in the input.
func (r row[T]) ambiguous(assocs ...Assoc) parse.Parser[parse.Unit] {
	alts := make([]parse.Parser[parse.Unit], 0, len(assocs)+1)
	for _, assoc := range assocs {
		if len(r.infix[assoc]) == 0 {
			continue
		}
		abort := parse.Abort[parse.Unit](exc.CodeAmbiguousOperator, "ambiguous use of a "+assoc.String()+" associative operator")
		alts = append(alts, parse.And(parse.LookAhead(parse.Choice(r.infix[assoc]...)), abort))
	}
	return parse.Choice(append(alts, parse.Return(parse.Unit{}))...)
}

func (r row[T]) rightChain(term parse.Parser[T]) func(T) parse.Parser[T] {
	ops := r.operands(parse.Choice(r.infix[AssocRight]...), term)
	guard := r.ambiguous(AssocLeft, AssocNone)
	return func(x T) parse.Parser[T] {
		folded := parse.Map(ops, func(rest stream.Seq[operand[T]]) T {
			steps := rest.Slice()
			acc := steps[len(steps)-1].value
			for i := len(steps) - 1; i > 0; i = i - 1 {
				acc = steps[i].op(steps[i-1].value, acc)
			}
			return steps[0].op(x, acc)
		})
		return parse.Left(folded, guard)
	}
}

func (r row[T]) leftChain(term parse.Parser[T]) func(T) parse.Parser[T] {
	ops := r.operands(parse.Choice(r.infix[AssocLeft]...), term)
	guard := r.ambiguous(AssocRight, AssocNone)
	return func(x T) parse.Parser[T] {
		folded := parse.Map(ops, func(rest stream.Seq[operand[T]]) T {
			acc := x
			for _, step := range rest.All() {
				acc = step.op(acc, step.value)
			}
			return acc
		})
		return parse.Left(folded, guard)
	}
}

func (r row[T]) nonChain(term parse.Parser[T]) func(T) parse.Parser[T] {
	op := parse.Choice(r.infix[AssocNone]...)
	guard := r.ambiguous(AssocRight, AssocLeft, AssocNone)
	return func(x T) parse.Parser[T] {
		applied := parse.Then(op, func(f func(T, T) T) parse.Parser[T] {
			return parse.Map(term, func(y T) T { return f(x, y) })
		})
		return parse.Left(applied, guard)
	}
}
