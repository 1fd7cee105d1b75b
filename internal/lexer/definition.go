// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"gopkg.microglot.org/parsec.go/internal/parse"
	"gopkg.microglot.org/parsec.go/internal/stream"
)

// Definition describes the lexical structure of a language. A Definition is
// read, never modified, by the Lexer built from it.
type Definition struct {
	// Name is informational only.
	Name string
	// CommentStart and CommentEnd delimit block comments. Block comments are
	// disabled when either is empty.
	CommentStart string
	CommentEnd   string
	// CommentLine starts a comment that runs to the end of the line. Line
	// comments are disabled when it is empty.
	CommentLine string
	// NestedComments allows block comments to contain block comments.
	NestedComments bool
	// IdentStart matches the first character of an identifier and
	// IdentLetter every following one.
	IdentStart  parse.Parser[stream.Char]
	IdentLetter parse.Parser[stream.Char]
	// OpStart matches the first character of an operator and OpLetter every
	// following one.
	OpStart  parse.Parser[stream.Char]
	OpLetter parse.Parser[stream.Char]
	// ReservedNames are identifiers that Identifier rejects.
	ReservedNames []string
	// ReservedOpNames are operators that Operator rejects.
	ReservedOpNames []string
	// CaseSensitive controls how reserved names are matched.
	CaseSensitive bool
}

const operatorChars = ":!#$%&*+./<=>?@\\^|-~"

func mustPreset(name string) Definition {
	cfg, _ := presetConfig(name)
	def, err := cfg.Definition()
	if err != nil {
		panic(err)
	}
	return def
}

// Empty is a definition with no comments and no reserved names. Identifiers
// start with a letter or '_' and continue with letters, digits, '_' or '\''.
func Empty() Definition {
	return mustPreset("empty")
}

// Haskell is a definition in the style of Haskell: nested {- -} block
// comments, -- line comments and the Haskell 98 reserved words.
func Haskell() Definition {
	return mustPreset("haskell")
}

// Java is a definition in the style of Java: flat /* */ block comments and
// // line comments. Identifiers may contain '_' and '$'.
func Java() Definition {
	return mustPreset("java")
}

// Preset returns a built-in definition by name.
func Preset(name string) (Definition, bool) {
	cfg, ok := presetConfig(name)
	if !ok {
		return Definition{}, false
	}
	def, err := cfg.Definition()
	return def, err == nil
}
