// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"fmt"
	"io"
	"path"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/tliron/commonlog"
	"gopkg.in/yaml.v3"

	"gopkg.microglot.org/parsec.go/internal/exc"
	"gopkg.microglot.org/parsec.go/internal/parse"
	"gopkg.microglot.org/parsec.go/internal/stream"
)

var log = commonlog.GetLogger("parsec.lexer")

// CharClass describes a set of characters as named classes plus literal
// characters.
type CharClass struct {
	Classes []string `toml:"classes,omitempty" yaml:"classes,omitempty"`
	Chars   string   `toml:"chars,omitempty" yaml:"chars,omitempty"`
}

var namedClasses = map[string]func(rune) bool{
	"letter": unicode.IsLetter,
	"digit":  func(r rune) bool { return r >= '0' && r <= '9' },
	"alnum":  func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) },
	"upper":  unicode.IsUpper,
	"lower":  unicode.IsLower,
	"space":  unicode.IsSpace,
	"hex": func(r rune) bool {
		return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
	},
	"octal": func(r rune) bool { return r >= '0' && r <= '7' },
}

func (c CharClass) parser(label string) (parse.Parser[stream.Char], error) {
	preds := make([]func(rune) bool, 0, len(c.Classes))
	for _, name := range c.Classes {
		pred, ok := namedClasses[name]
		if !ok {
			return nil, fmt.Errorf("unknown character class %q for %s", name, label)
		}
		preds = append(preds, pred)
	}
	chars := c.Chars
	return parse.Satisfy(func(r rune) bool {
		if strings.ContainsRune(chars, r) {
			return true
		}
		for _, pred := range preds {
			if pred(r) {
				return true
			}
		}
		return false
	}, label), nil
}

// Config is the file form of a Definition. A Config that names a Preset
// starts from that preset and overrides only the fields it sets.
type Config struct {
	Name            string     `toml:"name,omitempty" yaml:"name,omitempty"`
	Preset          string     `toml:"preset,omitempty" yaml:"preset,omitempty"`
	CommentStart    *string    `toml:"comment_start,omitempty" yaml:"comment_start,omitempty"`
	CommentEnd      *string    `toml:"comment_end,omitempty" yaml:"comment_end,omitempty"`
	CommentLine     *string    `toml:"comment_line,omitempty" yaml:"comment_line,omitempty"`
	NestedComments  *bool      `toml:"nested_comments,omitempty" yaml:"nested_comments,omitempty"`
	CaseSensitive   *bool      `toml:"case_sensitive,omitempty" yaml:"case_sensitive,omitempty"`
	IdentStart      *CharClass `toml:"ident_start,omitempty" yaml:"ident_start,omitempty"`
	IdentLetter     *CharClass `toml:"ident_letter,omitempty" yaml:"ident_letter,omitempty"`
	OpStart         *CharClass `toml:"op_start,omitempty" yaml:"op_start,omitempty"`
	OpLetter        *CharClass `toml:"op_letter,omitempty" yaml:"op_letter,omitempty"`
	ReservedNames   []string   `toml:"reserved_names,omitempty" yaml:"reserved_names,omitempty"`
	ReservedOpNames []string   `toml:"reserved_op_names,omitempty" yaml:"reserved_op_names,omitempty"`
}

func ptr[T any](v T) *T {
	return &v
}

func presetConfig(name string) (Config, bool) {
	operators := &CharClass{Chars: operatorChars}
	switch name {
	case "", "empty":
		return Config{
			Name:           "empty",
			CommentStart:   ptr(""),
			CommentEnd:     ptr(""),
			CommentLine:    ptr(""),
			NestedComments: ptr(false),
			CaseSensitive:  ptr(true),
			IdentStart:     &CharClass{Classes: []string{"letter"}, Chars: "_"},
			IdentLetter:    &CharClass{Classes: []string{"alnum"}, Chars: "_'"},
			OpStart:        operators,
			OpLetter:       operators,
		}, true
	case "haskell":
		cfg, _ := presetConfig("empty")
		cfg.Name = "haskell"
		cfg.CommentStart = ptr("{-")
		cfg.CommentEnd = ptr("-}")
		cfg.CommentLine = ptr("--")
		cfg.NestedComments = ptr(true)
		cfg.IdentStart = &CharClass{Classes: []string{"letter"}}
		cfg.ReservedOpNames = []string{"::", "..", "=", "\\", "|", "<-", "->", "@", "~", "=>"}
		cfg.ReservedNames = []string{
			"let", "in", "case", "of", "if", "then", "else", "data", "type",
			"class", "default", "deriving", "do", "import", "infix", "infixl",
			"infixr", "instance", "module", "newtype", "where", "primitive",
		}
		return cfg, true
	case "java":
		cfg, _ := presetConfig("empty")
		cfg.Name = "java"
		cfg.CommentStart = ptr("/*")
		cfg.CommentEnd = ptr("*/")
		cfg.CommentLine = ptr("//")
		cfg.IdentStart = &CharClass{Classes: []string{"letter"}, Chars: "_$"}
		cfg.IdentLetter = &CharClass{Classes: []string{"alnum"}, Chars: "_$"}
		cfg.ReservedNames = []string{
			"abstract", "boolean", "break", "byte", "case", "catch", "char",
			"class", "const", "continue", "default", "do", "double", "else",
			"extends", "final", "finally", "float", "for", "goto", "if",
			"implements", "import", "instanceof", "int", "interface", "long",
			"native", "new", "package", "private", "protected", "public",
			"return", "short", "static", "super", "switch", "synchronized",
			"this", "throw", "throws", "transient", "try", "void", "volatile",
			"while", "true", "false", "null",
		}
		return cfg, true
	default:
		return Config{}, false
	}
}

// PresetConfig returns the fully populated config of a built-in definition.
func PresetConfig(name string) (Config, bool) {
	return presetConfig(name)
}

// Presets lists the names of the built-in definitions.
func Presets() []string {
	return []string{"empty", "haskell", "java"}
}

// Resolve applies the config to its preset and returns a config with every
// field set and no preset.
func (c Config) Resolve() (Config, error) {
	base, ok := presetConfig(c.Preset)
	if !ok {
		return Config{}, fmt.Errorf("unknown preset %q", c.Preset)
	}
	if c.Name != "" {
		base.Name = c.Name
	}
	if c.CommentStart != nil {
		base.CommentStart = c.CommentStart
	}
	if c.CommentEnd != nil {
		base.CommentEnd = c.CommentEnd
	}
	if c.CommentLine != nil {
		base.CommentLine = c.CommentLine
	}
	if c.NestedComments != nil {
		base.NestedComments = c.NestedComments
	}
	if c.CaseSensitive != nil {
		base.CaseSensitive = c.CaseSensitive
	}
	if c.IdentStart != nil {
		base.IdentStart = c.IdentStart
	}
	if c.IdentLetter != nil {
		base.IdentLetter = c.IdentLetter
	}
	if c.OpStart != nil {
		base.OpStart = c.OpStart
	}
	if c.OpLetter != nil {
		base.OpLetter = c.OpLetter
	}
	if c.ReservedNames != nil {
		base.ReservedNames = c.ReservedNames
	}
	if c.ReservedOpNames != nil {
		base.ReservedOpNames = c.ReservedOpNames
	}
	if (*base.CommentStart == "") != (*base.CommentEnd == "") {
		return Config{}, fmt.Errorf("comment_start and comment_end must be set together")
	}
	return base, nil
}

// Definition builds the language definition the config describes.
func (c Config) Definition() (Definition, error) {
	r, err := c.Resolve()
	if err != nil {
		return Definition{}, err
	}
	def := Definition{
		Name:            r.Name,
		CommentStart:    *r.CommentStart,
		CommentEnd:      *r.CommentEnd,
		CommentLine:     *r.CommentLine,
		NestedComments:  *r.NestedComments,
		CaseSensitive:   *r.CaseSensitive,
		ReservedNames:   r.ReservedNames,
		ReservedOpNames: r.ReservedOpNames,
	}
	classes := []struct {
		class  *CharClass
		label  string
		target *parse.Parser[stream.Char]
	}{
		{r.IdentStart, "identifier start", &def.IdentStart},
		{r.IdentLetter, "identifier letter", &def.IdentLetter},
		{r.OpStart, "operator start", &def.OpStart},
		{r.OpLetter, "operator letter", &def.OpLetter},
	}
	for _, cl := range classes {
		p, err := cl.class.parser(cl.label)
		if err != nil {
			return Definition{}, err
		}
		*cl.target = p
	}
	return def, nil
}

// DecodeConfig reads a config in the format implied by the extension of
// name: TOML for ".toml" and YAML for ".yaml" or ".yml".
func DecodeConfig(name string, r io.Reader) (Config, error) {
	var cfg Config
	loc := exc.Location{URI: name}
	switch strings.ToLower(path.Ext(name)) {
	case ".toml":
		md, err := toml.NewDecoder(r).Decode(&cfg)
		if err != nil {
			return Config{}, exc.Wrap(loc, exc.CodeInvalidDefinition, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, exc.New(loc, exc.CodeInvalidDefinition, fmt.Sprintf("unknown key %s", undecoded[0]))
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return Config{}, exc.Wrap(loc, exc.CodeInvalidDefinition, err)
		}
	default:
		return Config{}, exc.New(loc, exc.CodeInvalidDefinition, fmt.Sprintf("unsupported definition format %q", path.Ext(name)))
	}
	return cfg, nil
}

// EncodeConfig writes cfg as TOML or YAML.
func EncodeConfig(w io.Writer, format string, cfg Config) error {
	switch format {
	case "toml":
		return toml.NewEncoder(w).Encode(cfg)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// LoadDefinition decodes a config from r and builds its definition.
func LoadDefinition(name string, r io.Reader) (Definition, error) {
	log.Debugf("loading language definition from %s", name)
	cfg, err := DecodeConfig(name, r)
	if err != nil {
		return Definition{}, err
	}
	def, err := cfg.Definition()
	if err != nil {
		return Definition{}, exc.Wrap(exc.Location{URI: name}, exc.CodeInvalidDefinition, err)
	}
	log.Infof("loaded language definition %q (preset %q) from %s", def.Name, cfg.Preset, name)
	return def, nil
}
