// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/parsec.go/internal/exc"
)

func TestLoadDefinition(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		filename string
		content  string
	}{
		{
			name:     "toml",
			filename: "lang.toml",
			content: `
name = "mini"
preset = "java"
comment_line = "#"
reserved_names = ["fn", "var"]

[ident_start]
classes = ["lower"]
chars = "_"
`,
		},
		{
			name:     "yaml",
			filename: "lang.YML",
			content: `
name: mini
preset: java
comment_line: "#"
reserved_names: [fn, var]
ident_start:
  classes: [lower]
  chars: _
`,
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			def, err := LoadDefinition(testCase.filename, strings.NewReader(testCase.content))
			require.NoError(t, err)
			require.Equal(t, "mini", def.Name)
			require.Equal(t, "/*", def.CommentStart)
			require.Equal(t, "#", def.CommentLine)
			require.Equal(t, []string{"fn", "var"}, def.ReservedNames)

			l := New(def)
			out := l.Tokens().Parse("fn _x # note\n/* block */ var Upper")
			require.True(t, out.Faulted())
			require.Equal(t, 2, out.Errors()[0].Line())
			require.Equal(t, 17, out.Errors()[0].Column())

			toks, ok := l.Tokens().Parse("fn _x # note\n/* block */ var x$1").Value()
			require.True(t, ok)
			require.Equal(t, 4, toks.Len())
			require.Equal(t, KindReserved, toks.Index(0).Kind())
			require.Equal(t, KindIdentifier, toks.Index(1).Kind())
			require.Equal(t, "x$1", toks.Index(3).Text())
		})
	}
}

func TestLoadDefinitionErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		filename string
		content  string
	}{
		{name: "unknown format", filename: "lang.json", content: "{}"},
		{name: "bad toml", filename: "lang.toml", content: "name = "},
		{name: "unknown toml key", filename: "lang.toml", content: "colour = \"red\""},
		{name: "unknown yaml key", filename: "lang.yaml", content: "colour: red"},
		{name: "unknown preset", filename: "lang.toml", content: "preset = \"cobol\""},
		{name: "unknown class", filename: "lang.yaml", content: "op_start: {classes: [emoji]}"},
		{name: "half a block comment", filename: "lang.toml", content: "comment_start = \"(*\""},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadDefinition(testCase.filename, strings.NewReader(testCase.content))
			require.Error(t, err)
			var e exc.Exception
			require.True(t, errors.As(err, &e))
			require.Equal(t, exc.CodeInvalidDefinition, e.Code())
			require.Equal(t, testCase.filename, e.Location().URI)
		})
	}
}

func TestEmptyYAMLIsTheEmptyPreset(t *testing.T) {
	t.Parallel()

	def, err := LoadDefinition("empty.yaml", strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, "empty", def.Name)
	require.True(t, def.CaseSensitive)
}

func TestPresetsRoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range Presets() {
		for _, format := range []string{"toml", "yaml"} {
			t.Run(name+"."+format, func(t *testing.T) {
				t.Parallel()
				cfg, ok := presetConfig(name)
				require.True(t, ok)

				var buf bytes.Buffer
				require.NoError(t, EncodeConfig(&buf, format, cfg))
				decoded, err := DecodeConfig("preset."+format, &buf)
				require.NoError(t, err)
				resolved, err := decoded.Resolve()
				require.NoError(t, err)
				require.Equal(t, cfg, resolved)
			})
		}
	}
}

func TestPreset(t *testing.T) {
	t.Parallel()

	def, ok := Preset("haskell")
	require.True(t, ok)
	require.True(t, def.NestedComments)
	require.Contains(t, def.ReservedOpNames, "=>")

	_, ok = Preset("cobol")
	require.False(t, ok)

	require.Error(t, EncodeConfig(&bytes.Buffer{}, "ini", Config{}))
}
