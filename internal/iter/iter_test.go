// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package iter

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/parsec.go/internal/fs"
	"gopkg.microglot.org/parsec.go/internal/stream"
)

type elem struct {
	value int
}

func TestSliceFilter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	numValues := 10
	elems := make([]*elem, 0, numValues)
	for y := 0; y < numValues; y = y + 1 {
		elems = append(elems, &elem{value: y})
	}
	filter := FilterFunc[*elem](func(ctx context.Context, val *elem) bool {
		return val.value%2 == 0
	})
	out, err := Collect(ctx, NewIteratorFilter(NewSlice(elems), filter))
	require.NoError(t, err)
	require.Len(t, out, numValues/2)
	for x, e := range out {
		require.Equal(t, x*2, e.value)
	}
}

func TestSeq(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := stream.Of(1, 2, 3)
	it := NewSeq(s)
	out, err := Collect(ctx, it)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, out)
	require.False(t, it.Next(ctx).IsPresent())
	require.Equal(t, 3, s.Len())

	out, err = Collect(ctx, NewSeq(stream.Of[int]()))
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestUnicodeFileBody(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	testCases := []struct {
		name    string
		content string
		runes   []rune
	}{
		{name: "ascii", content: "ab\nc", runes: []rune("ab\nc")},
		{name: "multibyte", content: "λx → ∀", runes: []rune("λx → ∀")},
		{name: "empty", content: "", runes: nil},
		{name: "invalid", content: "a\xffb", runes: []rune{'a', utf8.RuneError, 'b'}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			body, err := fs.NewFileString("x", testCase.content, fs.FileKindSource).Body(ctx)
			require.NoError(t, err)
			out, err := Collect(ctx, NewUnicodeFileBody(body))
			require.NoError(t, err)
			require.Equal(t, testCase.runes, out)
		})
	}
}

func TestReadInput(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	// Longer than a single read so runes straddle chunk boundaries.
	content := strings.Repeat("αβγ\n", 2048)
	in, err := ReadInput(ctx, fs.NewFileReader("-", strings.NewReader(content), fs.FileKindSource))
	require.NoError(t, err)
	require.Equal(t, content, stream.Text(in))

	last := in.Index(in.Len() - 1)
	require.Equal(t, '\n', last.Value)
	require.Equal(t, 2048, last.Line)
	require.Equal(t, 4, last.Column)
}

func TestReadInputCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ReadInput(ctx, fs.NewFileString("x", "text", fs.FileKindSource))
	require.Error(t, err)
}
