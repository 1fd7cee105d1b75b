// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeqBasics(t *testing.T) {
	t.Parallel()

	var empty Seq[int]
	require.True(t, empty.IsEmpty())
	require.Equal(t, 0, empty.Len())
	require.False(t, empty.First().IsPresent())
	require.PanicsWithValue(t, ErrEmptyStream, func() { empty.Head() })
	require.PanicsWithValue(t, ErrEmptyStream, func() { empty.Tail() })

	s := Of(1, 2, 3)
	require.Equal(t, 3, s.Len())
	require.Equal(t, 1, s.Head())
	require.Equal(t, []int{2, 3}, s.Tail().Slice())
	require.Equal(t, []int{1, 2, 3}, s.Slice())
	require.True(t, s.Tail().Tail().Tail().IsEmpty())
	require.Equal(t, 0, FromSlice([]int{}).Len())
}

func TestSeqPersistence(t *testing.T) {
	t.Parallel()

	base := Of(1, 2, 3)
	withZero := base.Cons(0)
	joined := base.Concat(Of(4, 5))
	appended := base.Append(9)

	require.Equal(t, []int{1, 2, 3}, base.Slice())
	require.Equal(t, []int{0, 1, 2, 3}, withZero.Slice())
	require.Equal(t, []int{1, 2, 3, 4, 5}, joined.Slice())
	require.Equal(t, []int{1, 2, 3, 9}, appended.Slice())
	require.Equal(t, []int{2, 3, 4, 5}, joined.Tail().Slice())
	require.Equal(t, []int{1, 2, 3}, base.Concat(Seq[int]{}).Slice())
	require.Equal(t, []int{1, 2, 3}, Seq[int]{}.Concat(base).Slice())
}

func TestSeqIndexTakeDrop(t *testing.T) {
	t.Parallel()

	s := Of(1, 2).Concat(Of(3)).Concat(Of(4, 5, 6))
	for x := 0; x < 6; x = x + 1 {
		require.Equal(t, x+1, s.Index(x))
	}
	require.PanicsWithValue(t, ErrEmptyStream, func() { s.Index(6) })
	require.PanicsWithValue(t, ErrEmptyStream, func() { s.Index(-1) })
	require.Equal(t, []int{1, 2, 3, 4}, s.Take(4).Slice())
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, s.Take(10).Slice())
	require.True(t, s.Take(0).IsEmpty())
	require.Equal(t, []int{4, 5, 6}, s.Drop(3).Slice())
	require.Equal(t, []int{5, 6}, s.Drop(4).Slice())
	require.Equal(t, 2, s.Drop(4).Len())
	require.True(t, s.Drop(6).IsEmpty())
	require.True(t, s.Drop(60).IsEmpty())

	var seen []int
	for x, v := range s.All() {
		require.Equal(t, x+1, v)
		seen = append(seen, v)
		if x == 2 {
			break
		}
	}
	require.Equal(t, []int{1, 2, 3}, seen)
}

func TestSeqCollapseMatchesReference(t *testing.T) {
	t.Parallel()

	for _, n := range []int{CollapseDepth - 1, CollapseDepth, CollapseDepth + 1, 3 * CollapseDepth, 1000} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			var s Seq[int]
			var ref []int
			for x := 0; x < n; x = x + 1 {
				switch x % 3 {
				case 0:
					s = s.Cons(x)
					ref = append([]int{x}, ref...)
				case 1:
					s = s.Concat(Of(x, -x))
					ref = append(ref, x, -x)
				default:
					s = Of(x).Concat(s)
					ref = append([]int{x}, ref...)
				}
				require.LessOrEqual(t, s.Depth(), CollapseDepth)
			}
			require.Equal(t, len(ref), s.Len())
			require.Equal(t, ref, s.Slice())

			drop := len(ref) / 2
			tail := s
			for x := 0; x < drop; x = x + 1 {
				tail = tail.Tail()
			}
			require.Equal(t, ref[drop:], tail.Slice())
			require.Equal(t, len(ref)-drop, tail.Len())
			require.Equal(t, ref[drop:], s.Drop(drop).Slice())
			for x := range ref {
				require.Equal(t, ref[x], s.Index(x))
			}
		})
	}
}

func TestSeqConsCollapses(t *testing.T) {
	t.Parallel()

	var s Seq[int]
	for x := 0; x <= CollapseDepth+1; x = x + 1 {
		s = s.Cons(x)
	}
	require.Less(t, s.Depth(), CollapseDepth)
	require.Equal(t, CollapseDepth+1, s.Head())
	require.Equal(t, CollapseDepth+2, s.Len())
}

func TestFromString(t *testing.T) {
	t.Parallel()

	in := FromString("ab\nc\n\nd")
	expected := []Position{
		{Line: 1, Column: 1, Offset: 0},
		{Line: 1, Column: 2, Offset: 1},
		{Line: 1, Column: 3, Offset: 2},
		{Line: 2, Column: 1, Offset: 3},
		{Line: 2, Column: 2, Offset: 4},
		{Line: 3, Column: 1, Offset: 5},
		{Line: 4, Column: 1, Offset: 6},
	}
	require.Equal(t, len(expected), in.Len())
	for x, c := range in.All() {
		require.Equal(t, expected[x], c.Position, "char %d", x)
	}
	require.Equal(t, "ab\nc\n\nd", Text(in))

	pos, ok := PositionOf(in.Drop(3))
	require.True(t, ok)
	require.Equal(t, "2:1", pos.String())
	_, ok = PositionOf(in.Drop(7))
	require.False(t, ok)

	multi := FromString("héllo")
	require.Equal(t, 5, multi.Len())
	require.Equal(t, 'é', multi.Index(1).Value)
}

func TestExcerpt(t *testing.T) {
	t.Parallel()

	require.Equal(t, "end of input", Excerpt(Input{}, 4))
	require.Equal(t, `"abc"`, Excerpt(FromString("abc"), 4))
	require.Equal(t, `"abcd"...`, Excerpt(FromString("abcdef"), 4))
}
