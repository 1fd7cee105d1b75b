// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"errors"
	"iter"

	"gopkg.microglot.org/parsec.go/internal/optional"
)

// CollapseDepth is the chain depth above which a sequence is flattened into
// a single backing array.
const CollapseDepth = 256

// ErrEmptyStream is the panic value of Head and Tail on an empty sequence.
// Reaching it means a combinator read past the end of its input without
// checking IsEmpty first.
var ErrEmptyStream = errors.New("stream: head or tail of an empty sequence")

// Seq is a persistent sequence. It is a chain of segments that share backing
// arrays with the sequences they were derived from, so every operation that
// "modifies" a sequence returns a new value and leaves the receiver intact.
// The zero value is the empty sequence.
type Seq[T any] struct {
	n *node[T]
}

// node invariants:
//   - len(seg)-start > 0
//   - total == len(seg)-start + next.total
//   - depth == next.depth+1, or 0 when next is nil
type node[T any] struct {
	seg   []T
	start int
	next  *node[T]
	depth int
	total int
}

func link[T any](seg []T, start int, next *node[T]) *node[T] {
	own := len(seg) - start
	if own <= 0 {
		return next
	}
	n := &node[T]{seg: seg, start: start, next: next, total: own}
	if next != nil {
		n.total = n.total + next.total
		n.depth = next.depth + 1
	}
	if n.depth > CollapseDepth {
		return collapse(n)
	}
	return n
}

func collapse[T any](n *node[T]) *node[T] {
	flat := make([]T, 0, n.total)
	for cur := n; cur != nil; cur = cur.next {
		flat = append(flat, cur.seg[cur.start:]...)
	}
	return &node[T]{seg: flat, total: len(flat)}
}

// Of returns a sequence holding a copy of the given values.
func Of[T any](vs ...T) Seq[T] {
	return FromSlice(vs)
}

// FromSlice copies vs into a new single-segment sequence.
func FromSlice[T any](vs []T) Seq[T] {
	if len(vs) == 0 {
		return Seq[T]{}
	}
	seg := make([]T, len(vs))
	copy(seg, vs)
	return Seq[T]{n: link(seg, 0, nil)}
}

// wrap adopts seg without copying. The caller gives up ownership of seg.
func wrap[T any](seg []T) Seq[T] {
	return Seq[T]{n: link(seg, 0, nil)}
}

func (self Seq[T]) IsEmpty() bool {
	return self.n == nil
}

func (self Seq[T]) Len() int {
	if self.n == nil {
		return 0
	}
	return self.n.total
}

// Depth reports the number of links in the chain. A flat sequence has a
// depth of zero.
func (self Seq[T]) Depth() int {
	if self.n == nil {
		return 0
	}
	return self.n.depth
}

// Head returns the first element. It panics with ErrEmptyStream when the
// sequence is empty.
func (self Seq[T]) Head() T {
	if self.n == nil {
		panic(ErrEmptyStream)
	}
	return self.n.seg[self.n.start]
}

// Tail returns the sequence without its first element. It panics with
// ErrEmptyStream when the sequence is empty.
func (self Seq[T]) Tail() Seq[T] {
	if self.n == nil {
		panic(ErrEmptyStream)
	}
	n := self.n
	if len(n.seg)-n.start == 1 {
		return Seq[T]{n: n.next}
	}
	return Seq[T]{n: &node[T]{
		seg:   n.seg,
		start: n.start + 1,
		next:  n.next,
		depth: n.depth,
		total: n.total - 1,
	}}
}

// First is the non-panicking form of Head.
func (self Seq[T]) First() optional.Optional[T] {
	if self.n == nil {
		return optional.None[T]()
	}
	return optional.Some(self.Head())
}

// Cons prepends v.
func (self Seq[T]) Cons(v T) Seq[T] {
	return Seq[T]{n: link([]T{v}, 0, self.n)}
}

// Concat returns the elements of the receiver followed by those of other.
// The receiver's links are copied so that neither input is changed.
func (self Seq[T]) Concat(other Seq[T]) Seq[T] {
	if self.n == nil {
		return other
	}
	if other.n == nil {
		return self
	}
	links := make([]*node[T], 0, self.n.depth+1)
	for cur := self.n; cur != nil; cur = cur.next {
		links = append(links, cur)
	}
	out := other.n
	for x := len(links) - 1; x >= 0; x = x - 1 {
		out = link(links[x].seg, links[x].start, out)
	}
	return Seq[T]{n: out}
}

// Append returns the receiver followed by v.
func (self Seq[T]) Append(v T) Seq[T] {
	return self.Concat(Seq[T]{n: link([]T{v}, 0, nil)})
}

// Index returns the element at position i. It panics with ErrEmptyStream
// when i is out of range.
func (self Seq[T]) Index(i int) T {
	if i < 0 {
		panic(ErrEmptyStream)
	}
	for cur := self.n; cur != nil; cur = cur.next {
		own := len(cur.seg) - cur.start
		if i < own {
			return cur.seg[cur.start+i]
		}
		i = i - own
	}
	panic(ErrEmptyStream)
}

// Drop returns the sequence without its first n elements.
func (self Seq[T]) Drop(n int) Seq[T] {
	cur := self.n
	for cur != nil && n > 0 {
		own := len(cur.seg) - cur.start
		if n < own {
			return Seq[T]{n: &node[T]{
				seg:   cur.seg,
				start: cur.start + n,
				next:  cur.next,
				depth: cur.depth,
				total: cur.total - n,
			}}
		}
		n = n - own
		cur = cur.next
	}
	return Seq[T]{n: cur}
}

// Take returns a flat sequence holding at most the first n elements.
func (self Seq[T]) Take(n int) Seq[T] {
	if n <= 0 || self.n == nil {
		return Seq[T]{}
	}
	if n > self.n.total {
		n = self.n.total
	}
	out := make([]T, 0, n)
	for cur := self.n; cur != nil && len(out) < n; cur = cur.next {
		own := cur.seg[cur.start:]
		if len(own) > n-len(out) {
			own = own[:n-len(out)]
		}
		out = append(out, own...)
	}
	return wrap(out)
}

// Slice copies the elements into a new slice.
func (self Seq[T]) Slice() []T {
	if self.n == nil {
		return nil
	}
	out := make([]T, 0, self.n.total)
	for cur := self.n; cur != nil; cur = cur.next {
		out = append(out, cur.seg[cur.start:]...)
	}
	return out
}

// All iterates the elements in order.
func (self Seq[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		x := 0
		for cur := self.n; cur != nil; cur = cur.next {
			for _, v := range cur.seg[cur.start:] {
				if !yield(x, v) {
					return
				}
				x = x + 1
			}
		}
	}
}
