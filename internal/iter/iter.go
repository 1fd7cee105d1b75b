// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package iter

import (
	"context"

	"gopkg.microglot.org/parsec.go/internal/optional"
	"gopkg.microglot.org/parsec.go/internal/stream"
)

type Iterator[T any] interface {
	Next(ctx context.Context) optional.Optional[T]
	Close(ctx context.Context) error
}

type Filter[T any] interface {
	Keep(ctx context.Context, v T) bool
}

// NewSlice converts a slice of values into an Iterator implementation.
func NewSlice[T any](vs []T) Iterator[T] {
	return &iteratorSlice[T]{slice: vs, offset: -1}
}

type iteratorSlice[T any] struct {
	slice  []T
	offset int
}

func (it *iteratorSlice[T]) Next(ctx context.Context) optional.Optional[T] {
	it.offset = it.offset + 1
	if it.offset >= len(it.slice) {
		return optional.None[T]()
	}
	return optional.Some(it.slice[it.offset])
}

func (it *iteratorSlice[T]) Close(ctx context.Context) error {
	return nil
}

// NewSeq iterates over a persistent sequence. The sequence itself is not
// consumed.
func NewSeq[T any](s stream.Seq[T]) Iterator[T] {
	return &iteratorSeq[T]{rest: s}
}

type iteratorSeq[T any] struct {
	rest stream.Seq[T]
}

func (it *iteratorSeq[T]) Next(ctx context.Context) optional.Optional[T] {
	v := it.rest.First()
	if v.IsPresent() {
		it.rest = it.rest.Tail()
	}
	return v
}

func (it *iteratorSeq[T]) Close(ctx context.Context) error {
	return nil
}

// NewIteratorFilter wraps an iterator with a filter so that only values that
// pass the filter are returned.
func NewIteratorFilter[T any](it Iterator[T], f Filter[T]) Iterator[T] {
	return &iteratorFilter[T]{
		iter:   it,
		filter: f,
	}
}

type iteratorFilter[T any] struct {
	iter   Iterator[T]
	filter Filter[T]
}

func (it *iteratorFilter[T]) Next(ctx context.Context) optional.Optional[T] {
	for {
		v := it.iter.Next(ctx)
		if !v.IsPresent() {
			return v
		}
		if it.filter.Keep(ctx, v.Value()) {
			return v
		}
	}
}

func (it *iteratorFilter[T]) Close(ctx context.Context) error {
	return it.iter.Close(ctx)
}

// Collect drains and closes an iterator.
func Collect[T any](ctx context.Context, it Iterator[T]) ([]T, error) {
	var out []T
	for v := it.Next(ctx); v.IsPresent(); v = it.Next(ctx) {
		out = append(out, v.Value())
	}
	return out, it.Close(ctx)
}

// FilterFunc is an adaptor for simple filter functions that makes them
// compatible with the Filter interface. Use like:
//
//	FilterFunc[T](func(ctx context.Context, val T) bool { return true })
type FilterFunc[T any] func(ctx context.Context, val T) bool

func (f FilterFunc[T]) Keep(ctx context.Context, val T) bool {
	return f(ctx, val)
}
