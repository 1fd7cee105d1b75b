// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package parse

import (
	"gopkg.microglot.org/parsec.go/internal/exc"
	"gopkg.microglot.org/parsec.go/internal/optional"
	"gopkg.microglot.org/parsec.go/internal/stream"
)

// Candidate is one way a parser matched: the value it produced and the input
// left over.
type Candidate[T any] struct {
	Value     T
	Remainder stream.Input
}

// Outcome is the result of running a parser. It is faulted exactly when there
// are no candidates, in which case the errors explain why.
type Outcome[T any] struct {
	candidates stream.Seq[Candidate[T]]
	errors     stream.Seq[*Error]
}

// Success is an outcome with a single candidate.
func Success[T any](v T, rest stream.Input) Outcome[T] {
	return Outcome[T]{candidates: stream.Of(Candidate[T]{Value: v, Remainder: rest})}
}

// Successes builds an outcome from a candidate sequence. An empty sequence
// is a failure with no recorded errors.
func Successes[T any](cs stream.Seq[Candidate[T]]) Outcome[T] {
	return Outcome[T]{candidates: cs}
}

// Faults builds a failed outcome from an error chain.
func Faults[T any](errs stream.Seq[*Error]) Outcome[T] {
	return Outcome[T]{errors: errs}
}

// Fault builds a failed outcome from the given errors, outermost first.
func Fault[T any](errs ...*Error) Outcome[T] {
	return Outcome[T]{errors: stream.Of(errs...)}
}

func (self Outcome[T]) Faulted() bool {
	return self.candidates.IsEmpty()
}

// Fatal reports whether the outcome failed with an error that must not be
// recovered by trying another alternative.
func (self Outcome[T]) Fatal() bool {
	if !self.Faulted() {
		return false
	}
	for _, e := range self.errors.All() {
		if e.fatal {
			return true
		}
	}
	return false
}

func (self Outcome[T]) Candidates() stream.Seq[Candidate[T]] {
	return self.candidates
}

// First returns the preferred candidate, if any.
func (self Outcome[T]) First() optional.Optional[Candidate[T]] {
	return self.candidates.First()
}

// Value returns the value of the first candidate.
func (self Outcome[T]) Value() (T, bool) {
	c, ok := self.First().Get()
	return c.Value, ok
}

// Remainder returns the unconsumed input of the first candidate.
func (self Outcome[T]) Remainder() (stream.Input, bool) {
	c, ok := self.First().Get()
	return c.Remainder, ok
}

// ErrorChain is the persistent form of Errors.
func (self Outcome[T]) ErrorChain() stream.Seq[*Error] {
	return self.errors
}

// Errors returns the error chain with the outermost label first. It is empty
// for a successful outcome.
func (self Outcome[T]) Errors() []*Error {
	if !self.Faulted() {
		return nil
	}
	return self.errors.Slice()
}

// Err returns nil for a success and an exc.MultiException for a failure.
func (self Outcome[T]) Err() error {
	if !self.Faulted() {
		return nil
	}
	errs := self.errors.Slice()
	if len(errs) == 0 {
		return exc.MultiException{exc.New(exc.Location{EOF: true}, exc.CodeUnexpected, "no match")}
	}
	out := make(exc.MultiException, 0, len(errs))
	for _, e := range errs {
		out = append(out, e)
	}
	return out
}
