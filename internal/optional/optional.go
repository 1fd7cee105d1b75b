// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package optional

type Optional[T any] struct {
	present bool
	value   T
}

func (self Optional[T]) IsPresent() bool {
	return self.present
}

func (self Optional[T]) Value() T {
	return self.value
}

// ValueOr returns the contained value or the given fallback when the value
// is absent.
func (self Optional[T]) ValueOr(fallback T) T {
	if !self.present {
		return fallback
	}
	return self.value
}

// Get is the comma-ok form of Value.
func (self Optional[T]) Get() (T, bool) {
	return self.value, self.present
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{
		present: true,
		value:   v,
	}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}
