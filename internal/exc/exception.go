// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"fmt"
	"strings"
)

type Exception interface {
	error
	Code() string
	Message() string
	Location() Location
}

// Location identifies a point in a source. EOF marks the end of input, in
// which case Line and Column carry no meaning.
type Location struct {
	URI    string
	Line   int
	Column int
	Offset int
	EOF    bool
}

func (l Location) String() string {
	var b strings.Builder
	if l.URI != "" {
		b.WriteString(l.URI)
		b.WriteString(":")
	}
	if l.EOF {
		b.WriteString("end of input")
		return b.String()
	}
	fmt.Fprintf(&b, "%d:%d", l.Line, l.Column)
	return b.String()
}

type exc struct {
	code     string
	message  string
	location Location
}

func (e *exc) Error() string {
	return fmt.Sprintf("%s -- %s: %s", e.location, e.code, e.message)
}

func (e *exc) Code() string {
	return e.code
}

func (e *exc) Message() string {
	return e.message
}

func (e *exc) Location() Location {
	return e.location
}

type excUnwrap struct {
	Exception
	cause error
}

func (e *excUnwrap) Unwrap() error {
	return e.cause
}

func New(location Location, code string, message string) Exception {
	return &exc{
		location: location,
		message:  message,
		code:     code,
	}
}

func Wrap(location Location, code string, err error) Exception {
	if err == nil {
		return nil
	}
	if e, ok := err.(Exception); ok {
		return &excUnwrap{
			Exception: New(location, code, e.Message()),
			cause:     e,
		}
	}
	return &excUnwrap{
		cause:     err,
		Exception: New(location, code, err.Error()),
	}
}

func WrapUnknown(location Location, err error) Exception {
	return Wrap(location, CodeUnknownFatal, err)
}

// MultiException is the error form of a set of reported exceptions.
type MultiException []Exception

func (self MultiException) Error() string {
	if len(self) == 0 {
		return ""
	}
	var b strings.Builder
	for _, err := range self[:len(self)-1] {
		b.WriteString(err.Error())
		b.WriteString("; ")
	}
	b.WriteString(self[len(self)-1].Error())
	return b.String()
}
