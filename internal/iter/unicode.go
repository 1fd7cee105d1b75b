// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package iter

import (
	"bufio"
	"context"
	"errors"
	"io"
	"unicode/utf8"

	"gopkg.microglot.org/parsec.go/internal/exc"
	"gopkg.microglot.org/parsec.go/internal/fs"
	"gopkg.microglot.org/parsec.go/internal/optional"
	"gopkg.microglot.org/parsec.go/internal/stream"
)

// NewUnicodeFileBody converts a FileBody into an iterator of runes. Invalid
// UTF-8 is decoded as utf8.RuneError.
func NewUnicodeFileBody(b fs.FileBody) Iterator[rune] {
	return NewUnicodeFileBodyCtx(context.Background(), b)
}

// NewUnicodeFileBodyCtx is the same as NewUnicodeFileBody but uses the given
// context for all read operations for cancellation or other purposes.
func NewUnicodeFileBodyCtx(ctx context.Context, b fs.FileBody) Iterator[rune] {
	return newFileBody(ctx, b)
}

type fileBody struct {
	readCloser io.ReadCloser
	scanner    *bufio.Scanner
}

func newFileBody(ctx context.Context, r fs.FileBody) *fileBody {
	rc := NewReader(ctx, r)
	scanner := bufio.NewScanner(rc)
	scanner.Split(bufio.ScanRunes)
	return &fileBody{
		readCloser: rc,
		scanner:    scanner,
	}
}

func (f *fileBody) Next(ctx context.Context) optional.Optional[rune] {
	ok := f.scanner.Scan()
	if !ok {
		return optional.None[rune]()
	}
	r, _ := utf8.DecodeRune(f.scanner.Bytes())
	return optional.Some(r)
}

func (f *fileBody) Close(context.Context) error {
	_ = f.readCloser.Close()
	return f.scanner.Err()
}

// NewReader adapts a FileBody to an io.ReadCloser bound to ctx.
func NewReader(ctx context.Context, b fs.FileBody) io.ReadCloser {
	return &fileBodyIO{ctx: ctx, body: b}
}

type fileBodyIO struct {
	ctx  context.Context
	body fs.FileBody
}

func (self *fileBodyIO) Read(p []byte) (int, error) {
	b, err := self.body.Read(self.ctx, int32(len(p)))
	if err != nil && !errors.Is(err, io.EOF) {
		return len(b), err
	}
	copy(p, b)
	if errors.Is(err, io.EOF) {
		return len(b), io.EOF
	}
	return len(b), nil
}

func (self *fileBodyIO) Close() error {
	return self.body.Close(self.ctx)
}

// ReadInput decodes the whole content of f into a positioned parser input.
func ReadInput(ctx context.Context, f fs.File) (stream.Input, error) {
	body, err := f.Body(ctx)
	if err != nil {
		return stream.Input{}, err
	}
	runes, err := Collect(ctx, NewUnicodeFileBodyCtx(ctx, body))
	if err != nil {
		return stream.Input{}, exc.WrapUnknown(exc.Location{URI: f.Path(ctx)}, err)
	}
	return stream.FromRunes(runes), nil
}
