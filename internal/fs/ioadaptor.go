// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"io"

	"gopkg.microglot.org/parsec.go/internal/exc"
)

func bodyFromIO(path string, v io.ReadCloser) FileBody {
	return &ioFileBody{path: path, rc: v}
}

type ioFileBody struct {
	path string
	rc   io.ReadCloser
	b    []byte
}

func (self *ioFileBody) Read(ctx context.Context, size int32) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, exc.WrapUnknown(exc.Location{URI: self.path}, err)
	}
	if len(self.b) < int(size) {
		self.b = make([]byte, size)
	}
	count, err := self.rc.Read(self.b[:size])
	if err != nil && err != io.EOF {
		return nil, exc.WrapUnknown(exc.Location{URI: self.path}, err)
	}
	if err == io.EOF {
		return self.b[:count], exc.Wrap(exc.Location{URI: self.path}, exc.CodeEOF, err)
	}
	return self.b[:count], nil
}

func (self *ioFileBody) Close(ctx context.Context) error {
	return self.rc.Close()
}
