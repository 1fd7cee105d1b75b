// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"bufio"
	"context"
	"io"
	"path/filepath"
	"strings"

	"gopkg.microglot.org/parsec.go/internal/exc"
)

var definitionExts = map[string]FileKind{
	".toml": FileKindDefinitionTOML,
	".yaml": FileKindDefinitionYAML,
	".yml":  FileKindDefinitionYAML,
}

// KindOf classifies a path by its extension. Anything that is not a language
// definition is treated as source text.
func KindOf(path string) FileKind {
	if k, ok := definitionExts[strings.ToLower(filepath.Ext(path))]; ok {
		return k
	}
	return FileKindSource
}

// NewFileString wraps static string content in a File.
func NewFileString(path string, content string, kind FileKind) File {
	return NewFileFN(path, func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(content)), nil
	}, kind)
}

// NewFileReader wraps a single use reader, such as standard input, in a File.
// Only the first call to Body succeeds.
func NewFileReader(path string, r io.Reader, kind FileKind) File {
	used := false
	return NewFileFN(path, func() (io.ReadCloser, error) {
		if used {
			return nil, exc.New(exc.Location{URI: path}, exc.CodeUnsuportedFileSystemOperation, "content of "+path+" can only be read once")
		}
		used = true
		return io.NopCloser(r), nil
	}, kind)
}

type fileIOFunc struct {
	path string
	kind FileKind
	body func() (io.ReadCloser, error)
}

// NewFileFN wraps file based content in the File interface. The body function
// is called on every call to File.Body so it must return a new handle each
// time.
func NewFileFN(path string, body func() (io.ReadCloser, error), kind FileKind) File {
	return &fileIOFunc{
		path: path,
		kind: kind,
		body: body,
	}
}

func (f *fileIOFunc) Path(ctx context.Context) string {
	return f.path
}
func (f *fileIOFunc) Kind(ctx context.Context) FileKind {
	return f.kind
}
func (f *fileIOFunc) Body(ctx context.Context) (FileBody, error) {
	rc, err := f.body()
	if err != nil {
		return nil, fsErr(f.path, err)
	}
	rcbc := &bufioReaderCloser{
		Reader: bufio.NewReader(rc),
		Closer: rc,
	}
	return bodyFromIO(f.path, rcbc), nil
}

type bufioReaderCloser struct {
	*bufio.Reader
	io.Closer
}
