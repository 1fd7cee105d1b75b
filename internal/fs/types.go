// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"fmt"
)

type Closer interface {
	Close(ctx context.Context) error
}

type Reader interface {
	Read(ctx context.Context, size int32) ([]byte, error)
}

// FileBody is an open handle on the content of a File. Read returns an
// exception with code exc.CodeEOF along with the final bytes.
type FileBody interface {
	Reader
	Closer
}

type FileKind uint32

const (
	FileKindNone FileKind = iota
	FileKindSource
	FileKindDefinitionTOML
	FileKindDefinitionYAML
)

func (k FileKind) String() string {
	switch k {
	case FileKindNone:
		return "none"
	case FileKindSource:
		return "source"
	case FileKindDefinitionTOML:
		return "definition-toml"
	case FileKindDefinitionYAML:
		return "definition-yaml"
	default:
		return fmt.Sprintf("unknown-%d", k)
	}
}

// IsDefinition reports whether the file holds a language definition.
func (k FileKind) IsDefinition() bool {
	return k == FileKindDefinitionTOML || k == FileKindDefinitionYAML
}

type File interface {
	Path(ctx context.Context) string
	Kind(ctx context.Context) FileKind
	Body(ctx context.Context) (FileBody, error)
}

type FileSystem interface {
	Open(ctx context.Context, uri string) ([]File, error)
	Write(ctx context.Context, uri string, content string) error
}
