// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.microglot.org/parsec.go/internal/exc"
)

var _ FileSystem = FileSystemMulti{}

// FileSystemMulti is an ordered set of FileSystem implementations that are
// tried in order. Writes go to the first backend that accepts them.
type FileSystemMulti []FileSystem

func (r FileSystemMulti) Open(ctx context.Context, uri string) ([]File, error) {
	for _, fs := range r {
		files, err := fs.Open(ctx, uri)
		if err != nil {
			continue
		}
		return files, nil
	}
	return nil, exc.New(exc.Location{URI: uri}, exc.CodeFileNotFound, fmt.Sprintf("could not open %s from any file system", uri))
}

func (r FileSystemMulti) Write(ctx context.Context, uri string, content string) error {
	for _, fs := range r {
		if err := fs.Write(ctx, uri, content); err == nil {
			return nil
		}
	}
	return exc.New(exc.Location{URI: uri}, exc.CodeUnsuportedFileSystemOperation, fmt.Sprintf("no file system accepted a write to %s", uri))
}

// FileFilter selects which files to open when the path being opened is a
// directory.
type FileFilter func(ctx context.Context, fname string) bool

// FilterKind is a FileFilter that keeps files of the given kinds.
func FilterKind(kinds ...FileKind) FileFilter {
	return func(ctx context.Context, fname string) bool {
		k := KindOf(fname)
		for _, kind := range kinds {
			if k == kind {
				return true
			}
		}
		return false
	}
}

type FileSystemLocalOption func(*fileSystemLocal)

// WithOptionFSFactory installs a custom factory function used to generate the
// underlying file system handle. The default value is os.DirFS. All paths
// given to Open are relative to the root.
func WithOptionFSFactory(v func(root string) fs.FS) FileSystemLocalOption {
	return func(rfs *fileSystemLocal) {
		rfs.fsFactory = v
	}
}

// WithOptionFileFilter installs a custom filter function used to select files
// when a target is a directory. The default keeps every file that is not
// hidden.
func WithOptionFileFilter(v FileFilter) FileSystemLocalOption {
	return func(rfs *fileSystemLocal) {
		rfs.fileFilter = v
	}
}

// WithOptionReadOnly rejects every Write.
func WithOptionReadOnly() FileSystemLocalOption {
	return func(rfs *fileSystemLocal) {
		rfs.readOnly = true
	}
}

type fileSystemLocal struct {
	root       string
	fsFactory  func(string) fs.FS
	fileFilter FileFilter
	readOnly   bool
}

// NewFileSystemLocal creates a new FileSystem rooted at a local directory.
func NewFileSystemLocal(root string, options ...FileSystemLocalOption) (FileSystem, error) {
	absroot, err := filepath.Abs(root)
	if err != nil {
		return nil, exc.WrapUnknown(exc.Location{URI: root}, err)
	}
	result := &fileSystemLocal{
		root:      absroot,
		fsFactory: os.DirFS,
		fileFilter: func(ctx context.Context, fname string) bool {
			return !strings.HasPrefix(fname, ".")
		},
	}
	for _, option := range options {
		option(result)
	}
	return result, nil
}

// relative converts a URI into the un-rooted, slash separated form fs.FS
// requires. The root itself is ".".
func relative(uri string) string {
	path := uri
	u, err := url.Parse(uri)
	if err == nil {
		path = u.Path
	}
	p := filepath.ToSlash(filepath.Clean(filepath.Join("/", path)))
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "."
	}
	return p
}

func (r *fileSystemLocal) Open(ctx context.Context, uri string) ([]File, error) {
	dir := r.fsFactory(r.root)
	p := relative(uri)
	d, err := dir.Open(p)
	if err != nil {
		return nil, fsErr(p, err)
	}
	defer d.Close()
	stat, err := d.Stat()
	if err != nil {
		return nil, fsErr(p, err)
	}
	if !stat.IsDir() {
		return []File{r.file(dir, p)}, nil
	}
	// fs.ReadDir sorts by name so listings are stable.
	dfs, err := fs.ReadDir(dir, p)
	if err != nil {
		return nil, fsErr(p, err)
	}
	files := make([]File, 0, len(dfs))
	for _, df := range dfs {
		if df.IsDir() {
			continue
		}
		if !r.fileFilter(ctx, df.Name()) {
			continue
		}
		files = append(files, r.file(dir, pathJoin(p, df.Name())))
	}
	if len(files) < 1 {
		return nil, exc.New(exc.Location{URI: p}, exc.CodeFileNotFound, fmt.Sprintf("found directory %s but it is empty", p))
	}
	return files, nil
}

func pathJoin(dir string, name string) string {
	if dir == "." {
		return name
	}
	return dir + "/" + name
}

func (r *fileSystemLocal) file(dir fs.FS, p string) File {
	return NewFileFN(p, func() (io.ReadCloser, error) {
		return dir.Open(p)
	}, KindOf(p))
}

func (r *fileSystemLocal) Write(ctx context.Context, uri string, content string) error {
	if r.readOnly {
		return exc.New(exc.Location{URI: uri}, exc.CodeUnsuportedFileSystemOperation, "file system is read only")
	}
	p := filepath.Join(r.root, filepath.FromSlash(relative(uri)))

	d := filepath.Dir(p)
	if err := os.MkdirAll(d, os.ModeDir|0o755); err != nil {
		return fsErr(d, err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		return fsErr(p, err)
	}
	return nil
}

func fsErr(path string, err error) error {
	var e exc.Exception
	if errors.As(err, &e) {
		return e
	}
	var errT *fs.PathError
	if errors.As(err, &errT) {
		switch {
		case errors.Is(errT.Err, fs.ErrNotExist):
			return exc.Wrap(exc.Location{URI: errT.Path}, exc.CodeFileNotFound, errT)
		case errors.Is(errT.Err, fs.ErrPermission):
			return exc.Wrap(exc.Location{URI: errT.Path}, exc.CodePermissionDenied, errT)
		default:
			return exc.WrapUnknown(exc.Location{URI: errT.Path}, errT)
		}
	}
	return exc.WrapUnknown(exc.Location{URI: path}, err)
}
