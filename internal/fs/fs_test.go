// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/parsec.go/internal/exc"
)

func mapFS(files map[string]string) func(string) iofs.FS {
	m := fstest.MapFS{}
	for name, content := range files {
		m[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return func(string) iofs.FS { return m }
}

func readAll(t *testing.T, ctx context.Context, f File) string {
	t.Helper()
	body, err := f.Body(ctx)
	require.NoError(t, err)
	defer body.Close(ctx)
	var b strings.Builder
	for {
		chunk, err := body.Read(ctx, 4)
		b.Write(chunk)
		if err != nil {
			var e exc.Exception
			require.True(t, errors.As(err, &e))
			require.Equal(t, exc.CodeEOF, e.Code())
			require.True(t, errors.Is(err, io.EOF))
			return b.String()
		}
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		path string
		kind FileKind
	}{
		{path: "lang.toml", kind: FileKindDefinitionTOML},
		{path: "dir/lang.YAML", kind: FileKindDefinitionYAML},
		{path: "lang.yml", kind: FileKindDefinitionYAML},
		{path: "main.hs", kind: FileKindSource},
		{path: "README", kind: FileKindSource},
	}
	for _, testCase := range testCases {
		require.Equal(t, testCase.kind, KindOf(testCase.path), testCase.path)
	}
	require.True(t, FileKindDefinitionYAML.IsDefinition())
	require.False(t, FileKindSource.IsDefinition())
	require.Equal(t, "definition-toml", FileKindDefinitionTOML.String())
}

func TestFileSystemLocalOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	rfs, err := NewFileSystemLocal("/virtual", WithOptionFSFactory(mapFS(map[string]string{
		"src/a.hs":      "main = 1",
		"src/b.hs":      "x = 2",
		"src/.hidden":   "secret",
		"src/lang.toml": "preset = \"haskell\"",
		"top.txt":       "top",
	})))
	require.NoError(t, err)

	files, err := rfs.Open(ctx, "src/a.hs")
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "src/a.hs", files[0].Path(ctx))
	require.Equal(t, FileKindSource, files[0].Kind(ctx))
	require.Equal(t, "main = 1", readAll(t, ctx, files[0]))

	files, err = rfs.Open(ctx, "file:///src")
	require.NoError(t, err)
	var names []string
	for _, f := range files {
		names = append(names, f.Path(ctx))
	}
	sort.Strings(names)
	require.Equal(t, []string{"src/a.hs", "src/b.hs", "src/lang.toml"}, names)

	files, err = rfs.Open(ctx, "/")
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "top.txt", files[0].Path(ctx))

	_, err = rfs.Open(ctx, "missing.hs")
	var e exc.Exception
	require.True(t, errors.As(err, &e))
	require.Equal(t, exc.CodeFileNotFound, e.Code())
}

func TestFileSystemLocalFilter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	rfs, err := NewFileSystemLocal("/virtual",
		WithOptionFSFactory(mapFS(map[string]string{
			"defs/a.toml": "",
			"defs/b.yaml": "",
			"defs/c.hs":   "",
		})),
		WithOptionFileFilter(FilterKind(FileKindDefinitionTOML, FileKindDefinitionYAML)),
	)
	require.NoError(t, err)

	files, err := rfs.Open(ctx, "defs")
	require.NoError(t, err)
	require.Len(t, files, 2)
	for _, f := range files {
		require.True(t, f.Kind(ctx).IsDefinition())
	}

	empty, err := NewFileSystemLocal("/virtual",
		WithOptionFSFactory(mapFS(map[string]string{"defs/c.hs": ""})),
		WithOptionFileFilter(FilterKind(FileKindDefinitionTOML)),
	)
	require.NoError(t, err)
	_, err = empty.Open(ctx, "defs")
	require.Error(t, err)
}

func TestFileSystemLocalWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := t.TempDir()
	rfs, err := NewFileSystemLocal(root)
	require.NoError(t, err)

	require.NoError(t, rfs.Write(ctx, "out/lang.toml", "name = \"x\"\n"))
	content, err := os.ReadFile(filepath.Join(root, "out", "lang.toml"))
	require.NoError(t, err)
	require.Equal(t, "name = \"x\"\n", string(content))

	files, err := rfs.Open(ctx, "out/lang.toml")
	require.NoError(t, err)
	require.Equal(t, FileKindDefinitionTOML, files[0].Kind(ctx))
	require.Equal(t, "name = \"x\"\n", readAll(t, ctx, files[0]))

	ro, err := NewFileSystemLocal(root, WithOptionReadOnly())
	require.NoError(t, err)
	require.Error(t, ro.Write(ctx, "x.toml", ""))
}

func TestFileSystemMulti(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	first, err := NewFileSystemLocal("/a", WithOptionFSFactory(mapFS(map[string]string{"shared.hs": "first"})), WithOptionReadOnly())
	require.NoError(t, err)
	second, err := NewFileSystemLocal("/b", WithOptionFSFactory(mapFS(map[string]string{
		"shared.hs": "second",
		"only.hs":   "only",
	})))
	require.NoError(t, err)
	multi := FileSystemMulti{first, second}

	files, err := multi.Open(ctx, "shared.hs")
	require.NoError(t, err)
	require.Equal(t, "first", readAll(t, ctx, files[0]))

	files, err = multi.Open(ctx, "only.hs")
	require.NoError(t, err)
	require.Equal(t, "only", readAll(t, ctx, files[0]))

	_, err = multi.Open(ctx, "none.hs")
	require.Error(t, err)

	require.Error(t, FileSystemMulti{first}.Write(ctx, "x.hs", ""))
}

func TestFileReader(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := NewFileReader("-", strings.NewReader("once"), FileKindSource)
	require.Equal(t, "once", readAll(t, ctx, f))
	_, err := f.Body(ctx)
	var e exc.Exception
	require.True(t, errors.As(err, &e))
	require.Equal(t, exc.CodeUnsuportedFileSystemOperation, e.Code())

	s := NewFileString("inline", "text", FileKindSource)
	require.Equal(t, "text", readAll(t, ctx, s))
	require.Equal(t, "text", readAll(t, ctx, s))
}

func TestBodyHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	body, err := NewFileString("inline", "text", FileKindSource).Body(ctx)
	require.NoError(t, err)
	cancel()
	_, err = body.Read(ctx, 4)
	require.Error(t, err)
	require.True(t, errors.Is(err, context.Canceled))
}

func TestDefaultRoots(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("XDG data directories are not used on windows")
	}
	env := map[string]string{
		"XDG_DATA_DIRS": "/opt/share:$HOME/.local/share",
		"HOME":          "/home/me",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	require.Equal(t, []string{"/opt/share/parsec", "/home/me/.local/share/parsec"}, DefaultRoots(lookup))

	none := func(string) (string, bool) { return "", false }
	require.Equal(t, []string{"/usr/local/share/parsec", "/usr/share/parsec"}, DefaultRoots(none))

	dfs, err := NewDefaultFS(none)
	require.NoError(t, err)
	require.Error(t, dfs.Write(context.Background(), "lang.toml", ""))
}

// shuffledFS lists directories in reverse name order when read through an
// opened directory handle.
type shuffledFS struct {
	fstest.MapFS
}

func (s shuffledFS) Open(name string) (iofs.File, error) {
	f, err := s.MapFS.Open(name)
	if err != nil {
		return nil, err
	}
	if d, ok := f.(iofs.ReadDirFile); ok {
		return reversedDir{d}, nil
	}
	return f, nil
}

type reversedDir struct {
	iofs.ReadDirFile
}

func (d reversedDir) ReadDir(n int) ([]iofs.DirEntry, error) {
	es, err := d.ReadDirFile.ReadDir(n)
	slices.Reverse(es)
	return es, err
}

func TestFileSystemLocalDirectoryOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := fstest.MapFS{}
	for _, name := range []string{"src/c.hs", "src/a.hs", "src/b.hs"} {
		m[name] = &fstest.MapFile{Data: []byte(name)}
	}
	rfs, err := NewFileSystemLocal("/virtual", WithOptionFSFactory(func(string) iofs.FS {
		return shuffledFS{m}
	}))
	require.NoError(t, err)

	files, err := rfs.Open(ctx, "src")
	require.NoError(t, err)
	var names []string
	for _, f := range files {
		names = append(names, f.Path(ctx))
	}
	require.Equal(t, []string{"src/a.hs", "src/b.hs", "src/c.hs"}, names)
}
