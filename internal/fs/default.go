// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

// NewDefaultFS returns the shared, read-only locations where language
// definitions are installed. Only definition files are listed from them.
func NewDefaultFS(lookup func(string) (string, bool)) (FileSystem, error) {
	roots := DefaultRoots(lookup)
	f := make(FileSystemMulti, 0, len(roots))
	for _, root := range roots {
		rf, err := NewFileSystemLocal(
			root,
			WithOptionReadOnly(),
			WithOptionFileFilter(FilterKind(FileKindDefinitionTOML, FileKindDefinitionYAML)),
		)
		if err != nil {
			return nil, err
		}
		f = append(f, rf)
	}
	return f, nil
}
