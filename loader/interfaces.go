package loader

import "io"

// FileResolver locates a source file. importerPath is the canonical path of
// the file asking for it, or empty for a root file.
type FileResolver interface {
	Resolve(importerPath, importPath string) (io.ReadCloser, string, error)
}

// FileSystem is the storage a resolver reads from.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Exists(path string) bool
	// Canonical maps path to the key the file is cached under.
	Canonical(path string) (string, error)
}
