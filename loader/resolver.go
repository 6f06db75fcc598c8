package loader

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
)

// FSResolver implements FileResolver over a FileSystem. Relative paths are
// taken from the importing file's directory.
type FSResolver struct {
	fs FileSystem
}

func NewFSResolver(fs FileSystem) *FSResolver {
	return &FSResolver{fs: fs}
}

// NewDefaultFileResolver resolves against the local disk.
func NewDefaultFileResolver() *FSResolver {
	return NewFSResolver(NewLocalFS(""))
}

func (r *FSResolver) Resolve(importerPath, importPath string) (io.ReadCloser, string, error) {
	resolvedPath := importPath
	if !filepath.IsAbs(importPath) && importerPath != "" {
		resolvedPath = filepath.Join(filepath.Dir(importerPath), importPath)
	}

	canonicalPath, err := r.fs.Canonical(resolvedPath)
	if err != nil {
		return nil, "", err
	}
	if !r.fs.Exists(canonicalPath) {
		return nil, "", fmt.Errorf("file not found: %s (resolved from '%s')", canonicalPath, importPath)
	}
	data, err := r.fs.ReadFile(canonicalPath)
	if err != nil {
		return nil, "", fmt.Errorf("could not open file '%s': %w", canonicalPath, err)
	}
	return io.NopCloser(bytes.NewReader(data)), canonicalPath, nil
}
