package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
)

// OSFileSystem implements the filesystem collaborator used by VCS handles with operating system primitives.
type OSFileSystem struct{}

// Stat retrieves file metadata.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Abs resolves an absolute path.
func (OSFileSystem) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// MkdirTemp allocates a new uniquely named directory; an empty parent selects the system temporary directory.
func (OSFileSystem) MkdirTemp(parentDirectory string, pattern string) (string, error) {
	return os.MkdirTemp(parentDirectory, pattern)
}

// RemoveAll deletes a directory tree, succeeding when the path is already absent.
func (OSFileSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}
