package fs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"

	"booth-go/internal/booth"
)

// OSFilesystemManager is the real filesystem implementation of FilesystemManager.
type OSFilesystemManager struct {
	dirPerm  os.FileMode
	filePerm os.FileMode
}

// NewOSFilesystemManager creates a new filesystem manager that operates on the real filesystem.
func NewOSFilesystemManager() *OSFilesystemManager {
	return &OSFilesystemManager{dirPerm: 0755, filePerm: 0644}
}

// EnsureDir creates path and any missing parents.
func (m *OSFilesystemManager) EnsureDir(path string) error {
	return os.MkdirAll(path, m.dirPerm)
}

// IsDir reports whether path exists and is a directory.
func (m *OSFilesystemManager) IsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat path: %w", err)
	}
	return info.IsDir(), nil
}

// ListFiles returns the regular files directly inside dir, sorted by name.
// Symlinks, devices and subdirectories are skipped.
func (m *OSFilesystemManager) ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Open opens a file for reading.
func (m *OSFilesystemManager) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Create creates or truncates a file for writing.
func (m *OSFilesystemManager) Create(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, m.filePerm)
}

// Stat returns fresh file info for a path.
func (m *OSFilesystemManager) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Compile-time check that OSFilesystemManager implements booth.FilesystemManager interface
var _ booth.FilesystemManager = (*OSFilesystemManager)(nil)
