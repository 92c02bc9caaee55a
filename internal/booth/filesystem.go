package booth

import (
	"io"
	"io/fs"
	"path/filepath"
	"strings"
)

// FilesystemManager provides the filesystem operations the pipeline needs.
type FilesystemManager interface {
	// EnsureDir creates path and any missing parents.
	EnsureDir(path string) error

	// IsDir reports whether path exists and is a directory.
	IsDir(path string) (bool, error)

	// ListFiles returns the names of the regular files directly inside dir, sorted.
	ListFiles(dir string) ([]string, error)

	// Open opens a file for reading.
	Open(path string) (io.ReadCloser, error)

	// Create creates or truncates a file for writing.
	Create(path string) (io.WriteCloser, error)

	// Stat returns fresh file info for a path.
	Stat(path string) (fs.FileInfo, error)
}

// IsPhoto reports whether a filename is a camera JPEG.
func IsPhoto(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".jpg")
}

// filterPhotos keeps the photo names from a directory listing.
func filterPhotos(names []string) []string {
	photos := make([]string, 0, len(names))
	for _, n := range names {
		if IsPhoto(n) {
			photos = append(photos, n)
		}
	}
	return photos
}
