package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"booth-go/internal/booth"
)

// FileSystemObjectStore is a directory-backed object store for booths without
// a cloud bucket. Keys map to paths below root:
//
//	<root>/
//	  <short_code>/
//	    <filename>
type FileSystemObjectStore struct {
	root    string
	baseURL string
}

// NewFileSystemObjectStore creates a store rooted at root. Public URLs are
// baseURL + "/" + key, or file:// URLs when baseURL is empty.
func NewFileSystemObjectStore(root, baseURL string) (*FileSystemObjectStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create object store root: %w", err)
	}
	return &FileSystemObjectStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Put stores content under key, replacing any existing object.
func (v *FileSystemObjectStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	destPath, err := v.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}
	return writeFile(destPath, r, size)
}

// PublicURL returns the URL an object is served from.
func (v *FileSystemObjectStore) PublicURL(key string) string {
	if v.baseURL != "" {
		return v.baseURL + "/" + key
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(v.root, filepath.FromSlash(key)))}
	return u.String()
}

// Get copies a stored object to w.
func (v *FileSystemObjectStore) Get(key string, w io.Writer) error {
	srcPath, err := v.pathFor(key)
	if err != nil {
		return err
	}
	f, err := os.Open(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("object not found: %s", key)
		}
		return fmt.Errorf("failed to open object: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read object: %w", err)
	}
	return nil
}

// ValidateSetup verifies that the root directory is accessible.
func (v *FileSystemObjectStore) ValidateSetup(ctx context.Context) error {
	info, err := os.Stat(v.root)
	if err != nil {
		return fmt.Errorf("object store root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("object store root is not a directory: %s", v.root)
	}
	return nil
}

// pathFor maps a key to a path, rejecting keys that escape root.
func (v *FileSystemObjectStore) pathFor(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid object key: %q", key)
	}
	return filepath.Join(v.root, clean), nil
}

// writeFile writes data from r to destPath using atomic write (temp file + rename).
func writeFile(destPath string, r io.Reader, expectedSize int64) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileSystemObjectStore implements booth.ObjectStore interface
var _ booth.ObjectStore = (*FileSystemObjectStore)(nil)
