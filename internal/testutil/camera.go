package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
)

// FakeCamera is a CaptureDevice whose storage is a list of filenames.
// ImportAll writes a small JPEG for each one into the target directory.
type FakeCamera struct {
	mu sync.Mutex

	Files     []string
	ImportErr error
	EraseErr  error

	Imports int
	Erases  int
}

// NewFakeCamera creates a camera holding the given files.
func NewFakeCamera(files ...string) *FakeCamera {
	return &FakeCamera{Files: files}
}

func (c *FakeCamera) ImportAll(ctx context.Context, dir string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Imports++
	for i, name := range c.Files {
		if err := os.WriteFile(filepath.Join(dir, name), SampleJPEG(16+i, 12), 0644); err != nil {
			return err
		}
	}
	return c.ImportErr
}

func (c *FakeCamera) EraseAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Erases++
	if c.EraseErr != nil {
		return c.EraseErr
	}
	c.Files = nil
	return nil
}

// Counts returns the number of ImportAll and EraseAll calls.
func (c *FakeCamera) Counts() (imports, erases int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Imports, c.Erases
}
