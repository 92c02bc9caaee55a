package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FakeEnhancer appends a marker to each photo instead of processing pixels.
// Photos whose base name is in FailFor return an error and are left untouched.
type FakeEnhancer struct {
	mu       sync.Mutex
	FailFor  map[string]bool
	Enhanced []string
}

func NewFakeEnhancer() *FakeEnhancer {
	return &FakeEnhancer{FailFor: make(map[string]bool)}
}

func (e *FakeEnhancer) Enhance(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	name := filepath.Base(path)
	if e.FailFor[name] {
		return fmt.Errorf("cannot decode %s", name)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteString("enhanced"); err != nil {
		return err
	}
	e.Enhanced = append(e.Enhanced, name)
	return nil
}
