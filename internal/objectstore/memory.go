package objectstore

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"booth-go/internal/booth"
)

// Object is a stored object held by MemoryObjectStore.
type Object struct {
	Data        []byte
	ContentType string
}

// MemoryObjectStore is an in-memory implementation of the ObjectStore interface.
// It is useful for testing and for running the booth without any storage.
// This implementation is safe for concurrent use.
type MemoryObjectStore struct {
	baseURL string
	objects map[string]Object
	mu      sync.RWMutex
}

// NewMemoryObjectStore creates a new in-memory store whose public URLs start with baseURL.
func NewMemoryObjectStore(baseURL string) *MemoryObjectStore {
	return &MemoryObjectStore{
		baseURL: baseURL,
		objects: make(map[string]Object),
	}
}

// Put stores content under key.
func (m *MemoryObjectStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects[key] = Object{Data: data, ContentType: contentType}
	return nil
}

// PublicURL returns baseURL + "/" + key.
func (m *MemoryObjectStore) PublicURL(key string) string {
	return m.baseURL + "/" + key
}

// Get returns a stored object.
func (m *MemoryObjectStore) Get(key string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[key]
	return obj, ok
}

// Keys returns every stored key, sorted.
func (m *MemoryObjectStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidateSetup always succeeds for in-memory store.
func (m *MemoryObjectStore) ValidateSetup(ctx context.Context) error {
	return nil
}

// Compile-time check that MemoryObjectStore implements booth.ObjectStore interface
var _ booth.ObjectStore = (*MemoryObjectStore)(nil)
