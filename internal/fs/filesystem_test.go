package fs

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestOSFilesystemManager_IsDir(t *testing.T) {
	m := NewOSFilesystemManager()
	dir := t.TempDir()
	file := filepath.Join(dir, "photo_1.jpg")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "existing directory", path: dir, want: true},
		{name: "regular file", path: file, want: false},
		{name: "missing path", path: filepath.Join(dir, "missing"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.IsDir(tt.path)
			if err != nil {
				t.Fatalf("IsDir() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsDir() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOSFilesystemManager_ListFiles(t *testing.T) {
	m := NewOSFilesystemManager()
	dir := t.TempDir()

	for _, name := range []string{"photo_2.jpg", "photo_1.JPG", "qr.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.EnsureDir(filepath.Join(dir, "originals")); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}

	got, err := m.ListFiles(dir)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}

	want := []string{"photo_1.JPG", "photo_2.jpg", "qr.png"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListFiles() = %v, want %v", got, want)
	}
}

func TestOSFilesystemManager_CreateOpen(t *testing.T) {
	m := NewOSFilesystemManager()
	path := filepath.Join(t.TempDir(), "out.bin")

	w, err := m.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := io.WriteString(w, "hello"); err != nil {
		t.Fatalf("write error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	r, err := m.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q, want %q", data, "hello")
	}

	info, err := m.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Size() != 5 {
		t.Errorf("Size() = %d, want 5", info.Size())
	}
}
