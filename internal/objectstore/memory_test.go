package objectstore

import (
	"context"
	"strings"
	"sync"
	"testing"
)

func TestMemoryObjectStore_PutGet(t *testing.T) {
	m := NewMemoryObjectStore("https://r2.example.com/photos")
	ctx := context.Background()

	if err := m.Put(ctx, "code/b.jpg", strings.NewReader("bbb"), 3, "image/jpeg"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := m.Put(ctx, "code/a.jpg", strings.NewReader("aa"), 2, "image/jpeg"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	obj, ok := m.Get("code/b.jpg")
	if !ok {
		t.Fatal("Get() object not found")
	}
	if string(obj.Data) != "bbb" || obj.ContentType != "image/jpeg" {
		t.Errorf("Get() = %+v", obj)
	}

	keys := m.Keys()
	if len(keys) != 2 || keys[0] != "code/a.jpg" || keys[1] != "code/b.jpg" {
		t.Errorf("Keys() = %v", keys)
	}

	if _, ok := m.Get("code/missing.jpg"); ok {
		t.Error("Get() found a missing object")
	}
}

func TestMemoryObjectStore_SizeMismatch(t *testing.T) {
	m := NewMemoryObjectStore("")
	err := m.Put(context.Background(), "k", strings.NewReader("abc"), 10, "image/jpeg")
	if err == nil {
		t.Fatal("Put() expected size mismatch error")
	}
	if len(m.Keys()) != 0 {
		t.Error("object stored despite size mismatch")
	}
}

func TestMemoryObjectStore_PublicURL(t *testing.T) {
	m := NewMemoryObjectStore("https://r2.example.com/photos")
	if got := m.PublicURL("code/a.jpg"); got != "https://r2.example.com/photos/code/a.jpg" {
		t.Errorf("PublicURL() = %q", got)
	}
}

func TestMemoryObjectStore_Concurrent(t *testing.T) {
	m := NewMemoryObjectStore("")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := "code/" + string(rune('a'+i)) + ".jpg"
			if err := m.Put(ctx, key, strings.NewReader("x"), 1, "image/jpeg"); err != nil {
				t.Errorf("Put() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	if got := len(m.Keys()); got != 20 {
		t.Errorf("len(Keys()) = %d, want 20", got)
	}
}
