package session

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

func TestFileStorage(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")
	fs := NewFileStorage(path)

	values, err := fs.Load(ctx)
	if err != nil || len(values) != 0 {
		t.Fatalf("Load() on missing file = %v, %v", values, err)
	}

	if err := fs.Save(ctx, map[string]string{KeyToken: "t1", KeyUsername: "ana"}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := fs.Save(ctx, map[string]string{KeyRole: "user"}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("mode = %o, want 600", perm)
	}

	values, err = NewFileStorage(path).Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if values[KeyToken] != "t1" || values[KeyUsername] != "ana" || values[KeyRole] != "user" {
		t.Errorf("values = %v", values)
	}

	if err := fs.Clear(ctx); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if err := fs.Clear(ctx); err != nil {
		t.Errorf("second Clear() error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file still exists: %v", err)
	}
}

func TestFileStorageCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	if err := os.WriteFile(path, []byte("token: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStorage(path).Load(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestMemoryStorageCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage()
	m.Save(ctx, map[string]string{KeyToken: "x"})

	values, _ := m.Load(ctx)
	values[KeyToken] = "mutated"
	again, _ := m.Load(ctx)
	if again[KeyToken] != "x" {
		t.Error("Load must return a copy")
	}
}

func TestRedisStorageKey(t *testing.T) {
	s := NewRedisStorage(nil, "abc", 0)
	if got := s.key(); got != "dashboard:session:abc" {
		t.Errorf("key() = %q", got)
	}
}

func TestMemoryRegistryIsolatesSessions(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry(time.Hour)
	if err := reg.For("a").Save(ctx, map[string]string{KeyToken: "ta"}); err != nil {
		t.Fatal(err)
	}

	a, _ := reg.For("a").Load(ctx)
	b, _ := reg.For("b").Load(ctx)
	if a[KeyToken] != "ta" {
		t.Errorf("session a token = %q", a[KeyToken])
	}
	if len(b) != 0 {
		t.Errorf("session b = %v, want empty", b)
	}
}

func TestMemoryRegistryReleasesEntries(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry(time.Hour)

	for i := 0; i < 1000; i++ {
		st := reg.For(strconv.Itoa(i))
		if _, err := st.Load(ctx); err != nil {
			t.Fatal(err)
		}
		if err := st.Clear(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if n := reg.Len(); n != 0 {
		t.Fatalf("anonymous lookups left %d entries", n)
	}

	st := reg.For("ana")
	if err := st.Save(ctx, map[string]string{KeyToken: "t"}); err != nil {
		t.Fatal(err)
	}
	if n := reg.Len(); n != 1 {
		t.Fatalf("entries after Save = %d, want 1", n)
	}
	if err := st.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if n := reg.Len(); n != 0 {
		t.Errorf("entries after Clear = %d, want 0", n)
	}
}

func TestMemoryRegistryExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	reg := NewMemoryRegistry(time.Minute)
	reg.now = func() time.Time { return now }

	if err := reg.For("a").Save(ctx, map[string]string{KeyToken: "ta"}); err != nil {
		t.Fatal(err)
	}
	now = now.Add(30 * time.Second)
	if v, _ := reg.For("a").Load(ctx); v[KeyToken] != "ta" {
		t.Fatalf("token before expiry = %q", v[KeyToken])
	}

	now = now.Add(time.Minute)
	if v, _ := reg.For("a").Load(ctx); len(v) != 0 {
		t.Errorf("expired session = %v, want empty", v)
	}
	if n := reg.Len(); n != 0 {
		t.Errorf("entries after expiry = %d, want 0", n)
	}
}
