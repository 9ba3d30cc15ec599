package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStoreRoundtrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	content := "hello archive"
	relPath, err := store.Save(context.Background(), strings.NewReader(content), ".txt")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(relPath, "uploads/") {
		t.Errorf("relative path %q should start with uploads/", relPath)
	}
	if !strings.HasSuffix(relPath, ".txt") {
		t.Errorf("relative path %q should keep the extension", relPath)
	}
	if strings.Contains(relPath, "\\") {
		t.Errorf("relative path %q should use forward slashes", relPath)
	}

	rc, err := store.Open(context.Background(), relPath)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != content {
		t.Errorf("content = %q, want %q", data, content)
	}
}

func TestLocalStoreRemove(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	relPath, err := store.Save(context.Background(), strings.NewReader("x"), ".bin")
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Remove(context.Background(), relPath); err != nil {
		t.Fatal(err)
	}

	if err := store.Remove(context.Background(), relPath); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove error = %v, want ErrNotFound", err)
	}

	if _, err := store.Open(context.Background(), relPath); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open after Remove error = %v, want ErrNotFound", err)
	}
}

func TestLocalStoreResolveContainment(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root)
	if err != nil {
		t.Fatal(err)
	}

	// Файл существует, но лежит вне каталога uploads
	outside := filepath.Join(root, "secret.txt")
	if err := os.WriteFile(outside, []byte("secret"), 0644); err != nil {
		t.Fatal(err)
	}

	escapes := []string{
		"../secret.txt",
		"uploads/../secret.txt",
		"uploads/../../etc/passwd",
		"/etc/passwd",
	}
	for _, relPath := range escapes {
		if _, err := store.Resolve(context.Background(), relPath); !errors.Is(err, ErrNotFound) {
			t.Errorf("Resolve(%q) error = %v, want ErrNotFound", relPath, err)
		}
	}
}

func TestLocalStoreResolveMissing(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.Resolve(context.Background(), "uploads/2026/01/nope.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve missing file error = %v, want ErrNotFound", err)
	}
}
