package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStore_Save(t *testing.T) {
	dir := t.TempDir()
	st, err := NewLocalStore(dir, "/imgs")
	if err != nil {
		t.Fatalf("NewLocalStore error: %v", err)
	}

	ref, err := st.Save(context.Background(), strings.NewReader("fake-image"), 10, "image/png", "a.png")
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if ref != "/imgs/a.png" {
		t.Fatalf("unexpected ref: %s", ref)
	}

	data, err := os.ReadFile(filepath.Join(dir, "a.png"))
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != "fake-image" {
		t.Fatalf("file content mismatch: %q", data)
	}
}

func TestLocalStore_NeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	st, err := NewLocalStore(dir, "/imgs/")
	if err != nil {
		t.Fatalf("NewLocalStore error: %v", err)
	}

	if _, err := st.Save(context.Background(), strings.NewReader("first"), 5, "image/png", "a.png"); err != nil {
		t.Fatalf("first Save error: %v", err)
	}
	if _, err := st.Save(context.Background(), strings.NewReader("second"), 6, "image/png", "a.png"); err == nil {
		t.Fatalf("expected error saving over an existing file")
	}

	data, _ := os.ReadFile(filepath.Join(dir, "a.png"))
	if string(data) != "first" {
		t.Fatalf("original content must be preserved: %q", data)
	}
}

func TestLocalStore_StripsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	st, err := NewLocalStore(dir, "/imgs/")
	if err != nil {
		t.Fatalf("NewLocalStore error: %v", err)
	}

	ref, err := st.Save(context.Background(), strings.NewReader("x"), 1, "image/png", "../../evil.png")
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if ref != "/imgs/evil.png" {
		t.Fatalf("unexpected ref: %s", ref)
	}
	if _, err := os.Stat(filepath.Join(dir, "evil.png")); err != nil {
		t.Fatalf("file must be written inside the store dir: %v", err)
	}
}
