package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteTexlist(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "pubs-tex.txt")
	if err := os.WriteFile(out, []byte("stale\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cleaned := "\\item {\\bf Petigura, E.~A.} 2013, ApJ, 770, 69\n"
	if err := writeTexlist(out, cleaned); err != nil {
		t.Fatalf("writeTexlist() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != cleaned {
		t.Errorf("content = %q, want %q", data, cleaned)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want no leftover temp files", len(entries))
	}
}

func TestWriteTexlist_BadDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := writeTexlist(filepath.Join(blocker, "list.tex"), "x"); err == nil {
		t.Error("expected an error when the parent is not a directory")
	}
}
