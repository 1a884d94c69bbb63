package codebase

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileWatcherScan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.kt")
	if err := os.WriteFile(path, []byte("fun main() { }"), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(dir)
	w := NewFileWatcher(c)

	w.scan()
	if info := c.GetFile(path); info == nil {
		t.Fatal("main.kt not picked up")
	}

	added := filepath.Join(dir, "extra.kt")
	if err := os.WriteFile(added, []byte("val x = 1"), 0644); err != nil {
		t.Fatal(err)
	}
	w.scan()
	if info := c.GetFile(added); info == nil {
		t.Error("extra.kt not picked up after creation")
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	w.scan()
	if info := c.GetFile(path); info != nil {
		t.Error("main.kt still tracked after deletion")
	}
}

func TestFileWatcherSkipsHiddenDirs(t *testing.T) {
	dir := t.TempDir()
	hidden := filepath.Join(dir, ".build")
	if err := os.Mkdir(hidden, 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(hidden, "gen.kt")
	if err := os.WriteFile(path, []byte("val x = 1"), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(dir)
	w := NewFileWatcher(c)
	w.scan()

	if info := c.GetFile(path); info != nil {
		t.Error("file under a hidden directory was scanned")
	}
}
