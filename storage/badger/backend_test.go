package badger

import (
	"path/filepath"
	"testing"
)

func TestOpenBackendInMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	if err != nil {
		t.Fatalf("Failed to open in-memory backend: %v", err)
	}
	if backend.IsClosed() {
		t.Fatal("Expected backend to be open")
	}
	if err := backend.Close(); err != nil {
		t.Fatalf("Failed to close backend: %v", err)
	}
	if !backend.IsClosed() {
		t.Fatal("Expected backend to be closed")
	}
}

func TestOpenBackendCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "converse")
	backend, err := OpenBackend(path, false)
	if err != nil {
		t.Fatalf("Failed to open backend at %s: %v", path, err)
	}
	defer backend.Close()

	seq, err := backend.GetSequence("test-seq")
	if err != nil {
		t.Fatalf("Failed to get sequence: %v", err)
	}
	defer seq.Release()

	if _, err := seq.Next(); err != nil {
		t.Fatalf("Failed to advance sequence: %v", err)
	}
}
