package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.jsonl")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := Delete(path); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("File should be gone after Delete")
	}
}

func TestDeleteMissingFile(t *testing.T) {
	err := Delete(filepath.Join(t.TempDir(), "never.jsonl"))
	if err == nil {
		t.Fatal("Expected error deleting a missing file")
	}
	var serr *StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("Expected StorageError, got %T", err)
	}
	if serr.Op != "delete" {
		t.Errorf("Expected op 'delete', got %q", serr.Op)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("StorageError should unwrap to the underlying os error")
	}
}
