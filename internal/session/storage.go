package session

import (
	"fmt"
	"os"
)

// StorageError wraps a failed mutation of on-disk session state so the UI
// can distinguish it from transient fetch failures.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Delete removes a session log from disk.
func Delete(path string) error {
	if err := os.Remove(path); err != nil {
		return &StorageError{Op: "delete", Path: path, Err: err}
	}
	return nil
}
