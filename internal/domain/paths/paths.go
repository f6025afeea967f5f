// Package paths holds the output-file discipline shared by every
// artifact writer: an existing output is an error unless the caller
// asked to overwrite, and parent directories are created on demand.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureWritable prepares path for writing. It fails if the file exists
// and overwrite is false, otherwise removes the stale file and creates
// the parent directory.
func EnsureWritable(path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil {
		if !overwrite {
			return fmt.Errorf("%s exists, pass --overwrite to replace it", path)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// CheckSuffix validates that path carries one of the expected extensions.
func CheckSuffix(path string, exts ...string) error {
	got := filepath.Ext(path)
	for _, e := range exts {
		if got == e {
			return nil
		}
	}
	return fmt.Errorf("%s: expected extension %v, got %q", path, exts, got)
}
