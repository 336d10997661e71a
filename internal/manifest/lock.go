package manifest

import (
	"fmt"
	"os"

	"github.com/akerscore/aucs/internal/contracts"
)

// RunLock is an exclusive filesystem lock on an output directory, so
// concurrent runs against the same directory are rejected (spec §5:
// "one run at a time per output directory via a filesystem lock").
type RunLock struct {
	path string
	file *os.File
}

// Acquire creates dir/.lock exclusively, failing with
// contracts.ErrLockConflict if another run already holds it.
func Acquire(dir string) (*RunLock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("manifest: ensure run dir: %w", err)
	}
	path := dir + "/.lock"
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, contracts.ErrLockConflict
		}
		return nil, fmt.Errorf("manifest: acquire lock: %w", err)
	}
	return &RunLock{path: path, file: f}, nil
}

// Release removes the lock file. Safe to call once per successful Acquire.
func (l *RunLock) Release() error {
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("manifest: close lock: %w", err)
	}
	return os.Remove(l.path)
}
