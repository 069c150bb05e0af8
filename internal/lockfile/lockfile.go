package lockfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrLocked is returned by TryAcquire when another process holds the lock.
var ErrLocked = errors.New("lock held by another process")

// LockFile is an advisory lock on a file. The OS releases it if the
// process dies, so there is no stale-PID handling.
type LockFile struct {
	fl *flock.Flock
}

// TryAcquire takes the lock at path without waiting.
func TryAcquire(path string) (*LockFile, error) {
	fl, err := newFlock(path)
	if err != nil {
		return nil, err
	}
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	return &LockFile{fl: fl}, nil
}

// Acquire waits for the lock at path until ctx is done.
func Acquire(ctx context.Context, path string) (*LockFile, error) {
	fl, err := newFlock(path)
	if err != nil {
		return nil, err
	}
	ok, err := fl.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	return &LockFile{fl: fl}, nil
}

func newFlock(path string) (*flock.Flock, error) {
	if path == "" {
		return nil, errors.New("lock path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock dir: %w", err)
	}
	return flock.New(path), nil
}

// Release unlocks. The lock file itself is left in place.
func (l *LockFile) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}

// Path returns the path to the lock file
func (l *LockFile) Path() string {
	return l.fl.Path()
}
