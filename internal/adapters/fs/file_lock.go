package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const (
	lockRetryDelay = 10 * time.Millisecond
	lockTimeout    = 10 * time.Second
)

// ErrLocked is returned when another process holds a data file lock for
// longer than the lock timeout.
var ErrLocked = errors.New("data file is locked by another process")

// FileLock guards a data file shared by several coop processes with an
// advisory lock on <path>.lock.
type FileLock struct {
	// mu serialises callers within this process; a held flock.Flock reports
	// success to a second caller instead of blocking.
	mu      sync.Mutex
	lock    *flock.Flock
	timeout time.Duration
}

// NewFileLock returns the lock for the data file at path
func NewFileLock(path string) *FileLock {
	return &FileLock{lock: flock.New(path + ".lock"), timeout: lockTimeout}
}

// Path returns the lock file location
func (l *FileLock) Path() string {
	return l.lock.Path()
}

// Shared runs fn while holding the lock in shared mode
func (l *FileLock) Shared(ctx context.Context, fn func() error) error {
	return l.do(ctx, false, fn)
}

// Exclusive runs fn while holding the lock in exclusive mode
func (l *FileLock) Exclusive(ctx context.Context, fn func() error) error {
	return l.do(ctx, true, fn)
}

func (l *FileLock) do(ctx context.Context, exclusive bool, fn func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	lockCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	var (
		ok  bool
		err error
	)
	if exclusive {
		ok, err = l.lock.TryLockContext(lockCtx, lockRetryDelay)
	} else {
		ok, err = l.lock.TryRLockContext(lockCtx, lockRetryDelay)
	}
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, context.DeadlineExceeded), err == nil && !ok:
		return fmt.Errorf("%w: %s", ErrLocked, l.lock.Path())
	case err != nil:
		return fmt.Errorf("failed to lock %s: %w", l.lock.Path(), err)
	}
	defer func() { _ = l.lock.Unlock() }()

	return fn()
}

// WriteFileAtomic writes data to a temp file next to path and renames it
// into place, so readers never see a partial file.
func WriteFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
