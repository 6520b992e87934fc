// Package filelock guards the output tree against concurrent sorting runs
// from separate processes.
package filelock

import (
	"fmt"

	"github.com/gofrs/flock"
)

// RunLock wraps a flock file lock coordinating access to an output root.
// The lock file lives next to the output root (<output>.lock) so acquiring
// it never creates the output tree itself.
type RunLock struct {
	flock *flock.Flock
	path  string
}

// NewRunLock creates a run lock for the given output root.
func NewRunLock(outputRoot string) *RunLock {
	path := outputRoot + ".lock"
	return &RunLock{
		flock: flock.New(path),
		path:  path,
	}
}

// Path returns the location of the lock file.
func (rl *RunLock) Path() string {
	return rl.path
}

// TryLock attempts to acquire an exclusive lock without blocking.
// Returns true if the lock was acquired, false if another run holds it.
func (rl *RunLock) TryLock() (bool, error) {
	acquired, err := rl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", rl.path, err)
	}
	return acquired, nil
}

// Lock acquires an exclusive lock, blocking until it is available.
func (rl *RunLock) Lock() error {
	if err := rl.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", rl.path, err)
	}
	return nil
}

// Unlock releases the lock.
func (rl *RunLock) Unlock() error {
	if err := rl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", rl.path, err)
	}
	return nil
}
