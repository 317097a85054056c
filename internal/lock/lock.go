// Package lock serializes metatilectl processes working on the same project.
//
// The lock is an advisory lock on a sidecar file next to the project
// (route1.json -> route1.json.lock). It is released when the process exits.
package lock

import (
	"errors"
	"fmt"
	"os"
)

// Suffix is appended to the project path to form the lock file path.
const Suffix = ".lock"

// ErrLocked is returned when another process holds the lock.
var ErrLocked = errors.New("lock: project is locked by another process")

// Lock is a held project lock.
type Lock struct {
	path string
	f    *os.File
}

// Acquire takes the lock for the project at path without blocking.
// Returns an error wrapping ErrLocked when it is already held.
func Acquire(path string) (*Lock, error) {
	lp := path + Suffix
	f, err := os.OpenFile(lp, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := lockFile(f); err != nil {
		f.Close()
		if errors.Is(err, ErrLocked) {
			return nil, fmt.Errorf("%s: %w", path, ErrLocked)
		}
		return nil, fmt.Errorf("lock %s: %w", lp, err)
	}
	return &Lock{path: lp, f: f}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Release drops the lock and removes the lock file. Safe to call twice.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	f := l.f
	l.f = nil

	// Remove first: once unlocked, another process may already own the path.
	rmErr := os.Remove(l.path)
	if errors.Is(rmErr, os.ErrNotExist) {
		rmErr = nil
	}
	return errors.Join(unlockFile(f), f.Close(), rmErr)
}
