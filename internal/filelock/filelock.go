// Package filelock serializes store-mutating VCS driver operations across
// concurrent test processes sharing one object-store data directory, via a
// single exclusive advisory lock file.
package filelock

import (
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

// Guard holds an acquired lock for the duration of one store-mutating
// operation. Release is idempotent and safe to defer immediately after a
// successful Acquire.
type Guard struct {
	fl *flock.Flock
}

// Acquire blocks until the exclusive advisory lock on
// <dataDir>/xtest-data.lock is held by this process. The lock file is
// created lazily by whichever process arrives first.
func Acquire(dataDir string) (*Guard, error) {
	path := filepath.Join(dataDir, "xtest-data.lock")
	fl := flock.New(path)
	if err := fl.Lock(); err != nil {
		return nil, errors.Wrapf(err, "acquiring advisory lock %s", path)
	}
	return &Guard{fl: fl}, nil
}

// Release unlocks the guard. If unlocking itself fails there is no safe
// way to guarantee another process won't deadlock waiting on a lock file
// we can no longer account for, so we abort rather than limp on.
func (g *Guard) Release() {
	if g == nil || g.fl == nil {
		return
	}
	if err := g.fl.Unlock(); err != nil {
		panic(errors.Wrap(err, "releasing advisory lock: refusing to continue with an unknown lock state"))
	}
}

// WithLock runs fn while holding the exclusive lock on dataDir, guaranteeing
// release on every exit path including a panic unwinding through fn.
func WithLock(dataDir string, fn func() error) error {
	guard, err := Acquire(dataDir)
	if err != nil {
		return err
	}
	defer guard.Release()
	return fn()
}
