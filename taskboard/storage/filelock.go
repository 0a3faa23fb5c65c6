package storage

import (
	"context"
	"time"

	"github.com/gofrs/flock"
)

// Locker guards the store file against writers in other processes.
// *flock.Flock satisfies it directly.
type Locker interface {
	TryLockContext(ctx context.Context, retryDelay time.Duration) (bool, error)
	Unlock() error
}

// LockFunc returns the Locker for a sidecar lock file
type LockFunc func(lockPath string) Locker

func flockLocker(lockPath string) Locker {
	return flock.New(lockPath)
}
