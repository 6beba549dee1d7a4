package domain

import "context"

// RunLocker serializes attribution runs. TryLock returns ErrRunInProgress
// when another run holds the lock.
type RunLocker interface {
	TryLock(ctx context.Context) (unlock func(), err error)
}
