package adapters

import (
	flock "github.com/theckman/go-flock"

	"depcore/internal/ports"
	"depcore/internal/shared"
)

var _ ports.MutationLockPort = (*MutationLock)(nil)

// MutationLock serializes the mutating solver commands (pool rebuild,
// cache write, transaction apply) across processes sharing one cache
// directory, via a single advisory lockfile. No pack repo's own code
// calls theckman/go-flock directly (it only arrives as a transitive
// vendor entry in golang-dep's tree) but its documented API — a
// sync.Locker plus a non-blocking TryLock — is exactly the shape a
// CLI needs to refuse a second concurrent "solve --write-cache"
// invocation instead of corrupting the bbolt file underneath it.
type MutationLock struct {
	f *flock.Flock
}

// NewMutationLock creates a lock bound to path without acquiring it.
func NewMutationLock(path string) *MutationLock {
	return &MutationLock{f: flock.NewFlock(path)}
}

// TryLock attempts to acquire the lock without blocking, returning
// false (no error) if another process already holds it.
func (l *MutationLock) TryLock() (bool, error) {
	ok, err := l.f.TryLock()
	if err != nil {
		return false, shared.WrapInternal("adapters", "acquiring mutation lock", err)
	}
	return ok, nil
}

// Unlock releases the lock. Safe to call even if TryLock last
// returned false.
func (l *MutationLock) Unlock() error {
	if !l.f.Locked() {
		return nil
	}
	if err := l.f.Unlock(); err != nil {
		return shared.WrapInternal("adapters", "releasing mutation lock", err)
	}
	return nil
}
