// Package locks contains the process-wide lock guarding environment variable writes.
package locks

import (
	"sync"
	"sync/atomic"
)

// EnvLock returns the lock acquired when writing environment variables in a way
// that is not safe for concurrent access. It is created on first use and shared
// by every caller in the process.
//
// Callers outside this module should not use it directly: envlock.Lock pairs
// acquisition with capture and restoration of the touched variables.
var EnvLock = sync.OnceValue(func() *Lock { //nolint:gochecknoglobals
	return new(Lock)
})

// Lock is a mutex that remembers whether its last holder gave it up abnormally.
//
// A sync.Mutex cannot be poisoned, so a holder unwinding through a panic reports
// it with Abandon. The next Acquire clears that state and tells the caller, which
// proceeds normally: the abandoning holder has already restored what it touched.
type Lock struct {
	mu       sync.Mutex
	poisoned atomic.Bool
}

// Acquire blocks until the lock is free. It reports whether the previous holder
// released it through Abandon.
func (lock *Lock) Acquire() (recovered bool) {
	lock.mu.Lock()

	return lock.poisoned.Swap(false)
}

// Release unlocks after a normal exit from the critical section.
func (lock *Lock) Release() {
	lock.mu.Unlock()
}

// Abandon marks the lock poisoned and unlocks it.
func (lock *Lock) Abandon() {
	lock.poisoned.Store(true)
	lock.mu.Unlock()
}

// TryAcquire acquires the lock only if it is free right now.
func (lock *Lock) TryAcquire() (acquired, recovered bool) {
	if !lock.mu.TryLock() {
		return false, false
	}

	return true, lock.poisoned.Swap(false)
}
