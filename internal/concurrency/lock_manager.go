package concurrency

import (
	"sync"
)

// LockManager hands out one mutex per key. Progression updates for a user
// are serialized on that user's lock.
//
// A key's mutex lives only while some caller holds or waits for it, so the
// manager does not grow with the number of distinct keys ever seen.
type LockManager struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{locks: make(map[string]*keyLock)}
}

// WithLock runs fn while holding the lock for key.
func (lm *LockManager) WithLock(key string, fn func() error) error {
	l := lm.acquire(key)
	l.mu.Lock()
	defer lm.release(key, l)
	return fn()
}

// Len returns the number of keys currently locked or waited on.
func (lm *LockManager) Len() int {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return len(lm.locks)
}

func (lm *LockManager) acquire(key string) *keyLock {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	l, ok := lm.locks[key]
	if !ok {
		l = &keyLock{}
		lm.locks[key] = l
	}
	l.refs++
	return l
}

func (lm *LockManager) release(key string, l *keyLock) {
	l.mu.Unlock()

	lm.mu.Lock()
	defer lm.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(lm.locks, key)
	}
}
