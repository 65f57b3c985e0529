package service

import "sync"

// OwnerLocker hands out one mutex per owner. Structural mutations on an
// owner's data (create, move, delete, quota commit) run under that mutex;
// reads take no lock. There is no cross-owner coordination.
//
// Lock entries are never reclaimed: one mutex per owner ever seen is a
// bounded, tiny footprint.
type OwnerLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewOwnerLocker creates an empty lock registry. All services mutating one
// namespace must share a single instance.
func NewOwnerLocker() *OwnerLocker {
	return &OwnerLocker{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the owner's mutex and returns the unlock function:
//
//	defer locks.Lock(ownerID)()
func (l *OwnerLocker) Lock(ownerID string) func() {
	l.mu.Lock()
	m, ok := l.locks[ownerID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[ownerID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
