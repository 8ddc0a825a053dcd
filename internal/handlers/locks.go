package handlers

import (
	"sync"

	"github.com/google/uuid"
)

// sessionLocks serializes load-move-save cycles per session. Entries are
// dropped once no request holds or waits on them.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[uuid.UUID]*sessionLock)}
}

// Lock blocks until the caller owns id and returns the matching unlock.
func (l *sessionLocks) Lock(id uuid.UUID) func() {
	l.mu.Lock()
	lock, ok := l.locks[id]
	if !ok {
		lock = &sessionLock{}
		l.locks[id] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *sessionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
