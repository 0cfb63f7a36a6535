package health

import "sync"

// animalLocks serializes writes per animal. Entries are dropped once no
// writer holds or waits on them.
type animalLocks struct {
	mu    sync.Mutex
	locks map[string]*animalLock
}

type animalLock struct {
	mu      sync.Mutex
	waiters int
}

func newAnimalLocks() *animalLocks {
	return &animalLocks{locks: make(map[string]*animalLock)}
}

// lock blocks until the caller owns animalID and returns the release func.
func (l *animalLocks) lock(animalID string) func() {
	l.mu.Lock()
	entry, ok := l.locks[animalID]
	if !ok {
		entry = &animalLock{}
		l.locks[animalID] = entry
	}
	entry.waiters++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.waiters--
		if entry.waiters == 0 {
			delete(l.locks, animalID)
		}
		l.mu.Unlock()
	}
}

func (l *animalLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
