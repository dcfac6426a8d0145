package service

import "sync"

// WorkerLocks serializes work per worker id. Entries are dropped once no
// goroutine holds or waits for them.
type WorkerLocks struct {
	mu    sync.Mutex
	locks map[string]*workerLock
}

type workerLock struct {
	mu   sync.Mutex
	refs int
}

// NewWorkerLocks constructs an empty lock table.
func NewWorkerLocks() *WorkerLocks {
	return &WorkerLocks{locks: make(map[string]*workerLock)}
}

// Lock blocks until the worker's lock is held and returns its release func.
func (l *WorkerLocks) Lock(workerID string) func() {
	l.mu.Lock()
	entry, ok := l.locks[workerID]
	if !ok {
		entry = &workerLock{}
		l.locks[workerID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, workerID)
		}
		l.mu.Unlock()
	}
}

func (l *WorkerLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
