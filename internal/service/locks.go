package service

import "sync"

// userLocks serializes units of work for the same user. Different users
// never contend with each other.
type userLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[int64]*sync.Mutex)}
}

func (l *userLocks) lock(telegramID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[telegramID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[telegramID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
