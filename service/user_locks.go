package service

import "sync"

// UserLocks serializes balance-mutating operations per Discord user inside this process.
// The database guards still apply; the lock keeps a read-modify-write sequence
// from interleaving with another one for the same player.
type UserLocks struct {
	mu    sync.Mutex
	locks map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewUserLocks creates an empty lock table
func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[int64]*userLock)}
}

// Lock blocks until the user's lock is held and returns the function that releases it
func (l *UserLocks) Lock(discordID int64) func() {
	l.mu.Lock()
	ul, ok := l.locks[discordID]
	if !ok {
		ul = &userLock{}
		l.locks[discordID] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.mu.Lock()

	return func() {
		ul.mu.Unlock()

		l.mu.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(l.locks, discordID)
		}
		l.mu.Unlock()
	}
}

// size is the number of users with a held or awaited lock
func (l *UserLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
