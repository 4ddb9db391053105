package session

import (
	"sync"
	"time"

	"casinobot/models"
)

// Session is the short-lived conversational state of one player.
// It only drives the UI; balances and payments live in the database.
type Session struct {
	UserID           int64
	SelectedGame     models.Game
	LastWager        int64
	PendingReference string
	PendingAmount    int64
	UpdatedAt        time.Time
}

// Store keeps sessions in memory, keyed by Discord ID
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	now      func() time.Time
}

// NewStore creates an empty session store
func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]*Session),
		now:      time.Now,
	}
}

// Get returns a copy of the user's session
func (s *Store) Get(userID int64) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[userID]
	if !ok {
		return Session{}, false
	}
	return *session, true
}

// SelectGame remembers the last game and wager for the play-again button
func (s *Store) SelectGame(userID int64, game models.Game, wager int64) {
	s.update(userID, func(session *Session) {
		session.SelectedGame = game
		session.LastWager = wager
	})
}

// SetPendingDeposit remembers the deposit the player is about to pay
func (s *Store) SetPendingDeposit(userID int64, reference string, amount int64) {
	s.update(userID, func(session *Session) {
		session.PendingReference = reference
		session.PendingAmount = amount
	})
}

// ClearPendingDeposit forgets the pending deposit once it is credited or abandoned
func (s *Store) ClearPendingDeposit(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[userID]; ok {
		session.PendingReference = ""
		session.PendingAmount = 0
		session.UpdatedAt = s.now()
	}
}

// Clear drops the whole session
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// Cleanup removes sessions idle for longer than maxAge and returns how many were removed
func (s *Store) Cleanup(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxAge)
	removed := 0
	for userID, session := range s.sessions {
		if session.UpdatedAt.Before(cutoff) {
			delete(s.sessions, userID)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) update(userID int64, fn func(session *Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		session = &Session{UserID: userID}
		s.sessions[userID] = session
	}
	fn(session)
	session.UpdatedAt = s.now()
}
