package service

import (
	"sync"
	"time"

	"smart-job-bot/internal/model"
)

// Step is the position inside the onboarding dialogue. Steps advance
// strictly forward; only the salary step can be skipped.
type Step int

const (
	StepRole Step = iota
	StepLevel
	StepFormat
	StepLocation
	StepSalary
	StepResume
	StepConsent
)

// Admin action markers, mutually exclusive with onboarding.
const (
	AdminActionBroadcast  = "broadcast"
	AdminActionAddVacancy = "add_vacancy"
)

// Session holds the in-flight dialogue state for one user: either an
// onboarding draft with the current step, or a pending admin action.
// It lives only until the dialogue finishes or expires.
type Session struct {
	Step        Step
	Draft       model.UserProfile
	AdminAction string
	updatedAt   time.Time
}

// SessionStore keeps sessions keyed by user id. Entries expire lazily
// after the TTL; a restart of the dialogue replaces the entry outright.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	ttl      time.Duration
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
	}
}

// Get returns the live session for the user, dropping it first if the
// TTL has passed.
func (s *SessionStore) Get(telegramID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[telegramID]
	if !ok {
		return nil
	}
	if s.ttl > 0 && time.Since(sess.updatedAt) > s.ttl {
		delete(s.sessions, telegramID)
		return nil
	}
	return sess
}

func (s *SessionStore) Put(telegramID int64, sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.updatedAt = time.Now()
	s.sessions[telegramID] = sess
}

// Touch refreshes the TTL after a step completes.
func (s *SessionStore) Touch(telegramID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[telegramID]; ok {
		sess.updatedAt = time.Now()
	}
}

func (s *SessionStore) Delete(telegramID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, telegramID)
}
