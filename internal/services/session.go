package services

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionDuration is 7 days.
const SessionDuration = 7 * 24 * time.Hour

type session struct {
	userID    uuid.UUID
	expiresAt time.Time
	flashes   []string
}

// SessionStore keeps login sessions in process memory, keyed by an opaque
// token. A user has at most one live session: creating a new one invalidates
// the previous one so the expiry timer always restarts at login. Expired
// sessions are evicted lazily on access.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	byUser   map[uuid.UUID]string
	now      func() time.Time
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session),
		byUser:   make(map[uuid.UUID]string),
		now:      time.Now,
	}
}

// Create issues a session for a user and returns the token. Any existing
// session for the same user is invalidated first.
func (s *SessionStore) Create(userID uuid.UUID) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.byUser[userID]; ok {
		delete(s.sessions, old)
	}
	s.sessions[token] = &session{
		userID:    userID,
		expiresAt: s.now().Add(SessionDuration),
	}
	s.byUser[userID] = token
	return token, nil
}

// Validate reports whether a token is a live session and for which user.
func (s *SessionStore) Validate(token string) (uuid.UUID, bool) {
	if token == "" {
		return uuid.Nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return uuid.Nil, false
	}
	if s.now().After(sess.expiresAt) {
		s.evict(token, sess.userID)
		return uuid.Nil, false
	}
	return sess.userID, true
}

// Invalidate destroys a session. Idempotent: an unknown or already-destroyed
// token is a no-op.
func (s *SessionStore) Invalidate(token string) {
	if token == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[token]; ok {
		s.evict(token, sess.userID)
	}
}

// InvalidateUser destroys the user's session, if any. Used when credentials
// change.
func (s *SessionStore) InvalidateUser(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token, ok := s.byUser[userID]; ok {
		s.evict(token, userID)
	}
}

// Flash queues a one-shot notice on the session, shown on the next page the
// user renders.
func (s *SessionStore) Flash(token, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[token]; ok {
		sess.flashes = append(sess.flashes, message)
	}
}

// TakeFlashes returns and clears the session's queued notices.
func (s *SessionStore) TakeFlashes(token string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok || len(sess.flashes) == 0 {
		return nil
	}
	flashes := sess.flashes
	sess.flashes = nil
	return flashes
}

// evict removes a session; callers hold the lock.
func (s *SessionStore) evict(token string, userID uuid.UUID) {
	delete(s.sessions, token)
	if s.byUser[userID] == token {
		delete(s.byUser, userID)
	}
}
