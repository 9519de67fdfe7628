package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	s := NewSessionStore()
	userID := uuid.New()

	token, err := s.Create(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, ok := s.Validate(token)
	require.True(t, ok)
	assert.Equal(t, userID, got)

	s.Invalidate(token)
	_, ok = s.Validate(token)
	assert.False(t, ok)

	// Idempotent.
	s.Invalidate(token)
}

func TestCreateInvalidatesPreviousSession(t *testing.T) {
	s := NewSessionStore()
	userID := uuid.New()

	first, err := s.Create(userID)
	require.NoError(t, err)
	second, err := s.Create(userID)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, ok := s.Validate(first)
	assert.False(t, ok)
	_, ok = s.Validate(second)
	assert.True(t, ok)
}

func TestValidateRejectsExpired(t *testing.T) {
	s := NewSessionStore()
	now := time.Now()
	s.now = func() time.Time { return now }

	token, err := s.Create(uuid.New())
	require.NoError(t, err)

	now = now.Add(SessionDuration + time.Minute)
	_, ok := s.Validate(token)
	assert.False(t, ok)

	// Expired session is evicted, not just rejected.
	s.mu.Lock()
	_, present := s.sessions[token]
	s.mu.Unlock()
	assert.False(t, present)
}

func TestValidateEmptyToken(t *testing.T) {
	s := NewSessionStore()
	_, ok := s.Validate("")
	assert.False(t, ok)
}

func TestInvalidateUser(t *testing.T) {
	s := NewSessionStore()
	userID := uuid.New()

	token, err := s.Create(userID)
	require.NoError(t, err)

	s.InvalidateUser(userID)
	_, ok := s.Validate(token)
	assert.False(t, ok)
}

func TestFlashesAreOneShot(t *testing.T) {
	s := NewSessionStore()
	token, err := s.Create(uuid.New())
	require.NoError(t, err)

	assert.Nil(t, s.TakeFlashes(token))

	s.Flash(token, "first")
	s.Flash(token, "second")
	assert.Equal(t, []string{"first", "second"}, s.TakeFlashes(token))
	assert.Nil(t, s.TakeFlashes(token))
}
