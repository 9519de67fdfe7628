package auth_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwarner/learnlog/internal/auth"
	"github.com/mwarner/learnlog/internal/config"
	"github.com/mwarner/learnlog/internal/database"
	"github.com/mwarner/learnlog/internal/services"
	"github.com/mwarner/learnlog/internal/store"
)

func newTestService(t *testing.T) (*auth.Service, *store.Journal, *services.SessionStore) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	journal := store.New(db)
	sessions := services.NewSessionStore()
	return auth.NewService(journal, sessions, zerolog.Nop()), journal, sessions
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _, sessions := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "testuser", "test@example.com", "password")
	require.NoError(t, err)
	assert.Equal(t, "testuser", user.Username)
	assert.NotEqual(t, "password", user.Password)

	token, got, err := svc.Authenticate(ctx, "testuser", "password")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	sessionUser, ok := sessions.Validate(token)
	require.True(t, ok)
	assert.Equal(t, user.ID, sessionUser)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "testuser", "test@example.com", "password")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "testuser", "other@example.com", "password")
	assert.ErrorIs(t, err, store.ErrDuplicateUser)
}

func TestRegisterRejectsBadUsername(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), "x", "x@example.com", "password")
	assert.Error(t, err)
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "testuser", "test@example.com", "password")
	require.NoError(t, err)

	_, _, wrongPassword := svc.Authenticate(ctx, "testuser", "wrong")
	_, _, unknownUser := svc.Authenticate(ctx, "nosuchuser", "password")

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.ErrorIs(t, wrongPassword, auth.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, auth.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, _, sessions := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "testuser", "test@example.com", "password")
	require.NoError(t, err)
	token, _, err := svc.Authenticate(ctx, "testuser", "password")
	require.NoError(t, err)

	svc.Logout(token)
	_, ok := sessions.Validate(token)
	assert.False(t, ok)

	svc.Logout(token)
}

func TestSeedCreatesInitialUserOnce(t *testing.T) {
	svc, journal, _ := newTestService(t)
	ctx := context.Background()
	cfg := &config.Config{
		SeedUsername: "testuser",
		SeedEmail:    "test@example.com",
		SeedPassword: "password",
	}

	require.NoError(t, svc.Seed(ctx, cfg))
	n, err := journal.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// Second run is a no-op: the store already has a user.
	require.NoError(t, svc.Seed(ctx, cfg))
	n, err = journal.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestSeedSkippedWithoutCredentials(t *testing.T) {
	svc, journal, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Seed(ctx, &config.Config{}))
	n, err := journal.CountUsers(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
