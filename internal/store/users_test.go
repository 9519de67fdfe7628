package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwarner/learnlog/internal/store"
)

func TestCreateUserDuplicate(t *testing.T) {
	j := newTestStore(t)
	ctx := context.Background()

	_, err := j.CreateUser(ctx, "alex", "alex@example.com", "hash")
	require.NoError(t, err)

	_, err = j.CreateUser(ctx, "alex", "different@example.com", "hash")
	assert.ErrorIs(t, err, store.ErrDuplicateUser)

	_, err = j.CreateUser(ctx, "different", "alex@example.com", "hash")
	assert.ErrorIs(t, err, store.ErrDuplicateUser)

	// Failed inserts left no partial records behind.
	n, err := j.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestUserByUsernameNormalizes(t *testing.T) {
	j := newTestStore(t)
	ctx := context.Background()

	created, err := j.CreateUser(ctx, "Alex", "alex@example.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, "alex", created.Username)

	got, err := j.UserByUsername(ctx, "  ALEX ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = j.UserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
