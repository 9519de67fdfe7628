package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwarner/learnlog/internal/database"
	"github.com/mwarner/learnlog/internal/services"
	"github.com/mwarner/learnlog/internal/store"
)

func TestSafeNext(t *testing.T) {
	assert.True(t, SafeNext("/entries"))
	assert.True(t, SafeNext("/entries/some-slug"))
	assert.False(t, SafeNext(""))
	assert.False(t, SafeNext("https://evil.example.com/"))
	assert.False(t, SafeNext("//evil.example.com/"))
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("protected handler reached without a user")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/entries", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?next=%2Fentries", rec.Header().Get("Location"))
}

func TestRequireAuthKeepsQueryInNext(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("protected handler reached without a user")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/entries?page=2", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?next=%2Fentries%3Fpage%3D2", rec.Header().Get("Location"))
}

const testCookie = "learnlog_session"

func sessionRequest(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/entries", nil)
	r.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	return r
}

func TestCurrentUserInvalidatesStaleSession(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	journal := store.New(db)
	sessions := services.NewSessionStore()

	// Session bound to a user id that has no row behind it.
	token, err := sessions.Create(uuid.New())
	require.NoError(t, err)

	var sawUser bool
	handler := CurrentUser(sessions, journal, testCookie, zerolog.Nop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, sawUser = UserFrom(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest(token))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, sawUser)
	_, ok := sessions.Validate(token)
	assert.False(t, ok, "stale session should be invalidated")
}

func TestCurrentUserStoreFailureIs500(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	journal := store.New(db)
	sessions := services.NewSessionStore()

	user, err := journal.CreateUser(context.Background(), "testuser", "test@example.com", "hash")
	require.NoError(t, err)
	token, err := sessions.Create(user.ID)
	require.NoError(t, err)

	// Force a non-NotFound store error for the lookup.
	require.NoError(t, db.Close())

	handler := CurrentUser(sessions, journal, testCookie, zerolog.Nop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler reached despite store failure")
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest(token))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// The session survives; the user was not silently logged out.
	_, ok := sessions.Validate(token)
	assert.True(t, ok)
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}
