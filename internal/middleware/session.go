package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mwarner/learnlog/internal/models"
	"github.com/mwarner/learnlog/internal/services"
	"github.com/mwarner/learnlog/internal/store"
)

type ctxKey int

const (
	userKey ctxKey = iota
	tokenKey
)

// CurrentUser resolves the session cookie into the logged-in user and puts
// both the user and the raw token on the request context. Requests without
// a live session pass through anonymous; gating happens in RequireAuth.
func CurrentUser(sessions *services.SessionStore, journal *store.Journal, cookieName string, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			userID, ok := sessions.Validate(cookie.Value)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := journal.UserByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					// Session outlived the user row; treat as logged out.
					sessions.Invalidate(cookie.Value)
					next.ServeHTTP(w, r)
					return
				}
				// A store failure must not masquerade as a logout.
				log.Error().Err(err).Msg("session user lookup failed")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			ctx = context.WithValue(ctx, tokenKey, cookie.Value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth redirects unauthenticated requests to the login view, carrying
// the originally requested URL, query string included, in the next
// parameter.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFrom(r.Context()); !ok {
			http.Redirect(w, r, "/?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFrom returns the logged-in user placed on the context by CurrentUser.
func UserFrom(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

// TokenFrom returns the session token for the current request, or "".
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// SafeNext reports whether a next parameter is a same-site path a login
// redirect may follow.
func SafeNext(next string) bool {
	return strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//")
}
