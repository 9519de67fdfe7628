package handlers

import (
	"errors"
	"net/http"

	"github.com/mwarner/learnlog/internal/auth"
	"github.com/mwarner/learnlog/internal/forms"
	"github.com/mwarner/learnlog/internal/middleware"
	"github.com/mwarner/learnlog/internal/services"
)

// LoginPage shows the login form. Already-authenticated users go straight
// to their entries.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserFrom(r.Context()); ok {
		http.Redirect(w, r, "/entries", http.StatusSeeOther)
		return
	}

	p := h.newPage(r, "Log in")
	p.Form = forms.LoginForm{}
	p.Next = safeNext(r)
	h.render(w, r, http.StatusOK, "login", p)
}

// Login handles credential submission. Validation failures and bad
// credentials re-render the form with the submitted username intact; the
// bad-credential message is identical for unknown users and wrong
// passwords.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.serverError(w, r, err)
		return
	}

	form, fieldErrs := forms.DecodeLogin(r.PostForm)
	if fieldErrs != nil {
		p := h.newPage(r, "Log in")
		p.Form = form
		p.Errors = fieldErrs
		p.Next = safeNext(r)
		h.render(w, r, http.StatusOK, "login", p)
		return
	}

	token, _, err := h.Auth.Authenticate(r.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			p := h.newPage(r, "Log in")
			p.Form = form
			p.Errors = map[string]string{"form": err.Error()}
			p.Next = safeNext(r)
			h.render(w, r, http.StatusOK, "login", p)
			return
		}
		h.serverError(w, r, err)
		return
	}

	h.setSessionCookie(w, token)
	h.Sessions.Flash(token, "You've been logged in!")

	target := "/entries"
	if next := safeNext(r); next != "" {
		target = next
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Logout destroys the session and returns to the login view. Idempotent:
// logging out twice is harmless.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.TokenFrom(r.Context()); token != "" {
		h.Auth.Logout(token)
	}
	h.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.Cfg.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(services.SessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   h.Cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.Cfg.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

// safeNext returns the next query parameter when it is a same-site path.
func safeNext(r *http.Request) string {
	next := r.URL.Query().Get("next")
	if middleware.SafeNext(next) {
		return next
	}
	return ""
}
