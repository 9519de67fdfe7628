// Package handlers maps HTTP requests onto the store, auth and rendering
// layers. Everything a handler needs lives on Handler, constructed once at
// startup and passed by reference; there is no ambient global state.
package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mwarner/learnlog/internal/auth"
	"github.com/mwarner/learnlog/internal/config"
	"github.com/mwarner/learnlog/internal/middleware"
	"github.com/mwarner/learnlog/internal/models"
	"github.com/mwarner/learnlog/internal/render"
	"github.com/mwarner/learnlog/internal/services"
	"github.com/mwarner/learnlog/internal/store"
)

// Handler is the application context shared by all HTTP handlers.
type Handler struct {
	Store    *store.Journal
	Sessions *services.SessionStore
	Auth     *auth.Service
	Renderer *render.Renderer
	Log      zerolog.Logger
	Cfg      *config.Config
}

// New builds the handler context.
func New(journal *store.Journal, sessions *services.SessionStore, authSvc *auth.Service, renderer *render.Renderer, log zerolog.Logger, cfg *config.Config) *Handler {
	return &Handler{
		Store:    journal,
		Sessions: sessions,
		Auth:     authSvc,
		Renderer: renderer,
		Log:      log,
		Cfg:      cfg,
	}
}

// page is the data every template renders from. View-specific fields are
// filled by the handler that uses them.
type page struct {
	Title   string
	User    *models.User
	Flashes []string

	Entries []*models.JournalEntry
	Entry   *models.JournalEntry
	Tags    []*models.SubjectTag
	Form    any
	Errors  map[string]string
	Editing bool
	Next    string
}

// newPage seeds a page with the current user and any pending flash notices.
func (h *Handler) newPage(r *http.Request, title string) *page {
	user, _ := middleware.UserFrom(r.Context())
	p := &page{Title: title, User: user}
	if token := middleware.TokenFrom(r.Context()); token != "" {
		p.Flashes = h.Sessions.TakeFlashes(token)
	}
	return p
}

// NotFound renders the 404 page; used for unknown routes and missing slugs.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.Log.Warn().Str("path", r.URL.Path).Msg("not found")
	p := h.newPage(r, "Not Found")
	if err := h.Renderer.HTML(w, http.StatusNotFound, "not_found", p); err != nil {
		h.serverError(w, r, err)
	}
}

// serverError logs and answers a generic 500; the specific recoverable
// cases (duplicates, invalid credentials, missing slugs) never reach here.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.Log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// render is the common happy-path render with 500 fallback.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, p *page) {
	if err := h.Renderer.HTML(w, status, name, p); err != nil {
		h.serverError(w, r, err)
	}
}
