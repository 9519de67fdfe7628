package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/mwarner/learnlog/internal/handlers"
	"github.com/mwarner/learnlog/internal/middleware"
)

// SetupRoutes registers the journal's HTTP surface.
func SetupRoutes(r chi.Router, h *handlers.Handler) {
	// Login entry point
	r.Get("/", h.LoginPage)
	r.Post("/", h.Login)
	r.Get("/logout", h.Logout)

	// Everything below requires a session; anonymous requests are
	// redirected to the login view.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/entries", h.ListEntries)
		r.Get("/entries/{slug}", h.EntryDetail)
		// Intentional alias for the detail view.
		r.Get("/details/{slug}", h.EntryDetail)

		// Create (no slug) and edit (slug) share one handler pair.
		r.Get("/entry", h.EntryFormPage)
		r.Post("/entry", h.SaveEntry)
		r.Get("/entries/edit/{slug}", h.EntryFormPage)
		r.Post("/entries/edit/{slug}", h.SaveEntry)

		// POST is the preferred verb for deletion; GET is kept for
		// compatibility with the original URL scheme.
		r.Post("/entries/delete/{slug}", h.DeleteEntry)
		r.Get("/entries/delete/{slug}", h.DeleteEntry)

		r.Get("/tags", h.ListTags)
	})

	// Unknown routes get the rendered 404 page.
	r.NotFound(h.NotFound)
}
