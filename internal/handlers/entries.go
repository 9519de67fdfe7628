package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mwarner/learnlog/internal/forms"
	"github.com/mwarner/learnlog/internal/middleware"
	"github.com/mwarner/learnlog/internal/models"
	"github.com/mwarner/learnlog/internal/render"
	"github.com/mwarner/learnlog/internal/store"
)

// ListEntries shows the current user's entries, most recent learning date
// first.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	entries, err := h.Store.EntriesByUser(r.Context(), user.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	p := h.newPage(r, "Entries")
	p.Entries = entries
	h.render(w, r, http.StatusOK, "entries", p)
}

// EntryDetail shows one entry by slug. Serves both /entries/<slug> and its
// /details/<slug> alias.
func (h *Handler) EntryDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	entry, err := h.Store.EntryBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}

	p := h.newPage(r, entry.Title)
	p.Entry = entry
	h.render(w, r, http.StatusOK, "detail", p)
}

// EntryFormPage shows the authoring form: blank for /entry, pre-populated
// from the existing entry for /entries/edit/<slug>. Create and edit share
// this handler; the slug decides which mode it is in.
func (h *Handler) EntryFormPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		p := h.newPage(r, "New Entry")
		p.Form = forms.EntryForm{}
		h.render(w, r, http.StatusOK, "entry_form", p)
		return
	}

	entry, err := h.Store.EntryBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}

	p := h.newPage(r, "Edit Entry")
	p.Form = prefill(entry)
	p.Editing = true
	h.render(w, r, http.StatusOK, "entry_form", p)
}

// SaveEntry handles the authoring form submission for both modes. Invalid
// submissions re-render with the submitted values and field errors; a title
// collision is surfaced the same way. On success the entry and all of its
// tag associations are committed together and the user returns to the list.
func (h *Handler) SaveEntry(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	editing := slug != ""
	user, _ := middleware.UserFrom(r.Context())

	if err := r.ParseForm(); err != nil {
		h.serverError(w, r, err)
		return
	}

	form, fieldErrs := forms.DecodeEntry(r.PostForm)
	if fieldErrs != nil {
		h.renderEntryForm(w, r, form, fieldErrs, editing)
		return
	}

	var err error
	if editing {
		changes := store.EntryChanges{
			Title:        form.Title,
			LearningDate: form.LearningDateOrNow(time.Now()),
			TimeSpent:    form.TimeSpentMinutes(),
			WhatLearned:  form.WhatLearned,
			Resources:    form.Resources,
		}
		_, err = h.Store.UpdateEntry(r.Context(), slug, changes, form.TagList())
	} else {
		_, err = h.Store.CreateEntry(r.Context(), store.NewEntry{
			Title:        form.Title,
			LearningDate: form.LearningDateOrNow(time.Now()),
			TimeSpent:    form.TimeSpentMinutes(),
			WhatLearned:  form.WhatLearned,
			Resources:    form.Resources,
			UserID:       user.ID,
		}, form.TagList())
	}

	switch {
	case errors.Is(err, store.ErrDuplicateTitle):
		h.renderEntryForm(w, r, form, map[string]string{"title": err.Error()}, editing)
		return
	case errors.Is(err, store.ErrNotFound):
		h.NotFound(w, r)
		return
	case err != nil:
		h.serverError(w, r, err)
		return
	}

	if token := middleware.TokenFrom(r.Context()); token != "" {
		if editing {
			h.Sessions.Flash(token, "Entry updated")
		} else {
			h.Sessions.Flash(token, "Entry published")
		}
	}
	http.Redirect(w, r, "/entries", http.StatusSeeOther)
}

// DeleteEntry removes an entry and its tag associations, then returns to
// the list. A store failure here is fatal for the request: logged at error
// level and answered with the generic 500.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	err := h.Store.DeleteEntry(r.Context(), slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		h.Log.Error().Err(err).Str("slug", slug).Msg("entry deletion failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if token := middleware.TokenFrom(r.Context()); token != "" {
		h.Sessions.Flash(token, "Entry deleted")
	}
	http.Redirect(w, r, "/entries", http.StatusSeeOther)
}

func (h *Handler) renderEntryForm(w http.ResponseWriter, r *http.Request, form forms.EntryForm, fieldErrs map[string]string, editing bool) {
	title := "New Entry"
	if editing {
		title = "Edit Entry"
	}
	p := h.newPage(r, title)
	p.Form = form
	p.Errors = fieldErrs
	p.Editing = editing
	h.render(w, r, http.StatusOK, "entry_form", p)
}

// prefill builds the edit form from an entry's stored values, including the
// space-joined current tag names.
func prefill(entry *models.JournalEntry) forms.EntryForm {
	return forms.EntryForm{
		Title:        entry.Title,
		LearningDate: entry.LearningDate.Format("2006-01-02"),
		TimeSpent:    strconv.Itoa(entry.TimeSpent),
		WhatLearned:  entry.WhatLearned,
		Resources:    entry.Resources,
		Tags:         render.JoinTags(entry.Tags),
	}
}
