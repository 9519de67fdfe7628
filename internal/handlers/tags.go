package handlers

import "net/http"

// ListTags shows every known tag, including ones no entry references
// anymore.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.Store.AllTags(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	p := h.newPage(r, "Tags")
	p.Tags = tags
	h.render(w, r, http.StatusOK, "tags", p)
}
