package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	j, err := h.studio.Job(id)

	if err != nil {
		writeStudioError(w, err)
		return
	}

	writeJson(w, toStatus(j))
}
