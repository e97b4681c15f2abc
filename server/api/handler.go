package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adrianliechti/studio/pkg/job"
	"github.com/adrianliechti/studio/pkg/storage"
	"github.com/adrianliechti/studio/pkg/studio"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	studio *studio.Studio
}

func New(s *studio.Studio) (*Handler, error) {
	if s == nil {
		return nil, errors.New("missing studio")
	}

	h := &Handler{
		studio: s,
	}

	return h, nil
}

func (h *Handler) Attach(r chi.Router) {
	r.Post("/translate", h.handleTranslate)

	r.Get("/status/{id}", h.handleStatus)
	r.Get("/download/{id}/{language}", h.handleDownload)

	r.Get("/languages", h.handleLanguages)
	r.Get("/formats", h.handleFormats)
}

func writeJson(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.WriteHeader(code)

	text := http.StatusText(code)

	if err != nil {
		text = err.Error()
	}

	w.Write([]byte(text))
}

// writeStudioError maps core errors onto status codes.
func writeStudioError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, studio.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err)

	case errors.Is(err, job.ErrNotFound):
		writeError(w, http.StatusNotFound, err)

	case errors.Is(err, studio.ErrNotReady):
		writeError(w, http.StatusNotFound, errors.New("file not ready"))

	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, errors.New("file not found"))

	case errors.Is(err, studio.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, err)

	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}
