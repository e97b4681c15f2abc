package api

import (
	"fmt"
	"net/http"

	"github.com/adrianliechti/studio/pkg/studio"
)

const (
	defaultLanguages = "spanish"
	defaultFormats   = "docx,pdf,epub"
)

func (h *Handler) handleTranslate(w http.ResponseWriter, r *http.Request) {
	languages := valueList(r, "languages", defaultLanguages)
	formats := valueList(r, "formats", defaultFormats)

	file, header, err := r.FormFile("file")

	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing file: %w", err))
		return
	}

	defer file.Close()

	req := studio.SubmitRequest{
		File: studio.File{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),

			Reader: file,
		},

		Languages: languages,
		Formats:   formats,
	}

	j, err := h.studio.Submit(r.Context(), req)

	if err != nil {
		writeStudioError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)

	writeJson(w, TranslateResponse{
		JobID: j.ID,
	})
}
