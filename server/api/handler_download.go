package api

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/adrianliechti/studio/pkg/exporter"
	"github.com/adrianliechti/studio/pkg/language"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	lang := chi.URLParam(r, "language")

	format := strings.ToLower(strings.TrimSpace(valueFormat(r)))

	obj, err := h.studio.Artifact(id, lang, format)

	if err != nil {
		writeStudioError(w, err)
		return
	}

	j, err := h.studio.Job(id)

	if err != nil {
		writeStudioError(w, err)
		return
	}

	rc, err := h.studio.Open(obj)

	if err != nil {
		writeStudioError(w, err)
		return
	}

	defer rc.Close()

	name := downloadName(lang, j.Filename, format)

	w.Header().Set("Content-Type", exporter.ContentType(format))
	w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

	if _, err := io.Copy(w, rc); err != nil {
		slog.WarnContext(r.Context(), "failed to send artifact", "job", id, "error", err)
	}
}

// downloadName builds "<Language>_<original stem>.<format>".
func downloadName(lang, filename, format string) string {
	if l, ok := language.Lookup(lang); ok {
		lang = l.Name
	}

	stem := strings.TrimSuffix(path.Base(filename), path.Ext(filename))

	if stem == "" || stem == "." || stem == "/" {
		stem = "document"
	}

	return language.Title(lang) + "_" + stem + "." + format
}
