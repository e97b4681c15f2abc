package api

import (
	"net/http"

	"github.com/adrianliechti/studio/pkg/language"
)

func (h *Handler) handleLanguages(w http.ResponseWriter, r *http.Request) {
	result := LanguagesResponse{
		Languages: []Language{},
	}

	for _, name := range h.studio.Languages() {
		l, ok := language.Lookup(name)

		if !ok {
			continue
		}

		result.Languages = append(result.Languages, Language{
			Name: l.Name,
			Code: l.Code,

			Title: language.Title(l.Name),
		})
	}

	writeJson(w, result)
}

func (h *Handler) handleFormats(w http.ResponseWriter, r *http.Request) {
	writeJson(w, FormatsResponse{
		Inputs:  h.studio.Extensions(),
		Outputs: h.studio.Formats(),
	})
}
