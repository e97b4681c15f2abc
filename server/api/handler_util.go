package api

import (
	"net/http"
	"strings"
)

func valueList(r *http.Request, key, fallback string) []string {
	val := r.URL.Query().Get(key)

	if val == "" {
		val = r.FormValue(key)
	}

	if strings.TrimSpace(val) == "" {
		val = fallback
	}

	var result []string

	for part := range strings.SplitSeq(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}

	return result
}

func valueFormat(r *http.Request) string {
	if val := r.URL.Query().Get("file_format"); val != "" {
		return val
	}

	if val := r.URL.Query().Get("format"); val != "" {
		return val
	}

	return "docx"
}
