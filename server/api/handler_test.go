package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/adrianliechti/studio/pkg/exporter"
	"github.com/adrianliechti/studio/pkg/job"
	"github.com/adrianliechti/studio/pkg/pipeline"
	"github.com/adrianliechti/studio/pkg/scheduler"
	"github.com/adrianliechti/studio/pkg/storage"
	"github.com/adrianliechti/studio/pkg/studio"
	"github.com/adrianliechti/studio/pkg/translator"

	textexporter "github.com/adrianliechti/studio/pkg/exporter/text"
	textextractor "github.com/adrianliechti/studio/pkg/extractor/text"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type upperTranslator struct{}

func (upperTranslator) Translate(ctx context.Context, text string, options *translator.TranslateOptions) (string, error) {
	return strings.ToUpper(text), nil
}

func newServer(t *testing.T, run bool) *httptest.Server {
	files, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	store := job.NewStore()

	extractor, err := textextractor.New()
	require.NoError(t, err)

	txt, err := textexporter.New()
	require.NoError(t, err)

	engine, err := pipeline.New(store, files, extractor, upperTranslator{}, map[string]exporter.Provider{
		"txt": txt,
	})

	require.NoError(t, err)

	sched := scheduler.New(engine)

	if run {
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan struct{})

		go func() {
			sched.Run(ctx)
			close(done)
		}()

		t.Cleanup(func() {
			cancel()
			<-done
		})
	}

	s, err := studio.New(store, files, sched, studio.WithFormats(engine.Formats()))
	require.NoError(t, err)

	h, err := New(s)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/api", h.Attach)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return server
}

func postFile(t *testing.T, url, name, content string) *http.Response {
	var body bytes.Buffer

	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)

	_, err = io.WriteString(fw, content)
	require.NoError(t, err)

	require.NoError(t, mw.Close())

	resp, err := http.Post(url, mw.FormDataContentType(), &body)
	require.NoError(t, err)

	return resp
}

func getStatus(t *testing.T, url string) (int, StatusResponse) {
	resp, err := http.Get(url)
	require.NoError(t, err)

	defer resp.Body.Close()

	var status StatusResponse

	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	}

	return resp.StatusCode, status
}

func TestTranslateAndDownload(t *testing.T) {
	server := newServer(t, true)

	resp := postFile(t, server.URL+"/api/translate?languages=German,es&formats=txt", "notes.txt", "hello\n\nworld")
	defer resp.Body.Close()

	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var result TranslateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.NotEmpty(t, result.JobID)

	var status StatusResponse

	require.Eventually(t, func() bool {
		code, s := getStatus(t, server.URL+"/api/status/"+result.JobID)
		status = s

		return code == http.StatusOK && s.Complete
	}, 5*time.Second, 10*time.Millisecond)

	require.Equal(t, "Completed", status.Status)
	require.Equal(t, 100, status.Progress)
	require.False(t, status.Error)
	require.Equal(t, []string{"German", "Spanish"}, status.Languages)

	download, err := http.Get(server.URL + "/api/download/" + result.JobID + "/german?file_format=txt")
	require.NoError(t, err)

	defer download.Body.Close()

	require.Equal(t, http.StatusOK, download.StatusCode)
	require.Equal(t, "text/plain; charset=utf-8", download.Header.Get("Content-Type"))
	require.Equal(t, `attachment; filename=German_notes.txt`, download.Header.Get("Content-Disposition"))
	require.Equal(t, "Content-Disposition", download.Header.Get("Access-Control-Expose-Headers"))

	data, err := io.ReadAll(download.Body)
	require.NoError(t, err)
	require.Equal(t, "HELLO\n\nWORLD\n", string(data))

	missing, err := http.Get(server.URL + "/api/download/" + result.JobID + "/french?file_format=txt")
	require.NoError(t, err)
	missing.Body.Close()

	require.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestTranslateInvalidInput(t *testing.T) {
	server := newServer(t, false)

	tests := []string{
		"/api/translate?languages=spanish&formats=txt",
		"/api/translate?languages=klingon&formats=txt",
		"/api/translate?languages=spanish&formats=docx",
	}

	names := []string{"slides.pptx", "notes.txt", "notes.txt"}

	for i, path := range tests {
		resp := postFile(t, server.URL+path, names[i], "hello")
		resp.Body.Close()

		require.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}

	resp, err := http.Post(server.URL+"/api/translate", "text/plain", strings.NewReader("hello"))
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatusNotFound(t *testing.T) {
	server := newServer(t, false)

	code, _ := getStatus(t, server.URL+"/api/status/missing")
	require.Equal(t, http.StatusNotFound, code)
}

func TestDownloadNotReady(t *testing.T) {
	server := newServer(t, false)

	resp := postFile(t, server.URL+"/api/translate?languages=spanish&formats=txt", "notes.txt", "hello")
	defer resp.Body.Close()

	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var result TranslateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	code, status := getStatus(t, server.URL+"/api/status/"+result.JobID)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Queued", status.Status)
	require.Zero(t, status.Progress)

	download, err := http.Get(server.URL + "/api/download/" + result.JobID + "/spanish?file_format=txt")
	require.NoError(t, err)
	download.Body.Close()

	require.Equal(t, http.StatusNotFound, download.StatusCode)
}

func TestLanguagesAndFormats(t *testing.T) {
	server := newServer(t, false)

	resp, err := http.Get(server.URL + "/api/languages")
	require.NoError(t, err)

	var languages LanguagesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&languages))
	resp.Body.Close()

	require.Len(t, languages.Languages, 10)
	require.Equal(t, Language{Name: "spanish", Code: "es", Title: "Spanish"}, languages.Languages[0])

	resp, err = http.Get(server.URL + "/api/formats")
	require.NoError(t, err)

	var formats FormatsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&formats))
	resp.Body.Close()

	require.Equal(t, []string{"txt"}, formats.Outputs)
	require.Contains(t, formats.Inputs, ".docx")
}

func TestDownloadName(t *testing.T) {
	require.Equal(t, "Spanish_report.pdf", downloadName("es", "report.docx", "pdf"))
	require.Equal(t, "German_my.notes.txt", downloadName("German", "my.notes.md", "txt"))
}
