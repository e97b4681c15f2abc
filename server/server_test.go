package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adrianliechti/studio/pkg/job"
	"github.com/adrianliechti/studio/pkg/pipeline"
	"github.com/adrianliechti/studio/pkg/storage"
	"github.com/adrianliechti/studio/pkg/studio"

	"github.com/adrianliechti/studio/pkg/auth/static"

	"github.com/stretchr/testify/require"
)

type discardScheduler struct{}

func (discardScheduler) Submit(task pipeline.Task) error {
	return nil
}

func newTestServer(t *testing.T, options ...Option) *httptest.Server {
	files, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	s, err := studio.New(job.NewStore(), files, discardScheduler{}, studio.WithFormats([]string{"txt"}))
	require.NoError(t, err)

	srv, err := New(":0", s, options...)
	require.NoError(t, err)

	server := httptest.NewServer(srv)
	t.Cleanup(server.Close)

	return server
}

func TestHealth(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuth(t *testing.T) {
	authorizer, err := static.New("secret")
	require.NoError(t, err)

	server := newTestServer(t, WithAuthorizers(authorizer))

	resp, err := http.Get(server.URL + "/api/formats")
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, _ := http.NewRequest("GET", server.URL+"/api/formats", nil)
	req.Header.Set("Authorization", "Bearer secret")

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	server := newTestServer(t)

	req, _ := http.NewRequest("OPTIONS", server.URL+"/api/translate", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
