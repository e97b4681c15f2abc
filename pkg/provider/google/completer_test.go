package google_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adrianliechti/studio/pkg/provider"
	"github.com/adrianliechti/studio/pkg/provider/google"

	"github.com/stretchr/testify/require"
)

func TestComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-2.5-flash:generateContent"), r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"responseId": "resp-1",
			"candidates": [{"content": {"role": "model", "parts": [{"text": "Bonjour"}]}, "finishReason": "STOP"}],
			"usageMetadata": {"promptTokenCount": 7, "candidatesTokenCount": 2}
		}`))
	}))

	defer server.Close()

	c, err := google.NewCompleter("gemini-2.5-flash", google.WithToken("secret"), google.WithURL(server.URL))
	require.NoError(t, err)

	completion, err := c.Complete(context.Background(), []provider.Message{
		provider.SystemMessage("Translate to French."),
		provider.UserMessage("Hello"),
	}, nil)

	require.NoError(t, err)
	require.Equal(t, "Bonjour", completion.Message.Text())
	require.Equal(t, 7, completion.Usage.InputTokens)
	require.Equal(t, 2, completion.Usage.OutputTokens)
}
