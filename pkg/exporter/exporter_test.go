package exporter_test

import (
	"testing"

	"github.com/adrianliechti/studio/pkg/exporter"

	"github.com/stretchr/testify/require"
)

func TestContentType(t *testing.T) {
	require.Equal(t, "application/pdf", exporter.ContentType("pdf"))
	require.Equal(t, "application/epub+zip", exporter.ContentType("EPUB"))
	require.Equal(t, "application/octet-stream", exporter.ContentType("odt"))
}
