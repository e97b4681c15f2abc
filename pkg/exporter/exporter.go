package exporter

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/adrianliechti/studio/pkg/document"
)

type Provider interface {
	Export(ctx context.Context, w io.Writer, blocks []document.Block, options *ExportOptions) error
}

var (
	ErrUnsupported = errors.New("unsupported format")
)

type ExportOptions struct {
	// Language is the canonical name of the language the blocks are in.
	Language string

	Title string
}

const DefaultTitle = "Translated Document"

var contentTypes = map[string]string{
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"pdf":  "application/pdf",
	"epub": "application/epub+zip",
	"txt":  "text/plain; charset=utf-8",
}

// ContentType returns the MIME type of an output format.
func ContentType(format string) string {
	if val, ok := contentTypes[strings.ToLower(format)]; ok {
		return val
	}

	return "application/octet-stream"
}
