package extractor

import (
	"context"
	"errors"
	"path"
	"slices"
	"strings"

	"github.com/adrianliechti/studio/pkg/document"
	"github.com/adrianliechti/studio/pkg/provider"
)

type Provider interface {
	Extract(ctx context.Context, file File, options *ExtractOptions) (*Document, error)
}

var (
	ErrUnsupported = errors.New("unsupported type")
)

type File = provider.File

type ExtractOptions struct {
}

// Document is the ordered sequence of styled blocks found in a file.
// Blank blocks are never part of it.
type Document struct {
	Blocks []document.Block
}

// Append cleans text and adds it as a block unless nothing is left.
func (d *Document) Append(text, style string) {
	b := document.NewBlock(text, style)

	if b.Empty() {
		return
	}

	d.Blocks = append(d.Blocks, b)
}

// Supported reports whether the file name or content type matches one of
// the given extensions or mime types.
func Supported(file File, extensions, mimeTypes []string) bool {
	if file.Name != "" {
		ext := strings.ToLower(path.Ext(file.Name))

		if slices.Contains(extensions, ext) {
			return true
		}
	}

	if file.ContentType != "" {
		contentType, _, _ := strings.Cut(file.ContentType, ";")

		if slices.Contains(mimeTypes, strings.TrimSpace(contentType)) {
			return true
		}
	}

	return false
}
