package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/adrianliechti/studio/pkg/document"
	"github.com/adrianliechti/studio/pkg/extractor"

	"github.com/ledongthuc/pdf"
)

var _ extractor.Provider = &Extractor{}

var SupportedExtensions = []string{
	".pdf",
}

var SupportedMimeTypes = []string{
	"application/pdf",
}

// lines of this length or shorter are page numbers, headers and other noise
const minLineLength = 3

// Extractor reads the text layer of a PDF, one block per line. Scanned
// documents without a text layer yield an empty document.
type Extractor struct {
}

func New() (*Extractor, error) {
	return &Extractor{}, nil
}

func (e *Extractor) Extract(ctx context.Context, file extractor.File, options *extractor.ExtractOptions) (result *extractor.Document, err error) {
	if options == nil {
		options = new(extractor.ExtractOptions)
	}

	if !extractor.Supported(file, SupportedExtensions, SupportedMimeTypes) {
		return nil, extractor.ErrUnsupported
	}

	// the reader panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("invalid pdf file: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(file.Content), int64(len(file.Content)))

	if err != nil {
		return nil, fmt.Errorf("invalid pdf file: %w", err)
	}

	result = &extractor.Document{}

	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)

		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)

		if err != nil {
			return nil, fmt.Errorf("unable to read page %d: %w", i, err)
		}

		for _, line := range strings.Split(text, "\n") {
			if len(strings.TrimSpace(line)) <= minLineLength {
				continue
			}

			result.Append(line, document.StyleNormal)
		}
	}

	return result, nil
}
