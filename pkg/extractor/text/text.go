package text

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"unicode/utf8"

	"github.com/adrianliechti/studio/pkg/document"
	"github.com/adrianliechti/studio/pkg/extractor"
)

var _ extractor.Provider = &Extractor{}

// Extractor reads plain text files; every non-blank line becomes a block.
type Extractor struct {
}

func New() (*Extractor, error) {
	return &Extractor{}, nil
}

func (e *Extractor) Extract(ctx context.Context, file extractor.File, options *extractor.ExtractOptions) (*extractor.Document, error) {
	if options == nil {
		options = new(extractor.ExtractOptions)
	}

	if !extractor.Supported(file, SupportedExtensions, SupportedMimeTypes) {
		return nil, extractor.ErrUnsupported
	}

	content := file.Content

	if !utf8.Valid(content) {
		content = bytes.ToValidUTF8(content, nil)
	}

	result := &extractor.Document{}

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			continue
		}

		result.Append(line, document.StyleNormal)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
