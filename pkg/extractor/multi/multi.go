package multi

import (
	"context"
	"errors"

	"github.com/adrianliechti/studio/pkg/extractor"
)

var _ extractor.Provider = &Extractor{}

// Extractor asks each provider in turn and returns the first result. Only
// ErrUnsupported moves on to the next provider; any other error is final.
type Extractor struct {
	providers []extractor.Provider
}

func New(provider ...extractor.Provider) *Extractor {
	return &Extractor{
		providers: provider,
	}
}

func (e *Extractor) Extract(ctx context.Context, file extractor.File, options *extractor.ExtractOptions) (*extractor.Document, error) {
	if options == nil {
		options = new(extractor.ExtractOptions)
	}

	for _, p := range e.providers {
		result, err := p.Extract(ctx, file, options)

		if err != nil {
			if errors.Is(err, extractor.ErrUnsupported) {
				continue
			}

			return nil, err
		}

		return result, nil
	}

	return nil, extractor.ErrUnsupported
}
