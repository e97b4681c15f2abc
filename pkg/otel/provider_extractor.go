package otel

import (
	"context"

	"github.com/adrianliechti/studio/pkg/extractor"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

type Extractor interface {
	Observable
	extractor.Provider
}

type observableExtractor struct {
	name string

	extractor extractor.Provider
}

func NewExtractor(name string, p extractor.Provider) Extractor {
	return &observableExtractor{
		extractor: p,

		name: name,
	}
}

func (p *observableExtractor) otelSetup() {
}

func (p *observableExtractor) Extract(ctx context.Context, file extractor.File, options *extractor.ExtractOptions) (*extractor.Document, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "extract "+p.name)
	defer span.End()

	span.SetAttributes(String("file.name", file.Name))

	result, err := p.extractor.Extract(ctx, file, options)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	span.SetAttributes(Int("document.blocks", len(result.Blocks)))

	return result, nil
}
