package otel

import (
	"context"

	"github.com/adrianliechti/studio/pkg/translator"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

type Translator interface {
	Observable
	translator.Provider
}

type observableTranslator struct {
	model    string
	provider string

	translator translator.Provider
}

func NewTranslator(provider, model string, p translator.Provider) Translator {
	return &observableTranslator{
		translator: p,

		model:    model,
		provider: provider,
	}
}

func (p *observableTranslator) otelSetup() {
}

func (p *observableTranslator) Translate(ctx context.Context, text string, options *translator.TranslateOptions) (string, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "translate "+p.model)
	defer span.End()

	if options != nil {
		span.SetAttributes(String("translation.language", options.Language))
	}

	span.SetAttributes(
		String("translation.provider", p.provider),
		Int("translation.input_length", len(text)),
	)

	result, err := p.translator.Translate(ctx, text, options)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return result, err
}
