package otel

import (
	"context"
	"io"

	"github.com/adrianliechti/studio/pkg/document"
	"github.com/adrianliechti/studio/pkg/exporter"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

type Exporter interface {
	Observable
	exporter.Provider
}

type observableExporter struct {
	format string

	exporter exporter.Provider
}

func NewExporter(format string, p exporter.Provider) Exporter {
	return &observableExporter{
		exporter: p,

		format: format,
	}
}

func (p *observableExporter) otelSetup() {
}

func (p *observableExporter) Export(ctx context.Context, w io.Writer, blocks []document.Block, options *exporter.ExportOptions) error {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "export "+p.format)
	defer span.End()

	span.SetAttributes(Int("document.blocks", len(blocks)))

	err := p.exporter.Export(ctx, w, blocks, options)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}
