package limiter

import (
	"context"
	"io"

	"github.com/adrianliechti/studio/pkg/document"
	"github.com/adrianliechti/studio/pkg/exporter"

	"golang.org/x/time/rate"
)

type Exporter interface {
	Limiter
	exporter.Provider
}

type limitedExporter struct {
	limiter  *rate.Limiter
	provider exporter.Provider
}

func NewExporter(l *rate.Limiter, p exporter.Provider) Exporter {
	return &limitedExporter{
		limiter:  l,
		provider: p,
	}
}

func (p *limitedExporter) limiterSetup() {
}

func (p *limitedExporter) Export(ctx context.Context, w io.Writer, blocks []document.Block, options *exporter.ExportOptions) error {
	if err := wait(ctx, p.limiter); err != nil {
		return err
	}

	return p.provider.Export(ctx, w, blocks, options)
}
