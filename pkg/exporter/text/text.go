package text

import (
	"bufio"
	"context"
	"io"

	"github.com/adrianliechti/studio/pkg/document"
	"github.com/adrianliechti/studio/pkg/exporter"
)

var _ exporter.Provider = &Exporter{}

// Exporter writes blocks as plain text separated by blank lines.
type Exporter struct {
}

func New() (*Exporter, error) {
	return &Exporter{}, nil
}

func (e *Exporter) Export(ctx context.Context, w io.Writer, blocks []document.Block, options *exporter.ExportOptions) error {
	bw := bufio.NewWriter(w)

	for i, b := range blocks {
		if i > 0 {
			bw.WriteString("\n")
		}

		bw.WriteString(document.Clean(b.Text))
		bw.WriteString("\n")
	}

	return bw.Flush()
}
