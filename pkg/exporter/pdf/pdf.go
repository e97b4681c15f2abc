package pdf

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/adrianliechti/studio/pkg/document"
	"github.com/adrianliechti/studio/pkg/exporter"
	"github.com/adrianliechti/studio/pkg/language"

	"github.com/go-pdf/fpdf"
)

var _ exporter.Provider = &Exporter{}

const (
	fontCustom   = "Custom"
	fontFallback = "Helvetica"

	sizeBody    = 11
	sizeHeading = 16
)

// Exporter renders blocks as a simple A4 PDF, headings larger than body
// text. A font per script can be configured; without one the core
// Helvetica font is used, which only covers Latin-1.
type Exporter struct {
	fonts map[language.Script]string
}

func New(options ...Option) (*Exporter, error) {
	e := &Exporter{
		fonts: map[language.Script]string{},
	}

	for _, option := range options {
		option(e)
	}

	return e, nil
}

func (e *Exporter) Export(ctx context.Context, w io.Writer, blocks []document.Block, options *exporter.ExportOptions) error {
	if options == nil {
		options = new(exporter.ExportOptions)
	}

	pdf, family := e.newDocument(ctx, options)

	translate := func(s string) string {
		return s
	}

	if family == fontFallback {
		translate = pdf.UnicodeTranslatorFromDescriptor("")
	}

	for _, b := range blocks {
		if err := ctx.Err(); err != nil {
			return err
		}

		size := float64(sizeBody)

		if document.IsHeading(b.Style) {
			size = sizeHeading
		}

		pdf.SetFont(family, "", size)
		pdf.MultiCell(0, 8, translate(document.Clean(b.Text)), "", "", false)
		pdf.Ln(2)
	}

	return pdf.Output(w)
}

func (e *Exporter) newDocument(ctx context.Context, options *exporter.ExportOptions) (*fpdf.Fpdf, string) {
	title := options.Title

	if title == "" {
		title = exporter.DefaultTitle
	}

	create := func() *fpdf.Fpdf {
		pdf := fpdf.New("P", "mm", "A4", "")
		pdf.SetTitle(title, true)
		pdf.SetAutoPageBreak(true, 15)

		return pdf
	}

	path, ok := e.fonts[language.ScriptOf(options.Language)]

	if ok {
		data, err := os.ReadFile(path)

		if err == nil {
			pdf := create()
			pdf.AddUTF8FontFromBytes(fontCustom, "", data)

			if err = pdf.Error(); err == nil {
				pdf.AddPage()
				return pdf, fontCustom
			}
		}

		slog.WarnContext(ctx, "failed to load pdf font, using fallback", "font", path, "error", err)
	}

	pdf := create()
	pdf.AddPage()

	return pdf, fontFallback
}
