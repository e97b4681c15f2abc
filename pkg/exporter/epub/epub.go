package epub

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/adrianliechti/studio/pkg/document"
	"github.com/adrianliechti/studio/pkg/exporter"
	"github.com/adrianliechti/studio/pkg/language"

	"github.com/go-shiori/go-epub"
)

var _ exporter.Provider = &Exporter{}

// Exporter writes all blocks into a single xhtml section of an EPUB book.
type Exporter struct {
}

func New() (*Exporter, error) {
	return &Exporter{}, nil
}

func (e *Exporter) Export(ctx context.Context, w io.Writer, blocks []document.Block, options *exporter.ExportOptions) error {
	if options == nil {
		options = new(exporter.ExportOptions)
	}

	title := options.Title

	if title == "" {
		title = exporter.DefaultTitle
	}

	book, err := epub.NewEpub(title)

	if err != nil {
		return err
	}

	if options.Language != "" {
		book.SetLang(language.Code(options.Language))
	}

	body, err := renderBody(ctx, blocks)

	if err != nil {
		return err
	}

	if _, err := book.AddSection(body, "Content", "content.xhtml", ""); err != nil {
		return err
	}

	_, err = book.WriteTo(w)
	return err
}

func renderBody(ctx context.Context, blocks []document.Block) (string, error) {
	var sb strings.Builder

	for _, b := range blocks {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		tag := "p"

		if level := document.HeadingLevel(b.Style); level > 0 {
			tag = fmt.Sprintf("h%d", level)
		}

		text := html.EscapeString(document.Clean(b.Text))
		text = strings.ReplaceAll(text, "\n", "<br/>")

		sb.WriteString("<" + tag + ">" + text + "</" + tag + ">\n")
	}

	return sb.String(), nil
}
