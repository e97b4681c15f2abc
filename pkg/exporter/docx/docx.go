package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/adrianliechti/studio/pkg/document"
	"github.com/adrianliechti/studio/pkg/exporter"
)

var _ exporter.Provider = &Exporter{}

// Exporter writes a minimal WordprocessingML package. Paragraph styles are
// mapped onto Word's built-in styles; unknown styles become Normal.
type Exporter struct {
}

func New() (*Exporter, error) {
	return &Exporter{}, nil
}

func (e *Exporter) Export(ctx context.Context, w io.Writer, blocks []document.Block, options *exporter.ExportOptions) error {
	if options == nil {
		options = new(exporter.ExportOptions)
	}

	archive := zip.NewWriter(w)

	parts := []struct {
		name string
		data func(io.Writer) error
	}{
		{"[Content_Types].xml", writeString(contentTypesXML)},
		{"_rels/.rels", writeString(relsXML)},
		{"word/_rels/document.xml.rels", writeString(documentRelsXML)},
		{"word/styles.xml", writeStyles},
		{"word/document.xml", func(w io.Writer) error {
			return writeDocument(ctx, w, blocks)
		}},
	}

	for _, p := range parts {
		f, err := archive.Create(p.name)

		if err != nil {
			return err
		}

		if err := p.data(f); err != nil {
			return fmt.Errorf("failed to write %s: %w", p.name, err)
		}
	}

	return archive.Close()
}

func writeDocument(ctx context.Context, w io.Writer, blocks []document.Block) error {
	var sb strings.Builder

	sb.WriteString(xml.Header)
	sb.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	for _, b := range blocks {
		if err := ctx.Err(); err != nil {
			return err
		}

		sb.WriteString(`<w:p>`)

		if id := styleID(b.Style); id != "Normal" {
			sb.WriteString(`<w:pPr><w:pStyle w:val="` + id + `"/></w:pPr>`)
		}

		sb.WriteString(`<w:r>`)

		for i, line := range strings.Split(document.Clean(b.Text), "\n") {
			if i > 0 {
				sb.WriteString(`<w:br/>`)
			}

			sb.WriteString(`<w:t xml:space="preserve">`)
			xml.EscapeText(&sb, []byte(line))
			sb.WriteString(`</w:t>`)
		}

		sb.WriteString(`</w:r></w:p>`)
	}

	sb.WriteString(`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440"/></w:sectPr>`)
	sb.WriteString(`</w:body></w:document>`)

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeStyles(w io.Writer) error {
	var sb strings.Builder

	sb.WriteString(xml.Header)
	sb.WriteString(`<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`)

	for _, s := range styles {
		sb.WriteString(`<w:style w:type="paragraph" w:styleId="` + s.id + `"`)

		if s.id == "Normal" {
			sb.WriteString(` w:default="1"`)
		}

		sb.WriteString(`><w:name w:val="` + s.name + `"/>`)

		if s.id != "Normal" {
			sb.WriteString(`<w:basedOn w:val="Normal"/>`)
		}

		if s.props != "" {
			sb.WriteString(s.props)
		}

		sb.WriteString(`</w:style>`)
	}

	sb.WriteString(`</w:styles>`)

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeString(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

const contentTypesXML = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`</Types>`

const relsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const documentRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`</Relationships>`
