package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/adrianliechti/studio/pkg/extractor"
)

var _ extractor.Provider = &Extractor{}

var SupportedExtensions = []string{
	".docx",
}

var SupportedMimeTypes = []string{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Extractor reads the paragraphs of a WordprocessingML package together
// with the display name of their paragraph style.
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

	archive, err := zip.NewReader(bytes.NewReader(file.Content), int64(len(file.Content)))

	if err != nil {
		return nil, fmt.Errorf("invalid docx file: %w", err)
	}

	styles := map[string]string{}

	if f := findFile(archive, "word/styles.xml"); f != nil {
		if s, err := readStyles(f); err == nil {
			styles = s
		}
	}

	body := findFile(archive, "word/document.xml")

	if body == nil {
		return nil, errors.New("invalid docx file: missing word/document.xml")
	}

	r, err := body.Open()

	if err != nil {
		return nil, err
	}

	defer r.Close()

	return readDocument(r, styles)
}

func findFile(archive *zip.Reader, name string) *zip.File {
	for _, f := range archive.File {
		if strings.EqualFold(f.Name, name) {
			return f
		}
	}

	return nil
}

func attr(e xml.StartElement, name string) string {
	for _, a := range e.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}

	return ""
}

func readDocument(r io.Reader, styles map[string]string) (*extractor.Document, error) {
	result := &extractor.Document{}

	decoder := xml.NewDecoder(r)

	var (
		depth int
		style string

		inText bool
		text   strings.Builder
	)

	for {
		token, err := decoder.Token()

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("invalid docx file: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				if depth == 0 {
					style = ""
					text.Reset()
				}

				depth++

			case "pStyle":
				if id := attr(t, "val"); id != "" {
					style = id

					if name, ok := styles[id]; ok {
						style = name
					}
				}

			case "t":
				inText = true

			case "tab":
				text.WriteString("\t")

			case "br", "cr":
				text.WriteString("\n")
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false

			case "p":
				depth--

				if depth == 0 {
					result.Append(text.String(), style)
				}
			}

		case xml.CharData:
			if inText && depth > 0 {
				text.Write(t)
			}
		}
	}

	return result, nil
}

func readStyles(f *zip.File) (map[string]string, error) {
	r, err := f.Open()

	if err != nil {
		return nil, err
	}

	defer r.Close()

	type styleType struct {
		ID   string `xml:"styleId,attr"`
		Name struct {
			Val string `xml:"val,attr"`
		} `xml:"name"`
	}

	var doc struct {
		Styles []styleType `xml:"style"`
	}

	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}

	result := make(map[string]string, len(doc.Styles))

	for _, s := range doc.Styles {
		if s.ID == "" || s.Name.Val == "" {
			continue
		}

		result[s.ID] = displayName(s.Name.Val)
	}

	return result, nil
}

// displayName maps the lower case built-in names Word stores ("heading 1")
// to the names it shows ("Heading 1").
func displayName(name string) string {
	if name == "" {
		return name
	}

	return strings.ToUpper(name[:1]) + name[1:]
}
