package epub

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"sort"
	"strings"

	"github.com/adrianliechti/studio/pkg/extractor"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var _ extractor.Provider = &Extractor{}

var SupportedExtensions = []string{
	".epub",
}

var SupportedMimeTypes = []string{
	"application/epub+zip",
}

var blockTags = []atom.Atom{
	atom.P,
	atom.H1,
	atom.H2,
	atom.H3,
	atom.H4,
	atom.Li,
}

// Extractor walks the spine of an EPUB and returns paragraphs, headings and
// list items, styled with their tag name.
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
		return nil, fmt.Errorf("invalid epub file: %w", err)
	}

	files := map[string]*zip.File{}

	for _, f := range archive.File {
		files[f.Name] = f
	}

	chapters, err := readSpine(files)

	if err != nil {
		chapters = listDocuments(files)
	}

	if len(chapters) == 0 {
		return nil, errors.New("invalid epub file: no content documents")
	}

	result := &extractor.Document{}

	for _, name := range chapters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		f, ok := files[name]

		if !ok {
			continue
		}

		if err := readChapter(f, result); err != nil {
			return nil, fmt.Errorf("invalid epub chapter %s: %w", name, err)
		}
	}

	return result, nil
}

func readChapter(f *zip.File, result *extractor.Document) error {
	r, err := f.Open()

	if err != nil {
		return err
	}

	defer r.Close()

	root, err := html.Parse(r)

	if err != nil {
		return err
	}

	var walk func(n *html.Node)

	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && slices.Contains(blockTags, n.DataAtom) {
			result.Append(nodeText(n), n.Data)
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(root)

	return nil
}

func nodeText(n *html.Node) string {
	var sb strings.Builder

	var walk func(n *html.Node)

	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)

		case html.ElementNode:
			if n.DataAtom == atom.Br {
				sb.WriteString("\n")
			}

			if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)

	return strings.Join(strings.Fields(sb.String()), " ")
}

func readXML(f *zip.File, v any) error {
	r, err := f.Open()

	if err != nil {
		return err
	}

	defer r.Close()

	data, err := io.ReadAll(r)

	if err != nil {
		return err
	}

	return xml.Unmarshal(data, v)
}

// readSpine resolves the reading order through META-INF/container.xml and
// the package document.
func readSpine(files map[string]*zip.File) ([]string, error) {
	container, ok := files["META-INF/container.xml"]

	if !ok {
		return nil, errors.New("missing container")
	}

	var c struct {
		Rootfiles []struct {
			Path string `xml:"full-path,attr"`
		} `xml:"rootfiles>rootfile"`
	}

	if err := readXML(container, &c); err != nil {
		return nil, err
	}

	if len(c.Rootfiles) == 0 {
		return nil, errors.New("missing rootfile")
	}

	opfPath := c.Rootfiles[0].Path
	opf, ok := files[opfPath]

	if !ok {
		return nil, errors.New("missing package document")
	}

	var pkg struct {
		Items []struct {
			ID        string `xml:"id,attr"`
			Href      string `xml:"href,attr"`
			MediaType string `xml:"media-type,attr"`
		} `xml:"manifest>item"`

		Spine []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"spine>itemref"`
	}

	if err := readXML(opf, &pkg); err != nil {
		return nil, err
	}

	base := path.Dir(opfPath)

	hrefs := map[string]string{}

	for _, item := range pkg.Items {
		if !strings.Contains(item.MediaType, "html") {
			continue
		}

		hrefs[item.ID] = path.Join(base, item.Href)
	}

	var result []string

	for _, ref := range pkg.Spine {
		if href, ok := hrefs[ref.IDRef]; ok {
			result = append(result, href)
		}
	}

	if len(result) == 0 {
		return nil, errors.New("empty spine")
	}

	return result, nil
}

func listDocuments(files map[string]*zip.File) []string {
	var result []string

	for name := range files {
		ext := strings.ToLower(path.Ext(name))

		if ext == ".xhtml" || ext == ".html" || ext == ".htm" {
			result = append(result, name)
		}
	}

	sort.Strings(result)

	return result
}
