package markdown

import (
	"context"
	"fmt"
	"strings"

	"github.com/adrianliechti/studio/pkg/document"
	"github.com/adrianliechti/studio/pkg/extractor"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var _ extractor.Provider = &Extractor{}

var SupportedExtensions = []string{
	".md",
	".markdown",
}

var SupportedMimeTypes = []string{
	"text/markdown",
	"text/x-markdown",
}

// Extractor turns markdown headings, paragraphs, list items and quotes into
// styled blocks. Code blocks are left out.
type Extractor struct {
	md goldmark.Markdown
}

func New() (*Extractor, error) {
	return &Extractor{
		md: goldmark.New(),
	}, nil
}

func (e *Extractor) Extract(ctx context.Context, file extractor.File, options *extractor.ExtractOptions) (*extractor.Document, error) {
	if options == nil {
		options = new(extractor.ExtractOptions)
	}

	if !extractor.Supported(file, SupportedExtensions, SupportedMimeTypes) {
		return nil, extractor.ErrUnsupported
	}

	source := file.Content
	root := e.md.Parser().Parse(text.NewReader(source))

	result := &extractor.Document{}

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := n.(type) {
		case *ast.Heading:
			result.Append(inlineText(n, source), fmt.Sprintf("Heading%d", n.Level))
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph, *ast.TextBlock:
			result.Append(inlineText(n, source), blockStyle(n))
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.ThematicBreak:
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

func blockStyle(n ast.Node) string {
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch p.(type) {
		case *ast.ListItem:
			return "ListBullet"

		case *ast.Blockquote:
			return "Quote"
		}
	}

	return document.StyleNormal
}

func inlineText(n ast.Node, source []byte) string {
	var sb strings.Builder

	ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := n.(type) {
		case *ast.Text:
			sb.Write(n.Segment.Value(source))

			if n.SoftLineBreak() || n.HardLineBreak() {
				sb.WriteString(" ")
			}

		case *ast.String:
			sb.Write(n.Value)

		case *ast.AutoLink:
			sb.Write(n.Label(source))
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	return sb.String()
}
