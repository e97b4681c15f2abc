package document

import (
	"strings"
	"unicode"
)

const StyleNormal = "Normal"

// Block is one styled paragraph or segment of a document. The style is
// carried through translation and export but never interpreted by the
// pipeline itself.
type Block struct {
	Text  string
	Style string
}

func NewBlock(text, style string) Block {
	if style == "" {
		style = StyleNormal
	}

	return Block{
		Text:  Clean(text),
		Style: style,
	}
}

func (b Block) Empty() bool {
	return b.Text == ""
}

// WithText returns a copy of the block carrying the given text and the
// original style.
func (b Block) WithText(text string) Block {
	return Block{
		Text:  Clean(text),
		Style: b.Style,
	}
}

// Clean drops non-printable runes (whitespace is kept) and trims the result.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	text = strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			return r
		}

		return -1
	}, text)

	return strings.TrimSpace(text)
}

// IsHeading reports whether a style tag names a heading or title.
func IsHeading(style string) bool {
	s := strings.ToLower(style)

	if strings.Contains(s, "heading") || strings.Contains(s, "title") {
		return true
	}

	return len(s) == 2 && s[0] == 'h' && s[1] >= '1' && s[1] <= '6'
}

// HeadingLevel returns the heading level of a style tag, or 0 when the
// style is not a heading.
func HeadingLevel(style string) int {
	if !IsHeading(style) {
		return 0
	}

	s := strings.ToLower(style)

	if strings.Contains(s, "title") {
		return 1
	}

	for i := len(s) - 1; i >= 0; i-- {
		if s[i] >= '1' && s[i] <= '6' {
			return int(s[i] - '0')
		}
	}

	return 1
}

// IsListItem reports whether a style tag names a list entry.
func IsListItem(style string) bool {
	s := strings.ToLower(style)
	return s == "li" || strings.Contains(s, "list")
}
