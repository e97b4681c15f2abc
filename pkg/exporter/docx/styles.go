package docx

import (
	"strconv"
	"strings"

	"github.com/adrianliechti/studio/pkg/document"
)

type style struct {
	id   string
	name string

	props string
}

func headingProps(size int) string {
	return `<w:pPr><w:keepNext/><w:spacing w:before="240" w:after="120"/></w:pPr><w:rPr><w:b/><w:sz w:val="` + strconv.Itoa(size) + `"/></w:rPr>`
}

var styles = []style{
	{id: "Normal", name: "Normal", props: `<w:pPr><w:spacing w:after="160"/></w:pPr><w:rPr><w:sz w:val="22"/></w:rPr>`},
	{id: "Title", name: "Title", props: headingProps(56)},
	{id: "Subtitle", name: "Subtitle", props: `<w:pPr><w:spacing w:after="160"/></w:pPr><w:rPr><w:i/><w:sz w:val="30"/></w:rPr>`},
	{id: "Heading1", name: "heading 1", props: headingProps(32)},
	{id: "Heading2", name: "heading 2", props: headingProps(28)},
	{id: "Heading3", name: "heading 3", props: headingProps(26)},
	{id: "Heading4", name: "heading 4", props: headingProps(24)},
	{id: "Heading5", name: "heading 5", props: headingProps(22)},
	{id: "Heading6", name: "heading 6", props: headingProps(22)},
	{id: "ListBullet", name: "List Bullet", props: `<w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr>`},
	{id: "ListNumber", name: "List Number", props: `<w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr>`},
	{id: "Quote", name: "Quote", props: `<w:pPr><w:ind w:left="864" w:right="864"/></w:pPr><w:rPr><w:i/></w:rPr>`},
}

// styleID maps a block style from any source format onto one of the
// built-in style ids.
func styleID(val string) string {
	s := strings.ToLower(val)

	switch {
	case strings.Contains(s, "subtitle"):
		return "Subtitle"

	case strings.Contains(s, "title"):
		return "Title"

	case document.IsHeading(val):
		return "Heading" + strconv.Itoa(document.HeadingLevel(val))

	case document.IsListItem(val):
		if strings.Contains(s, "number") {
			return "ListNumber"
		}

		return "ListBullet"

	case strings.Contains(s, "quote"):
		return "Quote"
	}

	return "Normal"
}
