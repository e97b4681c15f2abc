package document_test

import (
	"testing"

	"github.com/adrianliechti/studio/pkg/document"

	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace", " \t\n ", ""},
		{"trim", "  hello world  ", "hello world"},
		{"control", "hel\x00lo\x07", "hello"},
		{"keeps inner whitespace", "a\tb\nc", "a\tb\nc"},
		{"unicode", "  नमस्ते दुनिया ", "नमस्ते दुनिया"},
		{"zero width", "a\u200bb", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, document.Clean(tt.input))
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"  \x01 text \x02 ",
		" leading nbsp",
		"Heading\r\n",
		"日本語のテキスト\x1b[0m",
	}

	for _, input := range inputs {
		once := document.Clean(input)
		require.Equal(t, once, document.Clean(once), "input %q", input)
	}
}

func TestNewBlock(t *testing.T) {
	b := document.NewBlock("  \x00  ", "")
	require.Equal(t, "", b.Text)
	require.Equal(t, document.StyleNormal, b.Style)
	require.True(t, b.Empty())

	b = document.NewBlock(" Chapter 1 ", "Heading1")
	require.Equal(t, "Chapter 1", b.Text)
	require.Equal(t, "Heading1", b.Style)

	translated := b.WithText(" Capítulo 1 ")
	require.Equal(t, "Capítulo 1", translated.Text)
	require.Equal(t, "Heading1", translated.Style)
	require.Equal(t, "Chapter 1", b.Text)
}

func TestHeadingLevel(t *testing.T) {
	require.Equal(t, 1, document.HeadingLevel("Heading1"))
	require.Equal(t, 2, document.HeadingLevel("Heading 2"))
	require.Equal(t, 3, document.HeadingLevel("h3"))
	require.Equal(t, 1, document.HeadingLevel("Title"))
	require.Equal(t, 0, document.HeadingLevel("Normal"))
	require.Equal(t, 0, document.HeadingLevel("li"))

	require.True(t, document.IsListItem("li"))
	require.True(t, document.IsListItem("ListParagraph"))
	require.False(t, document.IsListItem("Normal"))
}
