package llm

import (
	"regexp"
	"strings"
)

var (
	fenceOpen = regexp.MustCompile("```(?:\\w+)?\\n?")

	prefixes = []*regexp.Regexp{
		regexp.MustCompile(`(?im)^here is the translation:?\s*`),
		regexp.MustCompile(`(?im)^translation:?\s*`),
		regexp.MustCompile(`(?im)^output:?\s*`),
		regexp.MustCompile(`(?im)^sure, here is the translation.*?:?\s*`),
		regexp.MustCompile(`(?im)^the translated text is:?\s*`),
		regexp.MustCompile(`(?im)^translated text:?\s*`),
	}

	notes = []string{
		"note:",
		"(note",
		"translator's note",
		"literally:",
		"explanation:",
	}
)

// cleanOutput strips chat artifacts models tend to add around a translation:
// code fences, lead-in phrases, trailing notes and wrapping quotes.
func cleanOutput(text string) string {
	if text == "" {
		return ""
	}

	text = fenceOpen.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.Trim(text, "` \n")

	for _, p := range prefixes {
		text = p.ReplaceAllString(text, "")
	}

	var lines []string

	for line := range strings.SplitSeq(text, "\n") {
		l := strings.ToLower(strings.TrimSpace(line))

		if hasNotePrefix(l) {
			break
		}

		lines = append(lines, line)
	}

	text = strings.TrimSpace(strings.Join(lines, "\n"))
	text = strings.Trim(text, `"`)
	text = strings.Trim(text, `'`)

	return text
}

func hasNotePrefix(line string) bool {
	for _, n := range notes {
		if strings.HasPrefix(line, n) {
			return true
		}
	}

	return false
}
