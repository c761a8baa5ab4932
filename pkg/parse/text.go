package parse

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	spacesRe        = regexp.MustCompile(`\p{Z}+`)
	formatControlRe = regexp.MustCompile(`\p{Cf}+`)
	urlRe           = regexp.MustCompile(`https?://[^\s<>"']+`)
)

func TrimText(text string) string {
	text = spacesRe.ReplaceAllString(text, " ")
	text = formatControlRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// TextToHTML renders a plain text as HTML: the text is escaped, line breaks
// are converted to <br/> and bare URLs become links.
func TextToHTML(text string) string {
	lines := strings.Split(text, "\n")
	if size := len(lines); size != 0 && lines[size-1] == "" {
		lines = lines[:size-1]
	}

	var result strings.Builder
	for _, line := range lines {
		writeHTMLLine(&result, line)
		result.WriteString("<br/>\n")
	}
	return result.String()
}

func writeHTMLLine(result *strings.Builder, line string) {
	position := 0

	for _, match := range urlRe.FindAllStringIndex(line, -1) {
		start, end := match[0], match[1]

		// Trailing punctuation is much more likely to be a part of the
		// sentence than of the URL.
		link := strings.TrimRight(line[start:end], `.,;:!?)`)

		result.WriteString(html.EscapeString(line[position:start]))

		escapedLink := html.EscapeString(link)
		fmt.Fprintf(result, `<a href="%s">%s</a>`, escapedLink, escapedLink)

		position = start + len(link)
	}

	result.WriteString(html.EscapeString(line[position:]))
}
