// Package format turns raw chat text into display markup.
package format

import (
	"regexp"
	"strings"
)

const linkMarkup = `<a href="$1" target="_blank" rel="noopener noreferrer">Visit Link</a>`

var (
	escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

	linkPattern = regexp.MustCompile(`(https?://\S+)`)
	boldPattern = regexp.MustCompile(`\*\*(.*?)\*\*`)
)

// Text escapes raw and then applies link, bold and line-break markup.
// Escaping runs first so that the injected tags survive intact.
func Text(raw string) string {
	s := escaper.Replace(raw)
	s = linkPattern.ReplaceAllString(s, linkMarkup)
	s = boldPattern.ReplaceAllString(s, "<strong>$1</strong>")
	return strings.ReplaceAll(s, "\n", "<br>")
}
