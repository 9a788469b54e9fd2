package terminal

import (
	"html"
	"regexp"
	"strings"
)

var (
	// URLs never contain spaces but may contain quotes
	linkTag   = regexp.MustCompile(`<a href="(\S*?)" target="_blank" rel="noopener noreferrer">(.*?)</a>`)
	strongTag = regexp.MustCompile(`<strong>(.*?)</strong>`)
)

// toANSI converts formatter markup into styled terminal text. Links become
// OSC 8 hyperlinks that keep their label.
func toANSI(markup string, st Styles) string {
	s := strings.ReplaceAll(markup, "<br>", "\n")

	s = linkTag.ReplaceAllStringFunc(s, func(m string) string {
		parts := linkTag.FindStringSubmatch(m)
		url := strings.ReplaceAll(html.UnescapeString(parts[1]), `"`, "%22")
		return "\x1b]8;;" + url + "\x1b\\" + st.Link.Render(parts[2]) + "\x1b]8;;\x1b\\"
	})

	s = strongTag.ReplaceAllStringFunc(s, func(m string) string {
		return st.Bold.Render(strongTag.FindStringSubmatch(m)[1])
	})

	return html.UnescapeString(s)
}
