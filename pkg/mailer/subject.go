package mailer

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// subjectMarker captures the content of <meta name="subject" content="...">.
	subjectMarker = regexp.MustCompile(`(?is)<meta\s+[^>]*name\s*=\s*['"]subject['"][^>]*content\s*=\s*['"](.*?)['"][^>]*/?>`)

	// subjectTag matches the whole subject meta element, whatever its attribute order.
	subjectTag = regexp.MustCompile(`(?i)<meta[^>]*?name\s*=\s*['"]subject['"][^>]*?>`)

	blankLines = regexp.MustCompile(`\n[ \t]*(\n[ \t]*)+`)

	textPolicy = bluemonday.StrictPolicy()
)

// ExtractSubject returns the subject embedded in rendered HTML as a
// <meta name="subject" content="..."> element. The value is trimmed and
// HTML entities are decoded. A missing or blank marker reports false.
func ExtractSubject(body string) (string, bool) {
	m := subjectMarker.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	subject := strings.TrimSpace(html.UnescapeString(m[1]))
	return subject, subject != ""
}

// StripSubjectMarkers removes every subject meta element from rendered HTML.
func StripSubjectMarkers(body string) string {
	return subjectTag.ReplaceAllString(body, "")
}

// PlainText derives a plain text alternative from HTML by dropping all markup.
func PlainText(body string) string {
	s := html.UnescapeString(textPolicy.Sanitize(body))
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
