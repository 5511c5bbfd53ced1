package render

import (
	"strings"

	"github.com/a-h/templ"
)

// Text escapes s for element content. Section text is plain; the only
// structure kept is the editor's line breaks.
func Text(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = templ.EscapeString(line)
	}
	return strings.Join(lines, "<br/>")
}

// SafeURL returns raw escaped for an HTML attribute, or "" when templ's
// sanitizer rejects its scheme or it is protocol-relative.
func SafeURL(raw string) string {
	val := strings.TrimSpace(raw)
	if val == "" || strings.HasPrefix(val, "//") {
		return ""
	}
	u := templ.URL(val)
	if u == templ.FailedSanitizationURL {
		return ""
	}
	return templ.EscapeString(u)
}
