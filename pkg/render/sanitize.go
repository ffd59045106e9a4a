package render

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// PlainText strips every tag from user-supplied text before it reaches a
// page. Templates escape output as well; stripping keeps pasted markup from
// showing up as literal angle brackets in tables and headings.
func PlainText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	// bluemonday escapes what it keeps; templates escape again on output.
	return strings.TrimSpace(html.UnescapeString(textSanitizer().Sanitize(trimmed)))
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
